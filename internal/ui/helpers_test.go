package ui

import (
	"time"

	"github.com/al-bashkir/edge-groups/internal/edge"

	tea "github.com/charmbracelet/bubbletea"
)

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySpace = tea.KeyMsg{Type: tea.KeySpace}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
)

// drain runs cmd and flattens batches. Commands that do not return quickly
// (tickers, toast timers) are dropped.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, drain(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(250 * time.Millisecond):
		return nil
	}
}

func findMsg[T any](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func testRef() edge.ReferenceData {
	return edge.ReferenceData{
		Tags: []edge.Tag{{ID: 1, Name: "env:prod"}, {ID: 2, Name: "env:dev"}},
		Endpoints: []edge.Endpoint{
			{ID: 1, Name: "edge-01", TagIDs: []int{1}},
			{ID: 2, Name: "edge-02", TagIDs: []int{2}},
			{ID: 3, Name: "edge-03", TagIDs: []int{1, 2}},
		},
	}
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func placeCentered(fullW, fullH int, s string) string {
	s = strings.TrimRight(s, "\n")
	if fullW <= 0 || fullH <= 0 {
		return s
	}
	return lipgloss.Place(fullW, fullH, lipgloss.Center, lipgloss.Center, s)
}

// modalSpec sizes a centered modal: the terminal minus a margin, capped at
// a maximum. Terminals shorter than minH get the full height.
type modalSpec struct {
	maxW, maxH       int
	marginW, marginH int
	minH             int
}

var (
	formModal   = modalSpec{maxW: 96, maxH: 26, marginW: 4, marginH: 1, minH: 16}
	pickerModal = modalSpec{maxW: 90, maxH: 22, marginW: 6, marginH: 6, minH: 10}
)

func (s modalSpec) fit(fullW, fullH int) (w, h int) {
	w = fitAxis(fullW, s.maxW, s.marginW)
	h = fitAxis(fullH, s.maxH, s.marginH)
	if fullH > 0 && h < s.minH {
		h = fullH
	}
	return w, h
}

func fitAxis(full, limit, margin int) int {
	if full <= 0 {
		return limit
	}
	v := full - margin
	if v <= 0 {
		v = full
	}
	return min(v, limit, full)
}

// confirmDialog is a y/n prompt drawn over the current screen.
type confirmDialog struct {
	title string
	body  string
	verb  string
	maxW  int
}

var quitDialog = confirmDialog{title: "Quit?", body: "Exit edge-groups?", verb: "quit", maxW: 52}

func deleteDialog(name string, members int) confirmDialog {
	body := "This will remove the edge group"
	if name = strings.TrimSpace(name); name != "" {
		body = fmt.Sprintf("Delete %q (%d endpoints)?", name, members)
	}
	return confirmDialog{title: "Delete edge group?", body: body, verb: "delete", maxW: 60}
}

func (d confirmDialog) view(width, height int) string {
	w := d.maxW
	if width > 0 {
		w = min(d.maxW, max(24, width-4))
	}
	b := box{w: w + 6}
	footer := footerKeyStyle.Render("[y/↵]") + dim.Render(" "+d.verb) +
		"     " + footerKeyStyle.Render("[n/Esc]") + dim.Render(" cancel")
	s := strings.Join([]string{
		b.top(confirmTitleStyle.Render(d.title)),
		b.row(""),
		b.row("  " + d.body),
		b.row(""),
		b.row("  " + footer),
		b.row(""),
		b.bottom(),
	}, "\n")
	return placeCentered(width, height, s)
}

// confirmAnswer reads a key pressed over a confirmDialog. ok is false for
// keys that neither confirm nor cancel.
func confirmAnswer(msg tea.KeyMsg) (yes, ok bool) {
	switch msg.String() {
	case "y", "Y", "enter":
		return true, true
	case "n", "N", "esc":
		return false, true
	}
	return false, false
}

// keyHelp adapts plain binding lists to help.KeyMap.
type keyHelp struct {
	short []key.Binding
	full  [][]key.Binding
}

func (h keyHelp) ShortHelp() []key.Binding  { return h.short }
func (h keyHelp) FullHelp() [][]key.Binding { return h.full }

// helpOverlay is the scrollable key reference shown over a screen.
type helpOverlay struct {
	visible bool
	title   string
	keys    keyHelp
	vp      viewport.Model
}

func helpBoxWidth(termW int) int {
	w := min(88, termW-4)
	if w < 30 {
		w = min(termW, 30)
	}
	return w
}

func (o *helpOverlay) body(innerW int) string {
	h := help.New()
	h.ShowAll = true
	h.Width = innerW
	h.Styles.ShortKey = footerKeyStyle
	h.Styles.FullKey = footerKeyStyle
	return helpTitleStyle.Render(o.title+" keybindings") + "\n\n" +
		strings.TrimSpace(h.View(o.keys)) + "\n\n" +
		dim.Render("Esc or ? to close  j/k scroll")
}

func (o *helpOverlay) show(width, height int, title string, keys keyHelp) {
	o.visible = true
	o.title = strings.TrimSpace(title)
	if o.title == "" {
		o.title = "Help"
	}
	o.keys = keys

	innerW := helpBoxWidth(width) - 6
	if innerW < 20 {
		innerW = 0
	}
	content := o.body(innerW)
	// border and vertical padding take four rows
	vpH := min(strings.Count(content, "\n")+1, max(3, height-4))
	o.vp = viewport.New(innerW, vpH)
	o.vp.SetContent(content)
}

// update closes the overlay on toggle or esc and scrolls otherwise.
func (o *helpOverlay) update(msg tea.KeyMsg, toggle key.Binding) {
	if key.Matches(msg, toggle) || msg.String() == "esc" {
		o.visible = false
		return
	}
	switch msg.String() {
	case "j", "down":
		o.vp.LineDown(1)
	case "k", "up":
		o.vp.LineUp(1)
	case "pgdown", "ctrl+d":
		o.vp.HalfViewDown()
	case "pgup", "ctrl+u":
		o.vp.HalfViewUp()
	}
}

func (o *helpOverlay) view(width, height int) string {
	if width <= 0 || height <= 0 {
		return o.body(0)
	}
	content := o.vp.View()
	if o.vp.TotalLineCount() > o.vp.VisibleLineCount() {
		arrows := ""
		if o.vp.ScrollPercent() > 0 {
			arrows += "▲ "
		}
		if o.vp.ScrollPercent() < 1 {
			arrows += "▼ "
		}
		content += "\n" + dim.Render(fmt.Sprintf("%s%d%%", arrows, int(o.vp.ScrollPercent()*100)))
	}
	return placeCentered(width, height, helpBoxStyle.Width(helpBoxWidth(width)).Render(content))
}

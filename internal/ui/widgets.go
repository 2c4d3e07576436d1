package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

type focusState int

const (
	focusList focusState = iota
	focusSearch
)

// configureList strips the list's own chrome and letter shortcuts; screens
// draw their own header and footer and own every letter key.
func configureList(m *list.Model) {
	km := list.DefaultKeyMap()
	km.NextPage.SetKeys("right", "pgdown", "l")
	km.PrevPage.SetKeys("left", "pgup", "h")
	km.GoToStart.SetKeys("home")
	km.GoToStart.SetHelp("home", "go to start")
	km.GoToEnd.SetKeys("end")
	km.GoToEnd.SetHelp("end", "go to end")
	m.KeyMap = km

	m.SetShowTitle(false)
	m.SetShowPagination(false)
	m.SetShowHelp(false)
	m.SetShowStatusBar(false)
	m.SetFilteringEnabled(false)
	m.DisableQuitKeybindings()
}

// newSearchInput is the "/ " filter bar used above lists.
func newSearchInput() textinput.Model {
	in := textinput.New()
	in.Prompt = "/ "
	in.CharLimit = 256
	in.Width = 40
	styleSearchBar(&in, false)
	return in
}

// newFieldInput is a prompt-less form input.
func newFieldInput(value, placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = limit
	in.Placeholder = placeholder
	in.SetValue(value)
	styleInput(&in, false)
	return in
}

// styleInput colors an input with the accent when focused and dims it
// otherwise. It does not move the cursor focus.
func styleInput(m *textinput.Model, focused bool) {
	if !focused {
		m.PromptStyle = searchDimmed
		m.TextStyle = searchDimmed
		m.Cursor.Style = searchDimmed
		return
	}
	m.PromptStyle = lipgloss.NewStyle().Foreground(cAccent).Bold(true)
	m.TextStyle = lipgloss.NewStyle().Foreground(cInputText)
	m.Cursor.Style = lipgloss.NewStyle().Foreground(cAccent)
}

func styleSearchBar(m *textinput.Model, focused bool) {
	styleInput(m, focused)
	if focused {
		m.Placeholder = "search"
	} else {
		m.Placeholder = "type to search..."
	}
}

// inputField renders a text input padded with an underscore rule.
func inputField(in textinput.Model, focused bool, width int) string {
	return underlined(in.View(), true, focused, width)
}

// valueField renders a read-only value the same way; the value takes the
// rule's color.
func valueField(s string, focused bool, width int) string {
	return underlined(s, false, focused, width)
}

func underlined(s string, keepStyle, focused bool, width int) string {
	s = strings.TrimRight(s, "\n")
	if width <= 0 {
		return s
	}
	if lipgloss.Width(s) > width {
		s = lipgloss.NewStyle().MaxWidth(width).Render(s)
	}
	st := dim
	if focused {
		st = checkedStyle
	}
	if !keepStyle {
		s = st.Render(s)
	}
	pad := width - lipgloss.Width(s)
	if pad <= 0 {
		return s
	}
	return s + st.Render(strings.Repeat("_", pad))
}

// formLabel pads a field label to width and accents it when focused.
func formLabel(s string, width int, focused bool) string {
	s = padVisible(s, width)
	if focused {
		return headerStyle.Render(s)
	}
	return s
}

// optionSegment is one choice of an inline option switch. The active
// choice is bracketed; the others are dim.
func optionSegment(on bool, text string, focused bool) string {
	switch {
	case !on:
		return optionOffStyle.Render(text)
	case focused:
		return segFocusedStyle.Render("[" + text + "]")
	default:
		return checkedStyle.Render("[" + text + "]")
	}
}

// truncate shortens s to n cells with an ellipsis. With fade the last kept
// rune and the ellipsis are dimmed instead of cut hard.
func truncate(s string, n int, fade bool) string {
	if n <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if !fade {
		if n == 1 {
			return "…"
		}
		return string(r[:min(len(r), n-1)]) + "…"
	}
	if n <= 2 {
		return dim.Render("…") + strings.Repeat(" ", n-1)
	}
	cut := min(n-2, len(r))
	tail := ""
	if cut < len(r) {
		tail = string(r[cut])
	}
	return string(r[:cut]) + dim.Render(tail+"…")
}

func rowCursor(active bool) string {
	if active {
		return "▸ "
	}
	return "  "
}

// finishRow pads an active row to width so the highlight fills the line.
// Active rows carry no inner styles for the same reason.
func finishRow(line string, width int, active bool) string {
	if !active {
		return line
	}
	if width > 0 {
		line += strings.Repeat(" ", max(0, width-lipgloss.Width(line)))
	}
	return rowActiveStyle.Render(line)
}

// renderGroupRow draws a list row: name on the left, membership mode and
// member count badges on the right.
func renderGroupRow(width int, active bool, r groupRow) string {
	prefix := rowCursor(active)
	count := strconv.Itoa(r.members)
	mode := string(r.mode)

	// Badge width is measured on the styled form so the name column does not
	// shift as the cursor moves.
	badges := " " + badgeModeStyle.Render(mode) + " " + badgeCountStyle.Render(count)
	badgesW := lipgloss.Width(badges)
	if active {
		badges = "  " + mode + "   " + count + " "
	}

	if width <= 0 {
		return finishRow(prefix+r.name+badges, width, active)
	}
	avail := width - lipgloss.Width(prefix) - badgesW
	if avail < 0 {
		avail = max(0, width-lipgloss.Width(prefix))
		badges = ""
	}
	line := prefix + truncate(r.name, avail, !active)
	line += strings.Repeat(" ", max(0, width-lipgloss.Width(line)-lipgloss.Width(badges))) + badges
	return finishRow(line, width, active)
}

// renderPickRow draws a picker row: checkbox, label, and a dim detail
// column that is dropped before the label is cut.
func renderPickRow(width int, active bool, r pickerRow) string {
	mark := "◻"
	if r.selected {
		mark = "◼"
	}
	if !active {
		if r.selected {
			mark = checkedStyle.Render(mark)
		} else {
			mark = uncheckedStyle.Render(mark)
		}
	}
	prefix := rowCursor(active) + mark + " "
	label := r.item.label

	suffix := ""
	if d := strings.TrimSpace(r.item.detail); d != "" {
		suffix = "  " + d
	}
	if width > 0 {
		avail := width - lipgloss.Width(prefix) - lipgloss.Width(suffix)
		if avail < lipgloss.Width(label) && suffix != "" {
			room := width - lipgloss.Width(prefix) - lipgloss.Width(label) - 2
			suffix = ""
			if room > 3 {
				suffix = "  " + truncate(strings.TrimSpace(r.item.detail), room, false)
			}
			avail = width - lipgloss.Width(prefix) - lipgloss.Width(suffix)
		}
		label = truncate(label, max(0, avail), !active)
	}
	if !active && suffix != "" {
		suffix = dim.Render(suffix)
	}
	return finishRow(prefix+label+suffix, width, active)
}

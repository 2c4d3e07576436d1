package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/al-bashkir/edge-groups/internal/config"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type settingsCancelMsg struct{}

type settingsSaveMsg struct {
	defaults config.Defaults
}

type settingsField int

const (
	settingsFieldAccentColor settingsField = iota
	settingsFieldConfirmQuit
	settingsFieldActionTimeout
	settingsFieldInventoryPath
	settingsFieldLogFile
)

var accentChoices = []string{"", "blue", "cyan", "green", "amber", "red", "magenta"}

// settingsModel edits the [defaults] table of config.toml.
type settingsModel struct {
	defaults config.Defaults

	width  int
	height int

	focus   settingsField
	editing bool

	inTimeout   textinput.Model
	inInventory textinput.Model
	inLogFile   textinput.Model

	toast toast

	keymap keyMap

	confirmQuitEnabled bool
	confirmQuit        bool
}

func newSettingsModel(d config.Defaults, confirmQuitEnabled bool) *settingsModel {
	timeout := newFieldInput(strconv.Itoa(d.ActionTimeout), strconv.Itoa(config.DefaultActionTimeout), 6)
	inv := newFieldInput(strings.TrimSpace(d.InventoryPath), "next to config.toml", 512)
	logFile := newFieldInput(strings.TrimSpace(d.LogFile), "user cache dir", 512)

	m := &settingsModel{
		defaults:           d,
		focus:              settingsFieldAccentColor,
		inTimeout:          timeout,
		inInventory:        inv,
		inLogFile:          logFile,
		keymap:             defaultKeyMap(),
		confirmQuitEnabled: confirmQuitEnabled,
	}
	m.setFocus(settingsFieldAccentColor)
	return m
}

func (m *settingsModel) Init() tea.Cmd { return nil }

func (m *settingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		fieldW := m.fieldWidth()
		m.inTimeout.Width = min(12, fieldW)
		m.inInventory.Width = fieldW
		m.inLogFile.Width = fieldW
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirmQuit {
			if yes, ok := confirmAnswer(msg); ok {
				if yes {
					return m, tea.Quit
				}
				m.confirmQuit = false
				m.toast = toast{}
			}
			return m, nil
		}

		if key.Matches(msg, m.keymap.Save) {
			if m.editing {
				m.exitEdit()
			}
			m.toast = toast{}
			if err := m.apply(); err != nil {
				m.toast = errToast(err)
				return m, nil
			}
			d := m.defaults
			return m, func() tea.Msg { return settingsSaveMsg{defaults: d} }
		}

		if m.editing {
			switch msg.String() {
			case "esc":
				m.exitEdit()
				return m, nil
			case "enter":
				m.exitEdit()
				m.moveFocus(1)
				return m, nil
			}
			return m, m.updateFocusedInput(msg)
		}

		if key.Matches(msg, m.keymap.Quit) {
			if !m.confirmQuitEnabled {
				return m, tea.Quit
			}
			m.confirmQuit = true
			m.toast = toast{text: "quit? (y/n)", level: toastWarn}
			return m, nil
		}
		if key.Matches(msg, m.keymap.Esc) {
			return m, func() tea.Msg { return settingsCancelMsg{} }
		}

		km := m.keymap
		switch {
		case key.Matches(msg, km.NextField):
			m.moveFocus(1)
		case key.Matches(msg, km.PrevField):
			m.moveFocus(-1)
		case key.Matches(msg, km.Edit, km.Confirm):
			if m.isTextField() {
				m.enterEdit()
			} else if key.Matches(msg, km.Confirm) {
				m.moveFocus(1)
			}
		case key.Matches(msg, km.OptionPrev, km.OptionNext, km.ToggleSel):
			delta := 1
			if key.Matches(msg, km.OptionPrev) {
				delta = -1
			}
			switch m.focus {
			case settingsFieldAccentColor:
				m.defaults.AccentColor = cycleChoice(m.defaults.AccentColor, accentChoices, delta)
			case settingsFieldConfirmQuit:
				m.defaults.ConfirmQuit = !m.defaults.ConfirmQuit
			}
		}
		return m, nil
	}
	return m, nil
}

func cycleChoice(cur string, vals []string, delta int) string {
	cur = strings.TrimSpace(cur)
	idx := 0
	for i := range vals {
		if vals[i] == cur {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 {
		idx = len(vals) - 1
	}
	if idx >= len(vals) {
		idx = 0
	}
	return vals[idx]
}

var settingsOrder = []settingsField{
	settingsFieldAccentColor,
	settingsFieldConfirmQuit,
	settingsFieldActionTimeout,
	settingsFieldInventoryPath,
	settingsFieldLogFile,
}

func (m *settingsModel) moveFocus(delta int) {
	pos := 0
	for i := range settingsOrder {
		if settingsOrder[i] == m.focus {
			pos = i
			break
		}
	}
	pos = (pos + delta + len(settingsOrder)) % len(settingsOrder)
	m.setFocus(settingsOrder[pos])
}

func (m *settingsModel) setFocus(f settingsField) {
	m.focus = f
	m.exitEdit()
	styleInput(&m.inTimeout, f == settingsFieldActionTimeout)
	styleInput(&m.inInventory, f == settingsFieldInventoryPath)
	styleInput(&m.inLogFile, f == settingsFieldLogFile)
}

func (m *settingsModel) isTextField() bool {
	switch m.focus {
	case settingsFieldActionTimeout, settingsFieldInventoryPath, settingsFieldLogFile:
		return true
	}
	return false
}

func (m *settingsModel) focusedInput() *textinput.Model {
	switch m.focus {
	case settingsFieldActionTimeout:
		return &m.inTimeout
	case settingsFieldInventoryPath:
		return &m.inInventory
	case settingsFieldLogFile:
		return &m.inLogFile
	}
	return nil
}

func (m *settingsModel) enterEdit() {
	if in := m.focusedInput(); in != nil {
		m.editing = true
		_ = in.Focus()
	}
}

func (m *settingsModel) exitEdit() {
	m.editing = false
	m.inTimeout.Blur()
	m.inInventory.Blur()
	m.inLogFile.Blur()
}

func (m *settingsModel) updateFocusedInput(msg tea.Msg) tea.Cmd {
	in := m.focusedInput()
	if in == nil {
		return nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return cmd
}

func (m *settingsModel) apply() error {
	m.defaults.AccentColor = strings.ToLower(strings.TrimSpace(m.defaults.AccentColor))
	if m.defaults.AccentColor == "default" {
		m.defaults.AccentColor = ""
	}
	m.defaults.InventoryPath = strings.TrimSpace(m.inInventory.Value())
	m.defaults.LogFile = strings.TrimSpace(m.inLogFile.Value())

	raw := strings.TrimSpace(m.inTimeout.Value())
	if raw == "" {
		m.defaults.ActionTimeout = config.DefaultActionTimeout
		return nil
	}
	t, err := strconv.Atoi(raw)
	if err != nil || t <= 0 {
		return fmt.Errorf("action timeout must be a positive number of seconds")
	}
	m.defaults.ActionTimeout = t
	return nil
}

const settingsLabelW = 16

func (m *settingsModel) fieldWidth() int {
	innerW := max(0, m.width-2)
	return max(10, innerW-settingsLabelW-1)
}

func (m *settingsModel) View() string {
	if m.confirmQuit {
		return quitDialog.view(m.width, m.height)
	}
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	innerW := max(0, m.width-2)
	fieldW := m.fieldWidth()

	lines := []string{}
	focusLine := 0

	lines = append(lines, sectionRule("UI", innerW))
	accentFocused := m.focus == settingsFieldAccentColor
	if accentFocused {
		focusLine = len(lines)
	}
	cur := strings.TrimSpace(m.defaults.AccentColor)
	parts := make([]string, 0, len(accentChoices))
	for _, c := range accentChoices {
		text := c
		if text == "" {
			text = "default"
		}
		parts = append(parts, optionSegment(cur == c, text, accentFocused))
	}
	lines = append(lines, formLabel("Accent:", settingsLabelW, accentFocused)+" "+strings.Join(parts[:4], "  "))
	lines = append(lines, strings.Repeat(" ", settingsLabelW+1)+strings.Join(parts[4:], "  "))
	if _, known := accentPresets[cur]; cur != "" && !known {
		lines = append(lines, strings.Repeat(" ", settingsLabelW+1)+dim.Render("custom: "+cur))
	}

	quitFocused := m.focus == settingsFieldConfirmQuit
	if quitFocused {
		focusLine = len(lines)
	}
	lines = append(lines, formLabel("Confirm quit:", settingsLabelW, quitFocused)+" "+optionSegment(m.defaults.ConfirmQuit, "yes", quitFocused)+"  "+optionSegment(!m.defaults.ConfirmQuit, "no", quitFocused))

	lines = append(lines, sectionRule("Storage", innerW))
	for _, f := range []struct {
		field settingsField
		name  string
		in    textinput.Model
		w     int
	}{
		{settingsFieldActionTimeout, "Timeout (s):", m.inTimeout, min(12, fieldW)},
		{settingsFieldInventoryPath, "Inventory:", m.inInventory, fieldW},
		{settingsFieldLogFile, "Log file:", m.inLogFile, fieldW},
	} {
		focused := m.focus == f.field
		if focused {
			focusLine = len(lines)
		}
		lines = append(lines, formLabel(f.name, settingsLabelW, focused)+" "+inputField(f.in, focused, f.w))
	}

	footer := footerHints("ctrl+s save  j/k move  h/l option  i edit  esc back")
	if m.editing {
		footer = headerStyle.Render("INSERT") + "  " + footerHints("ctrl+s save  esc done")
	}

	return formPage{
		title:  "Settings",
		lines:  lines,
		focus:  focusLine,
		status: m.toast.view(),
		footer: footer,
	}.render(m.width, m.height)
}

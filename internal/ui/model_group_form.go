package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/al-bashkir/edge-groups/internal/edge"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type groupFormCancelMsg struct{}

// groupFormRetryMsg asks the container to reload reference data after a
// failed load.
type groupFormRetryMsg struct{}

// groupFormActionDoneMsg carries the action result back onto the update loop.
type groupFormActionDoneMsg struct {
	seq   int
	group edge.Group
	err   error
}

// groupFormResultMsg is forwarded to the container once the form is
// interactive again.
type groupFormResultMsg struct {
	page  PageType
	group edge.Group
	err   error
}

type groupField int

const (
	groupFieldName groupField = iota
	groupFieldMode
	groupFieldMatch
	groupFieldTags
	groupFieldEndpoints
	groupFieldSubmit
)

type groupFormModel struct {
	bind  FormBindings
	group edge.Group
	ref   edge.ReferenceData

	state formState
	seq   int

	width  int
	height int

	focus   groupField
	editing bool // true when editing a text field (insert mode)

	inName  textinput.Model
	picker  *pickerModel
	spinner spinner.Model

	parentCrumb string
	toast       toast
	loadErr     error

	keymap keyMap

	confirmQuitEnabled bool
	confirmQuit        bool
}

func newGroupFormModel(b FormBindings, confirmQuitEnabled bool) *groupFormModel {
	name := newFieldInput(b.Model.Name, "prod-edges", edge.MaxNameLength)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = statusWarn

	m := &groupFormModel{
		bind:               b,
		group:              b.Model.Clone(),
		state:              formLoading,
		focus:              groupFieldName,
		inName:             name,
		spinner:            sp,
		keymap:             defaultKeyMap(),
		confirmQuitEnabled: confirmQuitEnabled,
	}
	if m.bind.PageType == "" {
		m.bind.PageType = PageCreate
	}

	// Start in normal mode (no text input focused).
	styleInput(&m.inName, true)
	return m
}

// SetReferenceData supplies the tags and endpoints to select from and ends
// the loading state.
func (m *groupFormModel) SetReferenceData(ref edge.ReferenceData) {
	m.ref = ref
	if m.state == formLoading {
		m.state = formReady
	}
}

// SetLoadError records a failed reference data load. The form stays in the
// loading state until a retry succeeds.
func (m *groupFormModel) SetLoadError(err error) {
	if m.state == formLoading {
		m.loadErr = err
	}
}

// Retry clears a load error and restarts the spinner.
func (m *groupFormModel) Retry() tea.Cmd {
	if m.state != formLoading || m.loadErr == nil {
		return nil
	}
	m.loadErr = nil
	return m.spinner.Tick
}

func (m *groupFormModel) Loaded() bool     { return m.state != formLoading }
func (m *groupFormModel) Submitting() bool { return m.state == formSubmitting }

// Group returns a copy of the form's current value.
func (m *groupFormModel) Group() edge.Group { return m.group.Clone() }

func (m *groupFormModel) errors() edge.ValidationErrors { return edge.Validate(m.group) }

func (m *groupFormModel) canSubmit() bool {
	return m.state == formReady && m.bind.Action != nil && len(m.errors()) == 0
}

func (m *groupFormModel) Init() tea.Cmd {
	if m.state == formLoading {
		return m.spinner.Tick
	}
	return nil
}

func (m *groupFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.state == formReady || m.loadErr != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case groupFormActionDoneMsg:
		if msg.seq != m.seq || m.state != formSubmitting {
			return m, nil
		}
		m.state = formReady
		res := groupFormResultMsg{page: m.bind.PageType, group: msg.group, err: msg.err}
		return m, func() tea.Msg { return res }
	case pickerCancelMsg:
		m.picker = nil
		return m, nil
	case pickerDoneMsg:
		m.picker = nil
		if m.state != formReady {
			return m, nil
		}
		switch msg.kind {
		case pickTags:
			m.group.TagIDs = msg.ids
		case pickEndpoints:
			m.group.Endpoints = msg.ids
		}
		m.notify()
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.inName.Width = m.fieldWidth()
		if m.picker != nil {
			mw, mh := pickerModal.fit(msg.Width, msg.Height)
			_, _ = m.picker.Update(tea.WindowSizeMsg{Width: mw, Height: mh})
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.picker != nil {
			model, cmd := m.picker.Update(msg)
			if pm, ok := model.(*pickerModel); ok {
				m.picker = pm
			}
			return m, cmd
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

		switch m.state {
		case formSubmitting:
			return m, nil
		case formLoading:
			return m, m.handleLoadingKey(msg)
		}

		if key.Matches(msg, m.keymap.Save) {
			if m.editing {
				m.exitEdit()
			}
			return m, m.submit()
		}

		// Insert mode: route keys to the text input.
		if m.editing {
			switch msg.String() {
			case "esc":
				m.exitEdit()
				return m, nil
			case "enter":
				m.exitEdit()
				m.moveFocus(1)
				return m, nil
			default:
				return m, m.updateName(msg)
			}
		}

		return m, m.handleNormalKey(msg)
	}

	return m, nil
}

func (m *groupFormModel) handleLoadingKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keymap.Esc) {
		return func() tea.Msg { return groupFormCancelMsg{} }
	}
	if key.Matches(msg, m.keymap.Quit) {
		return m.quit()
	}
	if m.loadErr != nil && key.Matches(msg, m.keymap.Reload) {
		return func() tea.Msg { return groupFormRetryMsg{} }
	}
	return nil
}

func (m *groupFormModel) handleNormalKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keymap.Quit) {
		return m.quit()
	}
	if key.Matches(msg, m.keymap.Esc) {
		return func() tea.Msg { return groupFormCancelMsg{} }
	}

	km := m.keymap
	switch {
	case key.Matches(msg, km.NextField):
		m.moveFocus(1)
		return nil
	case key.Matches(msg, km.PrevField):
		m.moveFocus(-1)
		return nil
	case key.Matches(msg, km.Edit):
		if m.focus == groupFieldName {
			m.enterEdit()
		}
		return nil
	}

	confirm := key.Matches(msg, km.Confirm)
	toggle := key.Matches(msg, km.OptionPrev, km.OptionNext, km.ToggleSel)
	open := confirm || key.Matches(msg, km.ToggleSel, km.OptionNext)

	switch m.focus {
	case groupFieldName:
		if confirm {
			m.enterEdit()
		}
	case groupFieldMode:
		if toggle {
			m.group.Dynamic = !m.group.Dynamic
			m.notify()
		} else if confirm {
			m.moveFocus(1)
		}
	case groupFieldMatch:
		if toggle {
			m.group.PartialMatch = !m.group.PartialMatch
			m.notify()
		} else if confirm {
			m.moveFocus(1)
		}
	case groupFieldTags:
		if open {
			m.openPicker(pickTags)
		}
	case groupFieldEndpoints:
		if open {
			m.openPicker(pickEndpoints)
		}
	case groupFieldSubmit:
		if confirm || key.Matches(msg, km.ToggleSel) {
			return m.submit()
		}
	}
	return nil
}

func (m *groupFormModel) quit() tea.Cmd {
	if !m.confirmQuitEnabled {
		return tea.Quit
	}
	m.confirmQuit = true
	m.toast = toast{text: "quit? (y/n)", level: toastWarn}
	return nil
}

// submit starts the action at most once per Ready period.
func (m *groupFormModel) submit() tea.Cmd {
	if m.state != formReady {
		return nil
	}
	if errs := m.errors(); len(errs) > 0 {
		m.toast = toast{text: "fix the highlighted fields", level: toastWarn}
		return nil
	}
	if m.bind.Action == nil {
		return nil
	}

	m.state = formSubmitting
	m.toast = toast{}
	m.seq++
	seq := m.seq
	g := m.group.Normalized()
	action := m.bind.Action
	timeout := m.bind.Timeout

	run := func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		saved, err := action(ctx, g)
		return groupFormActionDoneMsg{seq: seq, group: saved, err: err}
	}
	return tea.Batch(run, m.spinner.Tick)
}

func (m *groupFormModel) notify() {
	if m.bind.OnChange != nil {
		m.bind.OnChange(m.group.Clone())
	}
}

func (m *groupFormModel) updateName(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	prev := m.inName.Value()
	m.inName, cmd = m.inName.Update(msg)
	if v := m.inName.Value(); v != prev {
		m.group.Name = v
		m.notify()
	}
	return cmd
}

func (m *groupFormModel) openPicker(kind pickerKind) {
	var items []pickerItem
	var selected []int
	title := "Select tags"
	switch kind {
	case pickTags:
		for _, t := range m.ref.Tags {
			n := 0
			for _, e := range m.ref.Endpoints {
				if containsID(e.TagIDs, t.ID) {
					n++
				}
			}
			items = append(items, pickerItem{id: t.ID, label: t.Name, detail: fmt.Sprintf("%d endpoints", n)})
		}
		selected = m.group.TagIDs
	case pickEndpoints:
		title = "Select endpoints"
		for _, e := range m.ref.Endpoints {
			items = append(items, pickerItem{id: e.ID, label: e.Name, detail: strings.Join(m.ref.TagNames(e.TagIDs), ", ")})
		}
		selected = m.group.Endpoints
	}

	m.picker = newPickerModel(kind, title, items, selected)
	m.picker.parentCrumb = m.title()
	mw, mh := pickerModal.fit(m.width, m.height)
	if mw > 0 && mh > 0 {
		_, _ = m.picker.Update(tea.WindowSizeMsg{Width: mw, Height: mh})
	}
}

func (m *groupFormModel) fields() []groupField {
	out := []groupField{groupFieldName, groupFieldMode}
	if m.group.Dynamic {
		out = append(out, groupFieldMatch, groupFieldTags)
	} else {
		out = append(out, groupFieldEndpoints)
	}
	return append(out, groupFieldSubmit)
}

func (m *groupFormModel) moveFocus(delta int) {
	order := m.fields()
	pos := 0
	for i := range order {
		if order[i] == m.focus {
			pos = i
			break
		}
	}
	pos += delta
	if pos < 0 {
		pos = len(order) - 1
	}
	if pos >= len(order) {
		pos = 0
	}
	m.setFocus(order[pos])
}

func (m *groupFormModel) setFocus(f groupField) {
	m.focus = f
	m.editing = false
	m.inName.Blur()
	styleInput(&m.inName, f == groupFieldName)
}

func (m *groupFormModel) enterEdit() {
	m.editing = true
	_ = m.inName.Focus()
}

func (m *groupFormModel) exitEdit() {
	m.editing = false
	m.inName.Blur()
}

const groupFormLabelW = 12

func (m *groupFormModel) fieldWidth() int {
	innerW := max(0, m.width-2)
	return max(10, innerW-groupFormLabelW-1)
}

func (m *groupFormModel) title() string {
	if m.bind.PageType == PageEdit {
		name := strings.TrimSpace(m.group.Name)
		if name == "" {
			return "Edit edge group"
		}
		return "Edge groups > " + name
	}
	return "Create edge group"
}

func (m *groupFormModel) View() string {
	if m.confirmQuit {
		return quitDialog.view(m.width, m.height)
	}
	if m.picker != nil {
		return placeCentered(m.width, m.height, m.picker.View())
	}
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	innerW := max(0, m.width-2)
	if m.state == formLoading {
		return m.loadingView(innerW)
	}

	fieldW := m.fieldWidth()
	errs := m.errors()

	label := func(s string, focused bool) string {
		return formLabel(s, groupFormLabelW, focused)
	}
	indent := strings.Repeat(" ", groupFormLabelW+1)
	errLine := func(f edge.Field) (string, bool) {
		msg := errs.For(f)
		if msg == "" {
			return "", false
		}
		return indent + statusErr.Render("✗ "+msg), true
	}
	lines := []string{}
	focusLine := 0

	if m.bind.PageType == PageEdit && !m.group.IsNew() {
		lines = append(lines, label("ID:", false)+" "+dim.Render(strconv.Itoa(m.group.ID)))
	}

	nameFocused := m.focus == groupFieldName
	if nameFocused {
		focusLine = len(lines)
	}
	lines = append(lines, label("Name:", nameFocused)+" "+inputField(m.inName, nameFocused, fieldW))
	if ln, ok := errLine(edge.FieldName); ok {
		lines = append(lines, ln)
	}

	lines = append(lines, sectionRule("Membership", innerW))
	modeFocused := m.focus == groupFieldMode
	if modeFocused {
		focusLine = len(lines)
	}
	lines = append(lines, label("Mode:", modeFocused)+" "+optionSegment(!m.group.Dynamic, "static", modeFocused)+"  "+optionSegment(m.group.Dynamic, "dynamic", modeFocused))

	if m.group.Dynamic {
		matchFocused := m.focus == groupFieldMatch
		if matchFocused {
			focusLine = len(lines)
		}
		lines = append(lines, label("Match:", matchFocused)+" "+optionSegment(!m.group.PartialMatch, "all tags", matchFocused)+"  "+optionSegment(m.group.PartialMatch, "any tag", matchFocused))

		tagsFocused := m.focus == groupFieldTags
		if tagsFocused {
			focusLine = len(lines)
		}
		tags := strings.Join(m.ref.TagNames(m.group.TagIDs), ", ")
		if tags == "" {
			tags = "none"
		}
		lines = append(lines, label("Tags:", tagsFocused)+" "+valueField(tags, tagsFocused, fieldW))
		if ln, ok := errLine(edge.FieldTags); ok {
			lines = append(lines, ln)
		} else {
			n := len(edge.MatchEndpoints(m.group, m.ref.Endpoints))
			lines = append(lines, indent+dim.Render(fmt.Sprintf("→ %d of %d endpoints match", n, len(m.ref.Endpoints))))
		}
	} else {
		epFocused := m.focus == groupFieldEndpoints
		if epFocused {
			focusLine = len(lines)
		}
		eps := strings.Join(m.ref.EndpointNames(m.group.Endpoints), ", ")
		if eps == "" {
			eps = "none"
		}
		lines = append(lines, label("Endpoints:", epFocused)+" "+valueField(eps, epFocused, fieldW))
		if ln, ok := errLine(edge.FieldEndpoints); ok {
			lines = append(lines, ln)
		}
	}

	lines = append(lines, "")
	submitFocused := m.focus == groupFieldSubmit
	if submitFocused {
		focusLine = len(lines)
	}
	lines = append(lines, indent+m.submitControl(submitFocused))

	footer := footerHints("ctrl+s submit  j/k move  h/l option  i edit  esc cancel")
	if m.editing {
		footer = headerStyle.Render("INSERT") + "  " + footerHints("enter done  esc done")
	}

	return formPage{
		title:  m.title(),
		lines:  lines,
		focus:  focusLine,
		status: m.toast.view(),
		footer: footer,
	}.render(m.width, m.height)
}

func (m *groupFormModel) submitControl(focused bool) string {
	text := "[ " + m.bind.ActionLabel + " ]"
	switch {
	case m.state == formSubmitting:
		return m.spinner.View() + " " + buttonDisabledStyle.Render(text) + " " + dim.Render("in progress…")
	case !m.canSubmit():
		return buttonDisabledStyle.Render(text)
	case focused:
		return buttonFocusedStyle.Render(text)
	default:
		return buttonStyle.Render(text)
	}
}

func (m *groupFormModel) loadingView(innerW int) string {
	innerH := max(0, m.height-2)
	line := m.spinner.View() + " " + dim.Render("loading tags and endpoints…")
	footer := footerHints("esc cancel")
	if m.loadErr != nil {
		line = statusErr.Render("✗ load failed: " + m.loadErr.Error())
		footer = footerHints("r retry  esc cancel")
	}
	body := placeCentered(innerW, max(1, innerH-2), line)
	if !m.toast.empty() {
		footer = m.toast.view()
	}
	return formPage{
		title:  m.title(),
		lines:  strings.Split(body, "\n"),
		footer: footer,
	}.render(m.width, m.height)
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/al-bashkir/edge-groups/internal/edge"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sahilm/fuzzy"
)

type groupsDelegate struct{}

func (d groupsDelegate) Height() int                             { return 1 }
func (d groupsDelegate) Spacing() int                            { return 0 }
func (d groupsDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d groupsDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(groupRow)
	if !ok {
		fmt.Fprint(w, item.FilterValue())
		return
	}
	fmt.Fprint(w, renderGroupRow(m.Width(), index == m.Index(), row))
}

type groupRow struct {
	id      int
	name    string
	mode    edge.Mode
	members int
}

func (i groupRow) Title() string       { return i.name }
func (i groupRow) Description() string { return "" }
func (i groupRow) FilterValue() string { return i.name }

type groupsModel struct {
	confirmQuitEnabled bool

	width  int
	height int

	groups []edge.Group
	ref    edge.ReferenceData

	allRows []groupRow
	rows    []groupRow

	list   list.Model
	search textinput.Model
	focus  focusState

	keymap keyMap
	help   helpOverlay
	toast  toast

	confirmQuit   bool
	confirmDelete bool
	deleteID      int

	prevSearch string
}

func newGroupsModel(confirmQuitEnabled bool) *groupsModel {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetDelegate(groupsDelegate{})
	l.Title = "Edge groups"
	configureList(&l)

	return &groupsModel{
		confirmQuitEnabled: confirmQuitEnabled,
		list:               l,
		search:             newSearchInput(),
		focus:              focusList,
		keymap:             defaultKeyMap(),
	}
}

func groupsRows(groups []edge.Group, ref edge.ReferenceData) []groupRow {
	rows := make([]groupRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, groupRow{
			id:      g.ID,
			name:    g.Name,
			mode:    g.Mode(),
			members: len(edge.MatchEndpoints(g, ref.Endpoints)),
		})
	}
	return rows
}

func (m *groupsModel) setRows(rows []groupRow) {
	m.rows = rows
	items := make([]list.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, r)
	}
	m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(0)
	}
}

// Refresh replaces the listed groups, keeping the search query.
func (m *groupsModel) Refresh(groups []edge.Group, ref edge.ReferenceData) {
	m.groups = groups
	m.ref = ref
	m.allRows = groupsRows(groups, ref)
	m.applyFilter(m.search.Value())
}

func (m *groupsModel) groupByID(id int) (edge.Group, bool) {
	for _, g := range m.groups {
		if g.ID == id {
			return g, true
		}
	}
	return edge.Group{}, false
}

func (m *groupsModel) selected() (groupRow, bool) {
	row, ok := m.list.SelectedItem().(groupRow)
	return row, ok
}

func (m *groupsModel) Init() tea.Cmd { return nil }

func (m *groupsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		innerW := max(0, msg.Width-2)
		innerH := max(0, msg.Height-2)
		// breadcrumb + sep + header + sep + footer sep + footer
		m.list.SetSize(innerW, max(1, innerH-6))
		m.search.Width = max(10, innerW-18-len(m.search.Prompt))
		return m, nil
	case tea.KeyMsg:
		if m.help.visible {
			m.help.update(msg, m.keymap.Help)
			return m, nil
		}

		if m.confirmQuit || m.confirmDelete {
			return m, m.answerDialog(msg)
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.focus == focusSearch {
			return m, m.handleSearchKey(msg)
		}
		if cmd, handled := m.handleListKey(msg); handled {
			return m, cmd
		}
	case toastMsg:
		m.toast = toast(msg)
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusSearch {
		m.search, cmd = m.search.Update(msg)
		m.syncSearch()
		return m, cmd
	}
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *groupsModel) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.Esc):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.syncSearch()
		}
		m.blurSearch()
		return nil
	case key.Matches(msg, m.keymap.ToggleFocus), key.Matches(msg, m.keymap.Confirm):
		if len(m.list.Items()) == 0 && m.search.Value() != "" {
			m.search.SetValue("")
			m.syncSearch()
		}
		m.blurSearch()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.syncSearch()
	return cmd
}

func (m *groupsModel) handleListKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if !m.confirmQuitEnabled {
			return tea.Quit, true
		}
		m.confirmQuit = true
		m.toast = toast{text: "quit? (y/n)", level: toastWarn}
		return nil, true
	case key.Matches(msg, m.keymap.Help):
		m.help.show(m.width, m.height, "Edge groups", m.helpKeys())
		return nil, true
	case key.Matches(msg, m.keymap.FocusSearch), key.Matches(msg, m.keymap.ToggleFocus):
		m.focus = focusSearch
		m.search.Focus()
		styleSearchBar(&m.search, true)
		return nil, true
	case key.Matches(msg, m.keymap.Esc):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.syncSearch()
		}
		return nil, true
	case key.Matches(msg, m.keymap.Reload):
		return func() tea.Msg { return reloadGroupsMsg{} }, true
	case key.Matches(msg, m.keymap.NewGroup):
		return func() tea.Msg { return openGroupFormMsg{} }, true
	case key.Matches(msg, m.keymap.Settings):
		return func() tea.Msg { return openSettingsMsg{} }, true
	case key.Matches(msg, m.keymap.EditGroup), key.Matches(msg, m.keymap.Confirm):
		row, ok := m.selected()
		if !ok {
			return nil, true
		}
		return func() tea.Msg { return openGroupFormMsg{id: row.id} }, true
	case key.Matches(msg, m.keymap.Copy):
		row, ok := m.selected()
		g, found := m.groupByID(row.id)
		if !ok || !found {
			m.toast = toast{text: "no group selected", level: toastWarn}
			return nil, true
		}
		prefill := copyGroup(m.groups, g)
		return func() tea.Msg { return openGroupFormPrefillMsg{group: prefill} }, true
	case key.Matches(msg, m.keymap.DeleteGroup):
		row, ok := m.selected()
		if !ok {
			return nil, true
		}
		m.confirmDelete = true
		m.deleteID = row.id
		m.toast = toast{text: "delete? (y/n)", level: toastWarn}
		return nil, true
	}
	return nil, false
}

// answerDialog resolves the open quit or delete prompt. Other keys are
// swallowed while a prompt is up.
func (m *groupsModel) answerDialog(msg tea.KeyMsg) tea.Cmd {
	yes, ok := confirmAnswer(msg)
	if !ok {
		return nil
	}
	quit, id := m.confirmQuit, m.deleteID
	m.confirmQuit, m.confirmDelete = false, false
	m.toast = toast{}
	switch {
	case !yes:
		return nil
	case quit:
		return tea.Quit
	}
	return func() tea.Msg { return deleteGroupMsg{id: id} }
}

func (m *groupsModel) blurSearch() {
	m.focus = focusList
	m.search.Blur()
	styleSearchBar(&m.search, false)
}

func (m *groupsModel) syncSearch() {
	cur := m.search.Value()
	if cur != m.prevSearch {
		m.applyFilter(cur)
		m.prevSearch = cur
	}
}

func (m *groupsModel) View() string {
	if m.help.visible {
		return m.help.view(m.width, m.height)
	}
	if m.confirmQuit {
		return quitDialog.view(m.width, m.height)
	}
	if m.confirmDelete {
		name := ""
		members := 0
		for _, r := range m.allRows {
			if r.id == m.deleteID {
				name = r.name
				members = r.members
			}
		}
		return deleteDialog(name, members).view(m.width, m.height)
	}

	right := ""
	if !m.toast.empty() {
		right = m.toast.view()
	} else {
		right = dim.Render(fmt.Sprintf("%d groups  %d endpoints", len(m.allRows), len(m.ref.Endpoints)))
	}

	var footer string
	if m.width < 60 {
		footer = footerHints("↵ edit  n new  ? help")
	} else {
		footer = footerHints("↵ edit  n new  y copy  d delete  ·  r reload  S settings  ctrl+f search  ? help  q quit")
	}

	listContent := m.list.View()
	if len(m.list.Items()) == 0 {
		listContent = m.emptyStateView()
	}
	return renderListScreen(m.width, m.height, headerStyle.Render("Edge groups"), m.search.View(), right, listContent, footer)
}

func (m *groupsModel) helpKeys() keyHelp {
	return keyHelp{
		short: []key.Binding{
			m.list.KeyMap.CursorUp,
			m.list.KeyMap.CursorDown,
			m.keymap.FocusSearch,
			m.keymap.NewGroup,
			m.keymap.EditGroup,
			m.keymap.Copy,
			m.keymap.DeleteGroup,
			m.keymap.Settings,
			m.keymap.Reload,
			m.keymap.Help,
			m.keymap.Quit,
		},
		full: [][]key.Binding{{
			m.list.KeyMap.CursorUp,
			m.list.KeyMap.CursorDown,
			m.list.KeyMap.PrevPage,
			m.list.KeyMap.NextPage,
		}, {
			m.keymap.FocusSearch,
			m.keymap.ToggleFocus,
			m.keymap.Esc,
		}, {
			m.keymap.NewGroup,
			m.keymap.EditGroup,
			m.keymap.Copy,
			m.keymap.DeleteGroup,
		}, {
			m.keymap.Settings,
			m.keymap.Reload,
			m.keymap.Help,
			m.keymap.Quit,
		}},
	}
}

func (m *groupsModel) emptyStateView() string {
	innerW := max(0, m.width-2)
	innerH := max(0, m.height-2)
	contentH := max(0, innerH-6)

	q := strings.TrimSpace(m.search.Value())
	dots := dim.Render("·  ·  ·")
	var msg string
	if q != "" {
		msg = dots + "\n\n" + dim.Render(fmt.Sprintf("No matches for %q", q)) + "\n" + dim.Render("Esc to clear search")
	} else {
		msg = dots + "\n\n" + dim.Render("No edge groups yet.") + "\n" + dim.Render("n: create a new group")
	}

	return lipgloss.Place(innerW, contentH, lipgloss.Center, lipgloss.Center, msg)
}

func (m *groupsModel) applyFilter(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		m.setRows(append([]groupRow(nil), m.allRows...))
		return
	}

	names := make([]string, 0, len(m.allRows))
	for _, r := range m.allRows {
		names = append(names, r.name)
	}
	matches := fuzzy.Find(query, names)
	rows := make([]groupRow, 0, len(matches))
	for _, mt := range matches {
		rows = append(rows, m.allRows[mt.Index])
	}
	m.setRows(rows)
}

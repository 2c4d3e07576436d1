package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sahilm/fuzzy"
)

type pickerKind int

const (
	pickTags pickerKind = iota
	pickEndpoints
)

func (k pickerKind) String() string {
	if k == pickEndpoints {
		return "endpoints"
	}
	return "tags"
}

type pickerCancelMsg struct {
	kind pickerKind
}

// pickerDoneMsg carries the complete selection, sorted by id. An empty
// selection is a valid answer.
type pickerDoneMsg struct {
	kind pickerKind
	ids  []int
}

type pickerItem struct {
	id     int
	label  string
	detail string
}

type pickerRow struct {
	item     pickerItem
	selected bool
}

func (i pickerRow) Title() string       { return i.item.label }
func (i pickerRow) Description() string { return i.item.detail }
func (i pickerRow) FilterValue() string { return i.item.label }

type pickerDelegate struct{}

func (d pickerDelegate) Height() int                             { return 1 }
func (d pickerDelegate) Spacing() int                            { return 0 }
func (d pickerDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d pickerDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(pickerRow)
	if !ok {
		fmt.Fprint(w, item.FilterValue())
		return
	}
	fmt.Fprint(w, renderPickRow(m.Width(), index == m.Index(), row))
}

// pickerLabels adapts the item labels for fuzzy.FindFrom.
type pickerLabels []pickerItem

func (p pickerLabels) String(i int) string { return p[i].label }
func (p pickerLabels) Len() int            { return len(p) }

type pickerModel struct {
	kind        pickerKind
	title       string
	parentCrumb string

	width  int
	height int

	all      []pickerItem
	filtered []pickerItem
	selected map[int]bool

	list   list.Model
	search textinput.Model
	focus  focusState

	keymap keyMap
	help   helpOverlay

	prevSearch string
}

func newPickerModel(kind pickerKind, title string, items []pickerItem, selected []int) *pickerModel {
	all := append([]pickerItem(nil), items...)
	sel := make(map[int]bool, len(selected))
	for _, id := range selected {
		sel[id] = true
	}

	l := list.New(nil, pickerDelegate{}, 0, 0)
	l.Title = title
	configureList(&l)

	m := &pickerModel{
		kind:     kind,
		title:    title,
		all:      all,
		selected: sel,
		list:     l,
		search:   newSearchInput(),
		focus:    focusList,
		keymap:   defaultKeyMap(),
	}
	m.filtered = append([]pickerItem(nil), all...)
	m.setListItems(m.filtered)
	return m
}

func (m *pickerModel) Init() tea.Cmd { return nil }

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		innerW, innerH := panelInner(m.width, m.height)
		m.list.SetSize(innerW, max(1, innerH-5))
		m.search.Width = max(10, innerW-len(m.search.Prompt))
		return m, nil
	case tea.KeyMsg:
		if m.help.visible {
			m.help.update(msg, m.keymap.Help)
			return m, nil
		}
		if key.Matches(msg, m.keymap.Help) && m.focus == focusList {
			m.help.show(m.width, m.height, m.title, m.helpKeys())
			return m, nil
		}
		if key.Matches(msg, m.keymap.Esc) {
			if m.focus == focusSearch {
				if m.search.Value() != "" {
					m.clearSearch()
					return m, nil
				}
				m.blurSearch()
				return m, nil
			}
			if m.search.Value() != "" {
				m.clearSearch()
				return m, nil
			}
			kind := m.kind
			return m, func() tea.Msg { return pickerCancelMsg{kind: kind} }
		}
		if key.Matches(msg, m.keymap.FocusSearch) {
			m.focusSearch()
			return m, nil
		}
		if key.Matches(msg, m.keymap.ToggleFocus) {
			if m.focus == focusSearch {
				m.blurSearch()
			} else {
				m.focusSearch()
			}
			return m, nil
		}
		if key.Matches(msg, m.keymap.Confirm) {
			if m.focus == focusSearch {
				m.blurSearch()
				return m, nil
			}
			done := pickerDoneMsg{kind: m.kind, ids: m.selectedIDs()}
			return m, func() tea.Msg { return done }
		}
		if m.focus == focusList {
			switch {
			case key.Matches(msg, m.keymap.ToggleSel):
				m.toggleCurrentSelection()
				return m, nil
			case key.Matches(msg, m.keymap.SelectAll):
				for _, it := range m.filtered {
					m.selected[it.id] = true
				}
				m.refreshVisibleSelection()
				return m, nil
			case key.Matches(msg, m.keymap.ClearSel):
				m.selected = make(map[int]bool)
				m.refreshVisibleSelection()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if m.focus == focusSearch {
		m.search, cmd = m.search.Update(msg)
		cur := m.search.Value()
		if cur != m.prevSearch {
			m.applyFilter(cur)
			m.prevSearch = cur
		}
		return m, cmd
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *pickerModel) View() string {
	if m.help.visible {
		return m.help.view(m.width, m.height)
	}
	innerW, _ := panelInner(m.width, m.height)
	sep := dim.Render(strings.Repeat("─", innerW))
	listView := strings.TrimRight(m.list.View(), "\n")
	body := strings.TrimRight(m.search.View()+"\n"+sep+"\n"+listView+"\n"+sep, "\n")
	return renderPanel(m.width, m.height, crumbTitle(m.parentCrumb, m.title), body, m.statusLine())
}

func (m *pickerModel) helpKeys() keyHelp {
	esc := key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back/clear"),
	)
	done := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "done"),
	)

	return keyHelp{
		short: []key.Binding{
			m.list.KeyMap.CursorUp,
			m.list.KeyMap.CursorDown,
			m.keymap.FocusSearch,
			m.keymap.ToggleSel,
			done,
			esc,
		},
		full: [][]key.Binding{{
			m.list.KeyMap.CursorUp,
			m.list.KeyMap.CursorDown,
			m.list.KeyMap.PrevPage,
			m.list.KeyMap.NextPage,
		}, {
			m.keymap.FocusSearch,
			m.keymap.ToggleFocus,
			esc,
		}, {
			m.keymap.ToggleSel,
			m.keymap.SelectAll,
			m.keymap.ClearSel,
			done,
		}},
	}
}

func (m *pickerModel) statusLine() string {
	shown := len(m.list.Items())
	total := len(m.all)
	pg := ""
	if m.list.Paginator.TotalPages > 1 {
		pg = fmt.Sprintf("pg:%d/%d", m.list.Paginator.Page+1, m.list.Paginator.TotalPages)
	}

	left := fmt.Sprintf("%s: %d/%d  sel:%d", m.kind, shown, total, len(m.selected))
	if pg != "" {
		left += "  " + dim.Render(pg)
	}
	return left + "  " + footerHints("space select  enter done  esc cancel")
}

func (m *pickerModel) focusSearch() {
	m.focus = focusSearch
	m.search.Focus()
	styleSearchBar(&m.search, true)
}

func (m *pickerModel) blurSearch() {
	m.focus = focusList
	m.search.Blur()
	styleSearchBar(&m.search, false)
}

func (m *pickerModel) clearSearch() {
	m.search.SetValue("")
	m.applyFilter("")
	m.prevSearch = ""
}

func (m *pickerModel) applyFilter(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		m.filtered = append([]pickerItem(nil), m.all...)
		m.setListItems(m.filtered)
		return
	}

	matches := fuzzy.FindFrom(query, pickerLabels(m.all))
	filtered := make([]pickerItem, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, m.all[match.Index])
	}
	m.filtered = filtered
	m.setListItems(m.filtered)
}

func (m *pickerModel) setListItems(items []pickerItem) {
	rows := make([]list.Item, 0, len(items))
	for _, it := range items {
		rows = append(rows, pickerRow{item: it, selected: m.selected[it.id]})
	}
	m.list.SetItems(rows)
	if len(rows) > 0 {
		m.list.Select(0)
	}
}

func (m *pickerModel) refreshVisibleSelection() {
	idx := m.list.Index()
	items := m.list.Items()
	for i := range items {
		row, ok := items[i].(pickerRow)
		if !ok {
			continue
		}
		row.selected = m.selected[row.item.id]
		items[i] = row
	}
	m.list.SetItems(items)
	if idx >= 0 && idx < len(items) {
		m.list.Select(idx)
	}
}

func (m *pickerModel) toggleCurrentSelection() {
	row, ok := m.list.SelectedItem().(pickerRow)
	if !ok {
		return
	}
	if m.selected[row.item.id] {
		delete(m.selected, row.item.id)
	} else {
		m.selected[row.item.id] = true
	}
	m.refreshVisibleSelection()
}

func (m *pickerModel) selectedIDs() []int {
	if len(m.selected) == 0 {
		return nil
	}
	out := make([]int, 0, len(m.selected))
	for id, ok := range m.selected {
		if ok {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

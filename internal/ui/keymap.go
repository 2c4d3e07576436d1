package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the screens match against. Field movement and
// option keys are shared by the group form and the settings screen.
type keyMap struct {
	Quit key.Binding
	Help key.Binding
	Esc  key.Binding

	// list screens
	FocusSearch key.Binding
	ToggleFocus key.Binding
	Reload      key.Binding
	NewGroup    key.Binding
	EditGroup   key.Binding
	Copy        key.Binding
	DeleteGroup key.Binding
	Settings    key.Binding

	// pickers
	ToggleSel key.Binding
	SelectAll key.Binding
	ClearSel  key.Binding
	Confirm   key.Binding

	// forms
	NextField  key.Binding
	PrevField  key.Binding
	OptionPrev key.Binding
	OptionNext key.Binding
	Edit       key.Binding
	Save       key.Binding
}

func bind(h, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(h, desc))
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: bind("q", "quit", "q"),
		Help: bind("?", "help", "?"),
		Esc:  bind("esc", "clear/back", "esc"),

		FocusSearch: bind("ctrl+f", "search", "ctrl+f"),
		ToggleFocus: bind("tab", "search/list", "tab"),
		Reload:      bind("r", "reload", "r"),
		NewGroup:    bind("n", "new", "n", "N"),
		EditGroup:   bind("e", "edit", "e", "E"),
		Copy:        bind("y", "copy", "y"),
		DeleteGroup: bind("d", "delete", "d", "D", "delete"),
		Settings:    bind("S", "settings", "S"),

		ToggleSel: bind("space", "select", " ", "space"),
		SelectAll: bind("ctrl+a", "select all", "ctrl+a"),
		ClearSel:  bind("ctrl+d", "clear", "ctrl+d"),
		Confirm:   bind("enter", "confirm", "enter"),

		NextField:  bind("j/tab", "next field", "j", "down", "tab"),
		PrevField:  bind("k/S-tab", "previous field", "k", "up", "shift+tab"),
		OptionPrev: bind("h", "previous option", "h", "left"),
		OptionNext: bind("l", "next option", "l", "right"),
		Edit:       bind("i", "edit field", "i"),
		Save:       bind("ctrl+s", "submit", "ctrl+s"),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.FocusSearch, k.NewGroup, k.EditGroup, k.DeleteGroup, k.Settings, k.Reload, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.FocusSearch, k.ToggleFocus, k.Esc},
		{k.NewGroup, k.EditGroup, k.Copy, k.DeleteGroup},
		{k.Settings, k.Reload, k.Help, k.Quit},
	}
}

package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/al-bashkir/edge-groups/internal/config"
	"github.com/al-bashkir/edge-groups/internal/edge"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type screen int

const (
	screenGroups screen = iota
	screenGroupForm
	screenSettings
)

// GroupStore is the persistence the app needs. Calls run off the UI loop.
type GroupStore interface {
	Groups(ctx context.Context) ([]edge.Group, error)
	ReferenceData(ctx context.Context) (edge.ReferenceData, error)
	Create(ctx context.Context, g edge.Group) (edge.Group, error)
	Update(ctx context.Context, g edge.Group) (edge.Group, error)
	Delete(ctx context.Context, id int) error
}

type openGroupFormMsg struct {
	id int // 0 opens an empty create form
}

type openGroupFormPrefillMsg struct {
	group edge.Group
}

type deleteGroupMsg struct {
	id int
}

type reloadGroupsMsg struct{}

type openSettingsMsg struct{}

type groupsLoadedMsg struct {
	groups []edge.Group
	ref    edge.ReferenceData
	err    error
}

type referenceDataMsg struct {
	token int
	ref   edge.ReferenceData
	err   error
}

type groupDeletedMsg struct {
	id   int
	name string
	err  error
}

type toastMsg toast

type toastDismissMsg struct {
	token int
}

type appModel struct {
	opts Options
	log  *zap.Logger

	width  int
	height int

	screen   screen
	groups   *groupsModel
	form     *groupFormModel
	settings *settingsModel

	// original is the value the form was opened with; draft tracks every
	// edit reported through OnChange.
	original edge.Group
	draft    edge.Group

	formToken  int
	toastToken int
}

func newAppModel(opts Options) *appModel {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &appModel{
		opts:   opts,
		log:    log,
		screen: screenGroups,
		groups: newGroupsModel(opts.Config.Defaults.ConfirmQuit),
	}
}

func (m *appModel) Init() tea.Cmd {
	return m.loadGroupsCmd()
}

func (m *appModel) timeout() time.Duration {
	return time.Duration(m.opts.Config.Defaults.ActionTimeout) * time.Second
}

// withTimeout builds the context for one store call. Callers read the
// timeout on the update loop; commands must not touch m.
func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(context.Background(), d)
	}
	return context.WithCancel(context.Background())
}

func (m *appModel) loadGroupsCmd() tea.Cmd {
	store, timeout := m.opts.Store, m.timeout()
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		groups, err := store.Groups(ctx)
		if err != nil {
			return groupsLoadedMsg{err: err}
		}
		ref, err := store.ReferenceData(ctx)
		return groupsLoadedMsg{groups: groups, ref: ref, err: err}
	}
}

func (m *appModel) loadReferenceCmd(token int) tea.Cmd {
	store, timeout := m.opts.Store, m.timeout()
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		ref, err := store.ReferenceData(ctx)
		return referenceDataMsg{token: token, ref: ref, err: err}
	}
}

func (m *appModel) deleteCmd(id int) tea.Cmd {
	store, timeout := m.opts.Store, m.timeout()
	name := ""
	if g, ok := m.groups.groupByID(id); ok {
		name = g.Name
	}
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		return groupDeletedMsg{id: id, name: name, err: store.Delete(ctx, id)}
	}
}

func (m *appModel) applyWindowSize(ws tea.WindowSizeMsg) tea.Cmd {
	m.width = ws.Width
	m.height = ws.Height

	var cmds []tea.Cmd
	if m.groups != nil {
		model, cmd := m.groups.Update(ws)
		if gm, ok := model.(*groupsModel); ok {
			m.groups = gm
		}
		cmds = append(cmds, cmd)
	}
	if m.form != nil {
		mw, mh := formModal.fit(ws.Width, ws.Height)
		model, cmd := m.form.Update(tea.WindowSizeMsg{Width: mw, Height: mh})
		if fm, ok := model.(*groupFormModel); ok {
			m.form = fm
		}
		cmds = append(cmds, cmd)
	}
	if m.settings != nil {
		mw, mh := formModal.fit(ws.Width, ws.Height)
		_, _ = m.settings.Update(tea.WindowSizeMsg{Width: mw, Height: mh})
	}
	return tea.Batch(cmds...)
}

func (m *appModel) collectToastKey() string {
	var b strings.Builder
	if m.groups != nil && !m.groups.toast.empty() {
		b.WriteString(m.groups.toast.text)
	}
	if m.form != nil && !m.form.toast.empty() {
		b.WriteByte('|')
		b.WriteString(m.form.toast.text)
	}
	if m.settings != nil && !m.settings.toast.empty() {
		b.WriteByte('|')
		b.WriteString(m.settings.toast.text)
	}
	return b.String()
}

func (m *appModel) clearToasts() {
	if m.groups != nil && !m.groups.confirmQuit && !m.groups.confirmDelete {
		m.groups.toast = toast{}
	}
	if m.form != nil && !m.form.confirmQuit {
		m.form.toast = toast{}
	}
	if m.settings != nil && !m.settings.confirmQuit {
		m.settings.toast = toast{}
	}
}

func (m *appModel) maxToastLevel() toastLevel {
	var lvl toastLevel
	if m.groups != nil && !m.groups.toast.empty() && m.groups.toast.level > lvl {
		lvl = m.groups.toast.level
	}
	if m.form != nil && !m.form.toast.empty() && m.form.toast.level > lvl {
		lvl = m.form.toast.level
	}
	if m.settings != nil && !m.settings.toast.empty() && m.settings.toast.level > lvl {
		lvl = m.settings.toast.level
	}
	return lvl
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Auto-dismiss toasts.
	if tdm, ok := msg.(toastDismissMsg); ok {
		if tdm.token == m.toastToken {
			m.clearToasts()
		}
		return m, nil
	}

	prev := m.collectToastKey()
	result, cmd := m.doUpdate(msg)
	cur := m.collectToastKey()

	if cur != "" && cur != prev {
		m.toastToken++
		token := m.toastToken
		level := m.maxToastLevel()
		dismiss := tea.Tick(level.ttl(), func(time.Time) tea.Msg {
			return toastDismissMsg{token: token}
		})
		return result, tea.Batch(cmd, dismiss)
	}
	return result, cmd
}

func (m *appModel) doUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, m.applyWindowSize(msg)
	case groupsLoadedMsg:
		if msg.err != nil {
			m.log.Error("load groups", zap.Error(msg.err))
			m.groups.toast = toast{text: "load failed: " + msg.err.Error(), level: toastErr}
			return m, nil
		}
		m.groups.Refresh(msg.groups, msg.ref)
		return m, nil
	case reloadGroupsMsg:
		m.groups.toast = toast{text: "reloading…", level: toastInfo}
		return m, m.loadGroupsCmd()
	case openGroupFormMsg:
		if msg.id == 0 {
			return m, m.openForm(edge.Group{}, PageCreate)
		}
		g, ok := m.groups.groupByID(msg.id)
		if !ok {
			m.groups.toast = toast{text: edge.ErrObjectNotFound.Error(), level: toastErr}
			return m, nil
		}
		return m, m.openForm(g, PageEdit)
	case openSettingsMsg:
		m.openSettings()
		return m, nil
	case settingsCancelMsg:
		m.settings = nil
		m.screen = screenGroups
		return m, nil
	case settingsSaveMsg:
		if m.settings == nil {
			return m, nil
		}
		if err := m.saveSettings(msg.defaults); err != nil {
			m.log.Error("save settings", zap.String("path", m.opts.ConfigPath), zap.Error(err))
			m.settings.toast = errToast(err)
			return m, nil
		}
		m.settings.defaults = m.opts.Config.Defaults
		m.settings.confirmQuitEnabled = m.opts.Config.Defaults.ConfirmQuit
		m.settings.toast = toast{text: "saved", level: toastOK}
		return m, nil
	case openGroupFormPrefillMsg:
		return m, m.openForm(msg.group, PageCreate)
	case referenceDataMsg:
		if m.form == nil || msg.token != m.formToken {
			return m, nil
		}
		if msg.err != nil {
			m.log.Error("load reference data", zap.Error(msg.err))
			m.form.SetLoadError(msg.err)
			return m, nil
		}
		m.form.SetReferenceData(msg.ref)
		return m, nil
	case groupFormRetryMsg:
		if m.form == nil {
			return m, nil
		}
		tick := m.form.Retry()
		if tick == nil {
			return m, nil
		}
		m.formToken++
		return m, tea.Batch(tick, m.loadReferenceCmd(m.formToken))
	case groupFormCancelMsg:
		if m.form != nil && !m.draft.SameAs(m.original) {
			m.groups.toast = toast{text: "changes discarded", level: toastInfo}
		}
		m.closeForm()
		return m, nil
	case groupFormResultMsg:
		return m, m.handleResult(msg)
	case deleteGroupMsg:
		return m, m.deleteCmd(msg.id)
	case groupDeletedMsg:
		if msg.err != nil {
			m.log.Error("delete group", zap.Int("id", msg.id), zap.Error(msg.err))
			m.groups.toast = errToast(msg.err)
			return m, nil
		}
		m.groups.toast = toast{text: fmt.Sprintf("deleted %q", msg.name), level: toastOK}
		return m, m.loadGroupsCmd()
	case spinner.TickMsg, groupFormActionDoneMsg, pickerDoneMsg, pickerCancelMsg:
		if m.form == nil {
			return m, nil
		}
		return m, m.updateForm(msg)
	case tea.KeyMsg:
		if m.screen == screenGroupForm && m.form != nil {
			return m, m.updateForm(msg)
		}
		if m.screen == screenSettings && m.settings != nil {
			_, cmd := m.settings.Update(msg)
			return m, cmd
		}
		model, cmd := m.groups.Update(msg)
		if gm, ok := model.(*groupsModel); ok {
			m.groups = gm
		}
		return m, cmd
	case toastMsg:
		m.groups.toast = toast(msg)
		return m, nil
	default:
		if m.screen == screenGroupForm && m.form != nil {
			return m, m.updateForm(msg)
		}
		model, cmd := m.groups.Update(msg)
		if gm, ok := model.(*groupsModel); ok {
			m.groups = gm
		}
		return m, cmd
	}
}

func (m *appModel) updateForm(msg tea.Msg) tea.Cmd {
	model, cmd := m.form.Update(msg)
	if fm, ok := model.(*groupFormModel); ok {
		m.form = fm
	}
	return cmd
}

// openForm builds the form bindings for g and starts loading the tags and
// endpoints it selects from.
func (m *appModel) openForm(g edge.Group, page PageType) tea.Cmd {
	m.original = g.Clone()
	m.draft = g.Clone()

	label := "Create edge group"
	action := m.createAction
	if page == PageEdit {
		label = "Update edge group"
		action = m.updateAction
	}

	m.form = newGroupFormModel(FormBindings{
		Model:       g,
		ActionLabel: label,
		Action:      action,
		PageType:    page,
		OnChange:    func(v edge.Group) { m.draft = v },
		Timeout:     m.timeout(),
	}, m.opts.Config.Defaults.ConfirmQuit)
	m.form.parentCrumb = "Edge groups"
	if m.width > 0 && m.height > 0 {
		mw, mh := formModal.fit(m.width, m.height)
		_, _ = m.form.Update(tea.WindowSizeMsg{Width: mw, Height: mh})
	}
	m.screen = screenGroupForm

	m.formToken++
	return tea.Batch(m.form.Init(), m.loadReferenceCmd(m.formToken))
}

func (m *appModel) openSettings() {
	m.settings = newSettingsModel(m.opts.Config.Defaults, m.opts.Config.Defaults.ConfirmQuit)
	if m.width > 0 && m.height > 0 {
		mw, mh := formModal.fit(m.width, m.height)
		_, _ = m.settings.Update(tea.WindowSizeMsg{Width: mw, Height: mh})
	}
	m.screen = screenSettings
}

// saveSettings writes d to config.toml and applies what can change at
// runtime. The inventory path and log file take effect on the next start.
func (m *appModel) saveSettings(d config.Defaults) error {
	cfg := m.opts.Config
	cfg.Defaults = d
	path, err := config.Save(m.opts.ConfigPath, cfg)
	if err != nil {
		return err
	}
	m.opts.ConfigPath = path
	m.opts.Config = cfg
	m.log.Info("settings saved", zap.String("path", path))

	SetAccentColor(d.AccentColor)
	m.refreshAccentStyles()
	m.groups.confirmQuitEnabled = d.ConfirmQuit
	return nil
}

func (m *appModel) refreshAccentStyles() {
	if m.groups != nil {
		styleSearchBar(&m.groups.search, m.groups.focus == focusSearch)
	}
	if m.settings != nil {
		m.settings.setFocus(m.settings.focus)
	}
}

func (m *appModel) closeForm() {
	m.form = nil
	m.original = edge.Group{}
	m.draft = edge.Group{}
	m.screen = screenGroups
}

func (m *appModel) createAction(ctx context.Context, g edge.Group) (edge.Group, error) {
	return m.opts.Store.Create(ctx, g)
}

func (m *appModel) updateAction(ctx context.Context, g edge.Group) (edge.Group, error) {
	return m.opts.Store.Update(ctx, g)
}

func (m *appModel) handleResult(res groupFormResultMsg) tea.Cmd {
	if res.err != nil {
		m.log.Warn("group action failed",
			zap.String("page", string(res.page)),
			zap.String("name", m.draft.Name),
			zap.Error(res.err))
		if m.form != nil {
			// Keep form open on error.
			m.form.toast = errToast(res.err)
		}
		return nil
	}

	verb := "created"
	if res.page == PageEdit {
		verb = "updated"
	}
	m.log.Info("group "+verb, zap.Int("id", res.group.ID), zap.String("name", res.group.Name))
	m.groups.toast = toast{text: fmt.Sprintf("%s %q", verb, res.group.Name), level: toastOK}
	m.closeForm()
	return m.loadGroupsCmd()
}

func (m *appModel) View() string {
	switch m.screen {
	case screenGroupForm:
		if m.form != nil {
			return placeCentered(m.width, m.height, m.form.View())
		}
	case screenSettings:
		if m.settings != nil {
			return placeCentered(m.width, m.height, m.settings.View())
		}
	}
	return m.groups.View()
}

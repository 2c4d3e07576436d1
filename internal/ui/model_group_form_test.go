package ui

import (
	"context"
	"errors"
	"testing"

	"github.com/al-bashkir/edge-groups/internal/edge"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

type actionRecorder struct {
	calls []edge.Group
	err   error
}

func (r *actionRecorder) action(_ context.Context, g edge.Group) (edge.Group, error) {
	r.calls = append(r.calls, g)
	if r.err != nil {
		return edge.Group{}, r.err
	}
	g.ID = 42
	return g, nil
}

type formFixture struct {
	form    *groupFormModel
	rec     *actionRecorder
	changes []edge.Group
}

func newFormFixture(t *testing.T, g edge.Group, page PageType, loaded bool) *formFixture {
	t.Helper()
	fx := &formFixture{rec: &actionRecorder{}}
	label := "Create edge group"
	if page == PageEdit {
		label = "Update edge group"
	}
	fx.form = newGroupFormModel(FormBindings{
		Model:       g,
		ActionLabel: label,
		Action:      fx.rec.action,
		PageType:    page,
		OnChange:    func(v edge.Group) { fx.changes = append(fx.changes, v) },
	}, false)
	fx.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	if loaded {
		fx.form.SetReferenceData(testRef())
	}
	return fx
}

func (fx *formFixture) send(msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = fx.form.Update(msg)
	}
	return cmd
}

func (fx *formFixture) lastChange(t *testing.T) edge.Group {
	t.Helper()
	require.NotEmpty(t, fx.changes, "expected OnChange to be called")
	return fx.changes[len(fx.changes)-1]
}

func prodEdges() edge.Group {
	return edge.Group{Name: "prod-edges", Dynamic: true, TagIDs: []int{1}}
}

func TestGroupForm_EmptyNameBlocksSubmit(t *testing.T) {
	fx := newFormFixture(t, edge.Group{Endpoints: []int{1}}, PageCreate, true)

	require.False(t, fx.form.canSubmit())
	require.Nil(t, fx.send(keySave))
	require.False(t, fx.form.Submitting())
	require.Empty(t, fx.rec.calls)
	require.Equal(t, toastWarn, fx.form.toast.level)

	fx = newFormFixture(t, edge.Group{Name: "   ", Endpoints: []int{1}}, PageCreate, true)
	require.Nil(t, fx.send(keySave))
	require.Empty(t, fx.rec.calls)
}

func TestGroupForm_DynamicWithoutTagsBlocksSubmit(t *testing.T) {
	fx := newFormFixture(t, edge.Group{Name: "x", Dynamic: true}, PageCreate, true)

	require.False(t, fx.form.canSubmit())
	require.Nil(t, fx.send(keySave))
	require.Empty(t, fx.rec.calls)
	require.Contains(t, fx.form.View(), "at least one tag is required")
}

func TestGroupForm_StaticWithoutEndpointsBlocksSubmit(t *testing.T) {
	fx := newFormFixture(t, edge.Group{Name: "x"}, PageCreate, true)

	require.False(t, fx.form.canSubmit())
	require.Nil(t, fx.send(keySave))
	require.Empty(t, fx.rec.calls)
}

func TestGroupForm_EmptyStaticShowsBothErrors(t *testing.T) {
	fx := newFormFixture(t, edge.Group{}, PageCreate, true)

	require.False(t, fx.form.canSubmit())
	view := fx.form.View()
	require.Contains(t, view, "name is required")
	require.Contains(t, view, "at least one endpoint is required")
	require.NotContains(t, view, "at least one tag is required")
}

func TestGroupForm_SubmitRunsActionOnce(t *testing.T) {
	fx := newFormFixture(t, prodEdges(), PageCreate, true)
	require.True(t, fx.form.canSubmit())

	first := fx.send(keySave)
	require.NotNil(t, first)
	require.True(t, fx.form.Submitting())
	require.False(t, fx.form.canSubmit())

	// Repeated submits while in flight are no-ops.
	require.Nil(t, fx.send(keySave))
	require.Nil(t, fx.send(keySave))

	msgs := drain(first)
	done, ok := findMsg[groupFormActionDoneMsg](msgs)
	require.True(t, ok, "expected action result message")
	require.Len(t, fx.rec.calls, 1)
	require.Equal(t, "prod-edges", fx.rec.calls[0].Name)
	require.True(t, fx.form.Submitting(), "still submitting until the result is processed")

	res, ok := findMsg[groupFormResultMsg](drain(fx.send(done)))
	require.True(t, ok, "expected result forwarded to the container")
	require.False(t, fx.form.Submitting())
	require.NoError(t, res.err)
	require.Equal(t, PageCreate, res.page)
	require.Equal(t, 42, res.group.ID)
	require.Len(t, fx.rec.calls, 1)
}

func TestGroupForm_SubmitTrimsName(t *testing.T) {
	g := prodEdges()
	g.Name = "  prod-edges  "
	fx := newFormFixture(t, g, PageCreate, true)

	drain(fx.send(keySave))
	require.Len(t, fx.rec.calls, 1)
	require.Equal(t, "prod-edges", fx.rec.calls[0].Name)
}

func TestGroupForm_SubmittingRendersInProgress(t *testing.T) {
	fx := newFormFixture(t, prodEdges(), PageCreate, true)
	require.Contains(t, fx.form.View(), "Create edge group")

	fx.send(keySave)
	require.Contains(t, fx.form.View(), "in progress")
}

func TestGroupForm_ActionErrorClearsInProgress(t *testing.T) {
	fx := newFormFixture(t, prodEdges(), PageCreate, true)
	fx.rec.err = errors.New("boom")

	done, ok := findMsg[groupFormActionDoneMsg](drain(fx.send(keySave)))
	require.True(t, ok)

	res, ok := findMsg[groupFormResultMsg](drain(fx.send(done)))
	require.True(t, ok)
	require.EqualError(t, res.err, "boom")
	require.False(t, fx.form.Submitting())

	// Retry is a fresh submit.
	fx.rec.err = nil
	require.NotNil(t, fx.send(keySave))
	require.True(t, fx.form.Submitting())
}

func TestGroupForm_StaleActionResultIgnored(t *testing.T) {
	fx := newFormFixture(t, prodEdges(), PageCreate, true)
	fx.send(keySave)

	require.Nil(t, fx.send(groupFormActionDoneMsg{seq: 99}))
	require.True(t, fx.form.Submitting())
}

func TestGroupForm_KeysIgnoredWhileSubmitting(t *testing.T) {
	fx := newFormFixture(t, prodEdges(), PageCreate, true)
	fx.send(keySave)
	fx.changes = nil

	fx.send(keyRunes("j"), keySpace, keyRunes("i"), keyRunes("x"), keyEsc)
	require.Empty(t, fx.changes)
	require.Equal(t, "prod-edges", fx.form.Group().Name)
	require.True(t, fx.form.Submitting())
}

func TestGroupForm_NotLoadedIgnoresInput(t *testing.T) {
	fx := newFormFixture(t, prodEdges(), PageCreate, false)
	require.False(t, fx.form.Loaded())
	require.NotNil(t, fx.form.Init(), "expected spinner tick while loading")

	fx.send(keyRunes("i"), keyRunes("x"), keyRunes("j"), keySpace)
	require.Nil(t, fx.send(keySave))
	require.Empty(t, fx.rec.calls)
	require.Empty(t, fx.changes)
	require.Equal(t, "prod-edges", fx.form.Group().Name)
	require.Contains(t, fx.form.View(), "loading tags and endpoints")

	fx.form.SetReferenceData(testRef())
	require.True(t, fx.form.Loaded())
	require.NotNil(t, fx.send(keySave))
}

func TestGroupForm_EscCancelsWhileLoading(t *testing.T) {
	fx := newFormFixture(t, edge.Group{}, PageCreate, false)

	_, ok := findMsg[groupFormCancelMsg](drain(fx.send(keyEsc)))
	require.True(t, ok)
}

func TestGroupForm_EditPageRendersEditLabel(t *testing.T) {
	g := prodEdges()
	g.ID = 7
	fx := newFormFixture(t, g, PageEdit, true)

	view := fx.form.View()
	require.Contains(t, view, "Update edge group")
	require.NotContains(t, view, "Create edge group")
	require.Contains(t, view, "Edge groups > prod-edges")
	require.Contains(t, view, "ID:")

	create := newFormFixture(t, prodEdges(), PageCreate, true)
	require.NotContains(t, create.form.View(), "ID:")
}

func TestGroupForm_TypingNamePushesChanges(t *testing.T) {
	fx := newFormFixture(t, edge.Group{}, PageCreate, true)

	fx.send(keyRunes("i"))
	require.True(t, fx.form.editing)
	fx.send(keyRunes("p"), keyRunes("r"), keyRunes("o"), keyRunes("d"))

	require.Equal(t, "prod", fx.lastChange(t).Name)
	require.Equal(t, "prod", fx.form.Group().Name)

	// Enter leaves insert mode and moves on.
	fx.send(keyEnter)
	require.False(t, fx.form.editing)
	require.Equal(t, groupFieldMode, fx.form.focus)
}

func TestGroupForm_ModeToggleChangesFields(t *testing.T) {
	fx := newFormFixture(t, edge.Group{Name: "x", Endpoints: []int{1}}, PageCreate, true)
	require.Equal(t, []groupField{groupFieldName, groupFieldMode, groupFieldEndpoints, groupFieldSubmit}, fx.form.fields())

	fx.send(keyRunes("j"), keySpace)
	require.True(t, fx.lastChange(t).Dynamic)
	require.Equal(t, []groupField{groupFieldName, groupFieldMode, groupFieldMatch, groupFieldTags, groupFieldSubmit}, fx.form.fields())
	require.False(t, fx.form.canSubmit(), "dynamic mode needs a tag")

	fx.send(keyRunes("j"), keySpace)
	require.True(t, fx.lastChange(t).PartialMatch)
}

func TestGroupForm_PickerUpdatesEndpoints(t *testing.T) {
	fx := newFormFixture(t, edge.Group{Name: "x"}, PageCreate, true)

	fx.send(keyRunes("j"), keyRunes("j"))
	require.Equal(t, groupFieldEndpoints, fx.form.focus)

	fx.send(keyEnter)
	require.NotNil(t, fx.form.picker)

	fx.send(keySpace)
	done, ok := findMsg[pickerDoneMsg](drain(fx.send(keyEnter)))
	require.True(t, ok)
	require.Equal(t, pickEndpoints, done.kind)
	require.Equal(t, []int{1}, done.ids)

	fx.send(done)
	require.Nil(t, fx.form.picker)
	require.Equal(t, []int{1}, fx.form.Group().Endpoints)
	require.Equal(t, []int{1}, fx.lastChange(t).Endpoints)
	require.True(t, fx.form.canSubmit())
}

func TestGroupForm_PickerCancelKeepsSelection(t *testing.T) {
	fx := newFormFixture(t, edge.Group{Name: "x", Endpoints: []int{2}}, PageCreate, true)

	fx.send(keyRunes("j"), keyRunes("j"), keyEnter, keySpace)
	cancel, ok := findMsg[pickerCancelMsg](drain(fx.send(keyEsc)))
	require.True(t, ok)

	fx.send(cancel)
	require.Nil(t, fx.form.picker)
	require.Equal(t, []int{2}, fx.form.Group().Endpoints)
}

func TestGroupForm_MatchPreview(t *testing.T) {
	g := edge.Group{Name: "x", Dynamic: true, TagIDs: []int{1, 2}}
	fx := newFormFixture(t, g, PageCreate, true)
	require.Contains(t, fx.form.View(), "1 of 3 endpoints match")

	g.PartialMatch = true
	fx = newFormFixture(t, g, PageCreate, true)
	require.Contains(t, fx.form.View(), "3 of 3 endpoints match")
}

func TestGroupForm_EnterOnSubmitControl(t *testing.T) {
	fx := newFormFixture(t, edge.Group{Name: "x", Endpoints: []int{1}}, PageCreate, true)

	fx.send(keyRunes("j"), keyRunes("j"), keyRunes("j"))
	require.Equal(t, groupFieldSubmit, fx.form.focus)

	require.NotNil(t, fx.send(keyEnter))
	require.True(t, fx.form.Submitting())
}

func TestGroupForm_NilActionCannotSubmit(t *testing.T) {
	f := newGroupFormModel(FormBindings{Model: prodEdges(), ActionLabel: "Create"}, false)
	f.SetReferenceData(testRef())

	require.False(t, f.canSubmit())
	_, cmd := f.Update(keySave)
	require.Nil(t, cmd)
	require.False(t, f.Submitting())
}

func TestGroupForm_CtrlCQuits(t *testing.T) {
	fx := newFormFixture(t, prodEdges(), PageCreate, true)
	fx.send(keySave)

	_, ok := findMsg[tea.QuitMsg](drain(fx.send(tea.KeyMsg{Type: tea.KeyCtrlC})))
	require.True(t, ok)
}

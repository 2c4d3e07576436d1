package ui

import (
	"path/filepath"
	"testing"

	"github.com/al-bashkir/edge-groups/internal/config"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

var keyBackspace = tea.KeyMsg{Type: tea.KeyBackspace}

func TestSettings_RejectsBadTimeout(t *testing.T) {
	m := newSettingsModel(config.DefaultConfig().Defaults, false)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	m.Update(keyRunes("j"))
	m.Update(keyRunes("j"))
	require.Equal(t, settingsFieldActionTimeout, m.focus)
	m.Update(keyRunes("i"))
	m.Update(keyBackspace)
	m.Update(keyBackspace)
	m.Update(keyRunes("0"))

	_, cmd := m.Update(keySave)
	require.Nil(t, cmd)
	require.Equal(t, toastErr, m.toast.level)
	require.Contains(t, m.toast.text, "action timeout")
}

func TestSettings_CycleAccent(t *testing.T) {
	m := newSettingsModel(config.DefaultConfig().Defaults, false)
	m.Update(keyRunes("l"))
	require.Equal(t, "blue", m.defaults.AccentColor)
	m.Update(keyRunes("h"))
	m.Update(keyRunes("h"))
	require.Equal(t, "magenta", m.defaults.AccentColor)
}

func TestSettings_QInInsertModeTypes(t *testing.T) {
	m := newSettingsModel(config.DefaultConfig().Defaults, false)
	m.setFocus(settingsFieldLogFile)
	m.Update(keyRunes("i"))
	_, cmd := m.Update(keyRunes("q"))
	require.Equal(t, "q", m.inLogFile.Value())
	for _, msg := range drain(cmd) {
		_, isQuit := msg.(tea.QuitMsg)
		require.False(t, isQuit)
	}
}

func TestApp_SettingsSaveWritesConfig(t *testing.T) {
	m, _ := newTestApp(t)
	m.opts.ConfigPath = filepath.Join(t.TempDir(), "config.toml")

	run(m, keyRunes("S"))
	require.Equal(t, screenSettings, m.screen)
	require.NotNil(t, m.settings)

	// confirm quit
	run(m, keyRunes("j"), keySpace)
	// action timeout: 10 -> 30
	run(m, keyRunes("j"), keyRunes("i"), keyBackspace, keyBackspace, keyRunes("30"), keyEnter)
	run(m, keySave)

	require.Equal(t, "saved", m.settings.toast.text)
	require.True(t, m.groups.confirmQuitEnabled)

	cfg, _, err := config.Load(m.opts.ConfigPath)
	require.NoError(t, err)
	require.True(t, cfg.Defaults.ConfirmQuit)
	require.Equal(t, 30, cfg.Defaults.ActionTimeout)

	run(m, keyEsc)
	require.Equal(t, screenGroups, m.screen)
	require.Nil(t, m.settings)
}

package ui

import (
	"errors"

	"github.com/al-bashkir/edge-groups/internal/config"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Options struct {
	ConfigPath string
	Config     config.Config
	Store      GroupStore
	Logger     *zap.Logger
}

func Run(opts Options) error {
	if opts.Store == nil {
		return errors.New("ui: store is required")
	}

	SetAccentColor(opts.Config.Defaults.AccentColor)

	m := newAppModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastOK
	toastWarn // also used for y/n prompts
	toastErr
)

var (
	toastInfoStyle = lipgloss.NewStyle().Foreground(cMuted)
	toastOKStyle   = lipgloss.NewStyle().Foreground(cOK)
	toastErrStyle  = lipgloss.NewStyle().Foreground(cErr)
)

// ttl is how long a toast of this level stays before it is dismissed.
func (l toastLevel) ttl() time.Duration {
	switch l {
	case toastWarn:
		return 5 * time.Second
	case toastErr:
		return 8 * time.Second
	}
	return 3 * time.Second
}

func (l toastLevel) style() lipgloss.Style {
	switch l {
	case toastInfo:
		return toastInfoStyle
	case toastOK:
		return toastOKStyle
	case toastErr:
		return toastErrStyle
	}
	return statusWarn
}

// toast is a one-line status message shown in a screen's status row.
type toast struct {
	text  string
	level toastLevel
}

func errToast(err error) toast { return toast{text: err.Error(), level: toastErr} }

func (t toast) empty() bool { return strings.TrimSpace(t.text) == "" }

func (t toast) view() string {
	if t.empty() {
		return ""
	}
	return t.level.style().Render(t.text)
}

package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// accentPreset pairs an accent with the background used behind focused
// option segments and buttons.
type accentPreset struct {
	fg    lipgloss.AdaptiveColor
	segBG lipgloss.AdaptiveColor
}

var accentPresets = map[string]accentPreset{
	"default": {fg: lipgloss.AdaptiveColor{Light: "25", Dark: "39"}, segBG: lipgloss.AdaptiveColor{Light: "153", Dark: "24"}},
	"blue":    {fg: lipgloss.AdaptiveColor{Light: "25", Dark: "39"}, segBG: lipgloss.AdaptiveColor{Light: "153", Dark: "24"}},
	"cyan":    {fg: lipgloss.AdaptiveColor{Light: "30", Dark: "45"}, segBG: lipgloss.AdaptiveColor{Light: "159", Dark: "30"}},
	"green":   {fg: lipgloss.AdaptiveColor{Light: "28", Dark: "35"}, segBG: lipgloss.AdaptiveColor{Light: "157", Dark: "22"}},
	"amber":   {fg: lipgloss.AdaptiveColor{Light: "166", Dark: "214"}, segBG: lipgloss.AdaptiveColor{Light: "229", Dark: "94"}},
	"red":     {fg: lipgloss.AdaptiveColor{Light: "160", Dark: "203"}, segBG: lipgloss.AdaptiveColor{Light: "224", Dark: "88"}},
	"magenta": {fg: lipgloss.AdaptiveColor{Light: "127", Dark: "213"}, segBG: lipgloss.AdaptiveColor{Light: "225", Dark: "90"}},
}

// Fixed colors. Only the accent pair changes at runtime.
var (
	cMuted        = lipgloss.AdaptiveColor{Light: "242", Dark: "242"}
	cOK           = lipgloss.AdaptiveColor{Light: "28", Dark: "35"}
	cWarn         = lipgloss.AdaptiveColor{Light: "166", Dark: "214"}
	cErr          = lipgloss.AdaptiveColor{Light: "160", Dark: "203"}
	cSearchDim    = lipgloss.AdaptiveColor{Light: "247", Dark: "246"}
	cFrameBorder  = lipgloss.AdaptiveColor{Light: "250", Dark: "238"}
	cRowActiveBG  = lipgloss.AdaptiveColor{Light: "253", Dark: "238"}
	cRowActiveFG  = lipgloss.AdaptiveColor{Light: "0", Dark: "255"}
	cSegFocusedFG = lipgloss.AdaptiveColor{Light: "17", Dark: "231"}
	cInputText    = lipgloss.AdaptiveColor{Light: "0", Dark: "255"}

	cAccent       lipgloss.AdaptiveColor
	cSegFocusedBG lipgloss.AdaptiveColor
)

var (
	dim          = lipgloss.NewStyle().Foreground(cMuted)
	statusWarn   = lipgloss.NewStyle().Foreground(cWarn)
	statusErr    = lipgloss.NewStyle().Foreground(cErr)
	searchDimmed = lipgloss.NewStyle().Foreground(cSearchDim)

	// Active list row: solid bar, no inner styles.
	rowActiveStyle  = lipgloss.NewStyle().Background(cRowActiveBG).Foreground(cRowActiveFG).Bold(true)
	uncheckedStyle  = lipgloss.NewStyle().Foreground(cMuted)
	optionOffStyle  = lipgloss.NewStyle().Foreground(cMuted)
	badgeCountStyle = lipgloss.NewStyle().Foreground(cMuted).Background(lipgloss.AdaptiveColor{Light: "254", Dark: "236"}).Padding(0, 1)

	buttonDisabledStyle = lipgloss.NewStyle().Foreground(cMuted)
	confirmTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(cErr)

	panelStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(cFrameBorder).Padding(0, 1)
	helpBoxStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(cFrameBorder).Padding(1, 2)

	// Set by applyAccent.
	headerStyle        lipgloss.Style
	checkedStyle       lipgloss.Style
	footerKeyStyle     lipgloss.Style
	badgeModeStyle     lipgloss.Style
	segFocusedStyle    lipgloss.Style
	buttonStyle        lipgloss.Style
	buttonFocusedStyle lipgloss.Style
	helpTitleStyle     lipgloss.Style
)

func init() {
	applyAccent(accentPresets["default"])
}

// SetAccentColor switches the accent to a preset name or any lipgloss color
// value ("#RRGGBB", "34"). Empty and "default" restore the default.
func SetAccentColor(name string) {
	applyAccent(resolveAccent(name))
}

func resolveAccent(name string) accentPreset {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "default"
	}
	if p, ok := accentPresets[name]; ok {
		return p
	}
	c := lipgloss.AdaptiveColor{Light: name, Dark: name}
	return accentPreset{fg: c, segBG: c}
}

func applyAccent(p accentPreset) {
	cAccent = p.fg
	cSegFocusedBG = p.segBG

	accentBold := lipgloss.NewStyle().Foreground(cAccent).Bold(true)
	segFocused := lipgloss.NewStyle().Background(cSegFocusedBG).Foreground(cSegFocusedFG).Bold(true)

	headerStyle = accentBold
	checkedStyle = accentBold
	footerKeyStyle = accentBold
	buttonStyle = accentBold
	helpTitleStyle = accentBold
	badgeModeStyle = accentBold.Background(lipgloss.AdaptiveColor{Light: "254", Dark: "235"}).Padding(0, 1)
	segFocusedStyle = segFocused
	buttonFocusedStyle = segFocused
}

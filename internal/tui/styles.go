package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studymate/internal/store"
)

// palette is one colour scheme. The "theme" setting picks between them.
type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	accent    lipgloss.Color
	muted     lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	err       lipgloss.Color
	bg        lipgloss.Color
	fg        lipgloss.Color
	subtle    lipgloss.Color
	highlight lipgloss.Color
}

const (
	themeDark  = "dark"
	themeLight = "light"
)

var palettes = map[string]palette{
	themeDark: {
		primary:   lipgloss.Color("#6C63FF"),
		secondary: lipgloss.Color("#2EC4B6"),
		accent:    lipgloss.Color("#FF6B6B"),
		muted:     lipgloss.Color("#666666"),
		success:   lipgloss.Color("#2ECC71"),
		warning:   lipgloss.Color("#F39C12"),
		err:       lipgloss.Color("#E74C3C"),
		bg:        lipgloss.Color("#1A1B26"),
		fg:        lipgloss.Color("#C0CAF5"),
		subtle:    lipgloss.Color("#414868"),
		highlight: lipgloss.Color("#7AA2F7"),
	},
	themeLight: {
		primary:   lipgloss.Color("#4F46E5"),
		secondary: lipgloss.Color("#0F766E"),
		accent:    lipgloss.Color("#DC2626"),
		muted:     lipgloss.Color("#6B7280"),
		success:   lipgloss.Color("#15803D"),
		warning:   lipgloss.Color("#B45309"),
		err:       lipgloss.Color("#B91C1C"),
		bg:        lipgloss.Color("#F8FAFC"),
		fg:        lipgloss.Color("#1E293B"),
		subtle:    lipgloss.Color("#CBD5E1"),
		highlight: lipgloss.Color("#2563EB"),
	},
}

// Color palette, set by applyTheme.
var (
	activeTheme    string
	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorMuted     lipgloss.Color
	colorSuccess   lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color
	colorBg        lipgloss.Color
	colorFg        lipgloss.Color
	colorSubtle    lipgloss.Color
	colorHighlight lipgloss.Color
	subjectColors  []lipgloss.Color
)

// Styles
var (
	activeTabStyle    lipgloss.Style
	inactiveTabStyle  lipgloss.Style
	panelStyle        lipgloss.Style
	activePanelStyle  lipgloss.Style
	timerStyle        lipgloss.Style
	timerRunningStyle lipgloss.Style
	timerPausedStyle  lipgloss.Style
	titleStyle        lipgloss.Style
	subtitleStyle     lipgloss.Style
	accentStyle       lipgloss.Style
	successStyle      lipgloss.Style
	warningStyle      lipgloss.Style
	errorStyle        lipgloss.Style
	mutedStyle        lipgloss.Style
	highlightStyle    lipgloss.Style
	headerStyle       lipgloss.Style
	footerStyle       lipgloss.Style
	statusBarStyle    lipgloss.Style
	selectedItemStyle lipgloss.Style
	normalItemStyle   lipgloss.Style
	badgeEarnedStyle  lipgloss.Style
	badgeLockedStyle  lipgloss.Style
	levelStyle        lipgloss.Style
	priorityStyles    map[store.Priority]lipgloss.Style
)

func init() {
	applyTheme(themeDark)
}

// applyTheme switches every colour and style to the named palette. Unknown
// names fall back to dark.
func applyTheme(name string) {
	p, ok := palettes[name]
	if !ok {
		name, p = themeDark, palettes[themeDark]
	}
	activeTheme = name
	colorPrimary = p.primary
	colorSecondary = p.secondary
	colorAccent = p.accent
	colorMuted = p.muted
	colorSuccess = p.success
	colorWarning = p.warning
	colorError = p.err
	colorBg = p.bg
	colorFg = p.fg
	colorSubtle = p.subtle
	colorHighlight = p.highlight

	// subjectColors cycles through the palette for per-subject chart bars.
	subjectColors = []lipgloss.Color{colorPrimary, colorSecondary, colorAccent, colorWarning, colorSuccess, colorHighlight}

	// Tabs
	activeTabStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(colorPrimary).
		Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)

	// Timer
	timerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary).
		Align(lipgloss.Center)

	timerRunningStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorSuccess).
		Align(lipgloss.Center)

	timerPausedStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorWarning).
		Align(lipgloss.Center)

	// Text
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorFg)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorMuted)

	accentStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	successStyle = lipgloss.NewStyle().
		Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
		Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
		Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
		Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
		Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 1)

	// Status
	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorMuted)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	normalItemStyle = lipgloss.NewStyle().
		Foreground(colorFg)

	// Achievements
	badgeEarnedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorWarning).
		Foreground(colorFg).
		Padding(0, 1)

	badgeLockedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Foreground(colorMuted).
		Padding(0, 1)

	levelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorWarning)

	// Priorities
	priorityStyles = map[store.Priority]lipgloss.Style{
		store.PriorityHigh:   lipgloss.NewStyle().Foreground(colorError),
		store.PriorityMedium: lipgloss.NewStyle().Foreground(colorWarning),
		store.PriorityLow:    lipgloss.NewStyle().Foreground(colorSecondary),
	}
}

func subjectColor(i int) lipgloss.Color {
	return subjectColors[i%len(subjectColors)]
}

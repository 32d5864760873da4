package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/studymate/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewPlanner
	viewTimer
	viewNotes
	viewAnalytics
	viewAchievements
	viewMentor
	viewSettings
)

var viewNames = []string{"Dashboard", "Planner", "Timer", "Notes", "Analytics", "Achievements", "Mentor", "Settings"}

// --- Messages ---

type sessionLoggedMsg struct {
	session *store.StudySession
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func errStatus(prefix string, err error) tea.Msg {
	return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatMinutes(mins int64) string {
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}

func formatHours(mins int64) string {
	return fmt.Sprintf("%.1fh", float64(mins)/60)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

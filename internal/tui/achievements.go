package tui

import (
	"fmt"
	"strings"

	progressbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studymate/internal/progress"
	"github.com/sadopc/studymate/internal/store"
)

type achievementsModel struct {
	store  *store.Store
	width  int
	height int

	snapshot progress.Snapshot
	activity progress.Activity
	loaded   bool

	bar progressbar.Model
}

func newAchievementsModel(s *store.Store) achievementsModel {
	bar := progressbar.New(progressbar.WithGradient("#F39C12", "#FF6B6B"))
	bar.Width = 40
	return achievementsModel{
		store:    s,
		snapshot: progress.ComputeSnapshot(nil, nil),
		bar:      bar,
	}
}

func (a *achievementsModel) setSize(w, h int) {
	a.width = w
	a.height = h
	a.bar.Width = max(10, w-30)
}

type achievementsDataMsg struct {
	snapshot progress.Snapshot
	activity progress.Activity
}

func (a achievementsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, err := a.store.ListTasks()
		if err != nil {
			return errStatus("Load tasks", err)
		}
		sessions, err := a.store.ListSessions(0)
		if err != nil {
			return errStatus("Load sessions", err)
		}
		snap := progress.ComputeSnapshot(tasks, sessions)
		return achievementsDataMsg{
			snapshot: snap,
			activity: progress.Summarize(tasks, sessions, snap.Level),
		}
	}
}

func (a achievementsModel) update(msg tea.Msg) (achievementsModel, tea.Cmd) {
	if msg, ok := msg.(achievementsDataMsg); ok {
		var cmd tea.Cmd
		if a.loaded {
			cmd = announceUnlocks(a.snapshot, msg.snapshot)
		}
		a.snapshot = msg.snapshot
		a.activity = msg.activity
		a.loaded = true
		return a, cmd
	}
	return a, nil
}

// announceUnlocks reports achievements and levels gained between two
// snapshots. Achievements that re-lock after a deletion are not announced.
func announceUnlocks(before, after progress.Snapshot) tea.Cmd {
	var gained []string
	for _, k := range after.Unlocked {
		if before.Has(k) {
			continue
		}
		if ach, ok := progress.Lookup(k); ok {
			gained = append(gained, ach.Title)
		}
	}
	var text string
	switch {
	case len(gained) > 0:
		text = "🏆 Achievement unlocked: " + strings.Join(gained, ", ")
	case after.Level > before.Level:
		text = fmt.Sprintf("⬆ Level up! You reached level %d", after.Level)
	default:
		return nil
	}
	return func() tea.Msg { return statusMsg{text: text} }
}

// achievementProgress describes how far the user is toward an achievement.
func achievementProgress(k progress.Key, act progress.Activity) string {
	switch k {
	case progress.FirstStep:
		return fmt.Sprintf("%d/1 tasks", min(act.CompletedTasks, 1))
	case progress.DeepDiver:
		return fmt.Sprintf("%s/10h", formatHours(min(act.StudyMinutes, 600)))
	case progress.Consistent:
		return fmt.Sprintf("%d/5 tasks", min(act.CompletedTasks, 5))
	case progress.AcademicElite:
		return fmt.Sprintf("level %d/5", min(act.Level, 5))
	case progress.SprintKing:
		return fmt.Sprintf("%d/5 pomodoros", min(act.PomodoroSessions, 5))
	case progress.Polymath:
		return fmt.Sprintf("%d/3 subjects", min(act.DistinctSubjects, 3))
	}
	return ""
}

func (a achievementsModel) view() string {
	w := a.width - 4
	snap := a.snapshot

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Achievements"), "  ",
		levelStyle.Render(fmt.Sprintf("Level %d", snap.Level)), "  ",
		highlightStyle.Render(fmt.Sprintf("%d XP", snap.TotalExperience)),
	)
	band := mutedStyle.Render(fmt.Sprintf("%d → %d XP", snap.Floor, snap.Ceiling))

	catalog := progress.Catalog()
	cardWidth := 24
	perRow := max(1, (w-4)/(cardWidth+4))

	var rows []string
	var row []string
	for _, ach := range catalog {
		style := badgeLockedStyle
		icon := "🔒"
		if snap.Has(ach.Key) {
			style = badgeEarnedStyle
			icon = "🏆"
		}
		card := style.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
			icon+" "+ach.Title,
			ach.Description,
			mutedStyle.Render(achievementProgress(ach.Key, a.activity)),
		))
		row = append(row, card)
		if len(row) == perRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	summary := mutedStyle.Render(fmt.Sprintf("%d of %d unlocked", len(snap.Unlocked), len(catalog)))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		a.bar.ViewAs(snap.Fraction)+"  "+band,
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		"",
		summary,
	))
}

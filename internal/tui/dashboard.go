package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	progressbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studymate/internal/progress"
	"github.com/sadopc/studymate/internal/store"
)

const (
	dashboardTaskLimit    = 5
	dashboardSessionLimit = 5
)

type dashboardModel struct {
	store  *store.Store
	timer  timerModel
	width  int
	height int

	snapshot       progress.Snapshot
	todayMinutes   int64
	dailyGoal      int
	upcoming       []store.Task
	recentSessions []store.StudySession

	bar progressbar.Model
}

func newDashboardModel(s *store.Store) dashboardModel {
	bar := progressbar.New(progressbar.WithDefaultGradient())
	bar.Width = 40
	return dashboardModel{
		store:    s,
		timer:    newTimerModel(s),
		snapshot: progress.ComputeSnapshot(nil, nil),
		bar:      bar,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.bar.Width = max(10, w-24)
}

func (d dashboardModel) isRunning() bool { return d.timer.running() }
func (d dashboardModel) isPaused() bool  { return d.timer.paused() }
func (d dashboardModel) elapsed() time.Duration {
	return d.timer.currentElapsed()
}

type dashboardDataMsg struct {
	snapshot       progress.Snapshot
	todayMinutes   int64
	dailyGoal      int
	upcoming       []store.Task
	recentSessions []store.StudySession
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		tasks, err := d.store.ListTasks()
		if err != nil {
			return errStatus("Load tasks", err)
		}
		sessions, err := d.store.ListSessions(0)
		if err != nil {
			return errStatus("Load sessions", err)
		}
		today, err := d.store.GetTodayMinutes()
		if err != nil {
			return errStatus("Load today", err)
		}

		var upcoming []store.Task
		for _, t := range tasks {
			if t.Completed() {
				continue
			}
			upcoming = append(upcoming, t)
			if len(upcoming) == dashboardTaskLimit {
				break
			}
		}
		recent := sessions
		if len(recent) > dashboardSessionLimit {
			recent = recent[:dashboardSessionLimit]
		}

		return dashboardDataMsg{
			snapshot:       progress.ComputeSnapshot(tasks, sessions),
			todayMinutes:   today,
			dailyGoal:      d.store.GetIntSetting("daily_goal", 120),
			upcoming:       upcoming,
			recentSessions: recent,
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.snapshot = msg.snapshot
		d.todayMinutes = msg.todayMinutes
		d.dailyGoal = msg.dailyGoal
		d.upcoming = msg.upcoming
		d.recentSessions = msg.recentSessions
		return d, nil

	case tickMsg:
		d.timer.tick()
		return d, nil

	case tea.KeyMsg:
		d.timer.recordActivity()

		switch {
		case key.Matches(msg, keys.Start):
			if d.timer.running() {
				return d, nil
			}
			subject, err := d.store.GetSetting("default_subject")
			if err != nil || strings.TrimSpace(subject) == "" {
				subject = "Focus Session"
			}
			d.timer.start(subject)
			return d, func() tea.Msg { return statusMsg{text: "Stopwatch started: " + subject} }

		case key.Matches(msg, keys.Stop):
			return d.stopTimer()

		case key.Matches(msg, keys.Pause):
			d.timer.toggle()
			return d, nil
		}
	}
	return d, nil
}

func (d dashboardModel) stopTimer() (dashboardModel, tea.Cmd) {
	if !d.timer.running() {
		return d, nil
	}
	session, err := d.timer.stop()
	if err != nil {
		return d, func() tea.Msg { return errStatus("Log session", err) }
	}
	if session == nil {
		return d, func() tea.Msg { return statusMsg{text: "Stopwatch discarded (under a minute)"} }
	}
	return d, tea.Batch(
		d.loadData(),
		func() tea.Msg { return sessionLoggedMsg{session: session} },
	)
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderLevelPanel(contentWidth),
		d.renderTimerPanel(contentWidth),
		d.renderTasksPanel(contentWidth),
		d.renderRecentPanel(contentWidth),
	)
}

func (d dashboardModel) renderLevelPanel(w int) string {
	snap := d.snapshot
	level := levelStyle.Render(fmt.Sprintf("Level %d", snap.Level))
	xp := highlightStyle.Render(fmt.Sprintf("%d XP", snap.TotalExperience))
	header := fmt.Sprintf("%s  %s  %s", level, xp,
		mutedStyle.Render(fmt.Sprintf("%d XP to level %d", snap.Remaining(), snap.Level+1)))

	goal := fmt.Sprintf("Today %s", highlightStyle.Render(formatMinutes(d.todayMinutes)))
	if d.dailyGoal > 0 {
		goal += mutedStyle.Render(fmt.Sprintf(" / %s goal", formatMinutes(int64(d.dailyGoal))))
		if d.todayMinutes >= int64(d.dailyGoal) {
			goal += successStyle.Render("  ✓")
		}
	}

	badges := mutedStyle.Render(fmt.Sprintf("%d/%d achievements", len(snap.Unlocked), len(progress.Catalog())))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		d.bar.ViewAs(snap.Fraction),
		goal+"   "+badges,
	))
}

func (d dashboardModel) renderTimerPanel(w int) string {
	var timeDisplay string
	var indicator string

	if d.timer.running() {
		elapsed := d.timer.currentElapsed()
		timeStr := formatDuration(elapsed)

		if d.timer.paused() {
			timeDisplay = timerPausedStyle.Width(w - 6).Render(timeStr)
			if d.timer.isIdle {
				indicator = warningStyle.Render("⏸  IDLE")
			} else {
				indicator = warningStyle.Render("⏸  PAUSED")
			}
		} else {
			timeDisplay = timerRunningStyle.Width(w - 6).Render(timeStr)
			indicator = successStyle.Render("●  STUDYING")
		}

		content := lipgloss.JoinVertical(lipgloss.Center,
			timeDisplay,
			indicator,
			highlightStyle.Render(d.timer.subject),
		)
		return activePanelStyle.Width(w).Render(content)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		timerStyle.Width(w-6).Render("00:00:00"),
		mutedStyle.Render("■  STOPPED"),
		mutedStyle.Render("Press s to start a study stopwatch"),
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderTasksPanel(w int) string {
	title := titleStyle.Render("Up Next")
	if len(d.upcoming) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("Nothing pending. Press 2 to plan a task."),
		))
	}

	rows := []string{title}
	for _, t := range d.upcoming {
		prio := priorityStyles[t.Priority].Render("●")
		reward := successStyle.Render(fmt.Sprintf("+%d XP", progress.TaskReward(t.EstimatedMinutes)))
		rows = append(rows, fmt.Sprintf("  %s %s  %-28s %s  %s",
			prio,
			t.Deadline.Format("Jan 02"),
			truncate(t.Title, 28),
			mutedStyle.Render(truncate(t.Subject, 14)),
			reward,
		))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Sessions")
	if len(d.recentSessions) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No sessions yet"),
		))
	}

	rows := []string{title}
	for _, s := range d.recentSessions {
		icon := "◷"
		if s.Type == store.SessionPomodoro {
			icon = "●"
		}
		rows = append(rows, fmt.Sprintf("  %s %s  %-20s %s  %s",
			icon,
			s.StartedAt.Local().Format("Jan 02 15:04"),
			truncate(s.Subject, 20),
			formatMinutes(int64(s.Duration)),
			mutedStyle.Render(fmt.Sprintf("focus %d", s.FocusScore)),
		))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

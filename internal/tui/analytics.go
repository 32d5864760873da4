package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studymate/internal/store"
)

type analyticsMode int

const (
	analyticsWeekly analyticsMode = iota
	analyticsAllTime
)

// weekdayOrder lists SQLite weekday labels starting Monday.
var weekdayOrder = []struct {
	label string
	name  string
}{
	{"1", "Mon"}, {"2", "Tue"}, {"3", "Wed"}, {"4", "Thu"}, {"5", "Fri"}, {"6", "Sat"}, {"0", "Sun"},
}

type analyticsModel struct {
	store  *store.Store
	width  int
	height int

	mode   analyticsMode
	offset int // weeks back from the current one

	byWeekday []store.StudyTotal
	bySubject []store.StudyTotal
	stats     studyStats

	chart barchart.Model
}

// studyStats are the headline numbers for the selected range.
type studyStats struct {
	totalMinutes   int64
	sessions       int
	pomodoros      int
	avgFocus       float64
	completedTasks int
	totalTasks     int
}

func (s studyStats) completionRate() float64 {
	if s.totalTasks == 0 {
		return 0
	}
	return float64(s.completedTasks) / float64(s.totalTasks)
}

func newAnalyticsModel(s *store.Store) analyticsModel {
	return analyticsModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (a *analyticsModel) setSize(w, h int) {
	a.width = w
	a.height = h
}

type analyticsDataMsg struct {
	byWeekday []store.StudyTotal
	bySubject []store.StudyTotal
	stats     studyStats
}

func (a analyticsModel) dateRange() (time.Time, time.Time) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if a.mode == analyticsAllTime {
		return time.Unix(0, 0).UTC(), today.AddDate(0, 0, 1)
	}
	weekday := today.Weekday()
	if weekday == time.Sunday {
		weekday = 7
	}
	startOfWeek := today.AddDate(0, 0, -int(weekday-time.Monday))
	startOfWeek = startOfWeek.AddDate(0, 0, -7*a.offset)
	return startOfWeek, startOfWeek.AddDate(0, 0, 7)
}

func (a analyticsModel) refresh() tea.Cmd {
	from, to := a.dateRange()
	return func() tea.Msg {
		byWeekday, err := a.store.GetStudyByWeekday(from, to)
		if err != nil {
			return errStatus("Load analytics", err)
		}
		bySubject, err := a.store.GetStudyBySubject(from, to)
		if err != nil {
			return errStatus("Load analytics", err)
		}
		sessions, err := a.store.ListSessions(0)
		if err != nil {
			return errStatus("Load analytics", err)
		}
		tasks, err := a.store.ListTasks()
		if err != nil {
			return errStatus("Load analytics", err)
		}
		return analyticsDataMsg{
			byWeekday: byWeekday,
			bySubject: bySubject,
			stats:     computeStats(sessions, tasks, from, to),
		}
	}
}

func computeStats(sessions []store.StudySession, tasks []store.Task, from, to time.Time) studyStats {
	var st studyStats
	var focusSum int
	for _, s := range sessions {
		if s.StartedAt.Before(from) || !s.StartedAt.Before(to) {
			continue
		}
		st.sessions++
		st.totalMinutes += int64(s.Duration)
		focusSum += s.FocusScore
		if s.Type == store.SessionPomodoro {
			st.pomodoros++
		}
	}
	if st.sessions > 0 {
		st.avgFocus = float64(focusSum) / float64(st.sessions)
	}
	st.totalTasks = len(tasks)
	for _, t := range tasks {
		if t.Completed() {
			st.completedTasks++
		}
	}
	return st
}

func (a analyticsModel) update(msg tea.Msg) (analyticsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case analyticsDataMsg:
		a.byWeekday = msg.byWeekday
		a.bySubject = msg.bySubject
		a.stats = msg.stats
		a.buildChart()
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			if a.mode == analyticsWeekly {
				a.offset++
				return a, a.refresh()
			}
		case key.Matches(msg, keys.Right):
			if a.mode == analyticsWeekly && a.offset > 0 {
				a.offset--
				return a, a.refresh()
			}
		case key.Matches(msg, keys.Mode):
			if a.mode == analyticsWeekly {
				a.mode = analyticsAllTime
			} else {
				a.mode = analyticsWeekly
			}
			a.offset = 0
			return a, a.refresh()
		}
	}
	return a, nil
}

func (a *analyticsModel) buildChart() {
	chartWidth := a.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if a.height > 36 {
		chartHeight = 14
	}

	a.chart = barchart.New(chartWidth, chartHeight)

	minutes := make(map[string]int64, len(a.byWeekday))
	for _, t := range a.byWeekday {
		minutes[t.Label] = t.Minutes
	}

	var bars []barchart.BarData
	for i, d := range weekdayOrder {
		bars = append(bars, barchart.BarData{
			Label: d.name,
			Values: []barchart.BarValue{{
				Name:  d.name,
				Value: float64(minutes[d.label]) / 60.0,
				Style: lipgloss.NewStyle().Foreground(subjectColor(i)),
			}},
		})
	}

	a.chart.PushAll(bars)
	a.chart.Draw()
}

func (a analyticsModel) view() string {
	w := a.width - 4

	weeklyTab := inactiveTabStyle.Render("Weekly")
	allTab := inactiveTabStyle.Render("All time")
	if a.mode == analyticsWeekly {
		weeklyTab = activeTabStyle.Render("Weekly")
	} else {
		allTab = activeTabStyle.Render("All time")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, weeklyTab, allTab)

	rangeLabel := "All recorded study"
	if a.mode == analyticsWeekly {
		from, to := a.dateRange()
		rangeLabel = fmt.Sprintf("%s to %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006"))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Analytics"), "  ", modeTabs, "  ", mutedStyle.Render(rangeLabel),
	)

	nav := mutedStyle.Render("  ←/→: change week  m: weekly/all time")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "",
			a.renderStats(),
			"",
			mutedStyle.Render("  Hours by weekday"),
			a.chart.View(), "",
			a.renderSubjects(w), "",
			nav,
		),
	)
}

func (a analyticsModel) renderStats() string {
	st := a.stats
	cells := []string{
		fmt.Sprintf("%s studied", highlightStyle.Render(formatHours(st.totalMinutes))),
		fmt.Sprintf("%s sessions", highlightStyle.Render(fmt.Sprint(st.sessions))),
		fmt.Sprintf("%s pomodoros", highlightStyle.Render(fmt.Sprint(st.pomodoros))),
		fmt.Sprintf("avg focus %s", highlightStyle.Render(fmt.Sprintf("%.1f", st.avgFocus))),
		fmt.Sprintf("tasks done %s", highlightStyle.Render(fmt.Sprintf("%d/%d (%.0f%%)",
			st.completedTasks, st.totalTasks, st.completionRate()*100))),
	}
	return "  " + strings.Join(cells, "   ")
}

func (a analyticsModel) renderSubjects(w int) string {
	if len(a.bySubject) == 0 {
		return mutedStyle.Render("  No study sessions in this period")
	}

	var total int64
	for _, s := range a.bySubject {
		total += s.Minutes
	}
	barWidth := max(10, min(w-50, 40))

	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-20s %10s %8s", "Subject", "Time", "Sessions")),
		mutedStyle.Render("  " + strings.Repeat("─", min(w-6, 40+barWidth))),
	}
	for i, s := range a.bySubject {
		label := s.Label
		if label == "" {
			label = "(none)"
		}
		filled := 0
		if total > 0 {
			filled = int(float64(barWidth) * float64(s.Minutes) / float64(total))
		}
		bar := lipgloss.NewStyle().Foreground(subjectColor(i)).Render(strings.Repeat("█", filled))
		rows = append(rows, fmt.Sprintf("  %-20s %10s %8d  %s",
			truncate(label, 20), formatMinutes(s.Minutes), s.Sessions, bar))
	}
	return strings.Join(rows, "\n")
}

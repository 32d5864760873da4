package tui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studymate/internal/export"
	"github.com/sadopc/studymate/internal/mentor"
	"github.com/sadopc/studymate/internal/progress"
	"github.com/sadopc/studymate/internal/store"
)

//go:generate mockgen -destination=mock_generator_test.go -package=tui github.com/sadopc/studymate/internal/mentor Generator

type exportFormat int

const (
	exportSessionsCSV exportFormat = iota
	exportTasksCSV
	exportJSON
	exportPDF
)

var exportFormats = []string{"CSV (sessions)", "CSV (tasks)", "JSON (everything)", "PDF progress report"}

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	logger *slog.Logger
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string

	dashboard    dashboardModel
	planner      plannerModel
	pomodoro     pomodoroModel
	notes        notesModel
	analytics    analyticsModel
	achievements achievementsModel
	mentor       mentorModel
	settings     settingsModel

	help      help.Model
	status    string
	statusErr bool
}

// NewApp builds the root model. gen may be nil, which disables AI features.
func NewApp(s *store.Store, gen mentor.Generator, logger *slog.Logger) App {
	h := help.New()
	h.ShowAll = false
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	theme, _ := s.GetSetting("theme")
	applyTheme(theme)

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return App{
		store:        s,
		logger:       logger,
		activeView:   viewDashboard,
		exportDir:    home,
		dashboard:    newDashboardModel(s),
		planner:      newPlannerModel(s),
		pomodoro:     newPomodoroModel(s),
		notes:        newNotesModel(s, gen),
		analytics:    newAnalyticsModel(s),
		achievements: newAchievementsModel(s),
		mentor:       newMentorModel(gen),
		settings:     newSettingsModel(s),
		help:         h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		a.achievements.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.planner.setSize(a.width, contentHeight)
		a.pomodoro.setSize(a.width, contentHeight)
		a.notes.setSize(a.width, contentHeight)
		a.analytics.setSize(a.width, contentHeight)
		a.achievements.setSize(a.width, contentHeight)
		a.mentor.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewDashboard)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewPlanner)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewTimer)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewNotes)
		case key.Matches(msg, keys.Tab5):
			return a.switchView(viewAnalytics)
		case key.Matches(msg, keys.Tab6):
			return a.switchView(viewAchievements)
		case key.Matches(msg, keys.Tab7):
			return a.switchView(viewMentor)
		case key.Matches(msg, keys.Tab8):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		// Both clocks keep running whichever view is shown.
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		cmds = append(cmds, cmd)
		a.pomodoro, cmd = a.pomodoro.update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		if msg.isError {
			a.logger.Error(msg.text, "view", viewNames[a.activeView])
		}
		return a, nil

	case sessionLoggedMsg:
		if s := msg.session; s != nil {
			a.status = fmt.Sprintf("Logged %d min of %s (+%d XP)", s.Duration, s.Subject, progress.SessionExperience(s.Duration))
			a.statusErr = false
			a.logger.Info("session logged",
				"id", s.ID, "type", s.Type, "subject", s.Subject, "minutes", s.Duration, "focus", s.FocusScore)
		}
		return a, a.refreshProgress()

	case taskToggledMsg:
		if t := msg.task; t != nil {
			a.status = fmt.Sprintf("%q is now %s", t.Title, t.Status)
			if t.Completed() {
				a.status += fmt.Sprintf(" (+%d XP)", progress.CompletionExperience())
			}
			a.statusErr = false
			a.logger.Info("task status changed", "id", t.ID, "status", t.Status)
		}
		return a, tea.Batch(a.planner.refresh(), a.refreshProgress())

	case taskDeletedMsg:
		a.status = fmt.Sprintf("Deleted %q", msg.task.Title)
		a.statusErr = false
		a.logger.Info("task deleted", "id", msg.task.ID, "status", msg.task.Status)
		return a, a.refreshProgress()

	case dataClearedMsg:
		a.status = "All study data cleared"
		a.statusErr = false
		a.logger.Warn("study data cleared")
		return a, tea.Batch(a.refreshProgress(), a.planner.refresh(), a.notes.refresh(), a.analytics.refresh())

	case settingsSavedMsg:
		a.status = "Settings saved"
		a.statusErr = false
		if theme, err := a.store.GetSetting("theme"); err == nil {
			applyTheme(theme)
		}
		if !a.pomodoro.active() {
			a.pomodoro.loadSettings()
		}
		return a, a.dashboard.loadData()

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		a.logger.Info("export written", "path", msg.path)
		return a, nil

	// Async results go to their owner even if another view is showing.
	case dashboardDataMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd
	case achievementsDataMsg:
		var cmd tea.Cmd
		a.achievements, cmd = a.achievements.update(msg)
		return a, cmd
	case tasksDataMsg:
		var cmd tea.Cmd
		a.planner, cmd = a.planner.update(msg)
		return a, cmd
	case notesDataMsg, noteSummarizedMsg:
		var cmd tea.Cmd
		a.notes, cmd = a.notes.update(msg)
		return a, cmd
	case analyticsDataMsg:
		var cmd tea.Cmd
		a.analytics, cmd = a.analytics.update(msg)
		return a, cmd
	case mentorResultMsg:
		var cmd tea.Cmd
		a.mentor, cmd = a.mentor.update(msg)
		return a, cmd
	case settingsDataMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

// refreshProgress reloads every view derived from the session and task
// history.
func (a App) refreshProgress() tea.Cmd {
	cmds := []tea.Cmd{a.dashboard.loadData(), a.achievements.refresh()}
	if a.activeView == viewAnalytics {
		cmds = append(cmds, a.analytics.refresh())
	}
	return tea.Batch(cmds...)
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewPlanner:
		a.planner, cmd = a.planner.update(msg)
	case viewTimer:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewNotes:
		a.notes, cmd = a.notes.update(msg)
	case viewAnalytics:
		a.analytics, cmd = a.analytics.update(msg)
	case viewAchievements:
		a.achievements, cmd = a.achievements.update(msg)
	case viewMentor:
		a.mentor, cmd = a.mentor.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewPlanner:
		return a.planner.formActive
	case viewTimer:
		return a.pomodoro.formActive
	case viewNotes:
		return a.notes.capturing()
	case viewMentor:
		return a.mentor.typing
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewPlanner:
		return a.planner.refresh()
	case viewNotes:
		return a.notes.refresh()
	case viewAnalytics:
		return a.analytics.refresh()
	case viewAchievements:
		return a.achievements.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewPlanner:
		content = a.planner.view()
	case viewTimer:
		content = a.pomodoro.view()
	case viewNotes:
		content = a.notes.view()
	case viewAnalytics:
		content = a.analytics.view()
	case viewAchievements:
		content = a.achievements.view()
	case viewMentor:
		content = a.mentor.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("studymate")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	timerInfo := ""
	if a.dashboard.isRunning() {
		elapsed := a.dashboard.elapsed()
		timerInfo = successStyle.Render(" ● " + formatDuration(elapsed))
		if a.dashboard.isPaused() {
			timerInfo = warningStyle.Render(" ⏸ " + formatDuration(elapsed))
		}
	}
	if a.pomodoro.active() {
		timerInfo += accentStyle.Render(fmt.Sprintf(" 🍅 %s %s",
			phaseNames[a.pomodoro.phase], formatPomodoroTime(a.pomodoro.remaining)))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render("  to "+a.exportDir))
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormat(a.exportCursor))
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format exportFormat) tea.Cmd {
	dir := a.exportDir
	return func() tea.Msg {
		tasks, err := a.store.ListTasks()
		if err != nil {
			return errStatus("Export error", err)
		}
		sessions, err := a.store.ListSessions(0)
		if err != nil {
			return errStatus("Export error", err)
		}

		dateStr := time.Now().Format("2006-01-02")
		name := func(kind, ext string) string {
			return filepath.Join(dir, fmt.Sprintf("studymate-%s-%s.%s", kind, dateStr, ext))
		}

		var path string
		switch format {
		case exportSessionsCSV:
			path = name("sessions", "csv")
			err = export.SessionsToCSV(sessions, path)
		case exportTasksCSV:
			path = name("tasks", "csv")
			err = export.TasksToCSV(tasks, path)
		case exportJSON:
			path = name("export", "json")
			err = export.ToJSON(tasks, sessions, path)
		case exportPDF:
			path = name("report", "pdf")
			err = export.ProgressReportPDF(tasks, sessions, path)
		default:
			return statusMsg{text: "Unknown export format", isError: true}
		}
		if err != nil {
			return errStatus("Export error", err)
		}
		return exportDoneMsg{path: path}
	}
}

package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studymate/internal/store"
)

type settingsForm int

const (
	settingsFormEdit settingsForm = iota
	settingsFormClear
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form
	formKind   settingsForm

	// Form values as pointers (survive value copies)
	pomodoroWork      *string
	pomodoroBreak     *string
	pomodoroLongBreak *string
	pomodoroCount     *string
	defaultSubject    *string
	dailyGoal         *string
	theme             *string
	confirmClear      *bool
}

func newSettingsModel(s *store.Store) settingsModel {
	pw, pb, plb, pc := "", "", "", ""
	ds, dg, th := "", "", ""
	confirm := false
	return settingsModel{
		store:             s,
		pomodoroWork:      &pw,
		pomodoroBreak:     &pb,
		pomodoroLongBreak: &plb,
		pomodoroCount:     &pc,
		defaultSubject:    &ds,
		dailyGoal:         &dg,
		theme:             &th,
		confirmClear:      &confirm,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

type settingsSavedMsg struct{}

type dataClearedMsg struct{}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, err := s.store.GetAllSettings()
		if err != nil {
			return errStatus("Load settings", err)
		}
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		case key.Matches(msg, keys.Clear):
			return s.showClearForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.pomodoroWork = secsToMin(s.getVal("pomodoro_work", "1500"))
	*s.pomodoroBreak = secsToMin(s.getVal("pomodoro_break", "300"))
	*s.pomodoroLongBreak = secsToMin(s.getVal("pomodoro_long_break", "900"))
	*s.pomodoroCount = s.getVal("pomodoro_count", "4")
	*s.defaultSubject = s.getVal("default_subject", "Focus Session")
	*s.dailyGoal = minToHours(s.getVal("daily_goal", "120"))
	*s.theme = s.getVal("theme", "dark")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Pomodoro work (min)").Value(s.pomodoroWork).Validate(positiveInt),
			huh.NewInput().Title("Short break (min)").Value(s.pomodoroBreak).Validate(positiveInt),
			huh.NewInput().Title("Long break (min)").Value(s.pomodoroLongBreak).Validate(positiveInt),
			huh.NewInput().Title("Pomodoros before long break").Value(s.pomodoroCount).Validate(positiveInt),
		).Title("Pomodoro"),
		huh.NewGroup(
			huh.NewInput().Title("Default subject").Value(s.defaultSubject).Validate(requireText("subject")),
			huh.NewInput().Title("Daily goal (hours)").Value(s.dailyGoal).Validate(positiveFloat),
			huh.NewSelect[string]().Title("Theme").
				Options(
					huh.NewOption("Dark", "dark"),
					huh.NewOption("Light", "light"),
				).Value(s.theme),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formKind = settingsFormEdit
	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) showClearForm() (settingsModel, tea.Cmd) {
	*s.confirmClear = false
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Clear all study data?").
				Description("Deletes every task, note and study session. Settings are kept.").
				Affirmative("Clear").
				Negative("Cancel").
				Value(s.confirmClear),
		),
	).WithShowHelp(true)

	s.formKind = settingsFormClear
	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) clearData() tea.Cmd {
	return func() tea.Msg {
		if err := s.store.ClearStudyData(); err != nil {
			return errStatus("Clear data", err)
		}
		return dataClearedMsg{}
	}
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if s.formKind == settingsFormClear {
			if !*s.confirmClear {
				return s, nil
			}
			return s, s.clearData()
		}
		if err := s.saveSettings(); err != nil {
			return s, func() tea.Msg { return errStatus("Save settings", err) }
		}
		return s, tea.Batch(s.refresh(), func() tea.Msg { return settingsSavedMsg{} })
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	values := []store.Setting{
		{Key: "pomodoro_work", Value: minToSecs(*s.pomodoroWork)},
		{Key: "pomodoro_break", Value: minToSecs(*s.pomodoroBreak)},
		{Key: "pomodoro_long_break", Value: minToSecs(*s.pomodoroLongBreak)},
		{Key: "pomodoro_count", Value: strings.TrimSpace(*s.pomodoroCount)},
		{Key: "default_subject", Value: strings.TrimSpace(*s.defaultSubject)},
		{Key: "daily_goal", Value: hoursToMin(*s.dailyGoal)},
		{Key: "theme", Value: *s.theme},
	}
	for _, v := range values {
		if err := s.store.SetSetting(v.Key, v.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("enter: edit settings  c: clear all study data")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "pomodoro_work", "pomodoro_break", "pomodoro_long_break":
		if secs, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d min", secs/60)
		}
	case "daily_goal":
		if mins, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%.1f hours", float64(mins)/60)
		}
	}
	return v
}

func secsToMin(s string) string {
	if secs, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(secs / 60)
	}
	return s
}

func minToSecs(s string) string {
	if mins, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return strconv.Itoa(mins * 60)
	}
	return s
}

func minToHours(s string) string {
	if mins, err := strconv.Atoi(s); err == nil {
		return strconv.FormatFloat(float64(mins)/60, 'f', 1, 64)
	}
	return s
}

func hoursToMin(s string) string {
	if hours, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return strconv.Itoa(int(hours * 60))
	}
	return s
}

func positiveFloat(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

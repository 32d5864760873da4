package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studymate/internal/store"
)

type pomodoroPhase int

const (
	pomodoroIdle pomodoroPhase = iota
	pomodoroWork
	pomodoroShortBreak
	pomodoroLongBreak
)

var phaseNames = map[pomodoroPhase]string{
	pomodoroIdle:       "IDLE",
	pomodoroWork:       "WORK",
	pomodoroShortBreak: "SHORT BREAK",
	pomodoroLongBreak:  "LONG BREAK",
}

// pomodoroFocusScore is recorded for every completed work block.
const pomodoroFocusScore = 9

type pomodoroForm int

const (
	pomodoroFormSubject pomodoroForm = iota
	pomodoroFormManual
)

type pomodoroModel struct {
	store  *store.Store
	width  int
	height int

	phase          pomodoroPhase
	completedCount int
	cycleLength    int
	subject        string

	// Countdown state
	remaining time.Duration
	phaseEnd  time.Time

	// Durations from settings
	workDuration      time.Duration
	breakDuration     time.Duration
	longBreakDuration time.Duration

	formActive bool
	form       *huh.Form
	formKind   pomodoroForm

	// Form field pointers (survive value copies)
	formSubject *string
	formMinutes *string
	formFocus   *string
}

func newPomodoroModel(s *store.Store) pomodoroModel {
	subject, minutes, focus := "", "", ""
	m := pomodoroModel{
		store:       s,
		phase:       pomodoroIdle,
		cycleLength: 4,
		formSubject: &subject,
		formMinutes: &minutes,
		formFocus:   &focus,
	}
	m.loadSettings()
	m.subject = m.defaultSubject()
	return m
}

func (p *pomodoroModel) loadSettings() {
	p.workDuration = p.getSettingDuration("pomodoro_work", 25*time.Minute)
	p.breakDuration = p.getSettingDuration("pomodoro_break", 5*time.Minute)
	p.longBreakDuration = p.getSettingDuration("pomodoro_long_break", 15*time.Minute)
	if n := p.store.GetIntSetting("pomodoro_count", 4); n > 0 {
		p.cycleLength = n
	}
}

func (p *pomodoroModel) getSettingDuration(key string, fallback time.Duration) time.Duration {
	if secs := p.store.GetIntSetting(key, 0); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func (p pomodoroModel) defaultSubject() string {
	v, err := p.store.GetSetting("default_subject")
	if err != nil || strings.TrimSpace(v) == "" {
		return "Focus Session"
	}
	return v
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p pomodoroModel) active() bool {
	return p.phase != pomodoroIdle
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tickMsg:
		if p.active() {
			p.remaining = time.Until(p.phaseEnd)
			if p.remaining <= 0 {
				return p.advancePhase()
			}
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if !p.active() {
				p.completedCount = 0
				p.loadSettings()
				return p.startWorkPhase()
			}
		case key.Matches(msg, keys.Stop):
			if p.active() {
				return p.cancel()
			}
		case key.Matches(msg, keys.Pause):
			// Skip break
			if p.phase == pomodoroShortBreak || p.phase == pomodoroLongBreak {
				return p.startWorkPhase()
			}
		case key.Matches(msg, keys.Subject):
			return p.showSubjectForm()
		case key.Matches(msg, keys.LogManual):
			return p.showManualForm()
		}
	}
	return p, nil
}

func (p pomodoroModel) startWorkPhase() (pomodoroModel, tea.Cmd) {
	p.phase = pomodoroWork
	p.remaining = p.workDuration
	p.phaseEnd = time.Now().Add(p.workDuration)
	return p, nil
}

func (p pomodoroModel) startBreak(d time.Duration, phase pomodoroPhase) pomodoroModel {
	p.phase = phase
	p.remaining = d
	p.phaseEnd = time.Now().Add(d)
	return p
}

// advancePhase moves to the next phase. A finished work block is logged as
// a Pomodoro session and every cycleLength-th block earns a long break.
func (p pomodoroModel) advancePhase() (pomodoroModel, tea.Cmd) {
	switch p.phase {
	case pomodoroWork:
		p.completedCount++
		session, err := p.store.AddSession(store.StudySession{
			StartedAt:  p.phaseEnd.Add(-p.workDuration),
			Duration:   max(1, int(p.workDuration/time.Minute)),
			Subject:    p.subject,
			FocusScore: pomodoroFocusScore,
			Type:       store.SessionPomodoro,
		})

		if p.completedCount%p.cycleLength == 0 {
			p = p.startBreak(p.longBreakDuration, pomodoroLongBreak)
		} else {
			p = p.startBreak(p.breakDuration, pomodoroShortBreak)
		}

		if err != nil {
			return p, func() tea.Msg { return errStatus("Log pomodoro", err) }
		}
		return p, func() tea.Msg { return sessionLoggedMsg{session: session} }

	case pomodoroShortBreak, pomodoroLongBreak:
		p, _ = p.startWorkPhase()
		return p, func() tea.Msg { return statusMsg{text: "Break over, back to work! \a"} }
	}
	return p, nil
}

func (p pomodoroModel) cancel() (pomodoroModel, tea.Cmd) {
	p.phase = pomodoroIdle
	p.remaining = 0
	return p, func() tea.Msg {
		return statusMsg{text: "Pomodoro cancelled"}
	}
}

func (p pomodoroModel) showSubjectForm() (pomodoroModel, tea.Cmd) {
	*p.formSubject = p.subject
	p.formKind = pomodoroFormSubject
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Studying").Value(p.formSubject).Validate(requireText("subject")),
		).Title("Focus Subject"),
	).WithShowHelp(true).WithShowErrors(true)
	p.formActive = true
	return p, p.form.Init()
}

func (p pomodoroModel) showManualForm() (pomodoroModel, tea.Cmd) {
	*p.formSubject = p.subject
	*p.formMinutes = "30"
	*p.formFocus = "7"
	p.formKind = pomodoroFormManual
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Subject").Value(p.formSubject).Validate(requireText("subject")),
			huh.NewInput().Title("Minutes studied").Value(p.formMinutes).Validate(positiveInt),
			huh.NewInput().Title("Focus score (1-10)").Value(p.formFocus).Validate(focusScore),
		).Title("Log Study Session"),
	).WithShowHelp(true).WithShowErrors(true)
	p.formActive = true
	return p, p.form.Init()
}

func (p pomodoroModel) updateForm(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		switch p.formKind {
		case pomodoroFormSubject:
			p.subject = strings.TrimSpace(*p.formSubject)
			return p, nil
		case pomodoroFormManual:
			return p, p.logManual()
		}
	}

	return p, cmd
}

func (p pomodoroModel) logManual() tea.Cmd {
	mins, _ := strconv.Atoi(strings.TrimSpace(*p.formMinutes))
	focus, _ := strconv.Atoi(strings.TrimSpace(*p.formFocus))
	subject := *p.formSubject
	return func() tea.Msg {
		session, err := p.store.AddSession(store.StudySession{
			StartedAt:  time.Now().Add(-time.Duration(mins) * time.Minute),
			Duration:   mins,
			Subject:    subject,
			FocusScore: focus,
			Type:       store.SessionManual,
		})
		if err != nil {
			return errStatus("Log session", err)
		}
		return sessionLoggedMsg{session: session}
	}
}

func (p pomodoroModel) view() string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		return activePanelStyle.Width(w).Render(p.form.View())
	}

	title := titleStyle.Render("Pomodoro Timer")
	subject := highlightStyle.Render(p.subject)

	var timeDisplay string
	var phaseLabel string
	indicator := p.renderProgress()

	switch p.phase {
	case pomodoroIdle:
		timeDisplay = timerStyle.Width(w - 6).Render(formatPomodoroTime(p.workDuration))
		phaseLabel = mutedStyle.Render("Ready to start")
		indicator = mutedStyle.Render("Press s to begin")
	case pomodoroWork:
		timeDisplay = accentStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatPomodoroTime(p.remaining))
		phaseLabel = accentStyle.Bold(true).Render(phaseNames[p.phase])
	case pomodoroShortBreak:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatPomodoroTime(p.remaining))
		phaseLabel = successStyle.Bold(true).Render(phaseNames[p.phase])
	case pomodoroLongBreak:
		timeDisplay = highlightStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatPomodoroTime(p.remaining))
		phaseLabel = highlightStyle.Bold(true).Render(phaseNames[p.phase])
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		subject,
		"",
		timeDisplay,
		phaseLabel,
		"",
		indicator,
	)

	var controls string
	switch p.phase {
	case pomodoroIdle:
		controls = mutedStyle.Render("s: start  u: subject  m: log manual session")
	case pomodoroWork:
		controls = mutedStyle.Render("x: cancel  u: subject")
	case pomodoroShortBreak, pomodoroLongBreak:
		controls = mutedStyle.Render("space: skip break  x: cancel")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

// renderProgress shows the position within the current long-break cycle.
func (p pomodoroModel) renderProgress() string {
	inCycle := p.completedCount % p.cycleLength
	if inCycle == 0 && p.completedCount > 0 && p.phase != pomodoroWork {
		inCycle = p.cycleLength
	}
	var parts []string
	for i := 0; i < p.cycleLength; i++ {
		if i < inCycle {
			parts = append(parts, successStyle.Render("●"))
		} else if i == inCycle && p.phase == pomodoroWork {
			parts = append(parts, accentStyle.Render("◐"))
		} else {
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  %d completed", p.completedCount))
	return strings.Join(parts, " ") + counter
}

func focusScore(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 10 {
		return fmt.Errorf("focus score must be 1-10")
	}
	return nil
}

func formatPomodoroTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

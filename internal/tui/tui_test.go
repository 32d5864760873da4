package tui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/golang/mock/gomock"
	"github.com/sadopc/studymate/internal/mentor"
	"github.com/sadopc/studymate/internal/progress"
	"github.com/sadopc/studymate/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestApp(t *testing.T, s *store.Store, gen mentor.Generator) App {
	t.Helper()
	app := NewApp(s, gen, slog.New(slog.NewTextHandler(io.Discard, nil)))
	app.exportDir = t.TempDir()
	app.width = 120
	app.height = 40
	return app
}

// collect runs cmd and flattens any batches into their messages. Never pass
// it a command that includes a tick.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	spaceKey = tea.KeyMsg{Type: tea.KeySpace}
)

func mustTask(t *testing.T, s *store.Store, title string, estimate int) *store.Task {
	t.Helper()
	task, err := s.CreateTask(store.TaskInput{
		Title:            title,
		Subject:          "Math",
		Priority:         store.PriorityHigh,
		EstimatedMinutes: estimate,
		Deadline:         time.Now().UTC().AddDate(0, 0, 3),
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func mustSession(t *testing.T, s *store.Store, mins int, subject string, typ store.SessionType) {
	t.Helper()
	if _, err := s.AddSession(store.StudySession{Duration: mins, Subject: subject, FocusScore: 8, Type: typ}); err != nil {
		t.Fatalf("add session: %v", err)
	}
}

// ============================================================
// Timer model
// ============================================================

func TestTimerStartStopUnderAMinute(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s)
	if tm.running() {
		t.Fatal("timer should start stopped")
	}

	tm.start("Biology")
	if !tm.running() || tm.paused() {
		t.Fatal("timer should be running after start")
	}
	if tm.subject != "Biology" {
		t.Fatalf("subject = %q", tm.subject)
	}

	session, err := tm.stop()
	if err != nil {
		t.Fatal(err)
	}
	if session != nil {
		t.Fatal("a run under a minute should not be logged")
	}
	if tm.running() {
		t.Fatal("timer should be stopped")
	}
	if all, _ := s.ListSessions(0); len(all) != 0 {
		t.Fatalf("expected no sessions, got %d", len(all))
	}
}

func TestTimerStopLogsManualSession(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s)
	tm.start("Biology")
	tm.startTime = time.Now().Add(-30*time.Minute - 10*time.Second)

	session, err := tm.stop()
	if err != nil {
		t.Fatal(err)
	}
	if session == nil {
		t.Fatal("stop should return the logged session")
	}
	if session.Duration != 30 || session.Type != store.SessionManual || session.Subject != "Biology" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.FocusScore != manualFocusScore {
		t.Fatalf("focus = %d, want %d", session.FocusScore, manualFocusScore)
	}
}

func TestTimerIdleLowersFocus(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s)
	tm.start("Biology")
	tm.startTime = time.Now().Add(-20 * time.Minute)
	tm.wentIdle = true

	session, err := tm.stop()
	if err != nil {
		t.Fatal(err)
	}
	if session.FocusScore != manualFocusScore-idleFocusPenalty {
		t.Fatalf("focus = %d", session.FocusScore)
	}
}

func TestTimerStopWhenStopped(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s)

	session, err := tm.stop()
	if err != nil {
		t.Fatal(err)
	}
	if session != nil {
		t.Fatal("stop on stopped timer should return nil")
	}
}

func TestTimerPauseResume(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s)
	tm.start("Dev")

	tm.pause()
	if !tm.paused() {
		t.Fatal("timer should be paused")
	}
	if !tm.running() {
		t.Fatal("paused timer is still 'running' (not stopped)")
	}

	tm.resume()
	if tm.paused() || !tm.running() {
		t.Fatal("timer should be running after resume")
	}
}

func TestTimerPauseWhenNotRunning(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s)

	tm.pause()
	if tm.paused() {
		t.Fatal("should not be paused when stopped")
	}
}

func TestTimerToggle(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s)
	tm.start("Dev")

	tm.toggle()
	if !tm.paused() {
		t.Fatal("toggle should pause")
	}
	tm.toggle()
	if tm.paused() {
		t.Fatal("toggle should resume")
	}
}

func TestTimerElapsedWhilePaused(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s)
	tm.start("Dev")

	time.Sleep(20 * time.Millisecond)
	tm.pause()
	frozen := tm.currentElapsed()
	time.Sleep(20 * time.Millisecond)
	if diff := tm.currentElapsed() - frozen; diff > 5*time.Millisecond {
		t.Fatalf("elapsed advanced by %v while paused", diff)
	}
}

func TestTimerTick(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s)
	tm.start("Dev")

	time.Sleep(20 * time.Millisecond)
	tm.tick()
	if tm.elapsed < 10*time.Millisecond {
		t.Fatal("tick should update elapsed")
	}
}

func TestTimerTickWhenStopped(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s)

	tm.tick()
	if tm.elapsed != 0 {
		t.Fatal("tick on stopped timer should not change elapsed")
	}
}

func TestTimerIdleDetection(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s)
	tm.idleTimeout = 50 * time.Millisecond
	tm.start("Dev")

	time.Sleep(100 * time.Millisecond)
	tm.tick()

	if !tm.isIdle || !tm.wentIdle {
		t.Fatal("timer should detect idle")
	}
	if !tm.paused() {
		t.Fatal("timer should auto-pause on idle")
	}

	tm.recordActivity()
	if tm.isIdle || tm.paused() {
		t.Fatal("activity should resume an idle timer")
	}
	if !tm.wentIdle {
		t.Fatal("wentIdle should stick for the rest of the run")
	}
}

// ============================================================
// Helper functions
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{time.Second, "00:00:01"},
		{time.Hour + time.Minute + time.Second, "01:01:01"},
		{25 * time.Hour, "25:00:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		mins int64
		want string
	}{
		{0, "0h 00m"},
		{25, "0h 25m"},
		{125, "2h 05m"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.mins); got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.mins, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		mins int64
		want string
	}{
		{0, "0.0h"},
		{60, "1.0h"},
		{90, "1.5h"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.mins); got != tt.want {
			t.Errorf("formatHours(%d) = %q, want %q", tt.mins, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"too long text", 5, "too …"},
		{"abc", 1, "…"},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestValidators(t *testing.T) {
	if positiveInt("30") != nil || positiveInt("0") == nil || positiveInt("x") == nil {
		t.Fatal("positiveInt misbehaves")
	}
	if nonNegativeInt("0") != nil || nonNegativeInt("-1") == nil {
		t.Fatal("nonNegativeInt misbehaves")
	}
	if validDate("2026-03-01") != nil || validDate("03/01/2026") == nil {
		t.Fatal("validDate misbehaves")
	}
	if requireText("title")("  ") == nil || requireText("title")("ok") != nil {
		t.Fatal("requireText misbehaves")
	}
	if focusScore("10") != nil || focusScore("11") == nil || focusScore("0") == nil {
		t.Fatal("focusScore misbehaves")
	}
	if positiveFloat("1.5") != nil || positiveFloat("0") == nil {
		t.Fatal("positiveFloat misbehaves")
	}
}

// ============================================================
// View state
// ============================================================

func TestViewNames(t *testing.T) {
	expected := []string{"Dashboard", "Planner", "Timer", "Notes", "Analytics", "Achievements", "Mentor", "Settings"}
	if len(viewNames) != len(expected) {
		t.Fatalf("expected %d view names, got %d", len(expected), len(viewNames))
	}
	for i, name := range expected {
		if viewNames[i] != name {
			t.Fatalf("viewNames[%d] = %q, want %q", i, viewNames[i], name)
		}
	}
	if viewSettings != viewState(len(viewNames)-1) {
		t.Fatal("view state constants out of order")
	}
}

// ============================================================
// Dashboard model
// ============================================================

func TestDashboardLoadData(t *testing.T) {
	s := newTestStore(t)
	done := mustTask(t, s, "Done", 30)
	s.SetTaskStatus(done.ID, store.StatusCompleted)
	mustTask(t, s, "Pending", 40)
	mustSession(t, s, 25, "Math", store.SessionPomodoro)

	d := newDashboardModel(s)
	msgs := collect(d.loadData())
	data, ok := msgs[0].(dashboardDataMsg)
	if !ok {
		t.Fatalf("expected dashboardDataMsg, got %T", msgs[0])
	}
	if data.snapshot.TotalExperience != 350 {
		t.Fatalf("xp = %d, want 350", data.snapshot.TotalExperience)
	}
	if len(data.upcoming) != 1 || data.upcoming[0].Title != "Pending" {
		t.Fatalf("upcoming = %+v", data.upcoming)
	}
	if data.todayMinutes != 25 || data.dailyGoal != 120 {
		t.Fatalf("today = %d, goal = %d", data.todayMinutes, data.dailyGoal)
	}

	d, _ = d.update(data)
	d.setSize(120, 40)
	out := d.view()
	if !strings.Contains(out, "Level 1") || !strings.Contains(out, "+200 XP") {
		t.Fatalf("dashboard view missing level or reward:\n%s", out)
	}
}

func TestDashboardLoadDataError(t *testing.T) {
	s := newTestStore(t)
	d := newDashboardModel(s)
	s.Close()

	msgs := collect(d.loadData())
	st, ok := msgs[0].(statusMsg)
	if !ok || !st.isError {
		t.Fatalf("expected error status from a closed store, got %#v", msgs[0])
	}
}

func TestDashboardStartStopKeys(t *testing.T) {
	s := newTestStore(t)
	d := newDashboardModel(s)

	d, _ = d.update(runes("s"))
	if !d.isRunning() {
		t.Fatal("s should start the stopwatch")
	}
	if d.timer.subject != "Focus Session" {
		t.Fatalf("subject = %q, want default subject", d.timer.subject)
	}

	d, _ = d.update(spaceKey)
	if !d.isPaused() {
		t.Fatal("space should pause")
	}

	d, cmd := d.update(runes("x"))
	if d.isRunning() {
		t.Fatal("x should stop the stopwatch")
	}
	msgs := collect(cmd)
	if st, ok := msgs[0].(statusMsg); !ok || !strings.Contains(st.text, "discarded") {
		t.Fatalf("expected discard status, got %#v", msgs)
	}
}

func TestDashboardStopLogsSession(t *testing.T) {
	s := newTestStore(t)
	d := newDashboardModel(s)
	d.timer.start("Chemistry")
	d.timer.startTime = time.Now().Add(-45 * time.Minute)

	d, cmd := d.stopTimer()
	var logged *store.StudySession
	for _, msg := range collect(cmd) {
		if m, ok := msg.(sessionLoggedMsg); ok {
			logged = m.session
		}
	}
	if logged == nil || logged.Duration != 45 || logged.Subject != "Chemistry" {
		t.Fatalf("logged = %+v", logged)
	}
}

// ============================================================
// Planner model
// ============================================================

func TestPlannerCreateAndEdit(t *testing.T) {
	s := newTestStore(t)
	p := newPlannerModel(s)

	p, _ = p.showForm(nil)
	if !p.formActive {
		t.Fatal("form should be active")
	}
	*p.formTitle = "Essay draft"
	*p.formSubject = " English "
	*p.formPriority = store.PriorityLow
	*p.formEstimate = "45"
	*p.formDeadline = "2026-05-01"
	*p.formTags = "writing, draft"
	if err := p.save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	tasks, _ := s.ListTasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	task := tasks[0]
	if task.Subject != "English" || task.Priority != store.PriorityLow || task.EstimatedMinutes != 45 {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.Status != store.StatusPending || len(task.Tags) != 2 {
		t.Fatalf("unexpected status/tags: %+v", task)
	}

	p, _ = p.showForm(&task)
	if p.editingID != task.ID || *p.formTitle != "Essay draft" || *p.formDeadline != "2026-05-01" {
		t.Fatal("edit form should be prefilled")
	}
	*p.formActual = "50"
	if err := p.save(); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetTask(task.ID)
	if got.ActualMinutes != 50 {
		t.Fatalf("actual = %d", got.ActualMinutes)
	}
}

func TestPlannerFormEscCancels(t *testing.T) {
	s := newTestStore(t)
	p := newPlannerModel(s)
	p, _ = p.showForm(nil)

	p, _ = p.update(escKey)
	if p.formActive || p.form != nil {
		t.Fatal("esc should close the form")
	}
}

func TestPlannerToggleAndDelete(t *testing.T) {
	s := newTestStore(t)
	mustTask(t, s, "Read chapter", 30)

	p := newPlannerModel(s)
	p, _ = p.update(collect(p.refresh())[0])
	if len(p.tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(p.tasks))
	}

	_, cmd := p.update(spaceKey)
	msgs := collect(cmd)
	toggled, ok := msgs[0].(taskToggledMsg)
	if !ok || toggled.task.Status != store.StatusCompleted {
		t.Fatalf("expected completed task, got %#v", msgs[0])
	}

	msgs = collect(p.toggle(toggled.task.ID))
	if m := msgs[0].(taskToggledMsg); m.task.Status != store.StatusPending {
		t.Fatalf("second toggle should reopen, got %s", m.task.Status)
	}

	p, cmd = p.update(runes("d"))
	msgs = collect(cmd)
	p, _ = p.update(msgs[0])
	if len(p.tasks) != 0 {
		t.Fatal("task should be deleted")
	}
	if len(msgs) != 2 {
		t.Fatalf("expected refresh and delete notice, got %d msgs", len(msgs))
	}
	if del, ok := msgs[1].(taskDeletedMsg); !ok || del.task.Title != "Read chapter" {
		t.Fatalf("expected taskDeletedMsg, got %#v", msgs[1])
	}
}

func TestPlannerView(t *testing.T) {
	s := newTestStore(t)
	mustTask(t, s, "Lab report", 30)

	p := newPlannerModel(s)
	p.setSize(120, 40)
	p, _ = p.update(collect(p.refresh())[0])

	out := p.view()
	if !strings.Contains(out, "Lab report") || !strings.Contains(out, "+150 XP") {
		t.Fatalf("planner view missing task or reward:\n%s", out)
	}
}

// ============================================================
// Pomodoro model
// ============================================================

func TestPomodoroInit(t *testing.T) {
	s := newTestStore(t)
	pm := newPomodoroModel(s)

	if pm.phase != pomodoroIdle || pm.active() {
		t.Fatalf("expected idle phase, got %d", pm.phase)
	}
	if pm.workDuration != 25*time.Minute || pm.breakDuration != 5*time.Minute || pm.longBreakDuration != 15*time.Minute {
		t.Fatalf("unexpected durations: %v %v %v", pm.workDuration, pm.breakDuration, pm.longBreakDuration)
	}
	if pm.cycleLength != 4 {
		t.Fatalf("expected cycle of 4, got %d", pm.cycleLength)
	}
	if pm.subject != "Focus Session" {
		t.Fatalf("subject = %q", pm.subject)
	}
}

func TestPomodoroWorkBlockLogsSession(t *testing.T) {
	s := newTestStore(t)
	pm := newPomodoroModel(s)
	pm.subject = "Physics"

	pm, _ = pm.update(runes("s"))
	if pm.phase != pomodoroWork || pm.remaining <= 0 {
		t.Fatal("s should start a work phase")
	}

	pm, cmd := pm.advancePhase()
	if pm.phase != pomodoroShortBreak || pm.completedCount != 1 {
		t.Fatalf("after work: phase=%d count=%d", pm.phase, pm.completedCount)
	}
	msgs := collect(cmd)
	logged, ok := msgs[0].(sessionLoggedMsg)
	if !ok {
		t.Fatalf("expected sessionLoggedMsg, got %T", msgs[0])
	}
	if logged.session.Type != store.SessionPomodoro || logged.session.Duration != 25 ||
		logged.session.FocusScore != pomodoroFocusScore || logged.session.Subject != "Physics" {
		t.Fatalf("unexpected session: %+v", logged.session)
	}
}

func TestPomodoroLongBreakEveryCycle(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("pomodoro_count", "2")
	pm := newPomodoroModel(s)
	pm, _ = pm.startWorkPhase()

	pm, _ = pm.advancePhase() // -> short break
	if pm.phase != pomodoroShortBreak {
		t.Fatalf("expected short break, got %d", pm.phase)
	}
	pm, _ = pm.advancePhase() // -> work
	if pm.phase != pomodoroWork {
		t.Fatal("should go back to work after break")
	}
	pm, _ = pm.advancePhase() // -> long break
	if pm.phase != pomodoroLongBreak || pm.completedCount != 2 {
		t.Fatalf("expected long break after 2, got phase=%d count=%d", pm.phase, pm.completedCount)
	}
	pm, _ = pm.advancePhase() // -> work again, the cycle continues
	if pm.phase != pomodoroWork {
		t.Fatal("cycle should continue after a long break")
	}

	sessions, _ := s.ListSessions(0)
	if len(sessions) != 2 {
		t.Fatalf("expected 2 logged pomodoros, got %d", len(sessions))
	}
}

func TestPomodoroCancelLogsNothing(t *testing.T) {
	s := newTestStore(t)
	pm := newPomodoroModel(s)
	pm, _ = pm.startWorkPhase()

	pm, _ = pm.update(runes("x"))
	if pm.phase != pomodoroIdle {
		t.Fatal("should be idle after cancel")
	}
	if sessions, _ := s.ListSessions(0); len(sessions) != 0 {
		t.Fatal("a cancelled block should not be logged")
	}
}

func TestPomodoroSkipBreak(t *testing.T) {
	s := newTestStore(t)
	pm := newPomodoroModel(s)
	pm, _ = pm.startWorkPhase()
	pm, _ = pm.advancePhase()

	pm, _ = pm.update(spaceKey)
	if pm.phase != pomodoroWork {
		t.Fatal("space should skip the break")
	}
}

func TestPomodoroManualLog(t *testing.T) {
	s := newTestStore(t)
	pm := newPomodoroModel(s)

	pm, _ = pm.update(runes("m"))
	if !pm.formActive || pm.formKind != pomodoroFormManual {
		t.Fatal("m should open the manual log form")
	}
	*pm.formSubject = "History"
	*pm.formMinutes = "40"
	*pm.formFocus = "6"

	msgs := collect(pm.logManual())
	logged, ok := msgs[0].(sessionLoggedMsg)
	if !ok {
		t.Fatalf("expected sessionLoggedMsg, got %#v", msgs[0])
	}
	if logged.session.Type != store.SessionManual || logged.session.Duration != 40 || logged.session.FocusScore != 6 {
		t.Fatalf("unexpected session: %+v", logged.session)
	}
}

func TestPomodoroPhaseNames(t *testing.T) {
	for _, p := range []pomodoroPhase{pomodoroIdle, pomodoroWork, pomodoroShortBreak, pomodoroLongBreak} {
		if phaseNames[p] == "" {
			t.Fatalf("missing phase name for %d", p)
		}
	}
}

func TestFormatPomodoroTime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{time.Second, "00:01"},
		{25 * time.Minute, "25:00"},
		{5*time.Minute + 30*time.Second, "05:30"},
		{-time.Second, "00:00"},
	}
	for _, tt := range tests {
		if got := formatPomodoroTime(tt.d); got != tt.want {
			t.Errorf("formatPomodoroTime(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestPomodoroLoadsSettings(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("pomodoro_work", "600")
	s.SetSetting("pomodoro_break", "120")
	s.SetSetting("pomodoro_long_break", "600")
	s.SetSetting("pomodoro_count", "2")
	s.SetSetting("default_subject", "Latin")

	pm := newPomodoroModel(s)
	if pm.workDuration != 10*time.Minute || pm.breakDuration != 2*time.Minute || pm.longBreakDuration != 10*time.Minute {
		t.Fatalf("unexpected durations: %v %v %v", pm.workDuration, pm.breakDuration, pm.longBreakDuration)
	}
	if pm.cycleLength != 2 || pm.subject != "Latin" {
		t.Fatalf("cycle=%d subject=%q", pm.cycleLength, pm.subject)
	}
}

// ============================================================
// Notes model
// ============================================================

func TestNotesCreateSearchDelete(t *testing.T) {
	s := newTestStore(t)
	n := newNotesModel(s, nil)

	n, _ = n.showForm(nil)
	*n.formTitle = "Quadratics"
	*n.formSubject = "Math"
	*n.formContent = "ax^2 + bx + c"
	*n.formTags = "algebra"
	if err := n.save(); err != nil {
		t.Fatal(err)
	}
	n.formActive, n.form = false, nil
	s.CreateNote("Cells", "mitochondria", "Biology", nil)

	n, _ = n.update(collect(n.refresh())[0])
	if len(n.notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(n.notes))
	}

	n, _ = n.update(runes("/"))
	if !n.searching || !n.capturing() {
		t.Fatal("/ should open search")
	}
	n, _ = n.update(runes("mito"))
	n, cmd := n.update(enterKey)
	if n.searching || n.query != "mito" {
		t.Fatalf("search not applied: searching=%v query=%q", n.searching, n.query)
	}
	n, _ = n.update(collect(cmd)[0])
	if len(n.notes) != 1 || n.notes[0].Title != "Cells" {
		t.Fatalf("search results = %+v", n.notes)
	}

	n, cmd = n.update(escKey)
	n, _ = n.update(collect(cmd)[0])
	if n.query != "" || len(n.notes) != 2 {
		t.Fatal("esc should clear the search")
	}

	n, cmd = n.update(runes("d"))
	n, _ = n.update(collect(cmd)[0])
	if len(n.notes) != 1 {
		t.Fatalf("expected 1 note after delete, got %d", len(n.notes))
	}
}

func TestNotesSummarizeWithoutAI(t *testing.T) {
	s := newTestStore(t)
	s.CreateNote("Cells", "mitochondria", "Biology", nil)
	n := newNotesModel(s, nil)
	n, _ = n.update(collect(n.refresh())[0])

	n, cmd := n.update(runes("s"))
	if n.summarizing {
		t.Fatal("should not be summarizing without a generator")
	}
	if st := collect(cmd)[0].(statusMsg); !st.isError || !strings.Contains(st.text, "GEMINI_API_KEY") {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestNotesSummarize(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockGenerator(ctrl)
	gen.EXPECT().Summarize(gomock.Any(), "mitochondria are the powerhouse").Return("- energy", nil)

	s := newTestStore(t)
	note, _ := s.CreateNote("Cells", "mitochondria are the powerhouse", "Biology", nil)
	n := newNotesModel(s, gen)
	n, _ = n.update(collect(n.refresh())[0])

	n, cmd := n.update(runes("s"))
	if !n.summarizing {
		t.Fatal("should be summarizing")
	}
	msgs := collect(cmd)
	done, ok := msgs[0].(noteSummarizedMsg)
	if !ok || done.err != nil || done.id != note.ID {
		t.Fatalf("unexpected result: %#v", msgs[0])
	}
	n, _ = n.update(done)
	if n.summarizing {
		t.Fatal("summarizing flag should clear")
	}

	got, _ := s.GetNote(note.ID)
	if got.Summary != "- energy" {
		t.Fatalf("summary = %q", got.Summary)
	}
}

func TestNotesSummarizeError(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockGenerator(ctrl)
	gen.EXPECT().Summarize(gomock.Any(), gomock.Any()).Return("", mentor.ErrEmptyResponse)

	s := newTestStore(t)
	note, _ := s.CreateNote("Cells", "content", "Biology", nil)
	n := newNotesModel(s, gen)
	n.notes = []store.Note{*note}

	n, cmd := n.summarize(*note)
	done := collect(cmd)[0].(noteSummarizedMsg)
	if !errors.Is(done.err, mentor.ErrEmptyResponse) {
		t.Fatalf("err = %v", done.err)
	}
	n, cmd = n.update(done)
	if n.summarizing {
		t.Fatal("summarizing flag should clear on error")
	}
	if st := collect(cmd)[0].(statusMsg); !st.isError {
		t.Fatal("expected an error status")
	}
	got, _ := s.GetNote(note.ID)
	if got.Summary != "" {
		t.Fatal("no summary should be stored on error")
	}
}

// ============================================================
// Analytics model
// ============================================================

func TestAnalyticsDateRange(t *testing.T) {
	s := newTestStore(t)
	a := newAnalyticsModel(s)

	from, to := a.dateRange()
	if from.Weekday() != time.Monday {
		t.Fatalf("week should start on Monday, got %s", from.Weekday())
	}
	if to.Sub(from) != 7*24*time.Hour {
		t.Fatalf("range = %v", to.Sub(from))
	}
	now := time.Now().UTC()
	if now.Before(from) || !now.Before(to) {
		t.Fatal("current week should contain now")
	}

	a.offset = 1
	prevFrom, prevTo := a.dateRange()
	if !prevTo.Equal(from) || !prevFrom.Equal(from.AddDate(0, 0, -7)) {
		t.Fatal("offset should step back one week")
	}
}

func TestComputeStats(t *testing.T) {
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	sessions := []store.StudySession{
		{StartedAt: from.Add(time.Hour), Duration: 25, FocusScore: 9, Type: store.SessionPomodoro},
		{StartedAt: from.Add(48 * time.Hour), Duration: 35, FocusScore: 5, Type: store.SessionManual},
		{StartedAt: to, Duration: 100, FocusScore: 1, Type: store.SessionManual},
	}
	tasks := []store.Task{{Status: store.StatusCompleted}, {Status: store.StatusPending}}

	st := computeStats(sessions, tasks, from, to)
	if st.sessions != 2 || st.totalMinutes != 60 || st.pomodoros != 1 || st.avgFocus != 7 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if st.completionRate() != 0.5 {
		t.Fatalf("completion = %v", st.completionRate())
	}
	if (studyStats{}).completionRate() != 0 {
		t.Fatal("no tasks should give a zero rate")
	}
}

func TestAnalyticsRefreshAndView(t *testing.T) {
	s := newTestStore(t)
	mustSession(t, s, 30, "Math", store.SessionPomodoro)
	mustSession(t, s, 90, "Art", store.SessionManual)

	a := newAnalyticsModel(s)
	a.setSize(120, 40)
	a, _ = a.update(collect(a.refresh())[0])
	if len(a.bySubject) != 2 || a.bySubject[0].Label != "Art" {
		t.Fatalf("by subject = %+v", a.bySubject)
	}
	if a.stats.totalMinutes != 120 {
		t.Fatalf("total = %d", a.stats.totalMinutes)
	}

	out := a.view()
	if !strings.Contains(out, "Art") || !strings.Contains(out, "Math") {
		t.Fatalf("view missing subjects:\n%s", out)
	}

	a, cmd := a.update(runes("m"))
	if a.mode != analyticsAllTime || cmd == nil {
		t.Fatal("m should switch to all time")
	}
}

// ============================================================
// Achievements model
// ============================================================

func TestAnnounceUnlocks(t *testing.T) {
	before := progress.ComputeSnapshot(nil, nil)
	after := progress.ComputeSnapshot([]store.Task{{Status: store.StatusCompleted}}, nil)

	msgs := collect(announceUnlocks(before, after))
	if st := msgs[0].(statusMsg); !strings.Contains(st.text, "First Step") {
		t.Fatalf("unexpected status %q", st.text)
	}

	if announceUnlocks(after, after) != nil {
		t.Fatal("nothing new should announce nothing")
	}
	if announceUnlocks(after, before) != nil {
		t.Fatal("re-locking should not be announced")
	}

	levelUp := progress.ComputeSnapshot([]store.Task{{Status: store.StatusCompleted}},
		[]store.StudySession{{Duration: 50, Subject: "Math"}})
	msgs = collect(announceUnlocks(after, levelUp))
	if st := msgs[0].(statusMsg); !strings.Contains(st.text, "level 2") {
		t.Fatalf("expected level up, got %q", st.text)
	}
}

func TestAchievementsFirstLoadIsSilent(t *testing.T) {
	s := newTestStore(t)
	done := mustTask(t, s, "Done", 30)
	s.SetTaskStatus(done.ID, store.StatusCompleted)

	a := newAchievementsModel(s)
	a, cmd := a.update(collect(a.refresh())[0])
	if cmd != nil {
		t.Fatal("first load should not announce existing achievements")
	}
	if !a.snapshot.Has(progress.FirstStep) {
		t.Fatal("first step should be unlocked")
	}

	for _, subj := range []string{"A", "B", "C"} {
		mustSession(t, s, 1, subj, store.SessionManual)
	}
	_, cmd = a.update(collect(a.refresh())[0])
	if st := collect(cmd)[0].(statusMsg); !strings.Contains(st.text, "Polymath") {
		t.Fatalf("expected polymath announcement, got %q", st.text)
	}
}

func TestAchievementProgress(t *testing.T) {
	act := progress.Activity{CompletedTasks: 7, StudyMinutes: 90, PomodoroSessions: 2, DistinctSubjects: 1, Level: 2}
	tests := map[progress.Key]string{
		progress.FirstStep:     "1/1 tasks",
		progress.DeepDiver:     "1.5h/10h",
		progress.Consistent:    "5/5 tasks",
		progress.AcademicElite: "level 2/5",
		progress.SprintKing:    "2/5 pomodoros",
		progress.Polymath:      "1/3 subjects",
	}
	for k, want := range tests {
		if got := achievementProgress(k, act); got != want {
			t.Errorf("achievementProgress(%s) = %q, want %q", k, got, want)
		}
	}
}

// ============================================================
// Mentor model
// ============================================================

func TestMentorChatKeepsHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockGenerator(ctrl)
	gomock.InOrder(
		gen.EXPECT().Chat(gomock.Any(), mentor.ModeExplain, gomock.Any(), "what is entropy?").
			DoAndReturn(func(_ context.Context, _ mentor.Mode, history []mentor.Message, _ string) (mentor.Reply, error) {
				if len(history) != 0 {
					t.Errorf("first call history = %v", history)
				}
				return mentor.Reply{Text: "A measure of disorder."}, nil
			}),
		gen.EXPECT().Chat(gomock.Any(), mentor.ModeExam, gomock.Any(), "give an example").
			DoAndReturn(func(_ context.Context, _ mentor.Mode, history []mentor.Message, _ string) (mentor.Reply, error) {
				if len(history) != 2 || history[0].Role != mentor.RoleUser || history[1].Role != mentor.RoleModel {
					t.Errorf("second call history = %v", history)
				}
				return mentor.Reply{Text: "Ice melting.", Sources: []mentor.Source{{Title: "Text", URI: "https://example.org"}}}, nil
			}),
	)

	m := newMentorModel(gen)
	m.setSize(100, 30)

	m, cmd := m.submit("what is entropy?")
	if !m.busy {
		t.Fatal("should be busy while waiting")
	}
	m, _ = m.update(collect(cmd)[0])
	if m.busy || len(m.history) != 2 {
		t.Fatalf("busy=%v history=%d", m.busy, len(m.history))
	}

	m, _ = m.update(runes("m"))
	if m.currentMode() != mentor.ModeExam {
		t.Fatalf("mode = %s", m.currentMode())
	}
	m, cmd = m.submit("give an example")
	m, _ = m.update(collect(cmd)[0])

	out := m.renderTranscript()
	if !strings.Contains(out, "Ice melting.") || !strings.Contains(out, "https://example.org") {
		t.Fatalf("transcript missing reply or source:\n%s", out)
	}
}

func TestMentorChatError(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockGenerator(ctrl)
	gen.EXPECT().Chat(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(mentor.Reply{}, errors.New("quota exceeded"))

	m := newMentorModel(gen)
	m, cmd := m.submit("hi")
	m, cmd = m.update(collect(cmd)[0])
	if len(m.history) != 0 {
		t.Fatal("failed turns should not enter history")
	}
	if st := collect(cmd)[0].(statusMsg); !st.isError || !strings.Contains(st.text, "quota") {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestMentorQuizFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockGenerator(ctrl)
	gen.EXPECT().Quiz(gomock.Any(), "fractions").Return(mentor.Quiz{Questions: []mentor.QuizQuestion{
		{Question: "1/2 + 1/2?", Options: []string{"1", "2"}, CorrectAnswer: "1", Explanation: "halves"},
		{Question: "1/4 of 8?", Options: []string{"2", "4"}, CorrectAnswer: "2"},
	}}, nil)

	m := newMentorModel(gen)
	m, _ = m.update(runes("t"))
	if m.tool != toolQuiz {
		t.Fatal("t should cycle to the quiz tool")
	}

	m, cmd := m.submit("fractions")
	m, _ = m.update(collect(cmd)[0])
	if m.quiz == nil || m.quizIndex != 0 {
		t.Fatal("quiz should be loaded")
	}

	m, cmd = m.submit("1")
	if cmd != nil {
		t.Fatal("answering should not call the generator")
	}
	m, _ = m.submit("4")
	if m.quiz != nil {
		t.Fatal("quiz should finish after the last answer")
	}
	if m.quizScore != 1 {
		t.Fatalf("score = %d, want 1", m.quizScore)
	}
	if out := m.renderTranscript(); !strings.Contains(out, "1/2 correct") {
		t.Fatalf("missing final score:\n%s", out)
	}
}

func TestMentorCareerAndIdeas(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockGenerator(ctrl)
	gen.EXPECT().CareerAdvice(gomock.Any(), "biology", "writing").Return("Science journalism.", nil)
	gen.EXPECT().Ideas(gomock.Any(), "robots", "cs").Return([]mentor.Idea{
		{Title: "Line follower", Difficulty: "Easy", TechStack: []string{"TinyGo"}},
	}, nil)

	m := newMentorModel(gen)
	m.tool = toolCareer
	m, cmd := m.submit("biology | writing")
	m, _ = m.update(collect(cmd)[0])

	m.tool = toolIdeas
	m, cmd = m.submit("robots|cs")
	m, _ = m.update(collect(cmd)[0])

	out := m.renderTranscript()
	if !strings.Contains(out, "Science journalism.") || !strings.Contains(out, "Line follower [Easy]") {
		t.Fatalf("transcript:\n%s", out)
	}
}

func TestMentorOffline(t *testing.T) {
	m := newMentorModel(nil)
	m.setSize(100, 30)
	m, _ = m.update(runes("i"))
	if m.typing {
		t.Fatal("typing should stay off without a generator")
	}
	if !strings.Contains(m.view(), "GEMINI_API_KEY") {
		t.Fatal("offline view should explain how to enable the mentor")
	}
}

func TestSplitPair(t *testing.T) {
	a, b := splitPair(" music | maths ")
	if a != "music" || b != "maths" {
		t.Fatalf("got %q %q", a, b)
	}
	a, b = splitPair("only")
	if a != "only" || b != "" {
		t.Fatalf("got %q %q", a, b)
	}
}

// ============================================================
// Settings helpers
// ============================================================

func TestSettingsConversions(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"secsToMin", secsToMin, "1500", "25"},
		{"secsToMin invalid", secsToMin, "invalid", "invalid"},
		{"minToSecs", minToSecs, "25", "1500"},
		{"minToSecs invalid", minToSecs, "invalid", "invalid"},
		{"minToHours", minToHours, "120", "2.0"},
		{"minToHours", minToHours, "90", "1.5"},
		{"hoursToMin", hoursToMin, "1.5", "90"},
		{"hoursToMin invalid", hoursToMin, "x", "x"},
	}
	for _, tt := range tests {
		if got := tt.fn(tt.in); got != tt.want {
			t.Errorf("%s(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		key, val, want string
	}{
		{"pomodoro_work", "1500", "25 min"},
		{"pomodoro_break", "300", "5 min"},
		{"daily_goal", "120", "2.0 hours"},
		{"default_subject", "Focus Session", "Focus Session"},
		{"pomodoro_count", "4", "4"},
		{"pomodoro_work", "invalid", "invalid"},
	}
	for _, tt := range tests {
		if got := formatSettingValue(tt.key, tt.val); got != tt.want {
			t.Errorf("formatSettingValue(%q, %q) = %q, want %q", tt.key, tt.val, got, tt.want)
		}
	}
}

func TestSettingsSave(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)
	m, _ = m.showForm()
	if *m.pomodoroWork != "25" || *m.dailyGoal != "2.0" || *m.defaultSubject != "Focus Session" {
		t.Fatalf("form not prefilled: %q %q %q", *m.pomodoroWork, *m.dailyGoal, *m.defaultSubject)
	}

	*m.pomodoroWork = "50"
	*m.dailyGoal = "3"
	*m.defaultSubject = " Thesis "
	if err := m.saveSettings(); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.GetSetting("pomodoro_work"); v != "3000" {
		t.Fatalf("pomodoro_work = %q", v)
	}
	if v, _ := s.GetSetting("daily_goal"); v != "180" {
		t.Fatalf("daily_goal = %q", v)
	}
	if v, _ := s.GetSetting("default_subject"); v != "Thesis" {
		t.Fatalf("default_subject = %q", v)
	}
}

func TestSettingsClearData(t *testing.T) {
	s := newTestStore(t)
	mustTask(t, s, "Essay", 30)
	mustSession(t, s, 25, "History", store.SessionPomodoro)
	if _, err := s.CreateNote("Dates", "1066", "History", nil); err != nil {
		t.Fatal(err)
	}
	s.SetSetting("daily_goal", "90")

	m := newSettingsModel(s)
	m, _ = m.update(runes("c"))
	if !m.formActive || m.formKind != settingsFormClear {
		t.Fatal("c should open the clear confirmation")
	}
	if *m.confirmClear {
		t.Fatal("confirmation should default to cancel")
	}

	m, _ = m.update(escKey)
	if m.formActive {
		t.Fatal("esc should close the confirmation")
	}
	if tasks, _ := s.ListTasks(); len(tasks) != 1 {
		t.Fatal("cancelling must not touch data")
	}

	*m.confirmClear = true
	msgs := collect(m.clearData())
	if _, ok := msgs[0].(dataClearedMsg); !ok {
		t.Fatalf("expected dataClearedMsg, got %#v", msgs[0])
	}
	tasks, _ := s.ListTasks()
	sessions, _ := s.ListSessions(0)
	notes, _ := s.ListNotes()
	if len(tasks)+len(sessions)+len(notes) != 0 {
		t.Fatalf("data left behind: %d tasks, %d sessions, %d notes", len(tasks), len(sessions), len(notes))
	}
	if v, _ := s.GetSetting("daily_goal"); v != "90" {
		t.Fatalf("settings should survive, daily_goal = %q", v)
	}
}

func TestSettingsThemeApplied(t *testing.T) {
	t.Cleanup(func() { applyTheme(themeDark) })
	s := newTestStore(t)
	app := newTestApp(t, s, nil)
	if activeTheme != themeDark {
		t.Fatalf("default theme = %q", activeTheme)
	}

	s.SetSetting("theme", themeLight)
	m, _ := app.Update(settingsSavedMsg{})
	app = m.(App)
	if activeTheme != themeLight {
		t.Fatalf("theme after save = %q, want light", activeTheme)
	}
	if colorFg != palettes[themeLight].fg {
		t.Fatalf("foreground = %v, want light palette", colorFg)
	}
	if got := activeTabStyle.GetForeground(); got != palettes[themeLight].primary {
		t.Fatalf("tab style foreground = %v, want %v", got, palettes[themeLight].primary)
	}
	if app.status != "Settings saved" {
		t.Fatalf("status = %q", app.status)
	}

	// A fresh app picks up the stored theme on start.
	applyTheme(themeDark)
	newTestApp(t, s, nil)
	if activeTheme != themeLight {
		t.Fatalf("NewApp theme = %q, want light", activeTheme)
	}

	s.SetSetting("theme", "solarized")
	app.Update(settingsSavedMsg{})
	if activeTheme != themeDark || colorFg != palettes[themeDark].fg {
		t.Fatalf("unknown theme should fall back to dark, got %q", activeTheme)
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s, nil)

	if app.activeView != viewDashboard {
		t.Fatal("default view should be dashboard")
	}
	if app.showHelp || app.exportPicking {
		t.Fatal("help and export picker should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppViewStates(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s, nil)

	for i := range viewNames {
		app.activeView = viewState(i)
		if output := app.View(); output == "" {
			t.Fatalf("view %d rendered empty", i)
		}
	}
}

func TestAppTabKeys(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s, nil)

	for i, k := range []string{"1", "2", "3", "4", "5", "6", "7", "8"} {
		m, _ := app.Update(runes(k))
		app = m.(App)
		if app.activeView != viewState(i) {
			t.Fatalf("key %s gave view %d", k, app.activeView)
		}
	}
	m, _ := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.(App).activeView != viewDashboard {
		t.Fatal("tab should wrap to the dashboard")
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s, nil)
	app.width = 200

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, nil, nil)
	if output := app.View(); output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	s := newTestStore(t)
	var logs bytes.Buffer
	app := NewApp(s, nil, slog.New(slog.NewTextHandler(&logs, nil)))
	app.width = 120
	app.height = 40

	m, _ := app.Update(statusMsg{text: "disk full", isError: true})
	app = m.(App)
	if !strings.Contains(app.renderFooter(), "disk full") {
		t.Fatal("footer should contain status message")
	}
	if !strings.Contains(logs.String(), "disk full") {
		t.Fatalf("errors should be logged, got %q", logs.String())
	}
}

func TestAppSessionLoggedStatus(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s, nil)

	m, cmd := app.Update(sessionLoggedMsg{session: &store.StudySession{Duration: 25, Subject: "Math", FocusScore: 9}})
	app = m.(App)
	if !strings.Contains(app.status, "+250 XP") {
		t.Fatalf("status = %q", app.status)
	}
	if cmd == nil {
		t.Fatal("logging a session should refresh progress")
	}
}

func TestAppTaskDeletedRefreshesProgress(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s, nil)
	task := mustTask(t, s, "Lab report", 30)
	s.SetTaskStatus(task.ID, store.StatusCompleted)
	if err := s.DeleteTask(task.ID); err != nil {
		t.Fatal(err)
	}

	m, cmd := app.Update(taskDeletedMsg{task: *task})
	app = m.(App)
	if app.status != `Deleted "Lab report"` || app.statusErr {
		t.Fatalf("status = %q", app.status)
	}

	var gotDashboard, gotAchievements bool
	for _, msg := range collect(cmd) {
		switch msg := msg.(type) {
		case dashboardDataMsg:
			gotDashboard = true
			if msg.snapshot.TotalExperience != 0 {
				t.Fatalf("xp after delete = %d, want 0", msg.snapshot.TotalExperience)
			}
		case achievementsDataMsg:
			gotAchievements = true
			if msg.snapshot.Has(progress.FirstStep) {
				t.Fatal("first step should be locked once its task is gone")
			}
		}
	}
	if !gotDashboard || !gotAchievements {
		t.Fatalf("dashboard refreshed = %v, achievements refreshed = %v", gotDashboard, gotAchievements)
	}
}

func TestAppDataCleared(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s, nil)
	mustTask(t, s, "Essay", 30)
	if err := s.ClearStudyData(); err != nil {
		t.Fatal(err)
	}

	m, cmd := app.Update(dataClearedMsg{})
	app = m.(App)
	if app.status != "All study data cleared" {
		t.Fatalf("status = %q", app.status)
	}

	var gotTasks bool
	for _, msg := range collect(cmd) {
		if td, ok := msg.(tasksDataMsg); ok {
			gotTasks = true
			if len(td.tasks) != 0 {
				t.Fatalf("planner still lists %d tasks", len(td.tasks))
			}
		}
	}
	if !gotTasks {
		t.Fatal("planner should reload after clearing")
	}
}

func TestAppFormCapturesKeys(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s, nil)
	app.activeView = viewNotes
	app.notes.searching = true

	if !app.isFormActive() {
		t.Fatal("notes search should capture keys")
	}
	m, _ := app.Update(runes("q"))
	if m.(App).activeView != viewNotes {
		t.Fatal("q should be typed, not quit")
	}
}

func TestAppExportFormats(t *testing.T) {
	s := newTestStore(t)
	mustTask(t, s, "Essay", 60)
	mustSession(t, s, 25, "English", store.SessionPomodoro)
	app := newTestApp(t, s, nil)

	for i := range exportFormats {
		msgs := collect(app.doExport(exportFormat(i)))
		done, ok := msgs[0].(exportDoneMsg)
		if !ok {
			t.Fatalf("format %d: expected exportDoneMsg, got %#v", i, msgs[0])
		}
		if filepath.Dir(done.path) != app.exportDir {
			t.Fatalf("format %d wrote outside export dir: %s", i, done.path)
		}
		if info, err := os.Stat(done.path); err != nil || info.Size() == 0 {
			t.Fatalf("format %d: missing or empty file %s", i, done.path)
		}
	}
}

func TestAppExportPicker(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s, nil)

	m, _ := app.Update(runes("e"))
	app = m.(App)
	if !app.exportPicking {
		t.Fatal("e should open the export picker")
	}
	for i := 0; i < 10; i++ {
		m, _ = app.Update(runes("j"))
		app = m.(App)
	}
	if app.exportCursor != len(exportFormats)-1 {
		t.Fatalf("cursor = %d", app.exportCursor)
	}
	m, _ = app.Update(escKey)
	if m.(App).exportPicking {
		t.Fatal("esc should close the picker")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
	for i, g := range keys.FullHelp() {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test, just verify they don't panic)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"timerRunning", func() string { return timerRunningStyle.Render("test") }},
		{"badgeEarned", func() string { return badgeEarnedStyle.Render("test") }},
		{"badgeLocked", func() string { return badgeLockedStyle.Render("test") }},
		{"level", func() string { return levelStyle.Render("test") }},
		{"priorityHigh", func() string { return priorityStyles[store.PriorityHigh].Render("test") }},
		{"subjectColor", func() string { return lipgloss.NewStyle().Foreground(subjectColor(7)).Render("●") }},
	}

	for _, s := range styles {
		if result := s.fn(); result == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}

package tui

import (
	"time"

	"github.com/sadopc/studymate/internal/store"
)

// timerState tracks the current state of the stopwatch.
type timerState int

const (
	timerStopped timerState = iota
	timerRunning
	timerPaused
)

// manualFocusScore is recorded for stopwatch sessions. Idle pauses lower it.
const (
	manualFocusScore = 7
	idleFocusPenalty = 2
)

// timerModel is the free-running study stopwatch. Nothing is written until
// stop, when the elapsed whole minutes become a Manual session.
type timerModel struct {
	store *store.Store

	state     timerState
	startTime time.Time
	elapsed   time.Duration
	pausedAt  time.Time // when paused, to compute pause gap
	pauseGap  time.Duration

	subject string

	// Idle detection
	lastActivity time.Time
	idleTimeout  time.Duration
	isIdle       bool
	wentIdle     bool
}

func newTimerModel(s *store.Store) timerModel {
	return timerModel{
		store:        s,
		state:        timerStopped,
		lastActivity: time.Now(),
		idleTimeout:  5 * time.Minute,
	}
}

func (t *timerModel) start(subject string) {
	t.state = timerRunning
	t.startTime = time.Now()
	t.elapsed = 0
	t.pauseGap = 0
	t.subject = subject
	t.lastActivity = time.Now()
	t.isIdle = false
	t.wentIdle = false
}

// stop ends the run and logs it. Runs shorter than a minute are discarded
// and return a nil session.
func (t *timerModel) stop() (*store.StudySession, error) {
	if t.state == timerStopped {
		return nil, nil
	}
	mins := int(t.currentElapsed() / time.Minute)
	startedAt := t.startTime
	t.state = timerStopped
	t.elapsed = 0
	if mins < 1 {
		return nil, nil
	}

	focus := manualFocusScore
	if t.wentIdle {
		focus -= idleFocusPenalty
	}
	return t.store.AddSession(store.StudySession{
		StartedAt:  startedAt,
		Duration:   mins,
		Subject:    t.subject,
		FocusScore: focus,
		Type:       store.SessionManual,
	})
}

func (t *timerModel) pause() {
	if t.state != timerRunning {
		return
	}
	t.state = timerPaused
	t.pausedAt = time.Now()
}

func (t *timerModel) resume() {
	if t.state != timerPaused {
		return
	}
	t.pauseGap += time.Since(t.pausedAt)
	t.state = timerRunning
	t.isIdle = false
	t.lastActivity = time.Now()
}

func (t *timerModel) toggle() {
	switch t.state {
	case timerRunning:
		t.pause()
	case timerPaused:
		t.resume()
	}
}

func (t *timerModel) tick() {
	if t.state == timerRunning {
		t.elapsed = time.Since(t.startTime) - t.pauseGap

		if time.Since(t.lastActivity) > t.idleTimeout && !t.isIdle {
			t.isIdle = true
			t.wentIdle = true
			t.pause()
		}
	}
}

func (t *timerModel) recordActivity() {
	t.lastActivity = time.Now()
	if t.isIdle && t.state == timerPaused {
		t.resume()
		t.isIdle = false
	}
}

func (t timerModel) running() bool {
	return t.state != timerStopped
}

func (t timerModel) paused() bool {
	return t.state == timerPaused
}

func (t timerModel) currentElapsed() time.Duration {
	if t.state == timerStopped {
		return 0
	}
	if t.state == timerPaused {
		return time.Since(t.startTime) - t.pauseGap - time.Since(t.pausedAt)
	}
	return time.Since(t.startTime) - t.pauseGap
}

package progress

import "github.com/sadopc/studymate/internal/store"

type Key string

const (
	FirstStep     Key = "first_step"
	DeepDiver     Key = "deep_diver"
	Consistent    Key = "consistent"
	AcademicElite Key = "academic_elite"
	SprintKing    Key = "sprint_king"
	Polymath      Key = "polymath"
)

// Activity is the aggregate view of history that achievement predicates
// are evaluated against.
type Activity struct {
	CompletedTasks   int
	StudyMinutes     int64
	PomodoroSessions int
	DistinctSubjects int
	Level            int64
}

// Achievement is one entry of the fixed catalog.
type Achievement struct {
	Key         Key
	Title       string
	Description string
	Earned      func(Activity) bool
}

var catalog = []Achievement{
	{FirstStep, "First Step", "Completed 1st task", func(a Activity) bool { return a.CompletedTasks >= 1 }},
	{DeepDiver, "Deep Diver", "10 hours studied", func(a Activity) bool { return a.StudyMinutes >= 600 }},
	{Consistent, "Consistent", "5 tasks done", func(a Activity) bool { return a.CompletedTasks >= 5 }},
	{AcademicElite, "Academic Elite", "Reached Level 5", func(a Activity) bool { return a.Level >= 5 }},
	{SprintKing, "Sprint King", "5 Pomodoro sessions", func(a Activity) bool { return a.PomodoroSessions >= 5 }},
	{Polymath, "Polymath", "Studied 3 subjects", func(a Activity) bool { return a.DistinctSubjects >= 3 }},
}

// Catalog returns a copy of the achievement table in display order.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog entry for key.
func Lookup(key Key) (Achievement, bool) {
	for _, a := range catalog {
		if a.Key == key {
			return a, true
		}
	}
	return Achievement{}, false
}

// Summarize aggregates tasks and sessions for predicate evaluation.
func Summarize(tasks []store.Task, sessions []store.StudySession, level int64) Activity {
	subjects := make(map[string]struct{})
	pomodoros := 0
	for _, s := range sessions {
		subjects[s.Subject] = struct{}{}
		if s.Type == store.SessionPomodoro {
			pomodoros++
		}
	}
	return Activity{
		CompletedTasks:   completedCount(tasks),
		StudyMinutes:     totalMinutes(sessions),
		PomodoroSessions: pomodoros,
		DistinctSubjects: len(subjects),
		Level:            level,
	}
}

// EvaluateAchievements returns the unlocked keys in catalog order.
func EvaluateAchievements(tasks []store.Task, sessions []store.StudySession, level int64) []Key {
	return unlocked(Summarize(tasks, sessions, level))
}

func unlocked(a Activity) []Key {
	var keys []Key
	for _, entry := range catalog {
		if entry.Earned(a) {
			keys = append(keys, entry.Key)
		}
	}
	return keys
}

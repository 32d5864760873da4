package progress

import "github.com/sadopc/studymate/internal/store"

// Snapshot is the derived progression state for one moment's activity.
type Snapshot struct {
	TotalExperience int64
	Level           int64
	Floor           int64
	Ceiling         int64
	Fraction        float64
	Unlocked        []Key
}

// ComputeSnapshot is the single entry point views use to show progress.
func ComputeSnapshot(tasks []store.Task, sessions []store.StudySession) Snapshot {
	xp := ComputeExperience(tasks, sessions)
	band := ComputeLevel(xp)
	return Snapshot{
		TotalExperience: xp,
		Level:           band.Level,
		Floor:           band.Floor,
		Ceiling:         band.Ceiling,
		Fraction:        band.Fraction,
		Unlocked:        EvaluateAchievements(tasks, sessions, band.Level),
	}
}

func (s Snapshot) Has(key Key) bool {
	for _, k := range s.Unlocked {
		if k == key {
			return true
		}
	}
	return false
}

// Remaining is the experience still needed to reach the next level.
func (s Snapshot) Remaining() int64 {
	if s.Ceiling <= s.TotalExperience {
		return 0
	}
	return s.Ceiling - s.TotalExperience
}

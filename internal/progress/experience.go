package progress

import (
	"math"

	"github.com/sadopc/studymate/internal/store"
)

const (
	xpPerMinute   = 10
	xpPerTask     = 100
	xpLevelFactor = 500
	// rewardPerEstimatedMinute is the advisory reward shown next to
	// pending tasks. It never enters TotalExperience.
	rewardPerEstimatedMinute = 5

	// maxLevelRoot is the largest n with 500n^2 <= MaxInt64. Curve values
	// past it saturate at MaxInt64.
	maxLevelRoot = 135818791
)

// Band locates an experience total on the level curve.
type Band struct {
	Level    int64
	Floor    int64 // experience at which Level begins
	Ceiling  int64 // experience at which Level+1 begins
	Fraction float64
}

// ComputeExperience returns 10 XP per studied minute plus 100 XP per
// completed task. Negative durations count as zero.
// The sum saturates at MaxInt64 instead of wrapping.
func ComputeExperience(tasks []store.Task, sessions []store.StudySession) int64 {
	return saturatingAdd(
		saturatingMul(xpPerMinute, totalMinutes(sessions)),
		saturatingMul(xpPerTask, int64(completedCount(tasks))),
	)
}

// ComputeLevel places xp on the curve level = floor(sqrt(xp/500)) + 1.
// Level n spans [500(n-1)^2, 500n^2).
func ComputeLevel(xp int64) Band {
	if xp < 0 {
		xp = 0
	}
	level := int64(math.Floor(math.Sqrt(float64(xp)/xpLevelFactor))) + 1
	level = min(level, maxLevelRoot+1)
	// Correct float rounding near perfect squares. The top level's ceiling
	// saturates, so the climb stops there.
	for level > 1 && xp < FloorForLevel(level) {
		level--
	}
	for level <= maxLevelRoot && xp >= CeilingForLevel(level) {
		level++
	}

	b := Band{
		Level:   level,
		Floor:   FloorForLevel(level),
		Ceiling: CeilingForLevel(level),
	}
	if span := b.Ceiling - b.Floor; span > 0 {
		b.Fraction = clamp01(float64(xp-b.Floor) / float64(span))
	}
	return b
}

// FloorForLevel is the experience needed to reach level. Levels below 1
// are treated as 1.
func FloorForLevel(level int64) int64 {
	if level < 1 {
		level = 1
	}
	return curveValue(level - 1)
}

// CeilingForLevel is the experience needed to reach level+1.
func CeilingForLevel(level int64) int64 {
	if level < 1 {
		level = 1
	}
	return curveValue(level)
}

// curveValue is 500n^2, saturating at MaxInt64.
func curveValue(n int64) int64 {
	if n > maxLevelRoot {
		return math.MaxInt64
	}
	return xpLevelFactor * n * n
}

// SessionExperience is what a session of the given length adds to the total.
func SessionExperience(minutes int) int64 {
	if minutes < 0 {
		return 0
	}
	return xpPerMinute * int64(minutes)
}

// CompletionExperience is what completing one task adds to the total.
func CompletionExperience() int64 { return xpPerTask }

// TaskReward is the "+N XP" hint shown beside a pending task.
func TaskReward(estimatedMinutes int) int64 {
	if estimatedMinutes < 0 {
		return 0
	}
	return rewardPerEstimatedMinute * int64(estimatedMinutes)
}

func totalMinutes(sessions []store.StudySession) int64 {
	var total int64
	for _, s := range sessions {
		if s.Duration > 0 {
			total = saturatingAdd(total, int64(s.Duration))
		}
	}
	return total
}

func completedCount(tasks []store.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed() {
			n++
		}
	}
	return n
}

// saturatingAdd and saturatingMul assume non-negative operands.
func saturatingAdd(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

func saturatingMul(a, b int64) int64 {
	if a != 0 && b > math.MaxInt64/a {
		return math.MaxInt64
	}
	return a * b
}

func clamp01(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

package gamification

import "math"

// LevelThresholds holds the cumulative XP needed to reach levels 1..20.
var LevelThresholds = []int{
	0, 100, 250, 500, 850, 1300, 1900, 2650, 3550, 4600,
	5800, 7150, 8650, 10300, 12100, 14050, 16150, 18400, 20800, 23350,
}

// XPPerLevelBeyondTable is the flat cost of every level past the table.
const XPPerLevelBeyondTable = 3000

const (
	QuizXP       = 10
	DailyQuizXP  = 15
	SpeedSeconds = 2.0
)

// LevelFromXP returns the highest level whose threshold is at or below xp.
func LevelFromXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	last := LevelThresholds[len(LevelThresholds)-1]
	if xp >= last {
		return len(LevelThresholds) + (xp-last)/XPPerLevelBeyondTable
	}
	for i := len(LevelThresholds) - 1; i >= 0; i-- {
		if xp >= LevelThresholds[i] {
			return i + 1
		}
	}
	return 1
}

// XPForLevel returns the cumulative XP at which level begins.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level <= len(LevelThresholds) {
		return LevelThresholds[level-1]
	}
	last := LevelThresholds[len(LevelThresholds)-1]
	return last + (level-len(LevelThresholds))*XPPerLevelBeyondTable
}

// XPForNextLevel returns the cumulative XP at which level+1 begins.
func XPForNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	if level >= len(LevelThresholds) {
		last := LevelThresholds[len(LevelThresholds)-1]
		return last + (level-len(LevelThresholds)+1)*XPPerLevelBeyondTable
	}
	return LevelThresholds[level]
}

// XPProgress is the fraction of the way from level to level+1, clamped to [0,1].
func XPProgress(xp, level int) float64 {
	start := XPForLevel(level)
	end := XPForNextLevel(level)
	if end <= start {
		return 0
	}
	p := float64(xp-start) / float64(end-start)
	return math.Max(0, math.Min(1, p))
}

// QuestionXP returns the XP for one correct quiz answer.
func QuestionXP(daily bool) int {
	if daily {
		return DailyQuizXP
	}
	return QuizXP
}

// IsSpeedAnswer reports whether a correct answer was fast enough to count.
func IsSpeedAnswer(correct bool, timeSpentSeconds float64) bool {
	return correct && timeSpentSeconds >= 0 && timeSpentSeconds <= SpeedSeconds
}

// Percent rounds part/whole to a whole percentage, 0 when whole is 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(whole)))
}

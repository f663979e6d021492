package progress

import (
	"github.com/sensei-learn/backend/internal/gamification"
	"github.com/sensei-learn/backend/internal/models"
)

// MergeCloud folds a cloud record into the local profile. For each character
// or grammar key the entry with more practice wins; achievements are unioned;
// counters take the larger value. Level is re-derived from the merged XP
// rather than taken from either side.
func MergeCloud(local *models.UserProfile, cloud *models.CloudRecord) {
	if cloud == nil {
		return
	}

	if local.CharacterProgress == nil {
		local.CharacterProgress = make(map[string]models.CharacterProgress)
	}
	for key, remote := range cloud.CharacterProgress {
		existing, ok := local.CharacterProgress[key]
		if !ok || remote.TimesSeen > existing.TimesSeen {
			local.CharacterProgress[key] = remote
		}
	}

	if local.GrammarProgress == nil {
		local.GrammarProgress = make(map[string]models.GrammarTopicProgress)
	}
	for key, remote := range cloud.GrammarProgress {
		existing, ok := local.GrammarProgress[key]
		if !ok || remote.TimesPracticed > existing.TimesPracticed {
			local.GrammarProgress[key] = remote
		}
	}

	for _, id := range cloud.UnlockedAchievements {
		UnlockAchievement(local, id)
	}

	local.XP = max(local.XP, cloud.XP)
	local.Level = gamification.LevelFromXP(local.XP)
	local.Streak = max(local.Streak, cloud.Streak)
	local.TotalQuizzes = max(local.TotalQuizzes, cloud.TotalQuizzes)
	local.PerfectQuizzes = max(local.PerfectQuizzes, cloud.PerfectQuizzes)
	local.SpeedAnswers = max(local.SpeedAnswers, cloud.SpeedAnswers)

	// YYYY-MM-DD compares chronologically as a string
	if cloud.LastActiveDate > local.LastActiveDate {
		local.LastActiveDate = cloud.LastActiveDate
	}
	if cloud.DailyChallengeDate > local.DailyChallengeDate {
		local.DailyChallengeDate = cloud.DailyChallengeDate
		local.DailyChallengeCompleted = cloud.DailyChallengeCompleted
	}
	if (local.Username == "" || local.Username == "Guest") && cloud.Username != "" {
		local.Username = cloud.Username
	}
}

package progress

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/sensei-learn/backend/internal/gamification"
	"github.com/sensei-learn/backend/internal/models"
)

// Mastery thresholds.
const (
	CharacterMasterySeen     = 5
	CharacterMasteryAccuracy = 80
	CharacterWeakSeen        = 3
	CharacterWeakAccuracy    = 50
	GrammarMasteryPracticed  = 3
	GrammarMasteryAccuracy   = 70
)

// CharacterKey is the map key of a character's progress entry.
func CharacterKey(script models.ScriptType, character string) string {
	return string(script) + "-" + character
}

// ── Mastery ─────────────────────────────────────────────

// RecordCharacterAttempt counts one attempt at a character. mastered is
// recomputed from scratch every call; isWeak only ever goes from false to true.
func RecordCharacterAttempt(p *models.UserProfile, character string, script models.ScriptType, correct bool, now time.Time) models.CharacterProgress {
	key := CharacterKey(script, character)
	cp, ok := p.CharacterProgress[key]
	if !ok {
		cp = models.CharacterProgress{Character: character, Type: script}
	}

	cp.TimesSeen++
	if correct {
		cp.TimesCorrect++
	}
	cp.Accuracy = gamification.Percent(cp.TimesCorrect, cp.TimesSeen)
	cp.Mastered = cp.TimesSeen >= CharacterMasterySeen && cp.Accuracy >= CharacterMasteryAccuracy
	if cp.TimesSeen >= CharacterWeakSeen && cp.Accuracy < CharacterWeakAccuracy {
		cp.IsWeak = true
	}
	cp.LastPracticed = now.UTC()

	if p.CharacterProgress == nil {
		p.CharacterProgress = make(map[string]models.CharacterProgress)
	}
	p.CharacterProgress[key] = cp
	return cp
}

// RecordGrammarAttempt counts one practiced question of a grammar topic.
func RecordGrammarAttempt(p *models.UserProfile, topicID string, correct bool, now time.Time) models.GrammarTopicProgress {
	gp, ok := p.GrammarProgress[topicID]
	if !ok {
		gp = models.GrammarTopicProgress{TopicID: topicID}
	}

	gp.TimesPracticed++
	if correct {
		gp.TimesCorrect++
	}
	gp.Accuracy = gamification.Percent(gp.TimesCorrect, gp.TimesPracticed)
	gp.Mastered = gp.TimesPracticed >= GrammarMasteryPracticed && gp.Accuracy >= GrammarMasteryAccuracy
	gp.LastPracticed = now.UTC()

	if p.GrammarProgress == nil {
		p.GrammarProgress = make(map[string]models.GrammarTopicProgress)
	}
	p.GrammarProgress[topicID] = gp
	return gp
}

// MarkCharacterWeak overrides the weak flag of a character already practiced.
// It reports false when the character has no entry yet.
func MarkCharacterWeak(p *models.UserProfile, character string, script models.ScriptType, weak bool) bool {
	key := CharacterKey(script, character)
	cp, ok := p.CharacterProgress[key]
	if !ok {
		return false
	}
	cp.IsWeak = weak
	p.CharacterProgress[key] = cp
	return true
}

// MarkCharacterMastered flags a character as known without practice. An
// unseen character is credited with five correct attempts.
func MarkCharacterMastered(p *models.UserProfile, character string, script models.ScriptType, now time.Time) {
	key := CharacterKey(script, character)
	cp, ok := p.CharacterProgress[key]
	if !ok {
		cp = models.CharacterProgress{
			Character:     character,
			Type:          script,
			TimesSeen:     CharacterMasterySeen,
			TimesCorrect:  CharacterMasterySeen,
			Accuracy:      100,
			LastPracticed: now.UTC(),
		}
	}
	cp.Mastered = true
	cp.IsWeak = false
	if p.CharacterProgress == nil {
		p.CharacterProgress = make(map[string]models.CharacterProgress)
	}
	p.CharacterProgress[key] = cp
}

// ── XP, streak and counters ─────────────────────────────

// AddXP adds a non-negative amount and re-derives the level.
func AddXP(p *models.UserProfile, amount int) {
	if amount < 0 {
		amount = 0
	}
	p.XP += amount
	p.Level = gamification.LevelFromXP(p.XP)
}

// UpdateStreak records activity for today. It reports whether anything changed.
func UpdateStreak(p *models.UserProfile, now time.Time) bool {
	streak, date, changed := gamification.NextStreak(p.Streak, p.LastActiveDate, now)
	if !changed {
		return false
	}
	p.Streak = streak
	p.LastActiveDate = date
	return true
}

// UnlockAchievement appends id once. It reports whether it was newly added.
func UnlockAchievement(p *models.UserProfile, id string) bool {
	if slices.Contains(p.UnlockedAchievements, id) {
		return false
	}
	p.UnlockedAchievements = append(p.UnlockedAchievements, id)
	return true
}

// CompleteDailyChallenge marks today's challenge done and credits xp.
func CompleteDailyChallenge(p *models.UserProfile, xp int, now time.Time) {
	p.DailyChallengeCompleted = true
	p.DailyChallengeDate = gamification.Today(now)
	AddXP(p, xp)
}

// DailyChallengeDone reports whether the challenge was completed today.
func DailyChallengeDone(p *models.UserProfile, now time.Time) bool {
	return p.DailyChallengeCompleted && p.DailyChallengeDate == gamification.Today(now)
}

func IncrementQuizCount(p *models.UserProfile, perfect bool) {
	p.TotalQuizzes++
	if perfect {
		p.PerfectQuizzes++
	}
}

func IncrementSpeedAnswers(p *models.UserProfile) {
	p.SpeedAnswers++
}

// ── Settings ────────────────────────────────────────────

// UpdateSettings applies the non-nil fields of patch.
func UpdateSettings(p *models.UserProfile, patch models.SettingsPatch) {
	if patch.QuizInterval != nil {
		p.Settings.QuizInterval = *patch.QuizInterval
	}
	if patch.SoundEnabled != nil {
		p.Settings.SoundEnabled = *patch.SoundEnabled
	}
	if patch.ShowRomaji != nil {
		p.Settings.ShowRomaji = *patch.ShowRomaji
	}
	if patch.Theme != nil {
		p.Settings.Theme = *patch.Theme
	}
}

func SetUsername(p *models.UserProfile, username string) {
	p.Username = strings.TrimSpace(username)
}

// ── Queries ─────────────────────────────────────────────

func MasteredCount(p *models.UserProfile, script models.ScriptType) int {
	n := 0
	for _, cp := range p.CharacterProgress {
		if cp.Type == script && cp.Mastered {
			n++
		}
	}
	return n
}

func GrammarMasteredCount(p *models.UserProfile) int {
	n := 0
	for _, gp := range p.GrammarProgress {
		if gp.Mastered {
			n++
		}
	}
	return n
}

// WeakCharacters returns the weak entries of a script, lowest accuracy first.
func WeakCharacters(p *models.UserProfile, script models.ScriptType) []models.CharacterProgress {
	var weak []models.CharacterProgress
	for _, cp := range p.CharacterProgress {
		if cp.Type == script && cp.IsWeak {
			weak = append(weak, cp)
		}
	}
	sort.Slice(weak, func(i, j int) bool {
		if weak[i].Accuracy != weak[j].Accuracy {
			return weak[i].Accuracy < weak[j].Accuracy
		}
		return weak[i].Character < weak[j].Character
	})
	return weak
}

// Stats collects the counters achievements are judged on.
func Stats(p *models.UserProfile) gamification.Stats {
	return gamification.Stats{
		TotalQuizzes:     p.TotalQuizzes,
		HiraganaMastered: MasteredCount(p, models.ScriptHiragana),
		KatakanaMastered: MasteredCount(p, models.ScriptKatakana),
		KanjiMastered:    MasteredCount(p, models.ScriptKanji),
		GrammarMastered:  GrammarMasteredCount(p),
		Streak:           p.Streak,
		TotalXP:          p.XP,
		Level:            p.Level,
		PerfectQuizzes:   p.PerfectQuizzes,
		SpeedAnswers:     p.SpeedAnswers,
	}
}

// AwardAchievements unlocks every newly qualified achievement and credits
// its XP reward. Rewards can qualify further achievements, so it repeats
// until nothing new unlocks.
func AwardAchievements(p *models.UserProfile) []string {
	var unlocked []string
	for {
		added := false
		for _, id := range gamification.CheckAchievements(Stats(p)) {
			if !UnlockAchievement(p, id) {
				continue
			}
			a, _ := gamification.LookupAchievement(id)
			AddXP(p, a.XPReward)
			unlocked = append(unlocked, id)
			added = true
		}
		if !added {
			return unlocked
		}
	}
}

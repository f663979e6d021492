package gamification

// Stats is the snapshot of learner counters achievements are judged on.
type Stats struct {
	TotalQuizzes     int
	HiraganaMastered int
	KatakanaMastered int
	KanjiMastered    int
	GrammarMastered  int
	Streak           int
	TotalXP          int
	Level            int
	PerfectQuizzes   int
	SpeedAnswers     int
}

// AchievementDef defines a single achievement.
type AchievementDef struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	TitleJP     string `json:"title_jp"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	XPReward    int    `json:"xp_reward"`

	qualifies func(Stats) bool
}

// Qualifies reports whether stats meet the achievement's condition.
func (a AchievementDef) Qualifies(s Stats) bool {
	return a.qualifies(s)
}

// Achievements in display order.
var Achievements = []AchievementDef{
	{ID: "first-steps", Title: "First Steps", TitleJP: "第一歩", Description: "Complete your first quiz", Icon: "👣", XPReward: 50,
		qualifies: func(s Stats) bool { return s.TotalQuizzes >= 1 }},
	{ID: "kana-rookie", Title: "Kana Rookie", TitleJP: "かな初心者", Description: "Master 10 Hiragana characters", Icon: "📚", XPReward: 100,
		qualifies: func(s Stats) bool { return s.HiraganaMastered >= 10 }},
	{ID: "hiragana-half", Title: "Hiragana Half", TitleJP: "ひらがな半分", Description: "Master 23 Hiragana characters", Icon: "📖", XPReward: 200,
		qualifies: func(s Stats) bool { return s.HiraganaMastered >= 23 }},
	{ID: "hiragana-master", Title: "Hiragana Master", TitleJP: "ひらがなマスター", Description: "Master all 46 basic Hiragana characters", Icon: "🎌", XPReward: 500,
		qualifies: func(s Stats) bool { return s.HiraganaMastered >= 46 }},
	{ID: "katakana-start", Title: "Katakana Start", TitleJP: "カタカナ開始", Description: "Master 10 Katakana characters", Icon: "✨", XPReward: 100,
		qualifies: func(s Stats) bool { return s.KatakanaMastered >= 10 }},
	{ID: "katakana-master", Title: "Katakana Master", TitleJP: "カタカナマスター", Description: "Master all 46 basic Katakana characters", Icon: "🏆", XPReward: 500,
		qualifies: func(s Stats) bool { return s.KatakanaMastered >= 46 }},
	{ID: "kanji-beginner", Title: "Kanji Beginner", TitleJP: "漢字初心者", Description: "Learn 10 Kanji characters", Icon: "🉐", XPReward: 150,
		qualifies: func(s Stats) bool { return s.KanjiMastered >= 10 }},
	{ID: "kanji-student", Title: "Kanji Student", TitleJP: "漢字学生", Description: "Learn 20 Kanji characters", Icon: "📝", XPReward: 300,
		qualifies: func(s Stats) bool { return s.KanjiMastered >= 20 }},
	{ID: "grammar-starter", Title: "Grammar Starter", TitleJP: "文法入門", Description: "Complete 3 grammar topics", Icon: "📐", XPReward: 150,
		qualifies: func(s Stats) bool { return s.GrammarMastered >= 3 }},
	{ID: "three-day-streak", Title: "Three Day Streak", TitleJP: "3日連続", Description: "Practice for 3 days in a row", Icon: "🔥", XPReward: 100,
		qualifies: func(s Stats) bool { return s.Streak >= 3 }},
	{ID: "seven-day-streak", Title: "Week Warrior", TitleJP: "一週間戦士", Description: "Practice for 7 days in a row", Icon: "💪", XPReward: 300,
		qualifies: func(s Stats) bool { return s.Streak >= 7 }},
	{ID: "thirty-day-streak", Title: "Monthly Master", TitleJP: "月間マスター", Description: "Practice for 30 days in a row", Icon: "🌟", XPReward: 1000,
		qualifies: func(s Stats) bool { return s.Streak >= 30 }},
	{ID: "perfect-quiz", Title: "Perfect Score", TitleJP: "満点", Description: "Get 100% on a quiz", Icon: "💯", XPReward: 100,
		qualifies: func(s Stats) bool { return s.PerfectQuizzes >= 1 }},
	{ID: "speed-demon", Title: "Speed Demon", TitleJP: "スピードデーモン", Description: "Answer 10 questions correctly in 2 seconds or less", Icon: "⚡", XPReward: 200,
		qualifies: func(s Stats) bool { return s.SpeedAnswers >= 10 }},
	{ID: "level-5", Title: "Rising Star", TitleJP: "新星", Description: "Reach Level 5", Icon: "⭐", XPReward: 200,
		qualifies: func(s Stats) bool { return s.Level >= 5 }},
	{ID: "level-10", Title: "Dedicated Learner", TitleJP: "熱心な学習者", Description: "Reach Level 10", Icon: "🌙", XPReward: 500,
		qualifies: func(s Stats) bool { return s.Level >= 10 }},
	{ID: "xp-1000", Title: "XP Collector", TitleJP: "XPコレクター", Description: "Earn 1000 XP total", Icon: "💎", XPReward: 100,
		qualifies: func(s Stats) bool { return s.TotalXP >= 1000 }},
	{ID: "xp-5000", Title: "XP Hunter", TitleJP: "XPハンター", Description: "Earn 5000 XP total", Icon: "💠", XPReward: 300,
		qualifies: func(s Stats) bool { return s.TotalXP >= 5000 }},
}

var achievementsByID = func() map[string]AchievementDef {
	m := make(map[string]AchievementDef, len(Achievements))
	for _, a := range Achievements {
		m[a.ID] = a
	}
	return m
}()

// LookupAchievement returns the definition for id.
func LookupAchievement(id string) (AchievementDef, bool) {
	a, ok := achievementsByID[id]
	return a, ok
}

// CheckAchievements returns every achievement id the stats qualify for.
// The caller is responsible for skipping ones already unlocked.
func CheckAchievements(s Stats) []string {
	var earned []string
	for _, a := range Achievements {
		if a.qualifies(s) {
			earned = append(earned, a.ID)
		}
	}
	return earned
}

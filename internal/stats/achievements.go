package stats

// Achievement is a named accomplishment announced at most once per player.
type Achievement struct {
	ID          string
	Name        string
	Emoji       string
	Description string
	Category    string
}

// Achievement categories.
const (
	CategoryMatchPerformance = "Match Performance"
	CategoryStatistical      = "Statistical Excellence"
	CategoryStreak           = "Streak & Consistency"
	CategoryTeam             = "Team Performance"
)

// Achievements is every achievement the bot can award, keyed by id.
var Achievements = map[string]Achievement{
	"hat_trick_hero": {
		ID: "hat_trick_hero", Name: "Hat Trick Hero", Emoji: "⚽",
		Description: "Score 3+ goals in a single match",
		Category:    CategoryMatchPerformance,
	},
	"assist_king": {
		ID: "assist_king", Name: "Assist King", Emoji: "🎯",
		Description: "Get 3+ assists in a single match",
		Category:    CategoryMatchPerformance,
	},
	"perfect_10": {
		ID: "perfect_10", Name: "Perfect 10", Emoji: "💯",
		Description: "Achieve a 10.0 match rating",
		Category:    CategoryMatchPerformance,
	},
	"man_of_match": {
		ID: "man_of_match", Name: "Man of the Match", Emoji: "⭐",
		Description: "Earn your first MOTM award",
		Category:    CategoryMatchPerformance,
	},
	"sharpshooter": {
		ID: "sharpshooter", Name: "Sharpshooter", Emoji: "🔫",
		Description: "Maintain 70%+ shot accuracy (min 50 matches)",
		Category:    CategoryStatistical,
	},
	"playmaker": {
		ID: "playmaker", Name: "Playmaker", Emoji: "🎭",
		Description: "More assists than goals (min 50 of each)",
		Category:    CategoryStatistical,
	},
	"goal_machine": {
		ID: "goal_machine", Name: "Goal Machine", Emoji: "🤖",
		Description: "Average 2+ goals per game (min 25 matches)",
		Category:    CategoryStatistical,
	},
	"midfield_maestro": {
		ID: "midfield_maestro", Name: "Midfield Maestro", Emoji: "🎼",
		Description: "90%+ pass accuracy (min 100 matches)",
		Category:    CategoryStatistical,
	},
	"the_wall": {
		ID: "the_wall", Name: "The Wall", Emoji: "🧱",
		Description: "80%+ tackle success rate (min 500 tackles)",
		Category:    CategoryStatistical,
	},
	"on_fire": {
		ID: "on_fire", Name: "On Fire", Emoji: "🔥",
		Description: "Score in 5 consecutive matches",
		Category:    CategoryStreak,
	},
	"mr_reliable": {
		ID: "mr_reliable", Name: "Mr. Reliable", Emoji: "💪",
		Description: "Play 20 consecutive matches",
		Category:    CategoryStreak,
	},
	"clean_sheet_specialist": {
		ID: "clean_sheet_specialist", Name: "Clean Sheet Specialist", Emoji: "🧤",
		Description: "5 clean sheets in a row (GK/Defender)",
		Category:    CategoryStreak,
	},
	"demolition": {
		ID: "demolition", Name: "Demolition", Emoji: "💥",
		Description: "Win a match 10-0 or better",
		Category:    CategoryTeam,
	},
	"giant_killer": {
		ID: "giant_killer", Name: "Giant Killer", Emoji: "⚔️",
		Description: "Beat a team with 500+ skill rating difference",
		Category:    CategoryTeam,
	},
}

// Streak window sizes.
const (
	goalStreakWindow       = 5
	matchStreakWindow      = 20
	cleanSheetStreakWindow = 5
)

// MatchLine is one player's stat line from a single match.
type MatchLine struct {
	Goals   int
	Assists int
	Rating  float64
	MOTM    bool
}

// TeamContext is the club-level outcome of a single match.
type TeamContext struct {
	Won                 bool
	GoalsFor            int
	GoalsAgainst        int
	SkillRating         int
	OpponentSkillRating int
}

// HistoryEntry is the slice of recorded match history the streak evaluators
// need. Entries are expected newest-first.
type HistoryEntry struct {
	Goals      int
	CleanSheet bool
}

// CheckCareerAchievements evaluates achievements computable from cumulative
// career totals alone.
func CheckCareerAchievements(totals PlayerTotals, already func(id string) bool) []Achievement {
	var earned []Achievement
	emit := func(id string, ok bool) {
		if ok && !already(id) {
			earned = append(earned, Achievements[id])
		}
	}

	emit("man_of_match", totals.ManOfTheMatch >= 1)
	emit("sharpshooter", totals.Matches >= 50 && totals.ShotSuccessRate >= 70)
	emit("playmaker", totals.Assists >= 50 && totals.Goals >= 50 && totals.Assists > totals.Goals)
	emit("goal_machine", totals.Matches >= 25 && float64(totals.Goals) >= 2.0*float64(totals.Matches))
	emit("midfield_maestro", totals.Matches >= 100 && totals.PassSuccessRate >= 90)
	emit("the_wall", totals.TacklesMade >= 500 && totals.TackleSuccessRate >= 80)

	return earned
}

// CheckMatchAchievements evaluates achievements scoped to one just-fetched
// match.
func CheckMatchAchievements(line MatchLine, team TeamContext, already func(id string) bool) []Achievement {
	var earned []Achievement
	emit := func(id string, ok bool) {
		if ok && !already(id) {
			earned = append(earned, Achievements[id])
		}
	}

	emit("hat_trick_hero", line.Goals >= 3)
	emit("assist_king", line.Assists >= 3)
	emit("perfect_10", line.Rating >= 10.0)
	emit("demolition", team.Won && team.GoalsFor >= 10 && team.GoalsAgainst == 0)
	emit("giant_killer", team.Won && team.OpponentSkillRating-team.SkillRating >= 500)

	return earned
}

// CheckStreakAchievements evaluates consecutive-match achievements over the
// recorded history (newest first). A history shorter than a window is simply
// not eligible yet; it is re-checked on later cycles as history grows.
func CheckStreakAchievements(history []HistoryEntry, already func(id string) bool) []Achievement {
	var earned []Achievement
	emit := func(id string, ok bool) {
		if ok && !already(id) {
			earned = append(earned, Achievements[id])
		}
	}

	emit("on_fire", len(history) >= goalStreakWindow &&
		allOf(history[:goalStreakWindow], func(e HistoryEntry) bool { return e.Goals > 0 }))
	emit("mr_reliable", len(history) >= matchStreakWindow)
	emit("clean_sheet_specialist", len(history) >= cleanSheetStreakWindow &&
		allOf(history[:cleanSheetStreakWindow], func(e HistoryEntry) bool { return e.CleanSheet }))

	return earned
}

func allOf(entries []HistoryEntry, pred func(HistoryEntry) bool) bool {
	for _, e := range entries {
		if !pred(e) {
			return false
		}
	}
	return true
}

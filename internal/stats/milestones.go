package stats

// Cumulative stat categories with milestone thresholds.
const (
	StatGoals   = "goals"
	StatAssists = "assists"
	StatMatches = "matches"
	StatMOTM    = "motm"
)

// MilestoneThresholds are the fixed ascending thresholds per stat category.
var MilestoneThresholds = map[string][]int{
	StatGoals:   {1, 10, 25, 50, 100, 250, 500},
	StatAssists: {1, 10, 25, 50, 100, 250, 500},
	StatMatches: {1, 10, 25, 50, 100, 250, 500},
	StatMOTM:    {1, 5, 10, 25, 50, 100},
}

// statOrder keeps evaluation and announcement order deterministic.
var statOrder = []string{StatGoals, StatAssists, StatMatches, StatMOTM}

var statDisplay = map[string]struct {
	Label string
	Emoji string
}{
	StatGoals:   {"Goals", "⚽"},
	StatAssists: {"Assists", "🅰️"},
	StatMatches: {"Matches Played", "🎮"},
	StatMOTM:    {"Man of the Match", "⭐"},
}

// PlayerTotals are a player's cumulative career stats from the club roster.
type PlayerTotals struct {
	Name              string
	Matches           int
	Goals             int
	Assists           int
	ManOfTheMatch     int
	ShotSuccessRate   int
	PassSuccessRate   int
	TackleSuccessRate int
	TacklesMade       int
	CleanSheetsGK     int
	CleanSheetsDef    int
}

func (t PlayerTotals) statValue(stat string) int {
	switch stat {
	case StatGoals:
		return t.Goals
	case StatAssists:
		return t.Assists
	case StatMatches:
		return t.Matches
	case StatMOTM:
		return t.ManOfTheMatch
	}
	return 0
}

// MilestoneEvent is one newly crossed, not-yet-announced threshold.
type MilestoneEvent struct {
	Stat      string
	Threshold int
	Label     string
	Emoji     string
}

// CheckMilestones returns every crossed threshold the already predicate does
// not filter out. A player who jumped several thresholds since the last
// evaluation gets all of them, not just the highest.
func CheckMilestones(totals PlayerTotals, already func(stat string, threshold int) bool) []MilestoneEvent {
	var events []MilestoneEvent
	for _, stat := range statOrder {
		value := totals.statValue(stat)
		for _, threshold := range MilestoneThresholds[stat] {
			if value >= threshold && !already(stat, threshold) {
				display := statDisplay[stat]
				events = append(events, MilestoneEvent{
					Stat:      stat,
					Threshold: threshold,
					Label:     display.Label,
					Emoji:     display.Emoji,
				})
			}
		}
	}
	return events
}

// CrossedMilestones returns every threshold the totals already satisfy,
// without filtering. Used for the one-time historical summary when a player
// is first observed.
func CrossedMilestones(totals PlayerTotals) []MilestoneEvent {
	return CheckMilestones(totals, func(string, int) bool { return false })
}

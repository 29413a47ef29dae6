package game

import (
	"strings"

	"github.com/sakif/quiz-arena/internal/model"
)

// FastCompletionSeconds is the duration limit for the "fast" families.
const FastCompletionSeconds = 30

// GoalSource looks up the completion goal of an achievement id.
// *catalog.Catalog implements it.
type GoalSource interface {
	Goal(id string) (int, bool)
}

// rule says when a family advances and how.
type rule struct {
	applies func(o model.GameOutcome) bool
	// setToOne marks progress as 1 instead of adding 1.
	setToOne bool
}

func won(o model.GameOutcome) bool { return o.IsWin }

func fiveCorrect(o model.GameOutcome) bool { return o.CorrectAnswers == WinThreshold }

func fast(o model.GameOutcome) bool { return o.GameDuration <= FastCompletionSeconds }

// familyRules is keyed by family: the id with its numeric tier suffix removed.
// Tiers only change the goal, so perfect_game_1, _5 and _10 all advance on
// the same round.
//
// perfect_game and legendary share a condition on purpose. They are separate
// reward tracks with independent counters.
var familyRules = map[string]rule{
	"first_game_win":  {applies: won, setToOne: true},
	"perfect_game":    {applies: fiveCorrect},
	"fast_completion": {applies: func(o model.GameOutcome) bool { return won(o) && fast(o) }},
	"solo_victory":    {applies: won},
	"undefeated":      {applies: won},
	"legendary":       {applies: fiveCorrect},
	"grandmaster":     {applies: func(o model.GameOutcome) bool { return fiveCorrect(o) && fast(o) }},
	"immortal":        {applies: won},
}

// Family strips a trailing "_<digits>" tier suffix from an achievement id.
// Ids without a numeric suffix are their own family.
func Family(id string) string {
	idx := strings.LastIndexByte(id, '_')
	if idx <= 0 || idx == len(id)-1 {
		return id
	}
	for _, r := range id[idx+1:] {
		if r < '0' || r > '9' {
			return id
		}
	}
	return id[:idx]
}

// EvaluateAchievements applies one round to a user's achievement collection
// and returns the updated collection in the same order. The input slice is
// not modified.
//
// After progress is advanced, Completed is recomputed as progress >= goal.
// Entries whose family has no rule, or whose id has no goal in the catalog,
// are passed through unchanged so that stored collections survive catalog
// changes.
func EvaluateAchievements(entries []model.AchievementProgress, outcome model.GameOutcome, goals GoalSource) []model.AchievementProgress {
	out := make([]model.AchievementProgress, len(entries))

	for i, entry := range entries {
		out[i] = entry

		r, known := familyRules[Family(entry.AchievementID)]
		if !known {
			continue
		}
		goal, ok := goals.Goal(entry.AchievementID)
		if !ok {
			continue
		}

		if r.applies(outcome) {
			if r.setToOne {
				out[i].Progress = 1
			} else {
				out[i].Progress = entry.Progress + 1
			}
		}
		out[i].Completed = out[i].Progress >= goal
	}

	return out
}

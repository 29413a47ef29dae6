package game

import (
	"strconv"
	"strings"

	"github.com/sakif/quiz-arena/internal/model"
)

const (
	// WinThreshold is the number of correct answers that wins a round:
	// half of QuestionsPerGame, independent of the coin tiers.
	WinThreshold = 5

	// PointsPerCorrectAnswer is added to TotalPoints for each correct answer.
	PointsPerCorrectAnswer = 10
)

// IsWin reports whether a round with the given score counts as a win.
func IsWin(correctAnswers int) bool {
	return correctAnswers >= WinThreshold
}

// UpdateStats applies one finished round to a player's cumulative stats and
// returns the new record. It is an update, not a set: applying the same
// round twice advances the counters twice.
//
// Rules, in order:
//  1. the round is won when correctAnswers >= WinThreshold
//  2. points earned = correctAnswers * PointsPerCorrectAnswer
//  3. a win extends the streak, a loss resets it to 0
//  4. best streak = max(previous best, new streak)
//  5. games played +1
//  6. wins +1 on a win
//  7. win ratio = wins / games played, rounded to one decimal
//  8. coins += CalculateCoins(correctAnswers)
func UpdateStats(current model.Stats, correctAnswers int) model.Stats {
	won := IsWin(correctAnswers)

	next := current
	next.TotalPoints = current.TotalPoints + correctAnswers*PointsPerCorrectAnswer

	if won {
		next.Streak = current.Streak + 1
		next.Wins = current.Wins + 1
	} else {
		next.Streak = 0
	}
	next.BestStreak = max(current.BestStreak, next.Streak)

	next.GamesPlayed = current.GamesPlayed + 1
	next.WinRatio = WinRatio(next.Wins, next.GamesPlayed)
	next.Coins = current.Coins + CalculateCoins(correctAnswers)

	return next
}

// WinRatio returns wins/gamesPlayed rounded half-up to one decimal place,
// or 0 when no games have been played.
//
// Rounding looks at the exact decimal expansion of the float64 quotient:
// 1/4 is exactly 0.25 and rounds up to 0.3, while 7/20 is stored as
// 0.34999… and rounds down to 0.3. Both match Number.prototype.toFixed(1).
func WinRatio(wins, gamesPlayed int) float64 {
	if gamesPlayed <= 0 {
		return 0
	}
	ratio := float64(wins) / float64(gamesPlayed)
	return roundTenthHalfUp(ratio)
}

// roundTenthHalfUp rounds a non-negative x to one decimal place, ties away
// from zero. strconv.FormatFloat(x, 'f', 1, 64) would round ties to even.
func roundTenthHalfUp(x float64) float64 {
	s := strconv.FormatFloat(x, 'f', 30, 64)
	dot := strings.IndexByte(s, '.')
	whole, err := strconv.Atoi(s[:dot])
	if err != nil {
		// FormatFloat output always parses.
		return x
	}
	tenths := whole*10 + int(s[dot+1]-'0')
	if s[dot+2] >= '5' {
		tenths++
	}
	return float64(tenths) / 10
}

package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/quiz-arena/internal/model"
)

func TestUpdateStats_PerfectGameFromExistingRecord(t *testing.T) {
	current := model.Stats{
		Streak:      2,
		BestStreak:  3,
		Wins:        5,
		GamesPlayed: 9,
		Coins:       10,
		TotalPoints: 400,
	}

	got := UpdateStats(current, 10)

	assert.Equal(t, 3, got.Streak)
	assert.Equal(t, 3, got.BestStreak)
	assert.Equal(t, 6, got.Wins)
	assert.Equal(t, 10, got.GamesPlayed)
	assert.Equal(t, 0.6, got.WinRatio)
	assert.Equal(t, 20, got.Coins)
	assert.Equal(t, 500, got.TotalPoints)
}

func TestUpdateStats_LossResetsStreak(t *testing.T) {
	current := model.Stats{Streak: 4, BestStreak: 4, Wins: 4, GamesPlayed: 4, WinRatio: 1}

	got := UpdateStats(current, 4)

	assert.Equal(t, 0, got.Streak)
	assert.Equal(t, 4, got.BestStreak, "best streak survives a loss")
	assert.Equal(t, 4, got.Wins)
	assert.Equal(t, 5, got.GamesPlayed)
	assert.Equal(t, 0.8, got.WinRatio)
	assert.Equal(t, 40, got.TotalPoints)
	assert.Equal(t, 0, got.Coins)
}

func TestUpdateStats_WinThresholdIsFive(t *testing.T) {
	assert.Equal(t, 0, UpdateStats(model.Stats{}, 4).Wins)
	assert.Equal(t, 1, UpdateStats(model.Stats{}, 5).Wins)
}

func TestUpdateStats_NewBestStreak(t *testing.T) {
	got := UpdateStats(model.Stats{Streak: 3, BestStreak: 3, Wins: 3, GamesPlayed: 3}, 7)
	assert.Equal(t, 4, got.Streak)
	assert.Equal(t, 4, got.BestStreak)
}

// The same round applied twice compounds: UpdateStats is not idempotent.
func TestUpdateStats_NotIdempotent(t *testing.T) {
	start := model.Stats{Streak: 1, BestStreak: 1, Wins: 1, GamesPlayed: 1, Coins: 5}

	once := UpdateStats(start, 10)
	twice := UpdateStats(once, 10)

	assert.NotEqual(t, once, twice)
	assert.Equal(t, once.Streak+1, twice.Streak)
	assert.Equal(t, once.Coins+10, twice.Coins)
	assert.Equal(t, once.GamesPlayed+1, twice.GamesPlayed)
}

func TestUpdateStats_DoesNotMutateInput(t *testing.T) {
	start := model.Stats{Streak: 1, BestStreak: 2, Wins: 1, GamesPlayed: 2}
	copyOfStart := start

	_ = UpdateStats(start, 10)

	assert.Equal(t, copyOfStart, start)
}

// Walk every score from a spread of starting records and check the record
// invariants hold after each step.
func TestUpdateStats_Invariants(t *testing.T) {
	starts := []model.Stats{
		{},
		{Streak: 2, BestStreak: 3, Wins: 5, GamesPlayed: 9, Coins: 10},
		{Streak: 7, BestStreak: 7, Wins: 7, GamesPlayed: 7},
		{Streak: 0, BestStreak: 12, Wins: 20, GamesPlayed: 50, Coins: 3},
	}

	for _, start := range starts {
		for correct := 0; correct <= QuestionsPerGame; correct++ {
			got := UpdateStats(start, correct)

			if got.BestStreak < got.Streak {
				t.Errorf("start=%+v correct=%d: bestStreak %d < streak %d", start, correct, got.BestStreak, got.Streak)
			}
			if got.BestStreak < start.BestStreak {
				t.Errorf("start=%+v correct=%d: bestStreak decreased %d -> %d", start, correct, start.BestStreak, got.BestStreak)
			}
			if got.Wins > got.GamesPlayed {
				t.Errorf("start=%+v correct=%d: wins %d > gamesPlayed %d", start, correct, got.Wins, got.GamesPlayed)
			}
			if got.WinRatio < 0 || got.WinRatio > 1 {
				t.Errorf("start=%+v correct=%d: winRatio %v out of [0,1]", start, correct, got.WinRatio)
			}
			if got.Coins < start.Coins {
				t.Errorf("start=%+v correct=%d: coins decreased", start, correct)
			}
		}
	}
}

func TestWinRatio(t *testing.T) {
	tests := []struct {
		wins, played int
		want         float64
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 1, 1},
		{1, 3, 0.3},
		{2, 3, 0.7},
		{6, 10, 0.6},
		{7, 20, 0.3}, // 0.35 is stored as 0.3499…
		{1, 8, 0.1},
		{1, 4, 0.3}, // exact tie rounds up
		{2, 8, 0.3},
		{5, 20, 0.3},
		{3, 4, 0.8},
		{19, 20, 0.9}, // 0.95 is stored as 0.9499…
	}

	for _, tt := range tests {
		if got := WinRatio(tt.wins, tt.played); got != tt.want {
			t.Errorf("WinRatio(%d, %d) = %v, want %v", tt.wins, tt.played, got, tt.want)
		}
	}
}

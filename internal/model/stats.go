package model

// Stats is a player's cumulative record. One row per user, created with
// zero values at signup.
//
// Invariants maintained by game.UpdateStats:
//   - BestStreak >= Streak
//   - Wins <= GamesPlayed
//   - WinRatio == round(Wins/GamesPlayed, 1 decimal), 0 before the first game
type Stats struct {
	Wins        int     `json:"wins"`
	GamesPlayed int     `json:"gamesPlayed"`
	Streak      int     `json:"streak"`
	BestStreak  int     `json:"bestStreak"`
	TotalPoints int     `json:"totalPoints"`
	WinRatio    float64 `json:"winRatio"`
	Coins       int     `json:"coins"`
}

// GameOutcome is what the client submits after finishing one quiz round.
// The values are trusted as given; there is no anti-cheat validation.
type GameOutcome struct {
	CorrectAnswers int
	// GameDuration is in seconds.
	GameDuration float64
	IsWin        bool
}

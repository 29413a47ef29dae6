// Package game holds the pure rules of a quiz round: how many coins a game
// pays, how a player's cumulative stats change, which achievements advance,
// and the arithmetic of the hint ledger.
//
// Nothing in this package touches the database, the clock, or the network.
// Every function takes the current state plus a game outcome and returns the
// next state, which makes the rules easy to test exhaustively. The service
// layer is responsible for loading state and persisting the result inside a
// single transaction.
package game

// QuestionsPerGame is the fixed length of a quiz round.
const QuestionsPerGame = 10

// CalculateCoins maps a round's correct-answer count to the coins it pays.
//
// The reward curve is tiered, not linear: only near-perfect rounds pay.
//
//	10 correct → 10 coins
//	 9 correct →  3 coins
//	 8 correct →  1 coin
//	≤7 correct →  0 coins
//
// The linear curve (1 coin per correct answer, +5 for a perfect round) is
// not used.
func CalculateCoins(correctAnswers int) int {
	switch {
	case correctAnswers >= QuestionsPerGame:
		return 10
	case correctAnswers == 9:
		return 3
	case correctAnswers == 8:
		return 1
	default:
		return 0
	}
}

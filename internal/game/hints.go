package game

import (
	"github.com/sakif/quiz-arena/internal/apperror"
	"github.com/sakif/quiz-arena/internal/model"
)

// ChargeCoins debits cost from a player's balance. The balance never goes
// negative: a short balance is a PreconditionFailed error and stats are
// returned unchanged.
func ChargeCoins(stats model.Stats, cost int) (model.Stats, error) {
	if stats.Coins < cost {
		return stats, apperror.PreconditionFailed("insufficient funds")
	}
	stats.Coins -= cost
	return stats, nil
}

// AddHint returns a copy of the inventory with one more of hintID.
// A hint missing from the inventory (the catalog grew after the user signed
// up) is appended with quantity 1.
func AddHint(inventory []model.HintQuantity, hintID string) []model.HintQuantity {
	out := make([]model.HintQuantity, len(inventory), len(inventory)+1)
	copy(out, inventory)

	for i := range out {
		if out[i].HintID == hintID {
			out[i].Quantity++
			return out
		}
	}
	return append(out, model.HintQuantity{HintID: hintID, Quantity: 1})
}

// ConsumeHint returns a copy of the inventory with one fewer of hintID.
//
// Errors:
//   - NotFound when hintID is not in the inventory
//   - PreconditionFailed when its quantity is already zero
func ConsumeHint(inventory []model.HintQuantity, hintID string) ([]model.HintQuantity, error) {
	for i, h := range inventory {
		if h.HintID != hintID {
			continue
		}
		if h.Quantity <= 0 {
			return nil, apperror.PreconditionFailed("no hints available")
		}
		out := make([]model.HintQuantity, len(inventory))
		copy(out, inventory)
		out[i].Quantity--
		return out, nil
	}
	return nil, apperror.NotFound("hint", hintID)
}

package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/quiz-arena/internal/apperror"
	"github.com/sakif/quiz-arena/internal/model"
)

func TestChargeCoins(t *testing.T) {
	got, err := ChargeCoins(model.Stats{Coins: 12, Wins: 3}, 5)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Coins)
	assert.Equal(t, 3, got.Wins)

	got, err = ChargeCoins(model.Stats{Coins: 5}, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Coins)
}

func TestChargeCoins_InsufficientFunds(t *testing.T) {
	got, err := ChargeCoins(model.Stats{Coins: 3}, 5)

	assert.True(t, errors.Is(err, apperror.ErrPreconditionFailed))
	assert.Equal(t, 3, got.Coins)
}

func TestAddHint(t *testing.T) {
	inv := []model.HintQuantity{{HintID: "hint_50_50", Quantity: 0}, {HintID: "hint_skip_question", Quantity: 2}}

	got := AddHint(inv, "hint_skip_question")

	assert.Equal(t, 3, got[1].Quantity)
	assert.Equal(t, 2, inv[1].Quantity, "input is not modified")
}

func TestAddHint_AppendsMissingEntry(t *testing.T) {
	inv := []model.HintQuantity{{HintID: "hint_50_50", Quantity: 1}}

	got := AddHint(inv, "hint_time_extension")

	require.Len(t, got, 2)
	assert.Equal(t, model.HintQuantity{HintID: "hint_time_extension", Quantity: 1}, got[1])
	assert.Len(t, inv, 1)
}

func TestConsumeHint(t *testing.T) {
	inv := []model.HintQuantity{{HintID: "hint_50_50", Quantity: 1}}

	got, err := ConsumeHint(inv, "hint_50_50")
	require.NoError(t, err)
	assert.Equal(t, 0, got[0].Quantity)
	assert.Equal(t, 1, inv[0].Quantity)
}

func TestConsumeHint_Errors(t *testing.T) {
	inv := []model.HintQuantity{{HintID: "hint_skip_question", Quantity: 0}}

	_, err := ConsumeHint(inv, "hint_skip_question")
	assert.True(t, errors.Is(err, apperror.ErrPreconditionFailed), "zero quantity: got %v", err)

	_, err = ConsumeHint(inv, "hint_unknown")
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "unknown hint: got %v", err)
}

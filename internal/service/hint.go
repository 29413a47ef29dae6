package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/quiz-arena/internal/apperror"
	"github.com/sakif/quiz-arena/internal/catalog"
	"github.com/sakif/quiz-arena/internal/game"
	"github.com/sakif/quiz-arena/internal/model"
	"github.com/sakif/quiz-arena/internal/repository"
)

// HintRequest is the payload of the purchase and use endpoints.
type HintRequest struct {
	HintID string `json:"hintId" validate:"required"`
}

// HintService runs the hint shop: coins in, hints out, hints consumed.
type HintService struct {
	store   repository.Store
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func NewHintService(store repository.Store, cat *catalog.Catalog, logger *slog.Logger) *HintService {
	return &HintService{store: store, catalog: cat, logger: logger}
}

// Catalog lists every purchasable hint with its price.
func (s *HintService) Catalog() []model.Hint {
	return s.catalog.Hints()
}

// Inventory returns how many of each hint the user holds.
func (s *HintService) Inventory(ctx context.Context, userID string) ([]model.HintQuantity, error) {
	hints, err := s.store.GetHints(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/hint: reading inventory for %s: %w", userID, err)
	}
	return hints, nil
}

// Purchase spends the hint's cost in coins and adds one to the inventory.
//
// The balance check, the debit and the increment share one transaction with
// the stats and inventory rows locked, so concurrent purchases can never
// spend the same coins twice. A short balance is PreconditionFailed and
// nothing changes.
func (s *HintService) Purchase(ctx context.Context, userID string, in HintRequest) ([]model.HintQuantity, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	hint, ok := s.catalog.Hint(in.HintID)
	if !ok {
		return nil, apperror.NotFound("hint", in.HintID)
	}

	var inventory []model.HintQuantity
	err := s.store.InTx(ctx, func(tx repository.Tx) error {
		stats, err := tx.GetStatsForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		charged, err := game.ChargeCoins(*stats, hint.Cost)
		if err != nil {
			return err
		}

		current, err := tx.GetHintsForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		inventory = game.AddHint(current, hint.ID)

		if err := tx.UpdateStats(ctx, userID, charged); err != nil {
			return err
		}
		return tx.UpdateHints(ctx, userID, inventory)
	})
	if err != nil {
		return nil, fmt.Errorf("service/hint: purchasing %s for %s: %w", in.HintID, userID, err)
	}

	s.logger.Info("hint purchased",
		slog.String("userID", userID),
		slog.String("hintID", hint.ID),
		slog.Int("cost", hint.Cost),
	)
	return inventory, nil
}

// Use consumes one hint. A hint the user does not own (quantity 0) is
// PreconditionFailed; an id not in the inventory is NotFound.
func (s *HintService) Use(ctx context.Context, userID string, in HintRequest) ([]model.HintQuantity, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var inventory []model.HintQuantity
	err := s.store.InTx(ctx, func(tx repository.Tx) error {
		current, err := tx.GetHintsForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		inventory, err = game.ConsumeHint(current, in.HintID)
		if err != nil {
			return err
		}
		return tx.UpdateHints(ctx, userID, inventory)
	})
	if err != nil {
		return nil, fmt.Errorf("service/hint: using %s for %s: %w", in.HintID, userID, err)
	}

	s.logger.Debug("hint used", slog.String("userID", userID), slog.String("hintID", in.HintID))
	return inventory, nil
}

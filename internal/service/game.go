package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/quiz-arena/internal/apperror"
	"github.com/sakif/quiz-arena/internal/catalog"
	"github.com/sakif/quiz-arena/internal/game"
	"github.com/sakif/quiz-arena/internal/model"
	"github.com/sakif/quiz-arena/internal/repository"
)

// GameResult is the payload of POST /api/stats/update.
//
// Pointers distinguish "missing" from zero: a round with 0 correct answers
// is valid, an absent field is not.
type GameResult struct {
	CorrectAnswers *int     `json:"correctAnswers" validate:"required,min=0,max=10"`
	GameDuration   *float64 `json:"gameDuration"   validate:"required,min=0"`
}

// GameService records finished rounds and serves stats and achievements.
type GameService struct {
	store   repository.Store
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func NewGameService(store repository.Store, cat *catalog.Catalog, logger *slog.Logger) *GameService {
	return &GameService{store: store, catalog: cat, logger: logger}
}

// GetStats returns the user's stats. A user without a stats record gets a
// zeroed Stats rather than an error.
func (s *GameService) GetStats(ctx context.Context, userID string) (*model.Stats, error) {
	stats, err := s.store.GetStats(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return &model.Stats{}, nil
		}
		return nil, fmt.Errorf("service/game: reading stats for %s: %w", userID, err)
	}
	return stats, nil
}

// SubmitGame applies one finished round to the user's stats and achievement
// progress in a single transaction and returns the updated stats.
//
// Both records are read with row locks, so two rounds submitted at the same
// time are applied one after the other. A missing stats or achievement
// record is a NotFound and nothing is written.
//
// The same win rule (correctAnswers >= 5) feeds both the streak counters and
// the achievement engine.
func (s *GameService) SubmitGame(ctx context.Context, userID string, in GameResult) (*model.Stats, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	outcome := model.GameOutcome{
		CorrectAnswers: *in.CorrectAnswers,
		GameDuration:   *in.GameDuration,
		IsWin:          game.IsWin(*in.CorrectAnswers),
	}

	var updated model.Stats
	err := s.store.InTx(ctx, func(tx repository.Tx) error {
		current, err := tx.GetStatsForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		updated = game.UpdateStats(*current, outcome.CorrectAnswers)
		if err := tx.UpdateStats(ctx, userID, updated); err != nil {
			return err
		}

		progress, err := tx.GetAchievementsForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		next := game.EvaluateAchievements(progress, outcome, s.catalog)
		return tx.UpdateAchievements(ctx, userID, next)
	})
	if err != nil {
		return nil, fmt.Errorf("service/game: recording game for %s: %w", userID, err)
	}

	s.logger.Info("game recorded",
		slog.String("userID", userID),
		slog.Int("correctAnswers", outcome.CorrectAnswers),
		slog.Bool("win", outcome.IsWin),
		slog.Int("coins", updated.Coins),
	)
	return &updated, nil
}

// GetAchievements returns the user's progress joined with the catalog's
// name, description and goal. Entries whose id is no longer in the catalog
// are returned with empty descriptive fields.
func (s *GameService) GetAchievements(ctx context.Context, userID string) ([]model.AchievementView, error) {
	progress, err := s.store.GetAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/game: reading achievements for %s: %w", userID, err)
	}

	views := make([]model.AchievementView, 0, len(progress))
	for _, p := range progress {
		v := model.AchievementView{
			AchievementID: p.AchievementID,
			Progress:      p.Progress,
			Completed:     p.Completed,
		}
		if a, ok := s.catalog.Achievement(p.AchievementID); ok {
			v.Goal = a.Goal
			v.Name = a.Name
			v.Description = a.Description
		}
		views = append(views, v)
	}
	return views, nil
}

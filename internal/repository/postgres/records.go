package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sakif/quiz-arena/internal/apperror"
	"github.com/sakif/quiz-arena/internal/model"
)

func (t *txStore) SeedUserRecords(ctx context.Context, userID string, achievements []model.AchievementProgress, hints []model.HintQuantity) error {
	if _, err := t.q.Exec(ctx, `INSERT INTO stats (user_id) VALUES ($1)`, userID); err != nil {
		return fmt.Errorf("postgres: seeding stats for %s: %w", userID, err)
	}

	achJSON, err := encodeCollection(achievements)
	if err != nil {
		return err
	}
	if _, err := t.q.Exec(ctx,
		`INSERT INTO user_achievements (user_id, achievements) VALUES ($1, $2::jsonb)`,
		userID, achJSON); err != nil {
		return fmt.Errorf("postgres: seeding achievements for %s: %w", userID, err)
	}

	hintJSON, err := encodeCollection(hints)
	if err != nil {
		return err
	}
	if _, err := t.q.Exec(ctx,
		`INSERT INTO user_hints (user_id, hints) VALUES ($1, $2::jsonb)`,
		userID, hintJSON); err != nil {
		return fmt.Errorf("postgres: seeding hints for %s: %w", userID, err)
	}
	return nil
}

const statsColumns = `wins, games_played, streak, best_streak, total_points, win_ratio, coins`

func (db *DB) GetStats(ctx context.Context, userID string) (*model.Stats, error) {
	return getStats(ctx, db.pool, `SELECT `+statsColumns+` FROM stats WHERE user_id = $1`, userID)
}

func (t *txStore) GetStatsForUpdate(ctx context.Context, userID string) (*model.Stats, error) {
	return getStats(ctx, t.q, `SELECT `+statsColumns+` FROM stats WHERE user_id = $1 FOR UPDATE`, userID)
}

func (t *txStore) UpdateStats(ctx context.Context, userID string, s model.Stats) error {
	tag, err := t.q.Exec(ctx,
		`UPDATE stats
		 SET wins = $1, games_played = $2, streak = $3, best_streak = $4,
		     total_points = $5, win_ratio = $6, coins = $7
		 WHERE user_id = $8`,
		s.Wins, s.GamesPlayed, s.Streak, s.BestStreak, s.TotalPoints, s.WinRatio, s.Coins, userID,
	)
	if err != nil {
		return fmt.Errorf("postgres: updating stats for %s: %w", userID, err)
	}
	return expectOneRow(tag, "stats", userID)
}

func getStats(ctx context.Context, q querier, query, userID string) (*model.Stats, error) {
	var s model.Stats
	err := q.QueryRow(ctx, query, userID).
		Scan(&s.Wins, &s.GamesPlayed, &s.Streak, &s.BestStreak, &s.TotalPoints, &s.WinRatio, &s.Coins)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("stats", userID)
		}
		return nil, fmt.Errorf("postgres: reading stats for %s: %w", userID, err)
	}
	return &s, nil
}

func (db *DB) GetAchievements(ctx context.Context, userID string) ([]model.AchievementProgress, error) {
	var out []model.AchievementProgress
	err := getCollection(ctx, db.pool,
		`SELECT achievements FROM user_achievements WHERE user_id = $1`, "achievements", userID, &out)
	return out, err
}

func (t *txStore) GetAchievementsForUpdate(ctx context.Context, userID string) ([]model.AchievementProgress, error) {
	var out []model.AchievementProgress
	err := getCollection(ctx, t.q,
		`SELECT achievements FROM user_achievements WHERE user_id = $1 FOR UPDATE`, "achievements", userID, &out)
	return out, err
}

func (t *txStore) UpdateAchievements(ctx context.Context, userID string, achievements []model.AchievementProgress) error {
	return putCollection(ctx, t.q,
		`UPDATE user_achievements SET achievements = $1::jsonb WHERE user_id = $2`, "achievements", userID, achievements)
}

func (db *DB) GetHints(ctx context.Context, userID string) ([]model.HintQuantity, error) {
	var out []model.HintQuantity
	err := getCollection(ctx, db.pool,
		`SELECT hints FROM user_hints WHERE user_id = $1`, "hints", userID, &out)
	return out, err
}

func (t *txStore) GetHintsForUpdate(ctx context.Context, userID string) ([]model.HintQuantity, error) {
	var out []model.HintQuantity
	err := getCollection(ctx, t.q,
		`SELECT hints FROM user_hints WHERE user_id = $1 FOR UPDATE`, "hints", userID, &out)
	return out, err
}

func (t *txStore) UpdateHints(ctx context.Context, userID string, hints []model.HintQuantity) error {
	return putCollection(ctx, t.q,
		`UPDATE user_hints SET hints = $1::jsonb WHERE user_id = $2`, "hints", userID, hints)
}

func getCollection(ctx context.Context, q querier, query, resource, userID string, dst any) error {
	var raw []byte
	if err := q.QueryRow(ctx, query, userID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NotFound(resource, userID)
		}
		return fmt.Errorf("postgres: reading %s for %s: %w", resource, userID, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("postgres: decoding %s for %s: %w", resource, userID, err)
	}
	return nil
}

func putCollection(ctx context.Context, q querier, query, resource, userID string, v any) error {
	raw, err := encodeCollection(v)
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, query, raw, userID)
	if err != nil {
		return fmt.Errorf("postgres: writing %s for %s: %w", resource, userID, err)
	}
	return expectOneRow(tag, resource, userID)
}

func encodeCollection(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("postgres: encoding collection: %w", err)
	}
	if string(b) == "null" {
		return "[]", nil
	}
	return string(b), nil
}

func expectOneRow(tag pgconn.CommandTag, resource, userID string) error {
	if tag.RowsAffected() == 0 {
		return apperror.NotFound(resource, userID)
	}
	return nil
}

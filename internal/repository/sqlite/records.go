package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sakif/quiz-arena/internal/apperror"
	"github.com/sakif/quiz-arena/internal/model"
)

// SeedUserRecords creates the zeroed stats row and both per-user collections.
func (t *txStore) SeedUserRecords(ctx context.Context, userID string, achievements []model.AchievementProgress, hints []model.HintQuantity) error {
	if _, err := t.q.ExecContext(ctx,
		`INSERT INTO stats (user_id) VALUES (?)`, userID); err != nil {
		return fmt.Errorf("sqlite: seeding stats for %s: %w", userID, err)
	}

	achJSON, err := encodeCollection(achievements)
	if err != nil {
		return err
	}
	if _, err := t.q.ExecContext(ctx,
		`INSERT INTO user_achievements (user_id, achievements) VALUES (?, ?)`,
		userID, achJSON); err != nil {
		return fmt.Errorf("sqlite: seeding achievements for %s: %w", userID, err)
	}

	hintJSON, err := encodeCollection(hints)
	if err != nil {
		return err
	}
	if _, err := t.q.ExecContext(ctx,
		`INSERT INTO user_hints (user_id, hints) VALUES (?, ?)`,
		userID, hintJSON); err != nil {
		return fmt.Errorf("sqlite: seeding hints for %s: %w", userID, err)
	}

	return nil
}

// --- stats ---

func (db *DB) GetStats(ctx context.Context, userID string) (*model.Stats, error) {
	return getStats(ctx, db.conn, userID)
}

// GetStatsForUpdate reads the stats row. The transaction already holds the
// database write lock (BEGIN IMMEDIATE), so no row lock is needed.
func (t *txStore) GetStatsForUpdate(ctx context.Context, userID string) (*model.Stats, error) {
	return getStats(ctx, t.q, userID)
}

func (t *txStore) UpdateStats(ctx context.Context, userID string, s model.Stats) error {
	res, err := t.q.ExecContext(ctx,
		`UPDATE stats
		 SET wins = ?, games_played = ?, streak = ?, best_streak = ?,
		     total_points = ?, win_ratio = ?, coins = ?
		 WHERE user_id = ?`,
		s.Wins, s.GamesPlayed, s.Streak, s.BestStreak,
		s.TotalPoints, s.WinRatio, s.Coins,
		userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating stats for %s: %w", userID, err)
	}
	return expectOneRow(res, "stats", userID)
}

func getStats(ctx context.Context, q querier, userID string) (*model.Stats, error) {
	var s model.Stats
	err := q.QueryRowContext(ctx,
		`SELECT wins, games_played, streak, best_streak, total_points, win_ratio, coins
		 FROM stats WHERE user_id = ?`, userID,
	).Scan(&s.Wins, &s.GamesPlayed, &s.Streak, &s.BestStreak, &s.TotalPoints, &s.WinRatio, &s.Coins)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("stats", userID)
		}
		return nil, fmt.Errorf("sqlite: reading stats for %s: %w", userID, err)
	}
	return &s, nil
}

// --- achievements ---

func (db *DB) GetAchievements(ctx context.Context, userID string) ([]model.AchievementProgress, error) {
	var out []model.AchievementProgress
	err := getCollection(ctx, db.conn,
		`SELECT achievements FROM user_achievements WHERE user_id = ?`, "achievements", userID, &out)
	return out, err
}

func (t *txStore) GetAchievementsForUpdate(ctx context.Context, userID string) ([]model.AchievementProgress, error) {
	var out []model.AchievementProgress
	err := getCollection(ctx, t.q,
		`SELECT achievements FROM user_achievements WHERE user_id = ?`, "achievements", userID, &out)
	return out, err
}

func (t *txStore) UpdateAchievements(ctx context.Context, userID string, achievements []model.AchievementProgress) error {
	return putCollection(ctx, t.q,
		`UPDATE user_achievements SET achievements = ? WHERE user_id = ?`, "achievements", userID, achievements)
}

// --- hints ---

func (db *DB) GetHints(ctx context.Context, userID string) ([]model.HintQuantity, error) {
	var out []model.HintQuantity
	err := getCollection(ctx, db.conn,
		`SELECT hints FROM user_hints WHERE user_id = ?`, "hints", userID, &out)
	return out, err
}

func (t *txStore) GetHintsForUpdate(ctx context.Context, userID string) ([]model.HintQuantity, error) {
	var out []model.HintQuantity
	err := getCollection(ctx, t.q,
		`SELECT hints FROM user_hints WHERE user_id = ?`, "hints", userID, &out)
	return out, err
}

func (t *txStore) UpdateHints(ctx context.Context, userID string, hints []model.HintQuantity) error {
	return putCollection(ctx, t.q,
		`UPDATE user_hints SET hints = ? WHERE user_id = ?`, "hints", userID, hints)
}

// --- helpers ---

func getCollection(ctx context.Context, q querier, query, resource, userID string, dst any) error {
	var raw string
	if err := q.QueryRowContext(ctx, query, userID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound(resource, userID)
		}
		return fmt.Errorf("sqlite: reading %s for %s: %w", resource, userID, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("sqlite: decoding %s for %s: %w", resource, userID, err)
	}
	return nil
}

func putCollection(ctx context.Context, q querier, query, resource, userID string, v any) error {
	raw, err := encodeCollection(v)
	if err != nil {
		return err
	}
	res, err := q.ExecContext(ctx, query, raw, userID)
	if err != nil {
		return fmt.Errorf("sqlite: writing %s for %s: %w", resource, userID, err)
	}
	return expectOneRow(res, resource, userID)
}

// encodeCollection marshals a per-user collection. A nil slice is stored
// as [] so readers always get a JSON array back.
func encodeCollection(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("sqlite: encoding collection: %w", err)
	}
	if string(b) == "null" {
		return "[]", nil
	}
	return string(b), nil
}

func expectOneRow(res sql.Result, resource, userID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, userID)
	}
	return nil
}

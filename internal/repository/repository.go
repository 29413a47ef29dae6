// Package repository declares the storage interfaces the services depend on.
//
// The services never import a concrete store. main.go picks one
// (repository/sqlite or repository/postgres) and hands it to the server,
// which passes it down as a repository.Store.
//
// TRANSACTIONS:
// Every write in this application touches a per-user counter that another
// request may be changing at the same moment (coins, hint quantities,
// streaks). Writes therefore only happen through Store.InTx, which gives the
// callback a Tx. Reads made through Tx's ...ForUpdate methods lock the rows
// they return until the transaction ends, so a read-check-write sequence
// inside one InTx call cannot interleave with another one for the same user.
// If the callback returns an error the whole transaction is rolled back.
package repository

import (
	"context"

	"github.com/sakif/quiz-arena/internal/model"
)

// Store is the application's relational store.
type Store interface {
	// InTx runs fn inside one transaction. fn's error (if any) is returned
	// unchanged after rollback; a nil error commits.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByGitHubID(ctx context.Context, githubID int64) (*model.User, error)

	// DeleteUser removes a user; stats, achievements and hints go with it.
	DeleteUser(ctx context.Context, id string) error

	// Plain reads outside any transaction. Each returns apperror.ErrNotFound
	// when the user has no such record.
	GetStats(ctx context.Context, userID string) (*model.Stats, error)
	GetAchievements(ctx context.Context, userID string) ([]model.AchievementProgress, error)
	GetHints(ctx context.Context, userID string) ([]model.HintQuantity, error)

	Ping(ctx context.Context) error
	Close() error
}

// Tx is the set of operations available inside Store.InTx.
type Tx interface {
	// CreateUser inserts a user, filling in ID and timestamps.
	// A taken username or GitHub ID returns apperror.ErrConflict.
	CreateUser(ctx context.Context, user *model.User) error

	// SeedUserRecords creates the zeroed stats row, the achievement
	// collection and the hint inventory for a new user.
	SeedUserRecords(ctx context.Context, userID string, achievements []model.AchievementProgress, hints []model.HintQuantity) error

	GetStatsForUpdate(ctx context.Context, userID string) (*model.Stats, error)
	UpdateStats(ctx context.Context, userID string, stats model.Stats) error

	GetAchievementsForUpdate(ctx context.Context, userID string) ([]model.AchievementProgress, error)
	UpdateAchievements(ctx context.Context, userID string, achievements []model.AchievementProgress) error

	GetHintsForUpdate(ctx context.Context, userID string) ([]model.HintQuantity, error)
	UpdateHints(ctx context.Context, userID string, hints []model.HintQuantity) error
}

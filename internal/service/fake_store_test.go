package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/sakif/quiz-arena/internal/apperror"
	"github.com/sakif/quiz-arena/internal/auth"
	"github.com/sakif/quiz-arena/internal/catalog"
	"github.com/sakif/quiz-arena/internal/model"
	"github.com/sakif/quiz-arena/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// =========================================================================
// FAKE STORE
// =========================================================================

// fakeStore is an in-memory repository.Store. InTx holds a mutex for the
// whole callback (one writer at a time, like SQLite's BEGIN IMMEDIATE) and
// restores a snapshot when the callback fails, so tests can assert that
// nothing was persisted.
type fakeStore struct {
	mu sync.Mutex

	users        map[string]*model.User
	stats        map[string]model.Stats
	achievements map[string][]model.AchievementProgress
	hints        map[string][]model.HintQuantity
	nextID       int

	// failOn makes the named Tx method return the error.
	failOn map[string]error
}

var _ repository.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[string]*model.User),
		stats:        make(map[string]model.Stats),
		achievements: make(map[string][]model.AchievementProgress),
		hints:        make(map[string][]model.HintQuantity),
		failOn:       make(map[string]error),
	}
}

type snapshot struct {
	users        map[string]*model.User
	stats        map[string]model.Stats
	achievements map[string][]model.AchievementProgress
	hints        map[string][]model.HintQuantity
	nextID       int
}

func (f *fakeStore) snapshot() snapshot {
	s := snapshot{
		users:        maps.Clone(f.users),
		stats:        maps.Clone(f.stats),
		achievements: make(map[string][]model.AchievementProgress, len(f.achievements)),
		hints:        make(map[string][]model.HintQuantity, len(f.hints)),
		nextID:       f.nextID,
	}
	for k, v := range f.achievements {
		s.achievements[k] = slices.Clone(v)
	}
	for k, v := range f.hints {
		s.hints[k] = slices.Clone(v)
	}
	return s
}

func (f *fakeStore) restore(s snapshot) {
	f.users = s.users
	f.stats = s.stats
	f.achievements = s.achievements
	f.hints = s.hints
	f.nextID = s.nextID
}

func (f *fakeStore) InTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := f.snapshot()
	if err := fn(&fakeTx{f: f}); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, apperror.NotFound("user", id)
}

func (f *fakeStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (f *fakeStore) GetUserByGitHubID(ctx context.Context, githubID int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.GitHubID != nil && *u.GitHubID == githubID {
			c := *u
			return &c, nil
		}
	}
	return nil, apperror.NotFound("github user", fmt.Sprint(githubID))
}

func (f *fakeStore) DeleteUser(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return apperror.NotFound("user", id)
	}
	delete(f.users, id)
	delete(f.stats, id)
	delete(f.achievements, id)
	delete(f.hints, id)
	return nil
}

func (f *fakeStore) GetStats(ctx context.Context, userID string) (*model.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stats[userID]
	if !ok {
		return nil, apperror.NotFound("stats", userID)
	}
	return &s, nil
}

func (f *fakeStore) GetAchievements(ctx context.Context, userID string) ([]model.AchievementProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.achievements[userID]
	if !ok {
		return nil, apperror.NotFound("achievements", userID)
	}
	return slices.Clone(a), nil
}

func (f *fakeStore) GetHints(ctx context.Context, userID string) ([]model.HintQuantity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hints[userID]
	if !ok {
		return nil, apperror.NotFound("hints", userID)
	}
	return slices.Clone(h), nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }

func (f *fakeStore) Close() error { return nil }

// fakeTx operates on the store while InTx already holds its mutex.
type fakeTx struct {
	f *fakeStore
}

func (t *fakeTx) fail(method string) error {
	return t.f.failOn[method]
}

func (t *fakeTx) CreateUser(ctx context.Context, user *model.User) error {
	if err := t.fail("CreateUser"); err != nil {
		return err
	}
	for _, u := range t.f.users {
		if u.Username == user.Username {
			return apperror.AlreadyTaken("username")
		}
		if user.GitHubID != nil && u.GitHubID != nil && *u.GitHubID == *user.GitHubID {
			return apperror.AlreadyTaken("github account")
		}
	}
	t.f.nextID++
	user.ID = fmt.Sprintf("user-%d", t.f.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	c := *user
	t.f.users[user.ID] = &c
	return nil
}

func (t *fakeTx) SeedUserRecords(ctx context.Context, userID string, achievements []model.AchievementProgress, hints []model.HintQuantity) error {
	if err := t.fail("SeedUserRecords"); err != nil {
		return err
	}
	t.f.stats[userID] = model.Stats{}
	t.f.achievements[userID] = slices.Clone(achievements)
	t.f.hints[userID] = slices.Clone(hints)
	return nil
}

func (t *fakeTx) GetStatsForUpdate(ctx context.Context, userID string) (*model.Stats, error) {
	s, ok := t.f.stats[userID]
	if !ok {
		return nil, apperror.NotFound("stats", userID)
	}
	return &s, nil
}

func (t *fakeTx) UpdateStats(ctx context.Context, userID string, s model.Stats) error {
	if err := t.fail("UpdateStats"); err != nil {
		return err
	}
	if _, ok := t.f.stats[userID]; !ok {
		return apperror.NotFound("stats", userID)
	}
	t.f.stats[userID] = s
	return nil
}

func (t *fakeTx) GetAchievementsForUpdate(ctx context.Context, userID string) ([]model.AchievementProgress, error) {
	a, ok := t.f.achievements[userID]
	if !ok {
		return nil, apperror.NotFound("achievements", userID)
	}
	return slices.Clone(a), nil
}

func (t *fakeTx) UpdateAchievements(ctx context.Context, userID string, a []model.AchievementProgress) error {
	if err := t.fail("UpdateAchievements"); err != nil {
		return err
	}
	t.f.achievements[userID] = slices.Clone(a)
	return nil
}

func (t *fakeTx) GetHintsForUpdate(ctx context.Context, userID string) ([]model.HintQuantity, error) {
	h, ok := t.f.hints[userID]
	if !ok {
		return nil, apperror.NotFound("hints", userID)
	}
	return slices.Clone(h), nil
}

func (t *fakeTx) UpdateHints(ctx context.Context, userID string, h []model.HintQuantity) error {
	if err := t.fail("UpdateHints"); err != nil {
		return err
	}
	t.f.hints[userID] = slices.Clone(h)
	return nil
}

// =========================================================================
// HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	return c
}

func newTestAuthService(t *testing.T, store *fakeStore) *AuthService {
	t.Helper()
	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return NewAuthService(store, testCatalog(t), ts,
		auth.NewPasswordServiceWithCost(bcrypt.MinCost), testLogger())
}

// seedUser inserts a user with seeded records directly, bypassing AuthService.
func seedUser(t *testing.T, store *fakeStore, cat *catalog.Catalog, stats model.Stats) string {
	t.Helper()
	var id string
	err := store.InTx(context.Background(), func(tx repository.Tx) error {
		u := &model.User{Username: fmt.Sprintf("player%d", store.nextID+1), PasswordHash: "x"}
		if err := tx.CreateUser(context.Background(), u); err != nil {
			return err
		}
		id = u.ID
		if err := tx.SeedUserRecords(context.Background(), u.ID, cat.NewAchievementProgress(), cat.NewHintInventory()); err != nil {
			return err
		}
		return tx.UpdateStats(context.Background(), u.ID, stats)
	})
	if err != nil {
		t.Fatalf("seedUser: %v", err)
	}
	return id
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

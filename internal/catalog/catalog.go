// Package catalog holds the static achievement and hint catalogs.
//
// Both catalogs are configuration, not data: they are decoded once at startup
// (from the embedded catalog.toml, or an override file) and are read-only for
// the life of the process. No method on Catalog mutates it and every accessor
// that returns a slice hands out a copy, so a *Catalog can be shared freely
// between request goroutines without locking.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/sakif/quiz-arena/internal/model"
)

//go:embed catalog.toml
var defaultCatalog []byte

// file mirrors the TOML layout.
type file struct {
	Achievements []model.Achievement `toml:"achievements"`
	Hints        []model.Hint        `toml:"hints"`
}

// Catalog is the immutable, process-wide achievement and hint catalog.
type Catalog struct {
	achievements    []model.Achievement
	achievementByID map[string]model.Achievement
	hints           []model.Hint
	hintByID        map[string]model.Hint
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from a TOML file on disk. An empty path returns the
// embedded default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a TOML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: decoding toml: %w", err)
	}

	c := &Catalog{
		achievementByID: make(map[string]model.Achievement, len(f.Achievements)),
		hintByID:        make(map[string]model.Hint, len(f.Hints)),
	}

	for _, a := range f.Achievements {
		if a.ID == "" {
			return nil, errors.New("catalog: achievement with empty id")
		}
		if a.Goal <= 0 {
			return nil, fmt.Errorf("catalog: achievement %s has non-positive goal %d", a.ID, a.Goal)
		}
		if _, dup := c.achievementByID[a.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate achievement id %s", a.ID)
		}
		c.achievementByID[a.ID] = a
		c.achievements = append(c.achievements, a)
	}

	for _, h := range f.Hints {
		if h.ID == "" {
			return nil, errors.New("catalog: hint with empty id")
		}
		if h.Cost <= 0 {
			return nil, fmt.Errorf("catalog: hint %s has non-positive cost %d", h.ID, h.Cost)
		}
		if _, dup := c.hintByID[h.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate hint id %s", h.ID)
		}
		c.hintByID[h.ID] = h
		c.hints = append(c.hints, h)
	}

	if len(c.achievements) == 0 || len(c.hints) == 0 {
		return nil, errors.New("catalog: achievements and hints must both be non-empty")
	}

	return c, nil
}

// Achievements returns the achievement catalog in declaration order.
func (c *Catalog) Achievements() []model.Achievement {
	out := make([]model.Achievement, len(c.achievements))
	copy(out, c.achievements)
	return out
}

func (c *Catalog) Achievement(id string) (model.Achievement, bool) {
	a, ok := c.achievementByID[id]
	return a, ok
}

// Goal returns the completion goal of an achievement id.
// It satisfies game.GoalSource.
func (c *Catalog) Goal(id string) (int, bool) {
	a, ok := c.achievementByID[id]
	return a.Goal, ok
}

// Hints returns the hint catalog in declaration order.
func (c *Catalog) Hints() []model.Hint {
	out := make([]model.Hint, len(c.hints))
	copy(out, c.hints)
	return out
}

func (c *Catalog) Hint(id string) (model.Hint, bool) {
	h, ok := c.hintByID[id]
	return h, ok
}

// NewAchievementProgress returns the zeroed collection seeded for a new user:
// one entry per catalog id, in catalog order.
func (c *Catalog) NewAchievementProgress() []model.AchievementProgress {
	out := make([]model.AchievementProgress, len(c.achievements))
	for i, a := range c.achievements {
		out[i] = model.AchievementProgress{AchievementID: a.ID}
	}
	return out
}

// NewHintInventory returns the empty inventory seeded for a new user.
func (c *Catalog) NewHintInventory() []model.HintQuantity {
	out := make([]model.HintQuantity, len(c.hints))
	for i, h := range c.hints {
		out[i] = model.HintQuantity{HintID: h.ID}
	}
	return out
}

package model

// AchievementProgress is one entry of a user's achievement collection.
// The collection always holds one entry per catalog id, in catalog order.
type AchievementProgress struct {
	AchievementID string `json:"achievementId"`
	Progress      int    `json:"progress"`
	Completed     bool   `json:"completed"`
}

// Achievement is the descriptive catalog entry for an achievement id.
type Achievement struct {
	ID          string `json:"id"          toml:"id"`
	Name        string `json:"name"        toml:"name"`
	Description string `json:"description" toml:"description"`
	Goal        int    `json:"goal"        toml:"goal"`
}

// AchievementView is a progress entry joined with its catalog description,
// the shape returned by GET /api/achievements.
type AchievementView struct {
	AchievementID string `json:"achievementId"`
	Progress      int    `json:"progress"`
	Completed     bool   `json:"completed"`
	Goal          int    `json:"goal"`
	Name          string `json:"name"`
	Description   string `json:"description"`
}

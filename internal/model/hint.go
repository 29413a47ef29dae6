package model

// HintQuantity is one entry of a user's hint inventory.
type HintQuantity struct {
	HintID   string `json:"hintId"`
	Quantity int    `json:"quantity"`
}

// Hint is the shop catalog entry for a hint id. Cost is in coins.
type Hint struct {
	ID          string `json:"id"          toml:"id"`
	Name        string `json:"name"        toml:"name"`
	Description string `json:"description" toml:"description"`
	Cost        int    `json:"cost"        toml:"cost"`
}

// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered player account.
//
// Players sign up with a username and password, or sign in with GitHub.
// Exactly one of PasswordHash / GitHubID is usually set, but a GitHub user
// keeps working if a password is added later.
//
// WHY *int64 FOR GitHubID?
// Password-only users have no GitHub account. A nil pointer maps to SQL NULL,
// which the UNIQUE constraint on github_id ignores, so many users can have
// "no GitHub account" at the same time.
//
// PasswordHash is tagged json:"-" so it can never leak through an API response.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	GitHubID     *int64    `json:"githubId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

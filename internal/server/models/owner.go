// Package models defines server-side data models persisted in the database.
package models

import "time"

// Owner is an account that has claimed a unique handle and receives notes.
// PasswordHash is empty for passwordless claimed pages.
type Owner struct {
	ID           string
	Handle       string
	Email        string
	PasswordHash string
	Bio          string
	Theme        string
	IsAdmin      bool
	CreatedAt    time.Time
}

// TrendingOwner is an owner together with their approved note count, used
// by the discover listing.
type TrendingOwner struct {
	Handle    string
	Bio       string
	Theme     string
	NoteCount int64
}

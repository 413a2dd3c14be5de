package models

import "time"

// Note is a unit of submitted content: a visitor message, an anonymous
// confession, or an owner-authored diary post. One schema covers all three.
type Note struct {
	ID         int64
	OwnerID    string
	Message    string
	SenderName string
	Anonymous  bool
	Private    bool
	Category   Category
	Status     Status
	Reactions  Reactions
	Flagged    bool
	Read       bool
	// SubmitterHash is an HMAC of the submitter's IP. Raw addresses are
	// never stored.
	SubmitterHash string
	CreatedAt     time.Time
}

// Category labels the tone of a note. Free-form values are rejected at the
// boundary.
type Category string

const (
	CategoryGeneral    Category = "general"
	CategoryCompliment Category = "compliment"
	CategoryConfession Category = "confession"
	CategoryRoast      Category = "roast"
)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryGeneral, CategoryCompliment, CategoryConfession, CategoryRoast:
		return true
	}
	return false
}

// Reactions holds per-type engagement counters. The set of types is fixed;
// unknown types are rejected, never silently added.
type Reactions struct {
	Heart int64
	Laugh int64
	Wow   int64
}

// Total returns the sum of all counters.
func (r Reactions) Total() int64 {
	return r.Heart + r.Laugh + r.Wow
}

// ReactionType names a single counter in Reactions.
type ReactionType string

const (
	ReactionHeart ReactionType = "heart"
	ReactionLaugh ReactionType = "laugh"
	ReactionWow   ReactionType = "wow"
)

// ValidReactionType reports whether t is one of the known reaction types.
func ValidReactionType(t ReactionType) bool {
	switch t {
	case ReactionHeart, ReactionLaugh, ReactionWow:
		return true
	}
	return false
}

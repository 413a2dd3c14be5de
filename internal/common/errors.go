// Package common defines shared constants and sentinel errors used across
// the mydiary server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Submission validation errors, in the order the abuse filter checks them.
	ErrEmptyContent = errors.New("empty content")
	ErrTooShort     = errors.New("content too short")
	ErrTooLong      = errors.New("content too long")
	ErrProfane      = errors.New("content contains blocked words")

	// ErrRateLimited is returned when a submitter hits the per-owner cooldown
	// or the daily submission cap.
	ErrRateLimited = errors.New("rate limited")

	// Moderation errors.
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvalidReactionType = errors.New("invalid reaction type")
	ErrInvalidStatus       = errors.New("invalid status")

	// Owner registration errors.
	ErrHandleTaken   = errors.New("handle already taken")
	ErrInvalidHandle = errors.New("invalid handle")
	ErrEmailTaken    = errors.New("email already used")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)

package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Event errors
	ErrEmptyUserID  = errors.New("user id must not be empty")
	ErrNegativeXP   = errors.New("xp amount must be positive")
	ErrNegativeStat = errors.New("stat counters never decrease")

	// Achievement errors
	ErrAchievementNotFound  = errors.New("achievement not found in catalog")
	ErrDuplicateAchievement = errors.New("duplicate achievement id in catalog")
	ErrEmptyRequirements    = errors.New("achievement has no requirements")
	ErrInvalidTarget        = errors.New("requirement target must be positive")

	// Points errors
	ErrInsufficientPoints = errors.New("insufficient points balance")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")
)

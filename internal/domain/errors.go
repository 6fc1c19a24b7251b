package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Profile / party errors
	ErrProfileNotFound = errors.New("progress profile not found")
	ErrPartyNotFound   = errors.New("party record not found")
	ErrEmptyUserID     = errors.New("user id must not be empty")

	// Group errors
	ErrGroupNotFound = errors.New("group not found")
	ErrAlreadyMember = errors.New("user is already a member of this group")
	ErrNotMember     = errors.New("user is not a member of this group")
	ErrNotGroupAdmin = errors.New("user is not an admin of this group")
	ErrUnknownGoal   = errors.New("unknown group goal type")
	ErrGoalNotFound  = errors.New("group goal not found")

	// Catalog errors
	ErrUnknownBadge     = errors.New("unknown badge id")
	ErrUnknownChallenge = errors.New("unknown challenge id")
)

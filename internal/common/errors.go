// Package common defines shared constants and sentinel errors used across
// the client and operator layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Connectivity: the remote store (or blob store) was unreachable.
	// A queue drain pass aborts when it sees this classification.
	ErrOffline = errors.New("offline")

	// Queue errors.
	ErrInvalidQueueItem = errors.New("invalid queue item")

	// Claim workflow errors.
	ErrEmptyClaim          = errors.New("claim contains no records")
	ErrClaimAlreadyDecided = errors.New("claim request already decided")
	ErrNotAdmin            = errors.New("administrator privileges required")

	// Record invariants.
	ErrPhotoMissingEverywhere = errors.New("record has neither photo nor photoUrl")
)

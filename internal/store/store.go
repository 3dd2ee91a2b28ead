package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Store is the persistence boundary for rooms, live messages and judged
// debates. Every method is individually atomic; the room actor provides the
// per-room write serialization on top.
type Store interface {
	CreateRoom(ctx context.Context, room *Room) error
	GetRoom(ctx context.Context, id string) (*Room, error)
	LockSettings(ctx context.Context, roomID string, maxRounds int) error

	// BindRole records which seat a user holds the moment they first
	// join, so roles survive actor eviction even for a participant who
	// has not sent a message yet. Re-binding an existing pair is a no-op.
	BindRole(ctx context.Context, roomID, userID, role string) error
	ListRoleBindings(ctx context.Context, roomID string) (map[string]string, error)

	AppendMessage(ctx context.Context, msg *LiveMessage) error
	ListMessages(ctx context.Context, roomID string) ([]LiveMessage, error)

	// ClaimJudgment conditionally marks the room judged. It returns true
	// for exactly one caller per room; every later call returns false.
	ClaimJudgment(ctx context.Context, roomID string) (bool, error)
	SaveDebates(ctx context.Context, debates []Debate) error
	ListDebates(ctx context.Context, userID string) ([]Debate, error)
}

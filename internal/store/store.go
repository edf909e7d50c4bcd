// Package store is the persistence layer for users, credentials and talks.
// Postgres backs the running application; Memory has the same semantics and
// backs unit tests.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/johndosdos/talkroom/internal/model"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("already exists")
)

// NewUser describes a user to insert.
type NewUser struct {
	ID       uuid.UUID
	Username string
	Email    string
}

// NewTalk describes a talk to insert. The time is assigned by the store.
type NewTalk struct {
	Message    string
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
}

type Users interface {
	// CreateUser returns ErrConflict if the username is taken.
	CreateUser(ctx context.Context, u NewUser) (model.User, error)
	// CreateUsers inserts users in one call, silently skipping the ones whose
	// username is taken. It returns the ids that were actually inserted.
	CreateUsers(ctx context.Context, users []NewUser) ([]uuid.UUID, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	// ListUsersExcept returns every user but id, ordered by username. A
	// non-empty keyword keeps usernames containing it, case-insensitively.
	ListUsersExcept(ctx context.Context, id uuid.UUID, keyword string) ([]model.User, error)
	// ListUserIDsExcept returns every user id but id, oldest first.
	ListUserIDsExcept(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	// UpdateUsername returns ErrConflict if the username is taken.
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) (model.User, error)
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) (model.User, error)
	UpdateIcon(ctx context.Context, id uuid.UUID, icon string) (model.User, error)
}

type Passwords interface {
	// CreateUserWithPassword creates a user and its password hash together.
	// Either both are stored or neither is. It returns ErrConflict if the
	// username is taken.
	CreateUserWithPassword(ctx context.Context, u NewUser, hash string) (model.User, error)
	// SetPassword creates or replaces the user's password hash.
	SetPassword(ctx context.Context, id uuid.UUID, hash string) error
	GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error)
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error
	// GetUserFromRefreshToken returns ErrNotFound for unknown, expired and
	// revoked tokens alike.
	GetUserFromRefreshToken(ctx context.Context, token string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

type Talks interface {
	CreateTalk(ctx context.Context, t NewTalk) (model.Talk, error)
	// CreateTalks inserts talks in one call and returns the ids of the
	// created rows. The order of the ids is unspecified.
	CreateTalks(ctx context.Context, talks []NewTalk) ([]int64, error)
	// ListThread returns the talks between a and b in either direction,
	// oldest first.
	ListThread(ctx context.Context, a, b uuid.UUID) ([]model.Talk, error)
	// SentMaxTimes maps each receiver to the time of the latest talk id sent
	// them.
	SentMaxTimes(ctx context.Context, id uuid.UUID) (map[uuid.UUID]time.Time, error)
	// ReceivedMaxTimes maps each sender to the time of the latest talk they
	// sent id.
	ReceivedMaxTimes(ctx context.Context, id uuid.UUID) (map[uuid.UUID]time.Time, error)
	// UpdateTalkTimes overwrites the time of each talk in ids with the
	// matching entry of times. It fails with ErrNotFound if any id is unknown.
	UpdateTalkTimes(ctx context.Context, ids []int64, times []time.Time) error
}

// Store is the full persistence surface.
type Store interface {
	Users
	Passwords
	RefreshTokens
	Talks
}

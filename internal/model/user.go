// Package model defines data structure.
package model

import (
	"time"

	"github.com/google/uuid"
)

// User holds account information. Icon is the storage key of the user's
// avatar and is empty when no icon was uploaded.
type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	Icon      string
	CreatedAt time.Time
}

// Friend is another user annotated with the time of the latest talk exchanged
// with the current user in either direction. LastTalkTime is nil when the two
// users never talked.
type Friend struct {
	User
	LastTalkTime *time.Time
}

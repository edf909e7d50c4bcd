package model

import (
	"time"

	"github.com/google/uuid"
)

// MaxMessageLen is the maximum number of characters in a talk message.
const MaxMessageLen = 500

// Talk is a single directed chat message.
type Talk struct {
	ID         int64
	Message    string
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Time       time.Time
}

// Involves reports whether the talk was exchanged between a and b, in either
// direction.
func (t Talk) Involves(a, b uuid.UUID) bool {
	return (t.SenderID == a && t.ReceiverID == b) ||
		(t.SenderID == b && t.ReceiverID == a)
}

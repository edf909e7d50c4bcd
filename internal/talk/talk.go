// Package talk reads and writes the message thread between two users.
package talk

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/johndosdos/talkroom/internal/form"
	"github.com/johndosdos/talkroom/internal/model"
	"github.com/johndosdos/talkroom/internal/store"
)

// Store is the part of the persistence layer used by Service.
type Store interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)
	CreateTalk(ctx context.Context, t store.NewTalk) (model.Talk, error)
	ListThread(ctx context.Context, a, b uuid.UUID) ([]model.Talk, error)
}

// ValidationError carries the field message for a rejected talk message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return "talk: invalid message: " + e.Message }

type Service struct {
	store Store
}

func NewService(s Store) *Service {
	return &Service{store: s}
}

// Friend looks up the user behind a talk room id. Malformed and unknown ids
// both yield store.ErrNotFound.
func (s *Service) Friend(ctx context.Context, id string) (model.User, error) {
	friendID, err := uuid.Parse(id)
	if err != nil {
		return model.User{}, fmt.Errorf("talk: friend id %q: %w", id, store.ErrNotFound)
	}

	friend, err := s.store.GetUserByID(ctx, friendID)
	if err != nil {
		return model.User{}, fmt.Errorf("talk: get friend: %w", err)
	}

	return friend, nil
}

// Thread returns every talk exchanged between userID and friendID, oldest
// first. Thread(a, b) and Thread(b, a) are equal.
func (s *Service) Thread(ctx context.Context, userID, friendID uuid.UUID) ([]model.Talk, error) {
	talks, err := s.store.ListThread(ctx, userID, friendID)
	if err != nil {
		return nil, fmt.Errorf("talk: list thread: %w", err)
	}

	return talks, nil
}

// Send stores message from userID to friendID. An invalid message returns a
// *ValidationError and stores nothing.
func (s *Service) Send(ctx context.Context, userID, friendID uuid.UUID, message string) (model.Talk, error) {
	message, msg := form.Message(message)
	if msg != "" {
		return model.Talk{}, &ValidationError{Message: msg}
	}

	t, err := s.store.CreateTalk(ctx, store.NewTalk{
		Message:    message,
		SenderID:   userID,
		ReceiverID: friendID,
	})
	if err != nil {
		return model.Talk{}, fmt.Errorf("talk: create talk: %w", err)
	}

	return t, nil
}

// IsValidation reports whether err is a rejected message.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

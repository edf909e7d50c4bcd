package handler

import (
	"errors"
	"net/http"

	"github.com/johndosdos/talkroom/components/home"
	"github.com/johndosdos/talkroom/internal/auth"
	"github.com/johndosdos/talkroom/internal/store"
)

// Index is the landing page. It greets logged in users by name but does not
// require a session.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) (Result, error) {
	ctx := r.Context()

	userID, err := h.sessions.Identify(w, r)
	if errors.Is(err, auth.ErrNoSession) {
		return Render(home.Index(nil)), nil
	}
	if err != nil {
		return Result{}, err
	}

	user, err := h.store.GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return Render(home.Index(nil)), nil
	}
	if err != nil {
		return Result{}, err
	}

	nav := h.nav(ctx, user)
	return Render(home.Index(&nav)), nil
}


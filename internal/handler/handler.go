// Package handler is the HTTP surface of the application.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/johndosdos/talkroom/components/layout"
	"github.com/johndosdos/talkroom/internal/auth"
	"github.com/johndosdos/talkroom/internal/friends"
	"github.com/johndosdos/talkroom/internal/iconstore"
	"github.com/johndosdos/talkroom/internal/model"
	"github.com/johndosdos/talkroom/internal/store"
	"github.com/johndosdos/talkroom/internal/talk"
)

type Deps struct {
	Store    store.Store
	Sessions *auth.Sessions
	Icons    iconstore.Store
	// Now defaults to time.Now.
	Now func() time.Time
}

type Handler struct {
	store    store.Store
	sessions *auth.Sessions
	icons    iconstore.Store
	ranker   *friends.Ranker
	talks    *talk.Service
	now      func() time.Time
}

func New(d Deps) *Handler {
	if d.Now == nil {
		d.Now = time.Now
	}

	return &Handler{
		store:    d.Store,
		sessions: d.Sessions,
		icons:    d.Icons,
		ranker:   friends.NewRanker(d.Store),
		talks:    talk.NewService(d.Store),
		now:      d.Now,
	}
}

// currentUser loads the user that the auth middleware put in the context.
func (h *Handler) currentUser(ctx context.Context) (model.User, error) {
	userID, err := auth.GetUserFromContext(ctx)
	if err != nil {
		return model.User{}, err
	}

	user, err := h.store.GetUserByID(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("handler: current user: %w", err)
	}

	return user, nil
}

// iconURL resolves a stored icon key. Failures are logged and shown as the
// default icon.
func (h *Handler) iconURL(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}

	u, err := h.icons.URL(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "failed to resolve icon url",
			slog.String("key", key),
			slog.Any("error", err))
		return ""
	}

	return u
}

func (h *Handler) nav(ctx context.Context, u model.User) layout.Nav {
	return layout.Nav{Username: u.Username, IconURL: h.iconURL(ctx, u.Icon)}
}

func parseForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		slog.WarnContext(r.Context(), "failed to parse form values", slog.Any("error", err))
		return errBadRequest
	}

	return nil
}

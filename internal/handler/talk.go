package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	viewTalk "github.com/johndosdos/talkroom/components/talk"
	"github.com/johndosdos/talkroom/internal/model"
	"github.com/johndosdos/talkroom/internal/talk"
)

const bubbleTimeLayout = "2006/01/02 15:04"

func talkURL(friendID string) string {
	return "/talk/" + friendID
}

func (h *Handler) roomView(r *http.Request, me, friend model.User, thread []model.Talk) viewTalk.View {
	ctx := r.Context()

	bubbles := make([]viewTalk.Bubble, 0, len(thread))
	for _, t := range thread {
		bubbles = append(bubbles, viewTalk.Bubble{
			Message:  t.Message,
			Time:     t.Time.Local().Format(bubbleTimeLayout),
			DateTime: t.Time.Format(time.RFC3339),
			Mine:     t.SenderID == me.ID,
		})
	}

	return viewTalk.View{
		Nav:           h.nav(ctx, me),
		Friend:        friend.Username,
		FriendIconURL: h.iconURL(ctx, friend.Icon),
		Bubbles:       bubbles,
	}
}

func (h *Handler) loadRoom(r *http.Request) (model.User, model.User, []model.Talk, error) {
	ctx := r.Context()

	me, err := h.currentUser(ctx)
	if err != nil {
		return model.User{}, model.User{}, nil, err
	}

	friend, err := h.talks.Friend(ctx, chi.URLParam(r, "friendID"))
	if err != nil {
		return model.User{}, model.User{}, nil, err
	}

	thread, err := h.talks.Thread(ctx, me.ID, friend.ID)
	if err != nil {
		return model.User{}, model.User{}, nil, err
	}

	return me, friend, thread, nil
}

// TalkRoom shows the conversation with one friend.
func (h *Handler) TalkRoom(w http.ResponseWriter, r *http.Request) (Result, error) {
	me, friend, thread, err := h.loadRoom(r)
	if err != nil {
		return Result{}, err
	}

	return Render(viewTalk.Room(h.roomView(r, me, friend, thread))), nil
}

// SendTalk posts a message to the friend and returns to the thread.
func (h *Handler) SendTalk(w http.ResponseWriter, r *http.Request) (Result, error) {
	ctx := r.Context()
	if err := parseForm(r); err != nil {
		return Result{}, err
	}

	me, friend, thread, err := h.loadRoom(r)
	if err != nil {
		return Result{}, err
	}

	message := r.PostFormValue("message")
	_, err = h.talks.Send(ctx, me.ID, friend.ID, message)
	if ve, ok := talk.IsValidation(err); ok {
		view := h.roomView(r, me, friend, thread)
		view.Message = message
		view.Error = ve.Message
		return Render(viewTalk.Room(view)), nil
	}
	if err != nil {
		return Result{}, err
	}

	slog.DebugContext(ctx, "talk sent",
		slog.String("from", me.Username),
		slog.String("to", friend.Username))

	return Redirect(talkURL(friend.ID.String())), nil
}

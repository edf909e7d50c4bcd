package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	viewFriends "github.com/johndosdos/talkroom/components/friends"
	"github.com/johndosdos/talkroom/internal/elapsed"
	"github.com/johndosdos/talkroom/internal/friends"
)

// pageParam reads the page query parameter. Missing means the first page;
// anything that is not a number is a page that does not exist.
func pageParam(r *http.Request) (int, error) {
	v := r.URL.Query().Get("page")
	if v == "" {
		return 1, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, friends.ErrPageNotFound
	}

	return n, nil
}

func friendsURL(keyword string, page int) string {
	q := url.Values{}
	if keyword != "" {
		q.Set("keyword", keyword)
	}
	q.Set("page", strconv.Itoa(page))

	return "/friends?" + q.Encode()
}

// Friends lists every other user, most recent conversation first.
func (h *Handler) Friends(w http.ResponseWriter, r *http.Request) (Result, error) {
	ctx := r.Context()

	me, err := h.currentUser(ctx)
	if err != nil {
		return Result{}, err
	}

	page, err := pageParam(r)
	if err != nil {
		return Result{}, err
	}

	p, err := h.ranker.Rank(ctx, me.ID, r.URL.Query().Get("keyword"), page)
	if err != nil {
		return Result{}, err
	}

	now := h.now()
	items := make([]viewFriends.Item, 0, len(p.Friends))
	for _, f := range p.Friends {
		item := viewFriends.Item{
			Username: f.Username,
			IconURL:  h.iconURL(ctx, f.Icon),
			TalkURL:  talkURL(f.ID.String()),
		}

		if f.LastTalkTime != nil {
			item.LastTalk, err = elapsed.Since(now, *f.LastTalkTime)
			if errors.Is(err, elapsed.ErrFuture) {
				slog.WarnContext(ctx, "talk time is in the future",
					slog.String("friend", f.Username),
					slog.Time("time", *f.LastTalkTime))
				item.LastTalk = ""
			}
		}

		items = append(items, item)
	}

	view := viewFriends.View{
		Nav:      h.nav(ctx, me),
		Keyword:  p.Keyword,
		Items:    items,
		Page:     p.Number,
		NumPages: p.NumPages,
	}
	if p.HasPrev() {
		view.PrevURL = friendsURL(p.Keyword, p.Number-1)
	}
	if p.HasNext() {
		view.NextURL = friendsURL(p.Keyword, p.Number+1)
	}

	return Render(viewFriends.List(view)), nil
}

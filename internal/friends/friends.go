// Package friends ranks the other users of the app by how recently the
// current user talked with them.
package friends

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/johndosdos/talkroom/internal/model"
)

// PageSize is the number of friends shown per page.
const PageSize = 7

// ErrPageNotFound is returned for a page number outside the result.
var ErrPageNotFound = errors.New("friends: page not found")

// Source is the part of the store the ranker reads from.
type Source interface {
	ListUsersExcept(ctx context.Context, id uuid.UUID, keyword string) ([]model.User, error)
	SentMaxTimes(ctx context.Context, id uuid.UUID) (map[uuid.UUID]time.Time, error)
	ReceivedMaxTimes(ctx context.Context, id uuid.UUID) (map[uuid.UUID]time.Time, error)
}

// Page is one page of ranked friends.
type Page struct {
	Friends  []model.Friend
	Number   int
	NumPages int
	Total    int
	Keyword  string
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.NumPages }

type Ranker struct {
	src      Source
	pageSize int
}

func NewRanker(src Source) *Ranker {
	return &Ranker{src: src, pageSize: PageSize}
}

// Rank returns page number page of every user other than userID, most recent
// conversation first. Users userID never talked with come last. A non-empty
// keyword restricts the candidates to usernames containing it, ignoring case.
func (r *Ranker) Rank(ctx context.Context, userID uuid.UUID, keyword string, page int) (Page, error) {
	keyword = strings.TrimSpace(keyword)

	candidates, err := r.src.ListUsersExcept(ctx, userID, keyword)
	if err != nil {
		return Page{}, fmt.Errorf("friends: list candidates: %w", err)
	}

	sent, err := r.src.SentMaxTimes(ctx, userID)
	if err != nil {
		return Page{}, fmt.Errorf("friends: sent times: %w", err)
	}

	received, err := r.src.ReceivedMaxTimes(ctx, userID)
	if err != nil {
		return Page{}, fmt.Errorf("friends: received times: %w", err)
	}

	ranked := Merge(candidates, sent, received)

	p, err := paginate(ranked, page, r.pageSize)
	if err != nil {
		return Page{}, err
	}
	p.Keyword = keyword

	return p, nil
}

// Merge annotates each candidate with its last talk time and sorts the result.
func Merge(candidates []model.User, sent, received map[uuid.UUID]time.Time) []model.Friend {
	ranked := make([]model.Friend, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, model.Friend{
			User:         c,
			LastTalkTime: LastTalkTime(lookup(sent, c.ID), lookup(received, c.ID)),
		})
	}

	Sort(ranked)

	return ranked
}

func lookup(m map[uuid.UUID]time.Time, id uuid.UUID) *time.Time {
	t, ok := m[id]
	if !ok {
		return nil
	}
	return &t
}

// LastTalkTime returns the later of the two directions, falling back to
// whichever one is set. It is nil when both are.
func LastTalkTime(sent, received *time.Time) *time.Time {
	switch {
	case sent == nil:
		return received
	case received == nil:
		return sent
	case received.After(*sent):
		return received
	default:
		return sent
	}
}

// Sort orders friends by LastTalkTime descending with nil times last. Ties go
// by username, then id.
func Sort(friends []model.Friend) {
	sort.SliceStable(friends, func(i, j int) bool {
		a, b := friends[i], friends[j]

		switch {
		case a.LastTalkTime != nil && b.LastTalkTime == nil:
			return true
		case a.LastTalkTime == nil && b.LastTalkTime != nil:
			return false
		case a.LastTalkTime != nil && !a.LastTalkTime.Equal(*b.LastTalkTime):
			return a.LastTalkTime.After(*b.LastTalkTime)
		}

		if a.Username != b.Username {
			return a.Username < b.Username
		}
		return a.ID.String() < b.ID.String()
	})
}

func paginate(friends []model.Friend, page, size int) (Page, error) {
	numPages := (len(friends) + size - 1) / size
	// An empty list still has a first, empty page.
	if numPages == 0 {
		numPages = 1
	}

	if page < 1 || page > numPages {
		return Page{}, fmt.Errorf("%w: %d of %d", ErrPageNotFound, page, numPages)
	}

	start := (page - 1) * size
	end := min(start+size, len(friends))

	return Page{
		Friends:  friends[start:end],
		Number:   page,
		NumPages: numPages,
		Total:    len(friends),
	}, nil
}

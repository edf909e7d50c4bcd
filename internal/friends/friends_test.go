package friends

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johndosdos/talkroom/internal/model"
	"github.com/johndosdos/talkroom/internal/store"
)

var base = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	t     *testing.T
	store *store.Memory
	users map[string]uuid.UUID
}

func newFixture(t *testing.T, usernames ...string) *fixture {
	t.Helper()
	f := &fixture{t: t, store: store.NewMemory(), users: make(map[string]uuid.UUID)}
	for _, name := range usernames {
		u, err := f.store.CreateUser(context.Background(), store.NewUser{ID: uuid.New(), Username: name})
		require.NoError(t, err)
		f.users[name] = u.ID
	}
	return f
}

// talk stores a message from -> to stamped at base+offset.
func (f *fixture) talk(from, to string, offset time.Duration) {
	f.t.Helper()
	ctx := context.Background()
	tk, err := f.store.CreateTalk(ctx, store.NewTalk{
		Message:    from + " to " + to,
		SenderID:   f.users[from],
		ReceiverID: f.users[to],
	})
	require.NoError(f.t, err)
	require.NoError(f.t, f.store.UpdateTalkTimes(ctx, []int64{tk.ID}, []time.Time{base.Add(offset)}))
}

func usernames(friends []model.Friend) []string {
	names := make([]string, 0, len(friends))
	for _, f := range friends {
		names = append(names, f.Username)
	}
	return names
}

func TestLastTalkTime(t *testing.T) {
	early, late := base, base.Add(time.Hour)

	tests := []struct {
		name     string
		sent     *time.Time
		received *time.Time
		want     *time.Time
	}{
		{"both nil", nil, nil, nil},
		{"only sent", &early, nil, &early},
		{"only received", nil, &late, &late},
		{"sent later", &late, &early, &late},
		{"received later", &early, &late, &late},
		{"equal", &early, &early, &early},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LastTalkTime(tt.sent, tt.received)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(*tt.want), "want %v, got %v", *tt.want, *got)
		})
	}
}

func TestRankOrdersByMostRecentTalk(t *testing.T) {
	f := newFixture(t, "me", "alice", "bob", "carol", "dave")
	f.talk("me", "alice", 1*time.Hour)
	f.talk("bob", "me", 3*time.Hour)
	f.talk("me", "carol", 2*time.Hour)
	f.talk("carol", "me", 4*time.Hour)

	// Talks between other users do not count for me.
	f.talk("alice", "dave", 10*time.Hour)

	page, err := NewRanker(f.store).Rank(context.Background(), f.users["me"], "", 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"carol", "bob", "alice", "dave"}, usernames(page.Friends))
	assert.True(t, page.Friends[0].LastTalkTime.Equal(base.Add(4*time.Hour)))
	assert.Nil(t, page.Friends[3].LastTalkTime)
}

func TestRankOneDirectionOnly(t *testing.T) {
	f := newFixture(t, "a", "b")
	f.talk("a", "b", time.Hour)
	f.talk("a", "b", 5*time.Hour)
	f.talk("a", "b", 2*time.Hour)

	tests := []struct {
		viewer string
		friend string
	}{
		{"a", "b"},
		{"b", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.viewer+"_views_"+tt.friend, func(t *testing.T) {
			page, err := NewRanker(f.store).Rank(context.Background(), f.users[tt.viewer], "", 1)
			require.NoError(t, err)
			require.Len(t, page.Friends, 1)
			assert.Equal(t, tt.friend, page.Friends[0].Username)
			require.NotNil(t, page.Friends[0].LastTalkTime)
			assert.True(t, page.Friends[0].LastTalkTime.Equal(base.Add(5*time.Hour)))
		})
	}
}

func TestRankSilentFriendsComeLastOnce(t *testing.T) {
	f := newFixture(t, "me", "quiet", "zed", "chatty")
	f.talk("me", "zed", time.Hour)
	f.talk("chatty", "me", 2*time.Hour)

	page, err := NewRanker(f.store).Rank(context.Background(), f.users["me"], "", 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"chatty", "zed", "quiet"}, usernames(page.Friends))
	assert.Equal(t, 3, page.Total)
}

func TestRankTiesByUsername(t *testing.T) {
	f := newFixture(t, "me", "carol", "alice", "bob", "dan", "erin")
	f.talk("me", "carol", time.Hour)
	f.talk("alice", "me", time.Hour)

	page, err := NewRanker(f.store).Rank(context.Background(), f.users["me"], "", 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "carol", "bob", "dan", "erin"}, usernames(page.Friends))
}

func TestRankKeyword(t *testing.T) {
	f := newFixture(t, "me", "Alice", "malik", "bob")
	f.talk("me", "bob", time.Hour)
	f.talk("me", "malik", 2*time.Hour)

	tests := []struct {
		name    string
		keyword string
		want    []string
	}{
		{"substring any case", "ALI", []string{"malik", "Alice"}},
		{"surrounding spaces", "  bo ", []string{"bob"}},
		{"blank means no filter", "   ", []string{"malik", "bob", "Alice"}},
		{"no match", "nobody", []string{}},
		{"self is never listed", "me", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := NewRanker(f.store).Rank(context.Background(), f.users["me"], tt.keyword, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, usernames(page.Friends))
		})
	}
}

func TestRankPagination(t *testing.T) {
	names := []string{"me"}
	for i := range 2*PageSize + 1 {
		names = append(names, fmt.Sprintf("user%02d", i))
	}
	f := newFixture(t, names...)
	r := NewRanker(f.store)
	ctx := context.Background()

	first, err := r.Rank(ctx, f.users["me"], "", 1)
	require.NoError(t, err)
	assert.Len(t, first.Friends, PageSize)
	assert.Equal(t, 3, first.NumPages)
	assert.False(t, first.HasPrev())
	assert.True(t, first.HasNext())

	last, err := r.Rank(ctx, f.users["me"], "", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{fmt.Sprintf("user%02d", 2*PageSize)}, usernames(last.Friends))
	assert.True(t, last.HasPrev())
	assert.False(t, last.HasNext())

	for _, page := range []int{0, -1, 4} {
		_, err := r.Rank(ctx, f.users["me"], "", page)
		assert.True(t, errors.Is(err, ErrPageNotFound), "page %d: %v", page, err)
	}
}

func TestRankEmptyResultHasFirstPage(t *testing.T) {
	f := newFixture(t, "me")

	page, err := NewRanker(f.store).Rank(context.Background(), f.users["me"], "", 1)
	require.NoError(t, err)
	assert.Empty(t, page.Friends)
	assert.Equal(t, 1, page.NumPages)
}

type failingSource struct {
	Source
}

func (failingSource) ListUsersExcept(context.Context, uuid.UUID, string) ([]model.User, error) {
	return nil, errors.New("db down")
}

func TestRankSourceError(t *testing.T) {
	_, err := NewRanker(failingSource{}).Rank(context.Background(), uuid.New(), "", 1)
	assert.ErrorContains(t, err, "db down")
}

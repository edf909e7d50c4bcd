// Package seed fills the database with demo users and conversations.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/johndosdos/talkroom/internal/model"
	"github.com/johndosdos/talkroom/internal/store"
)

// DefaultAnchor is the username every seeded talk is sent from or to.
const DefaultAnchor = "admin"

// Store is the part of the persistence layer used by the seeder.
type Store interface {
	CreateUsers(ctx context.Context, users []store.NewUser) ([]uuid.UUID, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	ListUserIDsExcept(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	CreateTalks(ctx context.Context, talks []store.NewTalk) ([]int64, error)
	UpdateTalkTimes(ctx context.Context, ids []int64, times []time.Time) error
}

type Options struct {
	// Anchor defaults to DefaultAnchor.
	Anchor string
	// Location is the calendar seeded talk times are spread over. It
	// defaults to time.Local.
	Location *time.Location
	// Seed drives every random choice; equal seeds produce equal data.
	Seed uint64
	// Now defaults to time.Now.
	Now func() time.Time
}

type Seeder struct {
	store  Store
	anchor string
	loc    *time.Location
	now    func() time.Time
	faker  *gofakeit.Faker
	rng    *rand.Rand

	// Pick chooses the other participant of a seeded talk. It draws from the
	// whole pool on every call, independent of the user the seeding loop is
	// visiting, so some users get several talks and others none.
	Pick func(pool []uuid.UUID) uuid.UUID
}

// Result summarizes one Seed run.
type Result struct {
	AnchorID     uuid.UUID
	UsersCreated int
	TalkIDs      []int64
}

func New(s Store, opts Options) *Seeder {
	if opts.Anchor == "" {
		opts.Anchor = DefaultAnchor
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	sd := &Seeder{
		store:  s,
		anchor: opts.Anchor,
		loc:    opts.Location,
		now:    opts.Now,
		faker:  gofakeit.New(opts.Seed),
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed>>1|1)),
	}
	sd.Pick = sd.randomPick

	return sd
}

func (s *Seeder) randomPick(pool []uuid.UUID) uuid.UUID {
	return pool[s.rng.IntN(len(pool))]
}

// Seed creates n users, then two talks per non-anchor user: one from the
// anchor and one to it. Finally every created talk gets a random time from
// the current calendar year. Usernames that already exist are skipped, so
// fewer than n users may be created.
func (s *Seeder) Seed(ctx context.Context, n int) (Result, error) {
	if n < 0 {
		return Result{}, errors.New("seed: user count must not be negative")
	}

	users := make([]store.NewUser, 0, n)
	for range n {
		users = append(users, store.NewUser{
			ID:       uuid.New(),
			Username: s.faker.Username(),
			Email:    s.faker.Email(),
		})
	}

	created, err := s.store.CreateUsers(ctx, users)
	if err != nil {
		return Result{}, fmt.Errorf("seed: create users: %w", err)
	}

	anchor, err := s.store.GetUserByUsername(ctx, s.anchor)
	if err != nil {
		return Result{}, fmt.Errorf("seed: anchor user %q: %w", s.anchor, err)
	}

	res := Result{AnchorID: anchor.ID, UsersCreated: len(created)}

	others, err := s.store.ListUserIDsExcept(ctx, anchor.ID)
	if err != nil {
		return res, fmt.Errorf("seed: list users: %w", err)
	}
	if len(others) == 0 {
		slog.InfoContext(ctx, "no users to talk with",
			slog.String("anchor", s.anchor))
		return res, nil
	}

	talks := make([]store.NewTalk, 0, 2*len(others))
	for range others {
		talks = append(talks,
			store.NewTalk{
				Message:    s.faker.Sentence(12),
				SenderID:   anchor.ID,
				ReceiverID: s.Pick(others),
			},
			store.NewTalk{
				Message:    s.faker.Sentence(12),
				SenderID:   s.Pick(others),
				ReceiverID: anchor.ID,
			},
		)
	}

	ids, err := s.store.CreateTalks(ctx, talks)
	if err != nil {
		return res, fmt.Errorf("seed: create talks: %w", err)
	}
	res.TalkIDs = ids

	// The store stamps new talks with the current time. Spread exactly the
	// talks created above over the year so the friends list looks lived in.
	times := make([]time.Time, 0, len(ids))
	for range ids {
		times = append(times, s.randomTime())
	}

	if err := s.store.UpdateTalkTimes(ctx, ids, times); err != nil {
		return res, fmt.Errorf("seed: update talk times: %w", err)
	}

	slog.InfoContext(ctx, "seeded demo data",
		slog.String("anchor", s.anchor),
		slog.Int("users_created", res.UsersCreated),
		slog.Int("talks_created", len(ids)))

	return res, nil
}

// randomTime returns an instant in [start of this year, now).
func (s *Seeder) randomTime() time.Time {
	now := s.now().In(s.loc)
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, s.loc)

	span := now.Sub(start)
	if span <= 0 {
		return start
	}

	return start.Add(time.Duration(s.rng.Int64N(int64(span))))
}

package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/johndosdos/talkroom/internal/model"
)

var _ Store = (*Memory)(nil)

type refreshToken struct {
	userID    uuid.UUID
	expiresAt time.Time
	revoked   bool
}

// Memory is an in-process Store. The zero value is not usable; use NewMemory.
type Memory struct {
	// Now stamps new talks. It defaults to time.Now.
	Now func() time.Time

	mu        sync.RWMutex
	users     []model.User
	byID      map[uuid.UUID]int
	passwords map[uuid.UUID]string
	tokens    map[string]refreshToken
	talks     []model.Talk
	talkByID  map[int64]int
	nextTalk  int64
}

func NewMemory() *Memory {
	return &Memory{
		Now:       time.Now,
		byID:      make(map[uuid.UUID]int),
		passwords: make(map[uuid.UUID]string),
		tokens:    make(map[string]refreshToken),
		talkByID:  make(map[int64]int),
		nextTalk:  1,
	}
}

func (m *Memory) usernameTaken(username string, except uuid.UUID) bool {
	for _, u := range m.users {
		if u.Username == username && u.ID != except {
			return true
		}
	}

	return false
}

func (m *Memory) insertUser(u NewUser) model.User {
	user := model.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: m.Now().UTC(),
	}
	m.byID[u.ID] = len(m.users)
	m.users = append(m.users, user)

	return user
}

func (m *Memory) CreateUser(_ context.Context, u NewUser) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[u.ID]; ok || m.usernameTaken(u.Username, uuid.Nil) {
		return model.User{}, fmt.Errorf("store: create user: %w", ErrConflict)
	}

	return m.insertUser(u), nil
}

func (m *Memory) CreateUsers(_ context.Context, users []NewUser) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []uuid.UUID
	for _, u := range users {
		if _, ok := m.byID[u.ID]; ok || m.usernameTaken(u.Username, uuid.Nil) {
			continue
		}
		ids = append(ids, m.insertUser(u).ID)
	}

	return ids, nil
}

func (m *Memory) GetUserByID(_ context.Context, id uuid.UUID) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byID[id]
	if !ok {
		return model.User{}, fmt.Errorf("store: get user by id: %w", ErrNotFound)
	}

	return m.users[i], nil
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}

	return model.User{}, fmt.Errorf("store: get user by username: %w", ErrNotFound)
}

func (m *Memory) ListUsersExcept(_ context.Context, id uuid.UUID, keyword string) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keyword = strings.ToLower(keyword)

	users := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		if u.ID == id {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(u.Username), keyword) {
			continue
		}
		users = append(users, u)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })

	return users, nil
}

func (m *Memory) ListUserIDsExcept(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(m.users))
	for _, u := range m.users {
		if u.ID != id {
			ids = append(ids, u.ID)
		}
	}

	return ids, nil
}

// updateUser applies fn to the stored user and returns the result.
func (m *Memory) updateUser(op string, id uuid.UUID, fn func(u *model.User) error) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.byID[id]
	if !ok {
		return model.User{}, fmt.Errorf("store: %s: %w", op, ErrNotFound)
	}

	u := m.users[i]
	if err := fn(&u); err != nil {
		return model.User{}, fmt.Errorf("store: %s: %w", op, err)
	}
	m.users[i] = u

	return u, nil
}

func (m *Memory) UpdateUsername(_ context.Context, id uuid.UUID, username string) (model.User, error) {
	return m.updateUser("update username", id, func(u *model.User) error {
		if m.usernameTaken(username, id) {
			return ErrConflict
		}
		u.Username = username
		return nil
	})
}

func (m *Memory) UpdateEmail(_ context.Context, id uuid.UUID, email string) (model.User, error) {
	return m.updateUser("update email", id, func(u *model.User) error {
		u.Email = email
		return nil
	})
}

func (m *Memory) UpdateIcon(_ context.Context, id uuid.UUID, icon string) (model.User, error) {
	return m.updateUser("update icon", id, func(u *model.User) error {
		u.Icon = icon
		return nil
	})
}

func (m *Memory) CreateUserWithPassword(_ context.Context, u NewUser, hash string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[u.ID]; ok || m.usernameTaken(u.Username, uuid.Nil) {
		return model.User{}, fmt.Errorf("store: create user with password: %w", ErrConflict)
	}

	user := m.insertUser(u)
	m.passwords[user.ID] = hash

	return user, nil
}

func (m *Memory) SetPassword(_ context.Context, id uuid.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("store: set password: %w", ErrNotFound)
	}
	m.passwords[id] = hash

	return nil
}

func (m *Memory) GetPasswordHash(_ context.Context, id uuid.UUID) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hash, ok := m.passwords[id]
	if !ok {
		return "", fmt.Errorf("store: get password: %w", ErrNotFound)
	}

	return hash, nil
}

func (m *Memory) CreateRefreshToken(_ context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tokens[token]; ok {
		return fmt.Errorf("store: create refresh token: %w", ErrConflict)
	}
	if _, ok := m.byID[userID]; !ok {
		return fmt.Errorf("store: create refresh token: user: %w", ErrNotFound)
	}
	m.tokens[token] = refreshToken{userID: userID, expiresAt: expiresAt}

	return nil
}

func (m *Memory) GetUserFromRefreshToken(_ context.Context, token string) (uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tokens[token]
	if !ok || t.revoked || !t.expiresAt.After(m.Now()) {
		return uuid.UUID{}, fmt.Errorf("store: get refresh token: %w", ErrNotFound)
	}

	return t.userID, nil
}

func (m *Memory) RevokeRefreshToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.tokens[token]; ok {
		t.revoked = true
		m.tokens[token] = t
	}

	return nil
}

func (m *Memory) insertTalk(t NewTalk) (model.Talk, error) {
	if _, ok := m.byID[t.SenderID]; !ok {
		return model.Talk{}, fmt.Errorf("sender: %w", ErrNotFound)
	}
	if _, ok := m.byID[t.ReceiverID]; !ok {
		return model.Talk{}, fmt.Errorf("receiver: %w", ErrNotFound)
	}

	talk := model.Talk{
		ID:         m.nextTalk,
		Message:    t.Message,
		SenderID:   t.SenderID,
		ReceiverID: t.ReceiverID,
		Time:       m.Now().UTC(),
	}
	m.nextTalk++
	m.talkByID[talk.ID] = len(m.talks)
	m.talks = append(m.talks, talk)

	return talk, nil
}

func (m *Memory) CreateTalk(_ context.Context, t NewTalk) (model.Talk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	talk, err := m.insertTalk(t)
	if err != nil {
		return model.Talk{}, fmt.Errorf("store: create talk: %w", err)
	}

	return talk, nil
}

func (m *Memory) CreateTalks(_ context.Context, talks []NewTalk) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Validate first so a failing batch inserts nothing.
	for _, t := range talks {
		if _, ok := m.byID[t.SenderID]; !ok {
			return nil, fmt.Errorf("store: create talks: sender: %w", ErrNotFound)
		}
		if _, ok := m.byID[t.ReceiverID]; !ok {
			return nil, fmt.Errorf("store: create talks: receiver: %w", ErrNotFound)
		}
	}

	ids := make([]int64, 0, len(talks))
	for _, t := range talks {
		talk, err := m.insertTalk(t)
		if err != nil {
			return nil, fmt.Errorf("store: create talks: %w", err)
		}
		ids = append(ids, talk.ID)
	}

	return ids, nil
}

func (m *Memory) ListThread(_ context.Context, a, b uuid.UUID) ([]model.Talk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var thread []model.Talk
	for _, t := range m.talks {
		if t.Involves(a, b) {
			thread = append(thread, t)
		}
	}

	sort.SliceStable(thread, func(i, j int) bool {
		if !thread[i].Time.Equal(thread[j].Time) {
			return thread[i].Time.Before(thread[j].Time)
		}
		return thread[i].ID < thread[j].ID
	})

	return thread, nil
}

// maxTimes groups the talks matching keep by key and keeps the latest time.
func (m *Memory) maxTimes(keep func(model.Talk) bool, key func(model.Talk) uuid.UUID) map[uuid.UUID]time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()

	times := make(map[uuid.UUID]time.Time)
	for _, t := range m.talks {
		if !keep(t) {
			continue
		}
		k := key(t)
		if cur, ok := times[k]; !ok || t.Time.After(cur) {
			times[k] = t.Time
		}
	}

	return times
}

func (m *Memory) SentMaxTimes(_ context.Context, id uuid.UUID) (map[uuid.UUID]time.Time, error) {
	return m.maxTimes(
		func(t model.Talk) bool { return t.SenderID == id },
		func(t model.Talk) uuid.UUID { return t.ReceiverID },
	), nil
}

func (m *Memory) ReceivedMaxTimes(_ context.Context, id uuid.UUID) (map[uuid.UUID]time.Time, error) {
	return m.maxTimes(
		func(t model.Talk) bool { return t.ReceiverID == id },
		func(t model.Talk) uuid.UUID { return t.SenderID },
	), nil
}

func (m *Memory) UpdateTalkTimes(_ context.Context, ids []int64, times []time.Time) error {
	if len(ids) != len(times) {
		return fmt.Errorf("store: update talk times: %d ids but %d times", len(ids), len(times))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		if _, ok := m.talkByID[id]; !ok {
			return fmt.Errorf("store: update talk times: talk %d: %w", id, ErrNotFound)
		}
	}
	for i, id := range ids {
		m.talks[m.talkByID[id]].Time = times[i]
	}

	return nil
}

// ListTalks returns every stored talk in insertion order.
func (m *Memory) ListTalks() []model.Talk {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]model.Talk(nil), m.talks...)
}

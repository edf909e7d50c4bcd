package talk

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johndosdos/talkroom/internal/model"
	"github.com/johndosdos/talkroom/internal/store"
)

func setup(t *testing.T) (*Service, *store.Memory, model.User, model.User) {
	t.Helper()
	ctx := context.Background()
	m := store.NewMemory()

	alice, err := m.CreateUser(ctx, store.NewUser{ID: uuid.New(), Username: "alice"})
	require.NoError(t, err)
	bob, err := m.CreateUser(ctx, store.NewUser{ID: uuid.New(), Username: "bob"})
	require.NoError(t, err)

	return NewService(m), m, alice, bob
}

func TestFriend(t *testing.T) {
	svc, _, _, bob := setup(t)
	ctx := context.Background()

	got, err := svc.Friend(ctx, bob.ID.String())
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.ID)

	for _, id := range []string{"not-a-uuid", "", uuid.NewString()} {
		_, err := svc.Friend(ctx, id)
		assert.ErrorIs(t, err, store.ErrNotFound, "id %q", id)
	}
}

func TestSendIsVisibleToBothParticipants(t *testing.T) {
	svc, _, alice, bob := setup(t)
	ctx := context.Background()

	_, err := svc.Send(ctx, alice.ID, bob.ID, "hi bob")
	require.NoError(t, err)
	sent, err := svc.Send(ctx, bob.ID, alice.ID, "hi alice")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, sent.SenderID)
	assert.Equal(t, alice.ID, sent.ReceiverID)

	fromAlice, err := svc.Thread(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	fromBob, err := svc.Thread(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	assert.Equal(t, fromAlice, fromBob)
	require.Len(t, fromAlice, 2)
	assert.Equal(t, "hi bob", fromAlice[0].Message)
	assert.Equal(t, "hi alice", fromAlice[1].Message)
}

func TestThreadExcludesOtherConversations(t *testing.T) {
	svc, m, alice, bob := setup(t)
	ctx := context.Background()

	carol, err := m.CreateUser(ctx, store.NewUser{ID: uuid.New(), Username: "carol"})
	require.NoError(t, err)

	_, err = svc.Send(ctx, alice.ID, carol.ID, "hi carol")
	require.NoError(t, err)
	_, err = svc.Send(ctx, alice.ID, bob.ID, "hi bob")
	require.NoError(t, err)

	thread, err := svc.Thread(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, "hi bob", thread[0].Message)
}

func TestSendRejectsInvalidMessage(t *testing.T) {
	svc, m, alice, bob := setup(t)
	ctx := context.Background()

	for _, msg := range []string{"", "   ", "<p></p>", strings.Repeat("x", model.MaxMessageLen+1)} {
		_, err := svc.Send(ctx, alice.ID, bob.ID, msg)
		ve, ok := IsValidation(err)
		require.True(t, ok, "message %q: %v", msg, err)
		assert.NotEmpty(t, ve.Message)
	}

	assert.Empty(t, m.ListTalks())
}

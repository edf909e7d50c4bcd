package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johndosdos/talkroom/internal/store"
)

const testSecret = "validtokensecret"

func TestHashPassword(t *testing.T) {
	t.Run("unique hashes", func(t *testing.T) {
		pw := "password1234"
		hash, err := HashPassword(pw)
		require.NoError(t, err)

		hash2, err := HashPassword(pw)
		require.NoError(t, err)

		assert.NotEqual(t, hash, hash2)
	})

	t.Run("empty password", func(t *testing.T) {
		_, err := HashPassword("")
		assert.NoError(t, err)
	})
}

func TestCheckPasswordHash(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		checkPw   string
		hash      string
		wantErr   bool
		wantMatch bool
	}{
		{"correct pw", "mypassword1234", "mypassword1234", "", false, true},
		{"incorrect pw", "mypassword1234", "passwordDD1234", "", false, false},
		{"wrong hash", "mypassword1234", "passwordDD1234", "not-a-hash", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := tt.hash
			if hash == "" {
				var err error
				hash, err = HashPassword(tt.password)
				require.NoError(t, err)
			}

			isMatch, err := CheckPasswordHash(tt.checkPw, hash)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantMatch, isMatch)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	alice, err := m.CreateUser(ctx, store.NewUser{ID: uuid.New(), Username: "alice"})
	require.NoError(t, err)
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	require.NoError(t, m.SetPassword(ctx, alice.ID, hash))

	_, err = m.CreateUser(ctx, store.NewUser{ID: uuid.New(), Username: "seeded"})
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		got, err := Authenticate(ctx, m, "alice", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
	})

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice", "battery staple"},
		{"unknown user", "bob", "correct horse"},
		{"no password", "seeded", "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Authenticate(ctx, m, tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestJWT(t *testing.T) {
	t.Run("Valid_JWT", func(t *testing.T) {
		userID := uuid.New()
		tokenString, err := MakeJWT(userID, testSecret, 15*time.Second)
		require.NoError(t, err)

		gotUserID, err := ValidateJWT(tokenString, testSecret)
		require.NoError(t, err)
		assert.Equal(t, userID, gotUserID)
	})

	t.Run("Incorrect_secret", func(t *testing.T) {
		tokenString, err := MakeJWT(uuid.New(), testSecret, 15*time.Second)
		require.NoError(t, err)

		_, err = ValidateJWT(tokenString, "fakesecret")
		assert.Error(t, err)
	})

	t.Run("Expired_token", func(t *testing.T) {
		tokenString, err := MakeJWT(uuid.New(), testSecret, -1*time.Second)
		require.NoError(t, err)

		_, err = ValidateJWT(tokenString, testSecret)
		assert.Error(t, err)
	})

	t.Run("Corrupt_token", func(t *testing.T) {
		_, err := ValidateJWT("corrupttoken", testSecret)
		assert.Error(t, err)
	})
}

func TestGetUserFromContext(t *testing.T) {
	t.Run("is_valid_UUID", func(t *testing.T) {
		wantUserID := uuid.New()
		ctx := context.WithValue(context.Background(), UserIDKey, wantUserID)

		gotUserID, err := GetUserFromContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, wantUserID, gotUserID)
	})

	t.Run("invalid_UUID", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), UserIDKey, "not-UUID")
		_, err := GetUserFromContext(ctx)
		assert.Error(t, err)
	})

	t.Run("nil_UUID", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), UserIDKey, uuid.Nil)
		_, err := GetUserFromContext(ctx)
		assert.Error(t, err)
	})

	t.Run("no_context", func(t *testing.T) {
		_, err := GetUserFromContext(context.Background())
		assert.Error(t, err)
	})
}

func TestMakeRefreshToken(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	user, err := m.CreateUser(ctx, store.NewUser{ID: uuid.New(), Username: "dummy"})
	require.NoError(t, err)

	t.Run("valid_refresh_token", func(t *testing.T) {
		token, err := MakeRefreshToken(ctx, m, user.ID, RefreshTokenTTL)
		require.NoError(t, err)
		assert.Len(t, token, 64)

		gotUserID, err := m.GetUserFromRefreshToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, gotUserID)
	})

	t.Run("expired_token", func(t *testing.T) {
		token, err := MakeRefreshToken(ctx, m, user.ID, -1*time.Millisecond)
		require.NoError(t, err)

		_, err = m.GetUserFromRefreshToken(ctx, token)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("token_not_found", func(t *testing.T) {
		_, err := m.GetUserFromRefreshToken(ctx, "invalid-refresh-token")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}

	return nil
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	user, err := m.CreateUser(ctx, store.NewUser{ID: uuid.New(), Username: "dummy"})
	require.NoError(t, err)

	sessions := NewSessions(m, testSecret, true)

	start := httptest.NewRecorder()
	require.NoError(t, sessions.Start(ctx, start, user.ID))

	issued := start.Result().Cookies()
	access := cookieByName(issued, AccessCookie)
	refresh := cookieByName(issued, RefreshCookie)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)

	t.Run("valid access token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(access)
		rec := httptest.NewRecorder()

		gotUserID, err := sessions.Identify(rec, req)
		require.NoError(t, err)
		assert.Equal(t, user.ID, gotUserID)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("renewed from refresh token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AccessCookie, Value: "expired"})
		req.AddCookie(refresh)
		rec := httptest.NewRecorder()

		gotUserID, err := sessions.Identify(rec, req)
		require.NoError(t, err)
		assert.Equal(t, user.ID, gotUserID)
		assert.NotNil(t, cookieByName(rec.Result().Cookies(), AccessCookie))
	})

	t.Run("no cookies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := sessions.Identify(httptest.NewRecorder(), req)
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("end revokes refresh token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.AddCookie(refresh)
		rec := httptest.NewRecorder()
		require.NoError(t, sessions.End(rec, req))

		cleared := cookieByName(rec.Result().Cookies(), RefreshCookie)
		require.NotNil(t, cleared)
		assert.Negative(t, cleared.MaxAge)

		again := httptest.NewRequest(http.MethodGet, "/", nil)
		again.AddCookie(refresh)
		_, err := sessions.Identify(httptest.NewRecorder(), again)
		assert.ErrorIs(t, err, ErrNoSession)
	})
}

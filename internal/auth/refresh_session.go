package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/johndosdos/talkroom/internal/store"
)

const (
	AccessCookie  = "jwt"
	RefreshCookie = "refresh_token"
)

// ErrNoSession is returned when a request carries neither a valid access
// token nor a usable refresh token.
var ErrNoSession = errors.New("internal/auth: no session")

// Sessions issues, renews and ends cookie sessions.
type Sessions struct {
	Tokens store.RefreshTokens
	Secret string
	// Secure marks cookies Secure. Turn it off only for plain HTTP
	// development servers.
	Secure bool
}

func NewSessions(tokens store.RefreshTokens, secret string, secure bool) *Sessions {
	return &Sessions{Tokens: tokens, Secret: secret, Secure: secure}
}

// Start logs userID in by setting a fresh access token and refresh token.
func (s *Sessions) Start(ctx context.Context, w http.ResponseWriter, userID uuid.UUID) error {
	jwt, err := MakeJWT(userID, s.Secret, AccessTokenTTL)
	if err != nil {
		return fmt.Errorf("internal/auth: failed to make JWT: %w", err)
	}

	refreshToken, err := MakeRefreshToken(ctx, s.Tokens, userID, RefreshTokenTTL)
	if err != nil {
		return err
	}

	s.setCookie(w, AccessCookie, jwt, int(AccessTokenTTL.Seconds()))
	s.setCookie(w, RefreshCookie, refreshToken, int(RefreshTokenTTL.Seconds()))

	return nil
}

// Identify returns the user behind r. An expired or missing access token is
// renewed from the refresh token cookie.
func (s *Sessions) Identify(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	if c, err := r.Cookie(AccessCookie); err == nil {
		if userID, err := ValidateJWT(c.Value, s.Secret); err == nil {
			return userID, nil
		}
	}

	return s.Refresh(w, r)
}

// Refresh mints a new access token from the refresh token cookie.
func (s *Sessions) Refresh(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	refreshTokCookie, err := r.Cookie(RefreshCookie)
	if err != nil {
		return uuid.UUID{}, ErrNoSession
	}

	userID, err := s.Tokens.GetUserFromRefreshToken(r.Context(), refreshTokCookie.Value)
	if errors.Is(err, store.ErrNotFound) {
		return uuid.UUID{}, ErrNoSession
	}
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("internal/auth: failed to retrieve user from refresh token: %w", err)
	}

	jwt, err := MakeJWT(userID, s.Secret, AccessTokenTTL)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("internal/auth: failed to make JWT: %w", err)
	}

	s.setCookie(w, AccessCookie, jwt, int(AccessTokenTTL.Seconds()))

	return userID, nil
}

// End revokes the refresh token of r, if any, and clears both cookies.
func (s *Sessions) End(w http.ResponseWriter, r *http.Request) error {
	s.setCookie(w, AccessCookie, "", -1)
	s.setCookie(w, RefreshCookie, "", -1)

	c, err := r.Cookie(RefreshCookie)
	if err != nil {
		return nil
	}

	err = s.Tokens.RevokeRefreshToken(r.Context(), c.Value)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("internal/auth: failed to revoke refresh token: %w", err)
	}

	return nil
}

func (s *Sessions) setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

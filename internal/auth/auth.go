package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/johndosdos/talkroom/internal/model"
	"github.com/johndosdos/talkroom/internal/store"
)

type ContextKey string

const UserIDKey ContextKey = "userID"

// Issuer is the iss claim of every access token.
const Issuer = "talkroom"

const (
	AccessTokenTTL  = 5 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// ErrInvalidCredentials is returned by Authenticate for an unknown username,
// a user without a password, and a wrong password alike.
var ErrInvalidCredentials = errors.New("internal/auth: invalid username or password")

func HashPassword(password string) (string, error) {
	hashedPw, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return "", fmt.Errorf("internal/auth: pw hash failed: %w", err)
	}

	return hashedPw, nil
}

func CheckPasswordHash(password, hash string) (bool, error) {
	isMatch, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		return false, fmt.Errorf("internal/auth: pw and hash comparison failed: %w", err)
	}

	return isMatch, nil
}

// Credentials looks up what Authenticate needs to check a login.
type Credentials interface {
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error)
}

func Authenticate(ctx context.Context, creds Credentials, username, password string) (model.User, error) {
	user, err := creds.GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, fmt.Errorf("internal/auth: failed to get user: %w", err)
	}

	hash, err := creds.GetPasswordHash(ctx, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, fmt.Errorf("internal/auth: failed to get password: %w", err)
	}

	isMatch, err := CheckPasswordHash(password, hash)
	if err != nil {
		return model.User{}, err
	}
	if !isMatch {
		return model.User{}, ErrInvalidCredentials
	}

	return user, nil
}

func MakeJWT(userID uuid.UUID, tokenSecret string, expiresIn time.Duration) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
	})

	return token.SignedString([]byte(tokenSecret))
}

func ValidateJWT(tokenString, tokenSecret string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(tokenSecret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(Issuer),
	)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("internal/auth: failed to parse token: %w", err)
	}

	if !token.Valid {
		return uuid.UUID{}, errors.New("internal/auth: token is invalid")
	}

	if claims.Subject == "" {
		return uuid.UUID{}, errors.New("internal/auth: subject claim is missing")
	}

	return uuid.Parse(claims.Subject)
}

// GetUserFromContext returns the user id stored under UserIDKey.
func GetUserFromContext(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.UUID{}, errors.New("internal/auth: no user in context")
	}

	return userID, nil
}

func MakeRefreshToken(ctx context.Context, tokens store.RefreshTokens, userID uuid.UUID, expiresIn time.Duration) (string, error) {
	rnd := make([]byte, 32)

	// rand.Read() never returns an error.
	_, _ = rand.Read(rnd)
	rndStr := hex.EncodeToString(rnd)

	expiresAt := time.Now().UTC().Add(expiresIn)
	if err := tokens.CreateRefreshToken(ctx, rndStr, userID, expiresAt); err != nil {
		return "", fmt.Errorf("internal/auth: failed to store refresh token: %w", err)
	}

	return rndStr, nil
}

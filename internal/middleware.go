package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/johndosdos/talkroom/internal/auth"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// RequireUser lets a request through only if it belongs to a logged in user,
// whose id is then stored in the request context under auth.UserIDKey.
// Everyone else is redirected to the login page with the requested path in
// the next query parameter.
func RequireUser(sessions *auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := sessions.Identify(w, r)
			if err != nil {
				if !errors.Is(err, auth.ErrNoSession) {
					slog.ErrorContext(r.Context(), "failed to identify user", "error", err)
				}
				redirectToLogin(w, r)
				return
			}

			r = r.WithContext(context.WithValue(r.Context(), auth.UserIDKey, userID))
			next.ServeHTTP(w, r)
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := LoginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	viewAuth "github.com/johndosdos/talkroom/components/auth"
	"github.com/johndosdos/talkroom/internal/auth"
	"github.com/johndosdos/talkroom/internal/form"
	"github.com/johndosdos/talkroom/internal/store"
)

const (
	afterLogin  = "/friends"
	afterSignup = "/"
	afterLogout = "/"
)

const msgInvalidLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."

// safeNext keeps redirects after login on this site.
func safeNext(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}

	return next
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) (Result, error) {
	return Render(viewAuth.Login(viewAuth.LoginView{})), nil
}

// Login checks the submitted credentials and starts a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) (Result, error) {
	ctx := r.Context()
	if err := parseForm(r); err != nil {
		return Result{}, err
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	user, err := auth.Authenticate(ctx, h.store, username, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return Render(viewAuth.Login(viewAuth.LoginView{Username: username, Error: msgInvalidLogin})), nil
	}
	if err != nil {
		return Result{}, err
	}

	if err := h.sessions.Start(ctx, w, user.ID); err != nil {
		return Result{}, err
	}

	slog.InfoContext(ctx, "user logged in",
		slog.String("username", user.Username))

	return Redirect(safeNext(r.FormValue("next"), afterLogin)), nil
}

func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) (Result, error) {
	return Render(viewAuth.Signup(viewAuth.SignupView{})), nil
}

// Signup creates an account and logs the new user in.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) (Result, error) {
	ctx := r.Context()
	if err := parseForm(r); err != nil {
		return Result{}, err
	}

	errs := form.Errors{}
	username, msg := form.Username(r.PostFormValue("username"))
	if msg != "" {
		errs.Add("username", msg)
	}
	email, msg := form.Email(r.PostFormValue("email"))
	if msg != "" {
		errs.Add("email", msg)
	}
	password := r.PostFormValue("password")
	if msg := form.Password(password, r.PostFormValue("password_confirm")); msg != "" {
		errs.Add("password", msg)
	}

	view := viewAuth.SignupView{Username: username, Email: email, Errors: errs}
	if !errs.Valid() {
		return Render(viewAuth.Signup(view)), nil
	}

	hashedPw, err := auth.HashPassword(password)
	if err != nil {
		return Result{}, err
	}

	user, err := h.store.CreateUserWithPassword(ctx,
		store.NewUser{ID: uuid.New(), Username: username, Email: email}, hashedPw)
	if errors.Is(err, store.ErrConflict) {
		errs.Add("username", "A user with that username already exists.")
		return Render(viewAuth.Signup(view)), nil
	}
	if err != nil {
		return Result{}, err
	}

	if err := h.sessions.Start(ctx, w, user.ID); err != nil {
		return Result{}, err
	}

	slog.InfoContext(ctx, "user signed up",
		slog.String("username", user.Username))

	return Redirect(afterSignup), nil
}

// Logout revokes the refresh token and clears the session cookies.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) (Result, error) {
	if err := h.sessions.End(w, r); err != nil {
		return Result{}, err
	}

	slog.InfoContext(r.Context(), "user logged out")

	return Redirect(afterLogout), nil
}

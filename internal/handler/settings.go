package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	viewSettings "github.com/johndosdos/talkroom/components/settings"
	"github.com/johndosdos/talkroom/internal/auth"
	"github.com/johndosdos/talkroom/internal/form"
	"github.com/johndosdos/talkroom/internal/iconstore"
	"github.com/johndosdos/talkroom/internal/model"
	"github.com/johndosdos/talkroom/internal/store"
)

// maxUploadBytes bounds a whole icon upload request.
const maxUploadBytes = iconstore.MaxBytes + 1<<20

type doneText struct {
	title   string
	message string
}

var doneTexts = map[string]doneText{
	"username": {"Username changed", "Your username has been changed."},
	"email":    {"Email changed", "Your email address has been changed."},
	"icon":     {"Icon changed", "Your icon has been changed."},
	"password": {"Password changed", "Your password has been changed."},
}

func doneURL(kind string) string {
	return "/settings/" + kind + "/done"
}

// Settings shows the account overview.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) (Result, error) {
	ctx := r.Context()

	me, err := h.currentUser(ctx)
	if err != nil {
		return Result{}, err
	}

	return Render(viewSettings.Menu(viewSettings.MenuView{
		Nav:      h.nav(ctx, me),
		Username: me.Username,
		Email:    me.Email,
		IconURL:  h.iconURL(ctx, me.Icon),
	})), nil
}

// Done shows the confirmation page for a finished change.
func (h *Handler) Done(kind string) Page {
	text := doneTexts[kind]

	return func(w http.ResponseWriter, r *http.Request) (Result, error) {
		ctx := r.Context()

		me, err := h.currentUser(ctx)
		if err != nil {
			return Result{}, err
		}

		return Render(viewSettings.Done(viewSettings.DoneView{
			Nav:     h.nav(ctx, me),
			Title:   text.title,
			Message: text.message,
		})), nil
	}
}

// fieldChange describes a settings form that edits one text field.
type fieldChange struct {
	kind      string
	title     string
	label     string
	inputType string
	current   func(model.User) string
	validate  func(string) (string, string)
	update    func(h *Handler, r *http.Request, u model.User, v string) (model.User, error)
}

var (
	usernameChange = fieldChange{
		kind:      "username",
		title:     "Change username",
		label:     "Username",
		inputType: "text",
		current:   func(u model.User) string { return u.Username },
		validate:  form.Username,
		update: func(h *Handler, r *http.Request, u model.User, v string) (model.User, error) {
			return h.store.UpdateUsername(r.Context(), u.ID, v)
		},
	}
	emailChange = fieldChange{
		kind:      "email",
		title:     "Change email",
		label:     "Email",
		inputType: "email",
		current:   func(u model.User) string { return u.Email },
		validate:  form.Email,
		update: func(h *Handler, r *http.Request, u model.User, v string) (model.User, error) {
			return h.store.UpdateEmail(r.Context(), u.ID, v)
		},
	}
)

func (h *Handler) fieldView(r *http.Request, fc fieldChange, me model.User, value, msg string) viewSettings.FieldView {
	return viewSettings.FieldView{
		Nav:   h.nav(r.Context(), me),
		Title: fc.title,
		Name:  fc.kind,
		Label: fc.label,
		Type:  fc.inputType,
		Value: value,
		Error: msg,
	}
}

// fieldPage shows the form of fc filled with the current value.
func (h *Handler) fieldPage(fc fieldChange) Page {
	return func(w http.ResponseWriter, r *http.Request) (Result, error) {
		me, err := h.currentUser(r.Context())
		if err != nil {
			return Result{}, err
		}

		return Render(viewSettings.Field(h.fieldView(r, fc, me, fc.current(me), ""))), nil
	}
}

func (h *Handler) fieldSubmit(fc fieldChange) Page {
	return func(w http.ResponseWriter, r *http.Request) (Result, error) {
		ctx := r.Context()
		if err := parseForm(r); err != nil {
			return Result{}, err
		}

		me, err := h.currentUser(ctx)
		if err != nil {
			return Result{}, err
		}

		value, msg := fc.validate(r.PostFormValue(fc.kind))
		if msg != "" {
			return Render(viewSettings.Field(h.fieldView(r, fc, me, value, msg))), nil
		}

		_, err = fc.update(h, r, me, value)
		if errors.Is(err, store.ErrConflict) {
			msg = "A user with that " + fc.kind + " already exists."
			return Render(viewSettings.Field(h.fieldView(r, fc, me, value, msg))), nil
		}
		if err != nil {
			return Result{}, err
		}

		slog.InfoContext(ctx, "account updated",
			slog.String("username", me.Username),
			slog.String("field", fc.kind))

		return Redirect(doneURL(fc.kind)), nil
	}
}

func (h *Handler) UsernamePage(w http.ResponseWriter, r *http.Request) (Result, error) {
	return h.fieldPage(usernameChange)(w, r)
}

func (h *Handler) ChangeUsername(w http.ResponseWriter, r *http.Request) (Result, error) {
	return h.fieldSubmit(usernameChange)(w, r)
}

func (h *Handler) EmailPage(w http.ResponseWriter, r *http.Request) (Result, error) {
	return h.fieldPage(emailChange)(w, r)
}

func (h *Handler) ChangeEmail(w http.ResponseWriter, r *http.Request) (Result, error) {
	return h.fieldSubmit(emailChange)(w, r)
}

func (h *Handler) iconView(r *http.Request, me model.User, msg string) viewSettings.IconView {
	return viewSettings.IconView{
		Nav:     h.nav(r.Context(), me),
		IconURL: h.iconURL(r.Context(), me.Icon),
		HasIcon: me.Icon != "",
		Error:   msg,
	}
}

func (h *Handler) IconPage(w http.ResponseWriter, r *http.Request) (Result, error) {
	me, err := h.currentUser(r.Context())
	if err != nil {
		return Result{}, err
	}

	return Render(viewSettings.Icon(h.iconView(r, me, ""))), nil
}

// ChangeIcon stores an uploaded icon, or removes the current one when the
// clear box is checked. The previous icon object is deleted afterwards.
func (h *Handler) ChangeIcon(w http.ResponseWriter, r *http.Request) (Result, error) {
	ctx := r.Context()

	me, err := h.currentUser(ctx)
	if err != nil {
		return Result{}, err
	}

	rejected := func(msg string) (Result, error) {
		return Render(viewSettings.Icon(h.iconView(r, me, msg))), nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(iconstore.MaxBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return rejected("The image must be 5 MB or smaller.")
		}
		slog.WarnContext(ctx, "failed to parse multipart form", slog.Any("error", err))
		return Result{}, errBadRequest
	}

	var key string
	if r.PostFormValue("clear") == "" {
		file, _, err := r.FormFile("icon")
		if errors.Is(err, http.ErrMissingFile) {
			return rejected("Choose an image to upload.")
		}
		if err != nil {
			return Result{}, err
		}
		defer file.Close()

		data, contentType, err := iconstore.Sniff(file)
		switch {
		case errors.Is(err, iconstore.ErrTooLarge):
			return rejected("The image must be 5 MB or smaller.")
		case errors.Is(err, iconstore.ErrUnsupported):
			return rejected("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		case err != nil:
			return Result{}, err
		}

		key = iconstore.NewKey(me.ID, contentType)
		if err := h.icons.Put(ctx, key, contentType, bytes.NewReader(data)); err != nil {
			return Result{}, err
		}
	}

	if _, err := h.store.UpdateIcon(ctx, me.ID, key); err != nil {
		return Result{}, err
	}

	if me.Icon != "" {
		if err := h.icons.Delete(ctx, me.Icon); err != nil {
			slog.WarnContext(ctx, "failed to delete old icon",
				slog.String("key", me.Icon),
				slog.Any("error", err))
		}
	}

	slog.InfoContext(ctx, "account updated",
		slog.String("username", me.Username),
		slog.String("field", "icon"))

	return Redirect(doneURL("icon")), nil
}

func (h *Handler) PasswordPage(w http.ResponseWriter, r *http.Request) (Result, error) {
	ctx := r.Context()

	me, err := h.currentUser(ctx)
	if err != nil {
		return Result{}, err
	}

	return Render(viewSettings.Password(viewSettings.PasswordView{Nav: h.nav(ctx, me)})), nil
}

// ChangePassword replaces the password after checking the current one.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) (Result, error) {
	ctx := r.Context()
	if err := parseForm(r); err != nil {
		return Result{}, err
	}

	me, err := h.currentUser(ctx)
	if err != nil {
		return Result{}, err
	}

	errs := form.Errors{}
	view := viewSettings.PasswordView{Nav: h.nav(ctx, me), Errors: errs}

	_, err = auth.Authenticate(ctx, h.store, me.Username, r.PostFormValue("old_password"))
	if errors.Is(err, auth.ErrInvalidCredentials) {
		errs.Add("old_password", "Your old password was entered incorrectly. Please enter it again.")
	} else if err != nil {
		return Result{}, err
	}

	newPassword := r.PostFormValue("new_password")
	if msg := form.Password(newPassword, r.PostFormValue("new_password_confirm")); msg != "" {
		errs.Add("new_password", msg)
	}

	if !errs.Valid() {
		return Render(viewSettings.Password(view)), nil
	}

	hashedPw, err := auth.HashPassword(newPassword)
	if err != nil {
		return Result{}, err
	}

	if err := h.store.SetPassword(ctx, me.ID, hashedPw); err != nil {
		return Result{}, err
	}

	slog.InfoContext(ctx, "password changed",
		slog.String("username", me.Username))

	return Redirect(doneURL("password")), nil
}

package handler

import (
	"errors"
	"log"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/johndosdos/talkroom/components/layout"
	"github.com/johndosdos/talkroom/internal/friends"
	"github.com/johndosdos/talkroom/internal/store"
)

// errBadRequest is returned by pages for undecodable requests.
var errBadRequest = errors.New("handler: bad request")

// Result is what a page produces: either a component to render with a
// status, or a location to redirect to.
type Result struct {
	component templ.Component
	status    int
	redirect  string
}

func Render(c templ.Component) Result {
	return Result{component: c, status: http.StatusOK}
}

func RenderStatus(status int, c templ.Component) Result {
	return Result{component: c, status: status}
}

func Redirect(to string) Result {
	return Result{redirect: to}
}

// Location is the redirect target, or "" for a rendered result.
func (r Result) Location() string { return r.redirect }

// Page is a handler split into computing a Result and writing it out.
type Page func(w http.ResponseWriter, r *http.Request) (Result, error)

// Serve writes the Result of p. Errors become error pages: 404 for missing
// records and pages, 400 for bad requests, 500 for anything else.
func Serve(p Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := p(w, r)
		if err != nil {
			serveError(w, r, err)
			return
		}

		if res.redirect != "" {
			redirect(w, r, res.redirect)
			return
		}

		render(w, r, res.status, res.component)
	}
}

// redirect sends htmx requests an HX-Redirect and everyone else a 303.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, to, http.StatusSeeOther)
}

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		log.Printf("failed to render component: %v", err)
	}
}

func serveError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, friends.ErrPageNotFound):
		render(w, r, http.StatusNotFound,
			layout.ErrorPage("Not found", "The page you were looking for does not exist."))
	case errors.Is(err, errBadRequest):
		render(w, r, http.StatusBadRequest,
			layout.ErrorPage("Bad request", "The request could not be understood."))
	default:
		slog.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		render(w, r, http.StatusInternalServerError,
			layout.ErrorPage("Server error", "Something went wrong. Please try again later."))
	}
}

// NotFound renders the 404 page for unrouted paths.
func NotFound() http.HandlerFunc {
	return Serve(func(w http.ResponseWriter, r *http.Request) (Result, error) {
		return Result{}, store.ErrNotFound
	})
}

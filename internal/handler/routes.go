package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/johndosdos/talkroom/internal"
)

// RouterOptions are the file trees served next to the pages.
type RouterOptions struct {
	StaticDir string
	// MediaDir is served at /media/ when set, for icons kept on disk.
	MediaDir string
}

// Router wires every page of the application.
func (h *Handler) Router(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}
	if opts.MediaDir != "" {
		r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(opts.MediaDir))))
	}

	r.Get("/", Serve(h.Index))
	r.Get("/signup", Serve(h.SignupPage))
	r.Post("/signup", Serve(h.Signup))
	r.Get("/login", Serve(h.LoginPage))
	r.Post("/login", Serve(h.Login))
	r.Post("/logout", Serve(h.Logout))

	r.Group(func(r chi.Router) {
		r.Use(internal.RequireUser(h.sessions))

		r.Get("/friends", Serve(h.Friends))
		r.Get("/talk/{friendID}", Serve(h.TalkRoom))
		r.Post("/talk/{friendID}", Serve(h.SendTalk))

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", Serve(h.Settings))
			r.Get("/username", Serve(h.UsernamePage))
			r.Post("/username", Serve(h.ChangeUsername))
			r.Get("/email", Serve(h.EmailPage))
			r.Post("/email", Serve(h.ChangeEmail))
			r.Get("/icon", Serve(h.IconPage))
			r.Post("/icon", Serve(h.ChangeIcon))
			r.Get("/password", Serve(h.PasswordPage))
			r.Post("/password", Serve(h.ChangePassword))

			for kind := range doneTexts {
				r.Get("/"+kind+"/done", Serve(h.Done(kind)))
			}
		})
	})

	r.NotFound(NotFound())

	return r
}

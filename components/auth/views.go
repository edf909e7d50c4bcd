// Package auth renders the login and signup pages.
package auth

import "github.com/johndosdos/talkroom/internal/form"

type LoginView struct {
	Username string
	Error    string
}

type SignupView struct {
	Username string
	Email    string
	Errors   form.Errors
}

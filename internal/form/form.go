// Package form validates user submitted form values.
package form

import (
	"html"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/johndosdos/talkroom/internal/model"
)

const (
	MaxUsernameLen    = 150
	MinPasswordLen    = 8
	msgRequired       = "This field is required."
	msgUsernameFormat = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
)

var usernamePattern = regexp.MustCompile(`^[\pL\pN_.@+-]+$`)

// Errors maps field names to a validation message. A nil or empty Errors
// means the form is valid.
type Errors map[string]string

// Add records msg for field unless the field already has a message.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

func (e Errors) Get(field string) string { return e[field] }

func (e Errors) Valid() bool { return len(e) == 0 }

// Username trims v and checks it against the username rules.
func Username(v string) (string, string) {
	v = strings.TrimSpace(v)

	switch {
	case v == "":
		return v, msgRequired
	case utf8.RuneCountInString(v) > MaxUsernameLen:
		return v, "Ensure this value has at most 150 characters."
	case !usernamePattern.MatchString(v):
		return v, msgUsernameFormat
	}

	return v, ""
}

// Email trims v. Empty is allowed; anything else must be a bare address.
func Email(v string) (string, string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return v, ""
	}

	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v || !strings.Contains(v[strings.LastIndex(v, "@")+1:], ".") {
		return v, "Enter a valid email address."
	}

	return v, ""
}

// Password checks a new password and its confirmation.
func Password(password, confirm string) string {
	switch {
	case password == "":
		return msgRequired
	case utf8.RuneCountInString(password) < MinPasswordLen:
		return "This password is too short. It must contain at least 8 characters."
	case strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) < 0:
		return "This password is entirely numeric."
	case password != confirm:
		return "The two password fields didn't match."
	}

	return ""
}

var messagePolicy = bluemonday.StrictPolicy()

// Message strips any markup from v, trims it and checks its length. The
// returned text is plain and must still be escaped on output.
func Message(v string) (string, string) {
	v = strings.TrimSpace(html.UnescapeString(messagePolicy.Sanitize(v)))

	switch {
	case v == "":
		return v, msgRequired
	case utf8.RuneCountInString(v) > model.MaxMessageLen:
		return v, "Ensure this value has at most 500 characters."
	}

	return v, ""
}

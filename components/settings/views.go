// Package settings renders the account settings pages.
package settings

import (
	"github.com/johndosdos/talkroom/components/layout"
	"github.com/johndosdos/talkroom/internal/form"
)

type MenuView struct {
	Nav      layout.Nav
	Username string
	Email    string
	IconURL  string
}

// FieldView is a form changing a single text field.
type FieldView struct {
	Nav   layout.Nav
	Title string
	Name  string
	Label string
	Type  string
	Value string
	Error string
}

type IconView struct {
	Nav     layout.Nav
	IconURL string
	HasIcon bool
	Error   string
}

type PasswordView struct {
	Nav    layout.Nav
	Errors form.Errors
}

type DoneView struct {
	Nav     layout.Nav
	Title   string
	Message string
}

// Package layout holds the page shell and small pieces shared by every view.
package layout

import "github.com/a-h/templ"

// DefaultIcon is shown for users who have not uploaded an icon.
const DefaultIcon = "/static/default_icon.svg"

// Nav is the logged in user shown in the page header.
type Nav struct {
	Username string
	IconURL  string
}

// Href returns the attributes of a link to u.
func Href(u string) templ.Attributes {
	return templ.Attributes{"href": u}
}

// Icon returns the attributes of a user icon image. An empty src falls back
// to DefaultIcon.
func Icon(src, username string) templ.Attributes {
	if src == "" {
		src = DefaultIcon
	}

	return templ.Attributes{
		"src":   src,
		"alt":   username,
		"class": "icon",
	}
}

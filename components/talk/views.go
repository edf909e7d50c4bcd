// Package talk renders a conversation with one friend.
package talk

import "github.com/johndosdos/talkroom/components/layout"

type Bubble struct {
	Message string
	// Time is shown to the reader; DateTime is its RFC 3339 form.
	Time     string
	DateTime string
	Mine     bool
}

type View struct {
	Nav           layout.Nav
	Friend        string
	FriendIconURL string
	Bubbles       []Bubble
	// Message and Error refill the input after a rejected post.
	Message string
	Error   string
}

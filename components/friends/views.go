// Package friends renders the friends list.
package friends

import "github.com/johndosdos/talkroom/components/layout"

// Item is one row of the list.
type Item struct {
	Username string
	IconURL  string
	TalkURL  string
	// LastTalk is empty for friends the user never talked with.
	LastTalk string
}

type View struct {
	Nav      layout.Nav
	Keyword  string
	Items    []Item
	Page     int
	NumPages int
	PrevURL  string
	NextURL  string
}

package friends

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johndosdos/talkroom/components/layout"
)

func TestListComponent(t *testing.T) {
	var buf bytes.Buffer

	err := List(View{
		Nav:     layout.Nav{Username: "me"},
		Keyword: "an",
		Items: []Item{
			{Username: "anna", TalkURL: "/talk/1", LastTalk: "5 minutes ago"},
			{Username: "hanna", TalkURL: "/talk/2", IconURL: "/media/icons/2.png"},
		},
		Page:     2,
		NumPages: 3,
		PrevURL:  "/friends?keyword=an&page=1",
		NextURL:  "/friends?keyword=an&page=3",
	}).Render(context.Background(), &buf)
	assert.NoError(t, err)

	html := buf.String()

	assert.Contains(t, html, `value="an"`)
	assert.Contains(t, html, `href="/talk/1"`)
	assert.Contains(t, html, "5 minutes ago")
	assert.Contains(t, html, `src="/media/icons/2.png"`)
	assert.Contains(t, html, "Page 2 of 3")
	assert.Contains(t, html, `href="/friends?keyword=an&amp;page=1"`)
	assert.Contains(t, html, `href="/friends?keyword=an&amp;page=3"`)
	assert.Less(t, strings.Index(html, "anna"), strings.Index(html, "hanna"))
	assert.Equal(t, 1, strings.Count(html, "last-talk"))
}

func TestListComponentEmpty(t *testing.T) {
	var buf bytes.Buffer

	err := List(View{Page: 1, NumPages: 1}).Render(context.Background(), &buf)
	assert.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "No friends found.")
	assert.NotContains(t, html, `rel="prev"`)
	assert.NotContains(t, html, `rel="next"`)
}

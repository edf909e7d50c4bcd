package talk

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputComponent(t *testing.T) {
	var buf bytes.Buffer

	err := Input("draft", "This field is required.").Render(context.Background(), &buf)
	assert.NoError(t, err)

	html := buf.String()

	assert.Contains(t, html, "<form")
	assert.Contains(t, html, `name="message"`)
	assert.Contains(t, html, ">draft</textarea>")
	assert.Contains(t, html, "This field is required.")
	assert.Contains(t, html, `type="submit"`)
	assert.Contains(t, html, "Send")
}

func TestRoomComponent(t *testing.T) {
	var buf bytes.Buffer

	err := Room(View{
		Friend: "bob",
		Bubbles: []Bubble{
			{Message: "hi <script>", Time: "2026/10/14 09:00", DateTime: "2026-10-14T09:00:00Z", Mine: true},
			{Message: "hello", Time: "2026/10/14 09:01", DateTime: "2026-10-14T09:01:00Z"},
		},
	}).Render(context.Background(), &buf)
	assert.NoError(t, err)

	html := buf.String()

	assert.Contains(t, html, "<h1>bob</h1>")
	assert.Contains(t, html, `<li class="bubble mine">`)
	assert.Contains(t, html, `<li class="bubble theirs">`)
	assert.Contains(t, html, "hi &lt;script&gt;")
	assert.Contains(t, html, `datetime="2026-10-14T09:01:00Z"`)
	assert.NotContains(t, html, "No messages yet.")
}

func TestRoomComponentEmpty(t *testing.T) {
	var buf bytes.Buffer

	err := Room(View{Friend: "bob"}).Render(context.Background(), &buf)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No messages yet.")
}

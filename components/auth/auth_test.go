package auth

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johndosdos/talkroom/internal/form"
)

func TestLoginComponent(t *testing.T) {
	// Create a new buffer to write the component to
	var buf bytes.Buffer

	// Render the component
	err := Login(LoginView{Username: "alice", Error: "Wrong password."}).Render(context.Background(), &buf)
	assert.NoError(t, err)

	html := buf.String()

	assert.Contains(t, html, "Log in to Talkroom")
	assert.Contains(t, html, `<form method="post"`)
	assert.Contains(t, html, `name="username"`)
	assert.Contains(t, html, `value="alice"`)
	assert.Contains(t, html, `name="password"`)
	assert.Contains(t, html, `type="submit"`)
	assert.Contains(t, html, `<p class="field-error">Wrong password.</p>`)
	assert.Contains(t, html, `href="/signup"`)
}

func TestSignupComponent(t *testing.T) {
	var buf bytes.Buffer

	errs := form.Errors{}
	errs.Add("email", "Enter a valid email address.")

	err := Signup(SignupView{Username: "bob", Email: "bob@", Errors: errs}).Render(context.Background(), &buf)
	assert.NoError(t, err)

	html := buf.String()

	assert.Contains(t, html, "Create your account")
	assert.Contains(t, html, `name="username"`)
	assert.Contains(t, html, `value="bob"`)
	assert.Contains(t, html, `name="email"`)
	assert.Contains(t, html, `name="password"`)
	assert.Contains(t, html, `name="password_confirm"`)
	assert.Contains(t, html, "Enter a valid email address.")
	assert.Contains(t, html, `href="/login"`)
}

func TestSignupComponentWithoutErrors(t *testing.T) {
	var buf bytes.Buffer

	err := Signup(SignupView{}).Render(context.Background(), &buf)
	assert.NoError(t, err)
	assert.NotContains(t, buf.String(), "field-error")
}

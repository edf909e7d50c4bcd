package handler

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johndosdos/talkroom/internal/auth"
	"github.com/johndosdos/talkroom/internal/iconstore"
	"github.com/johndosdos/talkroom/internal/model"
	"github.com/johndosdos/talkroom/internal/store"
)

const testSecret = "handlersecret"

type testApp struct {
	t        *testing.T
	mem      *store.Memory
	sessions *auth.Sessions
	mediaDir string
	now      time.Time
	router   http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	app := &testApp{
		t:        t,
		mem:      store.NewMemory(),
		mediaDir: t.TempDir(),
		now:      time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC),
	}
	app.sessions = auth.NewSessions(app.mem, testSecret, false)

	h := New(Deps{
		Store:    app.mem,
		Sessions: app.sessions,
		Icons:    iconstore.NewDisk(app.mediaDir, "/media/"),
		Now:      func() time.Time { return app.now },
	})
	app.router = h.Router(RouterOptions{MediaDir: app.mediaDir})

	return app
}

// user creates a user with the password "correct horse".
func (a *testApp) user(username string) model.User {
	a.t.Helper()
	ctx := context.Background()

	u, err := a.mem.CreateUser(ctx, store.NewUser{ID: uuid.New(), Username: username})
	require.NoError(a.t, err)

	hash, err := auth.HashPassword("correct horse")
	require.NoError(a.t, err)
	require.NoError(a.t, a.mem.SetPassword(ctx, u.ID, hash))

	return u
}

// cookiesFor returns the session cookies of a logged in u.
func (a *testApp) cookiesFor(u model.User) []*http.Cookie {
	a.t.Helper()

	rec := httptest.NewRecorder()
	require.NoError(a.t, a.sessions.Start(context.Background(), rec, u.ID))
	return rec.Result().Cookies()
}

func (a *testApp) talk(from, to model.User, msg string, ago time.Duration) {
	a.t.Helper()
	ctx := context.Background()

	tk, err := a.mem.CreateTalk(ctx, store.NewTalk{Message: msg, SenderID: from.ID, ReceiverID: to.ID})
	require.NoError(a.t, err)
	require.NoError(a.t, a.mem.UpdateTalkTimes(ctx, []int64{tk.ID}, []time.Time{a.now.Add(-ago)}))
}

func (a *testApp) do(req *http.Request, as *model.User) *httptest.ResponseRecorder {
	a.t.Helper()

	if as != nil {
		for _, c := range a.cookiesFor(*as) {
			req.AddCookie(c)
		}
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(path string, as *model.User) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil), as)
}

func (a *testApp) post(path string, form url.Values, as *model.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req, as)
}

func TestIndex(t *testing.T) {
	app := newTestApp(t)
	alice := app.user("alice")

	anon := app.get("/", nil)
	assert.Equal(t, http.StatusOK, anon.Code)
	assert.Contains(t, anon.Body.String(), `href="/login"`)

	rec := app.get("/", &alice)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hello, alice.")
}

func TestUnknownPath(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignup(t *testing.T) {
	t.Run("creates user and logs in", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.post("/signup", url.Values{
			"username":         {"newbie"},
			"email":            {"newbie@example.com"},
			"password":         {"s3cret-pass"},
			"password_confirm": {"s3cret-pass"},
		}, nil)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))

		names := map[string]bool{}
		for _, c := range rec.Result().Cookies() {
			names[c.Name] = true
		}
		assert.True(t, names[auth.AccessCookie])
		assert.True(t, names[auth.RefreshCookie])

		_, err := auth.Authenticate(context.Background(), app.mem, "newbie", "s3cret-pass")
		assert.NoError(t, err)
	})

	tests := []struct {
		name    string
		form    url.Values
		wantMsg string
	}{
		{
			name:    "password mismatch",
			form:    url.Values{"username": {"newbie"}, "password": {"s3cret-pass"}, "password_confirm": {"other-pass"}},
			wantMsg: "The two password fields didn",
		},
		{
			name:    "bad username",
			form:    url.Values{"username": {"new bie"}, "password": {"s3cret-pass"}, "password_confirm": {"s3cret-pass"}},
			wantMsg: "Enter a valid username.",
		},
		{
			name:    "bad email",
			form:    url.Values{"username": {"newbie"}, "email": {"nope"}, "password": {"s3cret-pass"}, "password_confirm": {"s3cret-pass"}},
			wantMsg: "Enter a valid email address.",
		},
		{
			name:    "taken username",
			form:    url.Values{"username": {"taken"}, "password": {"s3cret-pass"}, "password_confirm": {"s3cret-pass"}},
			wantMsg: "A user with that username already exists.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			app.user("taken")

			rec := app.post("/signup", tt.form, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)

			_, err := app.mem.GetUserByUsername(context.Background(), "newbie")
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

// brokenPasswords fails every password write.
type brokenPasswords struct {
	*store.Memory
}

var errPasswordWrite = errors.New("password write failed")

func (brokenPasswords) CreateUserWithPassword(context.Context, store.NewUser, string) (model.User, error) {
	return model.User{}, errPasswordWrite
}

func (brokenPasswords) SetPassword(context.Context, uuid.UUID, string) error {
	return errPasswordWrite
}

func TestSignupPasswordWriteFails(t *testing.T) {
	mem := store.NewMemory()
	sessions := auth.NewSessions(mem, testSecret, false)
	h := New(Deps{
		Store:    brokenPasswords{mem},
		Sessions: sessions,
		Icons:    iconstore.NewDisk(t.TempDir(), "/media/"),
	})

	form := url.Values{
		"username":         {"newbie"},
		"password":         {"s3cret-pass"},
		"password_confirm": {"s3cret-pass"},
	}
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Router(RouterOptions{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	_, err := mem.GetUserByUsername(context.Background(), "newbie")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		password string
		wantCode int
		wantLoc  string
	}{
		{"default target", "/login", "correct horse", http.StatusSeeOther, "/friends"},
		{"next path", "/login?next=%2Fsettings", "correct horse", http.StatusSeeOther, "/settings"},
		{"offsite next", "/login?next=%2F%2Fevil.example", "correct horse", http.StatusSeeOther, "/friends"},
		{"wrong password", "/login", "battery staple", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			app.user("alice")

			rec := app.post(tt.path, url.Values{"username": {"alice"}, "password": {tt.password}}, nil)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
			if tt.wantCode == http.StatusOK {
				assert.Contains(t, rec.Body.String(), "Please enter a correct username and password.")
			}
		})
	}
}

func TestLoginHtmxRedirect(t *testing.T) {
	app := newTestApp(t)
	app.user("alice")

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(url.Values{"username": {"alice"}, "password": {"correct horse"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")

	rec := app.do(req, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/friends", rec.Header().Get("HX-Redirect"))
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	alice := app.user("alice")
	cookies := app.cookiesFor(alice)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	for _, c := range cookies {
		if c.Name == auth.RefreshCookie {
			_, err := app.mem.GetUserFromRefreshToken(context.Background(), c.Value)
			assert.ErrorIs(t, err, store.ErrNotFound)
		}
	}
}

func TestProtectedPagesRedirect(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/friends", "/settings", "/settings/icon", "/talk/" + uuid.NewString()} {
		rec := app.get(path, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/login?next="+url.QueryEscape(path), rec.Header().Get("Location"))
	}
}

func TestFriendsOrdering(t *testing.T) {
	app := newTestApp(t)
	me := app.user("me")
	bob := app.user("bob")
	carol := app.user("carol")
	app.user("dave")

	app.talk(me, bob, "hi bob", 2*time.Hour)
	app.talk(carol, me, "hi me", time.Hour)

	rec := app.get("/friends", &me)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	iCarol := strings.Index(body, ">carol<")
	iBob := strings.Index(body, ">bob<")
	iDave := strings.Index(body, ">dave<")
	require.True(t, iCarol >= 0 && iBob >= 0 && iDave >= 0, body)
	assert.Less(t, iCarol, iBob)
	assert.Less(t, iBob, iDave)

	assert.Contains(t, body, "1 hour ago")
	assert.Contains(t, body, "2 hours ago")
	assert.Contains(t, body, `href="/talk/`+carol.ID.String()+`"`)
	assert.NotContains(t, body, `href="/talk/`+me.ID.String()+`"`)
}

func TestFriendsKeywordAndPaging(t *testing.T) {
	app := newTestApp(t)
	me := app.user("me")
	for _, name := range []string{"anna", "annika", "bert", "hanna", "joanna", "leanne", "rosanna", "susanna", "vanna", "zed"} {
		app.user(name)
	}

	t.Run("keyword", func(t *testing.T) {
		rec := app.get("/friends?keyword=ANN", &me)
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()

		assert.Contains(t, body, ">annika<")
		assert.NotContains(t, body, ">bert<")
		assert.NotContains(t, body, ">zed<")
		assert.Contains(t, body, `value="ANN"`)
		assert.Contains(t, body, "Page 1 of 2")
		assert.Contains(t, body, `href="/friends?keyword=ANN&amp;page=2"`)
	})

	t.Run("second page", func(t *testing.T) {
		rec := app.get("/friends?page=2", &me)
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()

		assert.Contains(t, body, "Page 2 of 2")
		assert.Contains(t, body, ">zed<")
		assert.Contains(t, body, `href="/friends?page=1"`)
	})

	for _, page := range []string{"3", "0", "abc"} {
		t.Run("page "+page, func(t *testing.T) {
			rec := app.get("/friends?page="+page, &me)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}

	t.Run("no match", func(t *testing.T) {
		rec := app.get("/friends?keyword=qqq", &me)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "No friends found.")
	})
}

func TestTalkRoom(t *testing.T) {
	app := newTestApp(t)
	me := app.user("me")
	bob := app.user("bob")
	carol := app.user("carol")

	app.talk(me, bob, "first", 2*time.Hour)
	app.talk(bob, me, "second <b>bold</b>", time.Hour)
	app.talk(carol, me, "not for bob", time.Minute)

	rec := app.get("/talk/"+bob.ID.String(), &me)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Less(t, strings.Index(body, "first"), strings.Index(body, "second"))
	assert.Contains(t, body, "second &lt;b&gt;bold&lt;/b&gt;")
	assert.NotContains(t, body, "not for bob")
	assert.Contains(t, body, `class="bubble mine"`)
	assert.Contains(t, body, `class="bubble theirs"`)

	t.Run("unknown friend", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, app.get("/talk/"+uuid.NewString(), &me).Code)
		assert.Equal(t, http.StatusNotFound, app.get("/talk/not-a-uuid", &me).Code)
	})
}

func TestSendTalk(t *testing.T) {
	app := newTestApp(t)
	me := app.user("me")
	bob := app.user("bob")
	path := "/talk/" + bob.ID.String()

	rec := app.post(path, url.Values{"message": {"  hello <i>bob</i>  "}}, &me)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, path, rec.Header().Get("Location"))

	talks := app.mem.ListTalks()
	require.Len(t, talks, 1)
	assert.Equal(t, "hello bob", talks[0].Message)
	assert.Equal(t, me.ID, talks[0].SenderID)
	assert.Equal(t, bob.ID, talks[0].ReceiverID)

	// The receiver sees it too.
	assert.Contains(t, app.get("/talk/"+me.ID.String(), &bob).Body.String(), "hello bob")

	t.Run("empty message", func(t *testing.T) {
		rec := app.post(path, url.Values{"message": {"   "}}, &me)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "This field is required.")
		assert.Len(t, app.mem.ListTalks(), 1)
	})

	t.Run("too long", func(t *testing.T) {
		long := strings.Repeat("a", 501)
		rec := app.post(path, url.Values{"message": {long}}, &me)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "at most 500 characters")
		assert.Contains(t, rec.Body.String(), long)
		assert.Len(t, app.mem.ListTalks(), 1)
	})
}

func TestSettingsMenu(t *testing.T) {
	app := newTestApp(t)
	me := app.user("me")

	rec := app.get("/settings", &me)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not set")
	assert.Contains(t, rec.Body.String(), `href="/settings/password"`)
}

func TestChangeUsername(t *testing.T) {
	app := newTestApp(t)
	me := app.user("me")
	app.user("taken")

	page := app.get("/settings/username", &me)
	assert.Contains(t, page.Body.String(), `value="me"`)

	rec := app.post("/settings/username", url.Values{"username": {"taken"}}, &me)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "A user with that username already exists.")

	rec = app.post("/settings/username", url.Values{"username": {"renamed"}}, &me)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/settings/username/done", rec.Header().Get("Location"))

	got, err := app.mem.GetUserByID(context.Background(), me.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Username)

	done := app.get("/settings/username/done", &me)
	assert.Equal(t, http.StatusOK, done.Code)
	assert.Contains(t, done.Body.String(), "Your username has been changed.")
}

func TestChangeEmail(t *testing.T) {
	app := newTestApp(t)
	me := app.user("me")

	rec := app.post("/settings/email", url.Values{"email": {"not-an-email"}}, &me)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enter a valid email address.")

	rec = app.post("/settings/email", url.Values{"email": {"me@example.com"}}, &me)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	got, err := app.mem.GetUserByID(context.Background(), me.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", got.Email)
}

func TestChangePassword(t *testing.T) {
	app := newTestApp(t)
	me := app.user("me")
	ctx := context.Background()

	rec := app.post("/settings/password", url.Values{
		"old_password":         {"wrong"},
		"new_password":         {"brand-new-pass"},
		"new_password_confirm": {"brand-new-pass"},
	}, &me)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Your old password was entered incorrectly.")

	rec = app.post("/settings/password", url.Values{
		"old_password":         {"correct horse"},
		"new_password":         {"12345678"},
		"new_password_confirm": {"12345678"},
	}, &me)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "This password is entirely numeric.")

	_, err := auth.Authenticate(ctx, app.mem, "me", "correct horse")
	require.NoError(t, err, "password must not change on rejected forms")

	rec = app.post("/settings/password", url.Values{
		"old_password":         {"correct horse"},
		"new_password":         {"brand-new-pass"},
		"new_password_confirm": {"brand-new-pass"},
	}, &me)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/settings/password/done", rec.Header().Get("Location"))

	_, err = auth.Authenticate(ctx, app.mem, "me", "brand-new-pass")
	assert.NoError(t, err)
}

func iconUpload(t *testing.T, fields map[string]string, file []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile("icon", "icon.png")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func TestChangeIcon(t *testing.T) {
	app := newTestApp(t)
	me := app.user("me")
	ctx := context.Background()

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 4, 4))))

	send := func(fields map[string]string, file []byte) *httptest.ResponseRecorder {
		body, contentType := iconUpload(t, fields, file)
		req := httptest.NewRequest(http.MethodPost, "/settings/icon", body)
		req.Header.Set("Content-Type", contentType)
		return app.do(req, &me)
	}

	t.Run("not an image", func(t *testing.T) {
		rec := send(nil, []byte("plain text"))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Upload a valid image.")
	})

	t.Run("missing file", func(t *testing.T) {
		rec := send(nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Choose an image to upload.")
	})

	var key string
	t.Run("upload", func(t *testing.T) {
		rec := send(nil, img.Bytes())
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/settings/icon/done", rec.Header().Get("Location"))

		got, err := app.mem.GetUserByID(ctx, me.ID)
		require.NoError(t, err)
		key = got.Icon
		require.NotEmpty(t, key)

		_, err = os.Stat(filepath.Join(app.mediaDir, filepath.FromSlash(key)))
		assert.NoError(t, err)

		served := app.get("/media/"+key, nil)
		assert.Equal(t, http.StatusOK, served.Code)

		menu := app.get("/settings", &me)
		assert.Contains(t, menu.Body.String(), `src="/media/`+key+`"`)
	})

	t.Run("clear", func(t *testing.T) {
		rec := send(map[string]string{"clear": "1"}, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)

		got, err := app.mem.GetUserByID(ctx, me.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Icon)

		_, err = os.Stat(filepath.Join(app.mediaDir, filepath.FromSlash(key)))
		assert.True(t, os.IsNotExist(err))
	})
}

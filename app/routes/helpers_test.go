package routes

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"soriblog/app/auth"
	"soriblog/app/controllers"
	"soriblog/app/notify"
	"soriblog/app/repositories"
	"soriblog/app/services"
	"soriblog/app/sessions"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []notify.Message
	fail bool
}

func (f *fakeSender) Send(ctx context.Context, msg notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return &notify.DeliveryError{Op: "send", Err: errors.New("relay unreachable")}
	}
	f.sent = append(f.sent, msg)
	return nil
}

type testApp struct {
	server   *httptest.Server
	users    *repositories.GormUserRepository
	posts    *repositories.GormPostRepository
	comments *repositories.GormCommentRepository
	sessions *sessions.Store
	sender   *fakeSender
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	db, err := repositories.Open(filepath.Join(t.TempDir(), "blog.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { repositories.Close(db) })

	store, err := sessions.Open("", time.Hour, log)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	users := repositories.NewGormUserRepository(db)
	posts := repositories.NewGormPostRepository(db)
	comments := repositories.NewGormCommentRepository(db)
	policy := auth.AdminPolicy{AdminID: 1}
	sender := &fakeSender{}

	static := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(static, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "css", "styles.css"), []byte("body{margin:0}"), 0o644))

	router, err := SetupRoutes(Config{
		Log:      log,
		Auth:     services.NewAuthService(users, store, log, services.WithBcryptCost(bcrypt.MinCost)),
		Posts:    services.NewPostService(posts, comments, policy, log),
		Comments: services.NewCommentService(comments, posts, policy, log),
		Contact:  services.NewContactService(sender, "Test Blog", "owner@example.com", log),
		Policy:   policy,
		Cookie:   controllers.CookieConfig{Name: "session_token", TTL: time.Hour},
		SiteName:  "Test Blog",
		StaticDir: static,
	})
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testApp{
		server:   server,
		users:    users,
		posts:    posts,
		comments: comments,
		sessions: store,
		sender:   sender,
	}
}

// browser keeps cookies between requests and does not follow redirects.
type browser struct {
	t      *testing.T
	client *http.Client
	base   string
}

func (a *testApp) browser(t *testing.T) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: a.server.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type page struct {
	status   int
	body     string
	location string
}

func (b *browser) get(path string) page {
	b.t.Helper()
	resp, err := b.client.Get(b.base + path)
	require.NoError(b.t, err)
	return read(b.t, resp)
}

func (b *browser) post(path string, form url.Values) page {
	b.t.Helper()
	resp, err := b.client.Post(b.base+path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	return read(b.t, resp)
}

func read(t *testing.T, resp *http.Response) page {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return page{status: resp.StatusCode, body: string(body), location: resp.Header.Get("Location")}
}

func (b *browser) register(name, email, password string) page {
	b.t.Helper()
	return b.post("/register", url.Values{"name": {name}, "email": {email}, "password": {password}})
}

func (b *browser) login(email, password string) page {
	b.t.Helper()
	return b.post("/login", url.Values{"email": {email}, "password": {password}})
}

func postValues(title string) url.Values {
	return url.Values{
		"title":    {title},
		"subtitle": {"Subtitle of " + title},
		"img_url":  {"https://images.example.com/cover.jpg"},
		"body":     {"<p>Body of <strong>" + title + "</strong></p>"},
	}
}

// adminAndReader registers the admin (first account) and a second user.
func (a *testApp) adminAndReader(t *testing.T) (*browser, *browser) {
	t.Helper()
	admin := a.browser(t)
	require.Equal(t, http.StatusSeeOther, admin.register("Admin", "admin@example.com", "admin-pass").status)
	reader := a.browser(t)
	require.Equal(t, http.StatusSeeOther, reader.register("Reader", "reader@example.com", "reader-pass").status)
	return admin, reader
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"soriblog/app/auth"
	"soriblog/app/models"
	"soriblog/app/repositories"
	"soriblog/app/repositories/mock"
	"soriblog/app/sessions"
)

var fixedNow = time.Date(2024, time.May, 1, 14, 30, 5, 0, time.UTC)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fixture struct {
	store    *mock.Store
	sessions *sessions.Store
	auth     *AuthService
	posts    *PostService
	comments *CommentService
	admin    auth.Identity
	reader   auth.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := mock.NewStore()
	sess, err := sessions.Open("", time.Hour, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { sess.Close() })

	log := quietLogger()
	policy := auth.AdminPolicy{AdminID: 1}
	opts := []Option{WithClock(func() time.Time { return fixedNow }), WithBcryptCost(bcrypt.MinCost)}

	f := &fixture{
		store:    store,
		sessions: sess,
		auth:     NewAuthService(store.Users(), sess, log, opts...),
		posts:    NewPostService(store.Posts(), store.Comments(), policy, log, opts...),
		comments: NewCommentService(store.Comments(), store.Posts(), policy, log, opts...),
	}
	f.admin = f.register(t, "Admin", "admin@example.com", "admin-pass")
	f.reader = f.register(t, "Reader", "reader@example.com", "reader-pass")
	return f
}

func (f *fixture) register(t *testing.T, name, email, password string) auth.Identity {
	t.Helper()
	sess, err := f.auth.Register(context.Background(), name, email, password)
	require.NoError(t, err)
	id, err := f.auth.CurrentIdentity(context.Background(), sess.Token)
	require.NoError(t, err)
	return id
}

func (f *fixture) post(t *testing.T, title string) *models.Post {
	t.Helper()
	post, err := f.posts.CreatePost(context.Background(), f.admin, PostInput{
		Title:    title,
		Subtitle: "About " + title,
		Body:     "<p>" + title + "</p>",
		ImgURL:   "https://images.example.com/cover.jpg",
	})
	require.NoError(t, err)
	return post
}

// racyUsers hides existing accounts from the pre-check so the insert has to
// catch the duplicate itself.
type racyUsers struct {
	repositories.UserRepository
}

func (racyUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

// racyTitles hides existing posts from the title pre-check.
type racyTitles struct {
	repositories.PostRepository
}

func (racyTitles) GetByTitle(ctx context.Context, title string) (*models.Post, error) {
	return nil, repositories.ErrNotFound
}

// stalePosts keeps answering with a post that has since been deleted.
type stalePosts struct {
	repositories.PostRepository
	post *models.Post
}

func (s stalePosts) GetByID(ctx context.Context, id int) (*models.Post, error) {
	cp := *s.post
	return &cp, nil
}

package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soriblog/app/models"
)

func TestGormPostRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPostRepository(db)
	ctx := context.Background()
	admin := createTestUser(t, db, "admin@example.com")

	t.Run("create and get round trip", func(t *testing.T) {
		post := createTestPost(t, db, admin, "First Post")
		assert.NotZero(t, post.ID)

		got, err := repo.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.Title, got.Title)
		assert.Equal(t, post.Subtitle, got.Subtitle)
		assert.Equal(t, post.Body, got.Body)
		assert.Equal(t, post.ImgURL, got.ImgURL)
		assert.Equal(t, post.Date, got.Date)
		require.NotNil(t, got.Author)
		assert.Equal(t, admin.Email, got.Author.Email)
	})

	t.Run("get missing post", func(t *testing.T) {
		got, err := repo.GetByID(ctx, 4242)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, got)
	})

	t.Run("duplicate title is a recoverable error", func(t *testing.T) {
		dup := &models.Post{
			AuthorID: admin.ID,
			Title:    "First Post",
			Subtitle: "again",
			Date:     "May 2, 2024",
			Body:     "<p>again</p>",
			ImgURL:   "https://images.example.com/again.jpg",
		}
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("get by title", func(t *testing.T) {
		got, err := repo.GetByTitle(ctx, "First Post")
		require.NoError(t, err)
		assert.Equal(t, "First Post", got.Title)

		_, err = repo.GetByTitle(ctx, "Never Written")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list in insertion order", func(t *testing.T) {
		createTestPost(t, db, admin, "Second Post")
		createTestPost(t, db, admin, "Third Post")

		posts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, "First Post", posts[0].Title)
		assert.Equal(t, "Second Post", posts[1].Title)
		assert.Equal(t, "Third Post", posts[2].Title)
		assert.NotNil(t, posts[0].Author)
	})

	t.Run("update keeps id and author", func(t *testing.T) {
		post, err := repo.GetByTitle(ctx, "Second Post")
		require.NoError(t, err)

		post.Overlay("Second Post (edited)", "new sub", "<p>new body</p>", "https://images.example.com/new.jpg")
		require.NoError(t, repo.Update(ctx, post))

		got, err := repo.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Second Post (edited)", got.Title)
		assert.Equal(t, "new sub", got.Subtitle)
		assert.Equal(t, admin.ID, got.AuthorID)
	})

	t.Run("update into an existing title", func(t *testing.T) {
		post, err := repo.GetByTitle(ctx, "Third Post")
		require.NoError(t, err)
		post.Title = "First Post"
		assert.ErrorIs(t, repo.Update(ctx, post), ErrDuplicate)
	})
}

func TestGormPostRepositoryDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	posts := NewGormPostRepository(db)
	comments := NewGormCommentRepository(db)
	admin := createTestUser(t, db, "admin@example.com")
	reader := createTestUser(t, db, "reader@example.com")

	doomed := createTestPost(t, db, admin, "Doomed")
	survivor := createTestPost(t, db, admin, "Survivor")

	for i, post := range []*models.Post{doomed, doomed, survivor} {
		c := &models.Comment{AuthorID: reader.ID, PostID: post.ID, Text: "comment", Date: "05/01/2024, 10:00:0" + string(rune('0'+i))}
		require.NoError(t, comments.Create(ctx, c))
	}

	require.NoError(t, posts.Delete(ctx, doomed))

	_, err := posts.GetByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := comments.CountByPost(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = comments.CountByPost(ctx, survivor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.ErrorIs(t, posts.Delete(ctx, doomed), ErrNotFound)
}

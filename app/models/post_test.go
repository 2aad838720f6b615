package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validPost() *Post {
	return &Post{
		AuthorID: 1,
		Title:    "Valid Title",
		Subtitle: "A subtitle",
		Date:     "March 3, 2024",
		Body:     "<p>This is valid content</p>",
		ImgURL:   "https://images.example.com/cover.jpg",
	}
}

func TestPostValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Post)
		wantErr bool
	}{
		{
			name:    "valid post",
			mutate:  func(p *Post) {},
			wantErr: false,
		},
		{
			name:    "missing title",
			mutate:  func(p *Post) { p.Title = "" },
			wantErr: true,
		},
		{
			name:    "missing author",
			mutate:  func(p *Post) { p.AuthorID = 0 },
			wantErr: true,
		},
		{
			name:    "image is not a url",
			mutate:  func(p *Post) { p.ImgURL = "cover.jpg" },
			wantErr: true,
		},
		{
			name:    "empty body",
			mutate:  func(p *Post) { p.Body = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := validPost()
			tt.mutate(post)
			err := post.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostCommentManagement(t *testing.T) {
	post := validPost()
	post.ID = 7

	t.Run("add comment", func(t *testing.T) {
		comment := &Comment{AuthorID: 2, Text: "Test Comment"}

		err := post.AddComment(comment)
		assert.NoError(t, err)
		assert.Len(t, post.Comments, 1)
		assert.Equal(t, post.ID, comment.PostID)
	})

	t.Run("add nil comment", func(t *testing.T) {
		err := post.AddComment(nil)
		assert.Error(t, err)
	})
}

func TestPostOverlay(t *testing.T) {
	post := validPost()
	post.ID = 3

	post.Overlay("New Title", "New Subtitle", "<p>new</p>", "https://example.com/new.png")

	assert.Equal(t, 3, post.ID)
	assert.Equal(t, 1, post.AuthorID)
	assert.Equal(t, "March 3, 2024", post.Date)
	assert.Equal(t, "New Title", post.Title)
	assert.Equal(t, "New Subtitle", post.Subtitle)
	assert.Equal(t, "<p>new</p>", post.Body)
	assert.Equal(t, "https://example.com/new.png", post.ImgURL)
}

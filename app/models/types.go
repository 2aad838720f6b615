package models

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

const (
	// PostDateLayout is the human-readable publish date stamped on new posts.
	PostDateLayout = "January 2, 2006"
	// CommentDateLayout is the timestamp format stored on comments.
	CommentDateLayout = "01/02/2006, 15:04:05"
)

// User is a registered account. Email is the login key.
type User struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email" validate:"required,email,max=100"`
	Password string `gorm:"size:100;not null" json:"-" validate:"required"`
	Name     string `gorm:"size:1000;not null" json:"name" validate:"required,max=1000"`
}

// Post represents a blog post with comments.
type Post struct {
	ID       int        `gorm:"primaryKey" json:"id"`
	AuthorID int        `gorm:"not null;index" json:"author_id" validate:"required,gt=0"`
	Author   *User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty" validate:"-"`
	Title    string     `gorm:"size:250;uniqueIndex;not null" json:"title" validate:"required,max=250"`
	Subtitle string     `gorm:"size:250;not null" json:"subtitle" validate:"required,max=250"`
	Date     string     `gorm:"size:250;not null" json:"date" validate:"required,max=250"`
	Body     string     `gorm:"type:text;not null" json:"body" validate:"required"`
	ImgURL   string     `gorm:"column:img_url;size:250;not null" json:"img_url" validate:"required,url,max=250"`
	Comments []*Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty" validate:"-"`
}

// Comment represents a comment on a blog post.
type Comment struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	AuthorID int    `gorm:"not null;index" json:"author_id" validate:"required,gt=0"`
	Author   *User  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty" validate:"-"`
	PostID   int    `gorm:"not null;index" json:"post_id" validate:"required,gt=0"`
	Text     string `gorm:"type:text;not null" json:"text" validate:"required,max=5000"`
	Date     string `gorm:"size:250;not null" json:"date" validate:"required,max=250"`
}

func (User) TableName() string    { return "users" }
func (Post) TableName() string    { return "blog_posts" }
func (Comment) TableName() string { return "comments" }

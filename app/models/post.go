package models

import (
	"errors"

	"gorm.io/gorm"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	return validate.Struct(p)
}

// BeforeSave refuses to persist an invalid post.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	return p.Validate()
}

// AddComment adds a comment to the post
func (p *Post) AddComment(comment *Comment) error {
	if comment == nil {
		return errors.New("comment cannot be nil")
	}

	comment.PostID = p.ID
	p.Comments = append(p.Comments, comment)
	return nil
}

// Overlay replaces the editable fields. ID, author and date are kept.
func (p *Post) Overlay(title, subtitle, body, imgURL string) {
	p.Title = title
	p.Subtitle = subtitle
	p.Body = body
	p.ImgURL = imgURL
}

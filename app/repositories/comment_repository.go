package repositories

import (
	"context"

	"gorm.io/gorm"

	"soriblog/app/models"
)

// GormCommentRepository implements CommentRepository using gorm
type GormCommentRepository struct {
	GormRepository[models.Comment]
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{newGormRepository[models.Comment](db, "id", "post_id", "author_id")}
}

// ListByPost retrieves all comments for a post in the order they were written
func (r *GormCommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("id").
		Find(&comments).Error
	if err != nil {
		return nil, translate(err)
	}
	return comments, nil
}

// CountByPost returns how many comments a post has
func (r *GormCommentRepository) CountByPost(ctx context.Context, postID int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&n).Error
	return n, translate(err)
}

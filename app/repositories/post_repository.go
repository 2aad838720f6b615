package repositories

import (
	"context"

	"gorm.io/gorm"

	"soriblog/app/models"
)

// GormPostRepository implements PostRepository using gorm
type GormPostRepository struct {
	GormRepository[models.Post]
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{newGormRepository[models.Post](db, "id", "title", "author_id")}
}

// GetByID retrieves a post by ID along with its author
func (r *GormPostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// GetByTitle retrieves a post by its unique title
func (r *GormPostRepository) GetByTitle(ctx context.Context, title string) (*models.Post, error) {
	return r.FindBy(ctx, "title", title)
}

// List retrieves every post, oldest first, with authors loaded
func (r *GormPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).Preload("Author").Order("id").Find(&posts).Error; err != nil {
		return nil, translate(err)
	}
	return posts, nil
}

// Delete deletes a post and all its comments in one transaction
func (r *GormPostRepository) Delete(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return translate(err)
		}
		res := tx.Delete(&models.Post{}, post.ID)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

package repositories

import (
	"context"

	"gorm.io/gorm"

	"soriblog/app/models"
)

// GormUserRepository implements UserRepository using gorm
type GormUserRepository struct {
	GormRepository[models.User]
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{newGormRepository[models.User](db, "id", "email", "name")}
}

// GetByEmail retrieves a user by login email
func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindBy(ctx, "email", email)
}

// Count returns the number of registered users
func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, translate(err)
}

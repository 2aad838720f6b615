package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository holds the create/read/update/delete operations shared by every entity.
// Writes never cascade into associations; each entity is saved on its own.
type GormRepository[T any] struct {
	db         *gorm.DB
	queryables map[string]bool
}

func newGormRepository[T any](db *gorm.DB, queryables ...string) GormRepository[T] {
	if db == nil {
		panic("database connection cannot be nil")
	}
	cols := make(map[string]bool, len(queryables))
	for _, c := range queryables {
		cols[c] = true
	}
	return GormRepository[T]{db: db, queryables: cols}
}

// Create inserts entity and fills in its primary key.
func (r *GormRepository[T]) Create(ctx context.Context, entity *T) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error)
}

// GetByID returns ErrNotFound when no row has the given id.
func (r *GormRepository[T]) GetByID(ctx context.Context, id int) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, translate(err)
	}
	return &entity, nil
}

// FindBy returns the first row whose field equals value.
func (r *GormRepository[T]) FindBy(ctx context.Context, field string, value any) (*T, error) {
	if !r.queryables[field] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	var entity T
	err := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}).
		First(&entity).Error
	if err != nil {
		return nil, translate(err)
	}
	return &entity, nil
}

// List returns every row in insertion order.
func (r *GormRepository[T]) List(ctx context.Context) ([]*T, error) {
	var entities []*T
	if err := r.db.WithContext(ctx).Order("id").Find(&entities).Error; err != nil {
		return nil, translate(err)
	}
	return entities, nil
}

// Update writes every column of entity. The row must already exist.
func (r *GormRepository[T]) Update(ctx context.Context, entity *T) error {
	res := r.db.WithContext(ctx).
		Model(entity).
		Select("*").
		Omit(clause.Associations).
		Updates(entity)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes entity by primary key.
func (r *GormRepository[T]) Delete(ctx context.Context, entity *T) error {
	res := r.db.WithContext(ctx).Delete(entity)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

package repository

import (
	"context"

	"cmenu/internal/catalog"
	"cmenu/internal/model"

	"gorm.io/gorm"
)

// GreetingRepository defines data access for greetings.
type GreetingRepository interface {
	Create(ctx context.Context, g *model.Greeting) error
	List(ctx context.Context) ([]model.Greeting, error)
	Count(ctx context.Context) (int64, error)
	// At returns the greeting at a zero-based position in id order.
	At(ctx context.Context, offset int) (*model.Greeting, error)
}

type greetingRepository struct {
	db   *gorm.DB
	cols columns
}

func NewGreetingRepository(db *gorm.DB, s *catalog.Schema) GreetingRepository {
	return &greetingRepository{db: db, cols: columns{schema: s, entity: catalog.Greeting}}
}

func (r *greetingRepository) Create(ctx context.Context, g *model.Greeting) error {
	return GetDB(ctx, r.db).Create(g).Error
}

func (r *greetingRepository) List(ctx context.Context) ([]model.Greeting, error) {
	var greetings []model.Greeting
	if err := GetDB(ctx, r.db).Order(r.cols.asc("id")).Find(&greetings).Error; err != nil {
		return nil, err
	}
	return greetings, nil
}

func (r *greetingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.Greeting{}).Count(&n).Error
	return n, err
}

func (r *greetingRepository) At(ctx context.Context, offset int) (*model.Greeting, error) {
	var g model.Greeting
	err := GetDB(ctx, r.db).Order(r.cols.asc("id")).Offset(offset).Limit(1).Take(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

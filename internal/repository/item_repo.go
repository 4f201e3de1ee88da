package repository

import (
	"context"

	"cmenu/internal/catalog"
	"cmenu/internal/model"

	"gorm.io/gorm"
)

// ItemRepository defines data access for menu items.
type ItemRepository interface {
	CreateBatch(ctx context.Context, items []model.MenuItem) error
	FindByID(ctx context.Context, id uint) (*model.MenuItem, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type itemRepository struct {
	db   *gorm.DB
	cols columns
}

func NewItemRepository(db *gorm.DB, s *catalog.Schema) ItemRepository {
	return &itemRepository{db: db, cols: columns{schema: s, entity: catalog.Item}}
}

func (r *itemRepository) CreateBatch(ctx context.Context, items []model.MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&items).Error
}

func (r *itemRepository) FindByID(ctx context.Context, id uint) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := GetDB(ctx, r.db).Where(r.cols.eq("id", id)).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Where(r.cols.eq("id", id)).Delete(&model.MenuItem{}).Error
}

func (r *itemRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.MenuItem{}).Count(&n).Error
	return n, err
}

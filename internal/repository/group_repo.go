package repository

import (
	"context"

	"cmenu/internal/catalog"
	"cmenu/internal/model"

	"gorm.io/gorm"
)

// GroupRepository defines data access for menu groups.
type GroupRepository interface {
	Create(ctx context.Context, group *model.MenuGroup) error
	FindByID(ctx context.Context, id uint) (*model.MenuGroup, error)
	FindByName(ctx context.Context, name string) (*model.MenuGroup, error)
	List(ctx context.Context) ([]model.MenuGroup, error)
	ListPage(ctx context.Context, page, limit int) ([]model.MenuGroup, int64, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type groupRepository struct {
	db   *gorm.DB
	cols columns
}

func NewGroupRepository(db *gorm.DB, s *catalog.Schema) GroupRepository {
	return &groupRepository{db: db, cols: columns{schema: s, entity: catalog.Group}}
}

// Create inserts group. Inside an enclosing transaction the insert runs in a
// savepoint, so a constraint violation leaves that transaction usable.
func (r *groupRepository) Create(ctx context.Context, group *model.MenuGroup) error {
	return GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.Create(group).Error
	})
}

func (r *groupRepository) FindByID(ctx context.Context, id uint) (*model.MenuGroup, error) {
	var group model.MenuGroup
	if err := GetDB(ctx, r.db).Where(r.cols.eq("id", id)).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) FindByName(ctx context.Context, name string) (*model.MenuGroup, error) {
	var group model.MenuGroup
	if err := GetDB(ctx, r.db).Where(r.cols.eq("name", name)).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) List(ctx context.Context) ([]model.MenuGroup, error) {
	var groups []model.MenuGroup
	if err := GetDB(ctx, r.db).Order(r.cols.asc("name")).Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *groupRepository) ListPage(ctx context.Context, page, limit int) ([]model.MenuGroup, int64, error) {
	var groups []model.MenuGroup
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.MenuGroup{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order(r.cols.asc("name")).Offset(offset).Limit(limit).Find(&groups).Error; err != nil {
		return nil, 0, err
	}

	return groups, total, nil
}

func (r *groupRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.MenuGroup{}).Count(&n).Error
	return n, err
}

func (r *groupRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Where(r.cols.eq("id", id)).Delete(&model.MenuGroup{}).Error
}

package repository

import (
	"context"

	"cmenu/internal/catalog"
	"cmenu/internal/model"

	"gorm.io/gorm"
)

// ParameterRepository defines data access for parameters.
type ParameterRepository interface {
	Find(ctx context.Context, name string) (*model.Parameter, error)
	Create(ctx context.Context, p *model.Parameter) error
	UpdateValue(ctx context.Context, p *model.Parameter, value string) error
	List(ctx context.Context) ([]model.Parameter, error)
}

type parameterRepository struct {
	db   *gorm.DB
	cols columns
}

func NewParameterRepository(db *gorm.DB, s *catalog.Schema) ParameterRepository {
	return &parameterRepository{db: db, cols: columns{schema: s, entity: catalog.Parameter}}
}

func (r *parameterRepository) Find(ctx context.Context, name string) (*model.Parameter, error) {
	var p model.Parameter
	if err := GetDB(ctx, r.db).Where(r.cols.eq("name", name)).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *parameterRepository) Create(ctx context.Context, p *model.Parameter) error {
	return GetDB(ctx, r.db).Create(p).Error
}

// UpdateValue changes only the value column of an existing parameter.
func (r *parameterRepository) UpdateValue(ctx context.Context, p *model.Parameter, value string) error {
	err := GetDB(ctx, r.db).Model(&model.Parameter{}).
		Where(r.cols.eq("name", p.Name)).
		Update("Value", value).Error
	if err != nil {
		return err
	}
	p.Value = value
	return nil
}

func (r *parameterRepository) List(ctx context.Context) ([]model.Parameter, error) {
	var params []model.Parameter
	if err := GetDB(ctx, r.db).Order(r.cols.asc("name")).Find(&params).Error; err != nil {
		return nil, err
	}
	return params, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"cmenu/internal/model"
	"cmenu/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ParameterOption adjusts a parameter created by Set.
type ParameterOption func(*model.Parameter)

// WithUserModifiable sets whether users may edit a new parameter.
func WithUserModifiable(v bool) ParameterOption {
	return func(p *model.Parameter) { p.UserModifiable = v }
}

// WithComments attaches comments to a new parameter.
func WithComments(c string) ParameterOption {
	return func(p *model.Parameter) { p.Comments = c }
}

// ParameterService is a key/value store over the parameter table.
type ParameterService interface {
	// Get returns the value stored under name, or def when there is none.
	Get(ctx context.Context, name, def string) (string, error)
	// Set stores value under name. An existing parameter only has its value
	// replaced; options apply to newly created parameters.
	Set(ctx context.Context, name, value string, opts ...ParameterOption) (*model.Parameter, error)
	List(ctx context.Context) ([]model.Parameter, error)
}

type parameterService struct {
	tx     repository.TransactionManager
	params repository.ParameterRepository
	log    *zap.Logger
}

func NewParameterService(tx repository.TransactionManager, params repository.ParameterRepository, log *zap.Logger) ParameterService {
	return &parameterService{tx: tx, params: params, log: log}
}

func (s *parameterService) Get(ctx context.Context, name, def string) (string, error) {
	p, err := s.params.Find(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("failed to read parameter %q: %w", name, err)
	}
	return p.Value, nil
}

func (s *parameterService) Set(ctx context.Context, name, value string, opts ...ParameterOption) (*model.Parameter, error) {
	var out *model.Parameter
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.params.Find(txCtx, name)
		switch {
		case err == nil:
			if err := s.params.UpdateValue(txCtx, existing, value); err != nil {
				return fmt.Errorf("failed to update parameter %q: %w", name, err)
			}
			out = existing
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to read parameter %q: %w", name, err)
		}

		p := &model.Parameter{Name: name, Value: value, UserModifiable: true}
		for _, opt := range opts {
			opt(p)
		}
		if err := s.params.Create(txCtx, p); err != nil {
			return fmt.Errorf("failed to create parameter %q: %w", name, err)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("parameter set", zap.String("name", name))
	return out, nil
}

func (s *parameterService) List(ctx context.Context) ([]model.Parameter, error) {
	params, err := s.params.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list parameters: %w", err)
	}
	return params, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cmenu/internal/database"
	"cmenu/internal/menu"
	"cmenu/internal/model"
	"cmenu/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GroupSpec describes a menu group to create.
type GroupSpec struct {
	Name string
	Info string
	Tier menu.Tier
	ID   *uint // explicit id, optional
}

// Seed is the group created the first time the group table is empty.
type Seed struct {
	Name string
	Info string
	Tier menu.Tier
}

// DefaultSeed matches the group a fresh installation starts with.
var DefaultSeed = Seed{Name: "Initial Group", Info: "Group Info here", Tier: menu.TierSuper}

// BootstrapService makes the menu tables durable and creates groups with
// their default menus.
type BootstrapService interface {
	// EnsureReady creates missing tables and seeds the first group. It is
	// safe to call repeatedly; seeded reports whether this call seeded.
	EnsureReady(ctx context.Context) (seeded bool, err error)
	CreateGroup(ctx context.Context, spec GroupSpec) (*model.MenuGroup, []model.MenuItem, error)
	DeleteGroup(ctx context.Context, id uint) error
	DeleteItem(ctx context.Context, id uint) error
}

type bootstrapService struct {
	db     *gorm.DB
	tx     repository.TransactionManager
	groups repository.GroupRepository
	items  repository.ItemRepository
	users  repository.UserRepository
	nav    *repository.Navigator
	seed   Seed
	log    *zap.Logger
}

func NewBootstrapService(
	db *gorm.DB,
	tx repository.TransactionManager,
	groups repository.GroupRepository,
	items repository.ItemRepository,
	users repository.UserRepository,
	nav *repository.Navigator,
	seed Seed,
	log *zap.Logger,
) BootstrapService {
	return &bootstrapService{
		db:     db,
		tx:     tx,
		groups: groups,
		items:  items,
		users:  users,
		nav:    nav,
		seed:   seed,
		log:    log,
	}
}

func (s *bootstrapService) EnsureReady(ctx context.Context) (bool, error) {
	if _, err := database.EnsureTables(ctx, s.db, s.log); err != nil {
		return false, err
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		n, err := s.groups.Count(txCtx)
		if err != nil {
			return fmt.Errorf("failed to count menu groups: %w", err)
		}
		if n > 0 {
			return ErrAlreadyInitialized
		}
		_, _, err = s.createGroup(txCtx, GroupSpec{Name: s.seed.Name, Info: s.seed.Info, Tier: s.seed.Tier})
		if errors.Is(err, ErrDuplicateName) {
			return ErrAlreadyInitialized
		}
		return err
	})
	if errors.Is(err, ErrAlreadyInitialized) {
		s.log.Debug("menu groups already initialized")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.log.Info("seeded initial menu group", zap.String("name", s.seed.Name), zap.Stringer("tier", s.seed.Tier))
	return true, nil
}

func (s *bootstrapService) CreateGroup(ctx context.Context, spec GroupSpec) (*model.MenuGroup, []model.MenuItem, error) {
	var (
		group *model.MenuGroup
		items []model.MenuItem
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		group, items, err = s.createGroup(txCtx, spec)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("menu group created",
		zap.Uint("id", group.ID), zap.String("name", group.Name),
		zap.Stringer("tier", spec.Tier), zap.Int("items", len(items)))
	return group, items, nil
}

// createGroup must run inside a transaction.
func (s *bootstrapService) createGroup(ctx context.Context, spec GroupSpec) (*model.MenuGroup, []model.MenuItem, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return nil, nil, ErrGroupNameRequired
	}

	if spec.ID != nil {
		_, err := s.groups.FindByID(ctx, *spec.ID)
		if err == nil {
			return nil, nil, fmt.Errorf("%w: %d", ErrDuplicateID, *spec.ID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("failed to look up menu group %d: %w", *spec.ID, err)
		}
	}

	_, err := s.groups.FindByName(ctx, name)
	if err == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("failed to look up menu group %q: %w", name, err)
	}

	group := &model.MenuGroup{Name: name, Info: spec.Info}
	if spec.ID != nil {
		group.ID = *spec.ID
	}
	if err := s.groups.Create(ctx, group); err != nil {
		// Lost a race with another writer after the checks above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, s.duplicateError(ctx, spec.ID, name)
		}
		return nil, nil, fmt.Errorf("failed to create menu group: %w", err)
	}

	items := templateItems(group.ID, spec.Tier)
	if err := s.items.CreateBatch(ctx, items); err != nil {
		return nil, nil, fmt.Errorf("failed to create default menu items: %w", err)
	}
	return group, items, nil
}

// duplicateError names the key a failed insert collided on. An explicit id
// that is now taken wins over the name.
func (s *bootstrapService) duplicateError(ctx context.Context, id *uint, name string) error {
	if id != nil {
		if _, err := s.groups.FindByID(ctx, *id); err == nil {
			return fmt.Errorf("%w: %d", ErrDuplicateID, *id)
		}
	}
	return fmt.Errorf("%w: %q", ErrDuplicateName, name)
}

func templateItems(groupID uint, tier menu.Tier) []model.MenuItem {
	options := menu.Template(tier)
	items := make([]model.MenuItem, 0, len(options))
	for _, o := range options {
		ref := groupID
		top, bottom := o.TopLine, o.BottomLine
		item := model.MenuItem{
			GroupRef:     &ref,
			MenuID:       o.MenuID,
			OptionNumber: o.OptionNumber,
			OptionText:   o.OptionText,
			Argument:     o.Argument,
			TopLine:      &top,
			BottomLine:   &bottom,
		}
		if o.Command != nil {
			c := int(*o.Command)
			item.Command = &c
		}
		items = append(items, item)
	}
	return items
}

func (s *bootstrapService) DeleteGroup(ctx context.Context, id uint) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.groups.FindByID(txCtx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupNotFound
			}
			return fmt.Errorf("failed to look up menu group %d: %w", id, err)
		}

		items, err := s.nav.CountItems(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to count menu items: %w", err)
		}
		users, err := s.users.CountByGroup(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		if items > 0 || users > 0 {
			return fmt.Errorf("%w: %d items, %d users", ErrGroupInUse, items, users)
		}

		return s.groups.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("menu group deleted", zap.Uint("id", id))
	return nil
}

func (s *bootstrapService) DeleteItem(ctx context.Context, id uint) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.items.FindByID(txCtx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to look up menu item %d: %w", id, err)
		}
		return s.items.Delete(txCtx, id)
	})
}

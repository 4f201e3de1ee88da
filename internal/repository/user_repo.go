package repository

import (
	"context"
	"time"

	"cmenu/internal/catalog"
	"cmenu/internal/model"

	"gorm.io/gorm"
)

// UserRepository defines the interface for data access of User entities
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePasswordHash(ctx context.Context, user *model.User, hash string) error
	TouchLastLogin(ctx context.Context, user *model.User, at time.Time) error
	CountByGroup(ctx context.Context, groupID uint) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db   *gorm.DB
	cols columns
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB, s *catalog.Schema) UserRepository {
	return &userRepository{db: db, cols: columns{schema: s, entity: catalog.User}}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	return r.first(ctx, "id", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.first(ctx, "username", username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email", email)
}

func (r *userRepository) first(ctx context.Context, field string, value any) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).Where(r.cols.eq(field, value)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, user *model.User, hash string) error {
	if err := GetDB(ctx, r.db).Model(user).Update("PasswordHash", hash).Error; err != nil {
		return err
	}
	user.PasswordHash = hash
	return nil
}

// TouchLastLogin records a login; it is a no-op on host tables without a
// last login column.
func (r *userRepository) TouchLastLogin(ctx context.Context, user *model.User, at time.Time) error {
	if f, _ := r.cols.schema.Field(catalog.User, "last_login"); f.Absent {
		return nil
	}
	if err := GetDB(ctx, r.db).Model(user).Update("LastLogin", at).Error; err != nil {
		return err
	}
	user.LastLogin = &at
	return nil
}

// CountByGroup returns how many users refer to a group; zero when the host
// user table has no group column.
func (r *userRepository) CountByGroup(ctx context.Context, groupID uint) (int64, error) {
	if f, _ := r.cols.schema.Field(catalog.User, "group_ref"); f.Absent {
		return 0, nil
	}
	var n int64
	err := GetDB(ctx, r.db).Model(&model.User{}).Where(r.cols.eq("group_ref", groupID)).Count(&n).Error
	return n, err
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.User{}).Count(&n).Error
	return n, err
}

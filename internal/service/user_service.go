package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cmenu/internal/model"
	"cmenu/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

// NewUser carries the fields needed to create an account.
type NewUser struct {
	Username    string
	Email       string
	Password    string
	Permissions string
	IsSuperuser bool
	GroupRef    *uint
}

type LoginUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// UserService manages accounts and answers permission checks.
type UserService interface {
	CreateUser(ctx context.Context, req NewUser) (*model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	// Authenticate checks credentials of an active user and records the login.
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	SetPassword(ctx context.Context, id uint, password string) error
	HasPermission(ctx context.Context, id uint, permission string) (bool, error)
	// EnsureAdmin creates req as a superuser when no account exists yet.
	EnsureAdmin(ctx context.Context, req NewUser) (created bool, err error)
}

type userService struct {
	tx     repository.TransactionManager
	users  repository.UserRepository
	secret []byte
	now    func() time.Time
	log    *zap.Logger
}

// NewUserService returns a new instance of UserService. secret signs login
// tokens.
func NewUserService(tx repository.TransactionManager, users repository.UserRepository, secret []byte, log *zap.Logger) UserService {
	return &userService{tx: tx, users: users, secret: secret, now: time.Now, log: log}
}

func (s *userService) CreateUser(ctx context.Context, req NewUser) (*model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, ErrInvalidUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Active:       true,
		IsSuperuser:  req.IsSuperuser,
		Permissions:  req.Permissions,
		GroupRef:     req.GroupRef,
		JoinedAt:     s.now(),
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.users.GetByUsername(txCtx, user.Username); err == nil {
			return ErrUserExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if _, err := s.users.GetByEmail(txCtx, user.Email); err == nil {
			return ErrUserExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := s.users.Create(txCtx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUserExists
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user created", zap.Uint("id", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *userService) EnsureAdmin(ctx context.Context, req NewUser) (bool, error) {
	var user *model.User
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		n, err := s.users.Count(txCtx)
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		if n > 0 {
			return nil
		}
		req.IsSuperuser = true
		user, err = s.CreateUser(txCtx, req)
		return err
	})
	if err != nil || user == nil {
		return false, err
	}
	s.log.Info("first superuser created", zap.String("username", user.Username))
	return true, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %q: %w", username, err)
	}
	if !user.Active {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.users.TouchLastLogin(ctx, user, s.now()); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		IssuedAt:  jwt.NewNumericDate(s.now()),
		ExpiresAt: jwt.NewNumericDate(s.now().Add(tokenTTL)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &TokenResponse{Token: signed}, nil
}

func (s *userService) SetPassword(ctx context.Context, id uint, password string) error {
	if password == "" {
		return ErrInvalidUser
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.UpdatePasswordHash(ctx, user, string(hash))
}

func (s *userService) HasPermission(ctx context.Context, id uint, permission string) (bool, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return false, err
	}
	return user.Active && user.HasPermission(permission), nil
}

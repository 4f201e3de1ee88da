// Package cmenu plugs the menu data model into a host database.
//
// Initialize reconciles the canonical schema with the host's overrides,
// binds the group/item association, opens the database through gorm and
// bootstraps it: missing tables are created and, when the group table is
// empty, a first group is seeded with its default menu.
//
//	engine, err := cmenu.Initialize(ctx, postgres.Open(dsn),
//		cmenu.WithTableNames(map[string]string{cmenu.Group: "cMenu_menugroups"}),
//	)
package cmenu

import (
	"context"
	"fmt"
	"io"

	"cmenu/internal/catalog"
	"cmenu/internal/database"
	"cmenu/internal/menu"
	"cmenu/internal/repository"
	"cmenu/internal/service"
	"cmenu/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Entity names accepted in table and model overrides.
const (
	Group     = catalog.Group
	Item      = catalog.Item
	Parameter = catalog.Parameter
	Greeting  = catalog.Greeting
	User      = catalog.User
)

type (
	Registry         = catalog.Registry
	Schema           = catalog.Schema
	EntityDefinition = catalog.EntityDefinition
	Field            = catalog.Field
	Association      = catalog.Association
	Tier             = menu.Tier
)

const (
	TierOrdinary = menu.TierOrdinary
	TierSuper    = menu.TierSuper
)

// ErrConfiguration is wrapped by every error caused by invalid overrides.
var ErrConfiguration = catalog.ErrConfiguration

type options struct {
	registry     *catalog.Registry
	tables       map[string]string
	models       map[string]catalog.EntityDefinition
	log          *zap.Logger
	seed         service.Seed
	secret       []byte
	maxOpenConns int
	admin        *service.NewUser
}

// Option configures Initialize.
type Option func(*options)

// WithRegistry replaces the canonical registry.
func WithRegistry(r *catalog.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithTableNames maps entity names to host table names.
func WithTableNames(tables map[string]string) Option {
	return func(o *options) { o.tables = tables }
}

// WithModels supplies host descriptions of existing tables, keyed by entity.
func WithModels(models map[string]catalog.EntityDefinition) Option {
	return func(o *options) { o.models = models }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = logger.OrNop(l) }
}

// WithSeedTier selects the default menu of the seeded group.
func WithSeedTier(t menu.Tier) Option {
	return func(o *options) { o.seed.Tier = t }
}

func WithSeedGroup(name, info string) Option {
	return func(o *options) {
		o.seed.Name = name
		o.seed.Info = info
	}
}

// WithTokenSecret sets the key UserAccounts signs login tokens with.
func WithTokenSecret(secret []byte) Option {
	return func(o *options) { o.secret = secret }
}

// WithMaxOpenConns caps the connection pool. Zero leaves the driver default.
func WithMaxOpenConns(n int) Option {
	return func(o *options) { o.maxOpenConns = n }
}

// WithAdmin creates a superuser with these credentials when the user table
// is empty, so a fresh installation has an account to sign in with.
func WithAdmin(username, email, password string) Option {
	return func(o *options) {
		o.admin = &service.NewUser{Username: username, Email: email, Password: password}
	}
}

// Engine holds the reconciled schema and handles to every entity.
type Engine struct {
	Schema   *catalog.Schema
	Bindings *catalog.Bindings
	DB       *gorm.DB

	Groups     repository.GroupRepository
	Items      repository.ItemRepository
	Parameters repository.ParameterRepository
	Greetings  repository.GreetingRepository
	Users      repository.UserRepository
	Navigator  *repository.Navigator

	Bootstrap      service.BootstrapService
	ParameterStore service.ParameterService
	UserAccounts   service.UserService
	Greeter        service.GreetingService

	// Seeded reports whether Initialize created the first group.
	Seeded bool
	// AdminCreated reports whether Initialize created the WithAdmin account.
	AdminCreated bool
}

// Initialize resolves the effective schema, opens dialector with it and
// makes the database ready for use. Invalid overrides fail before any I/O.
// It is safe to call against an already initialized database.
func Initialize(ctx context.Context, dialector gorm.Dialector, opts ...Option) (*Engine, error) {
	o := options{
		registry: catalog.Canonical(),
		log:      zap.NewNop(),
		seed:     service.DefaultSeed,
	}
	for _, opt := range opts {
		opt(&o)
	}

	s, err := catalog.Resolve(o.registry, o.tables, o.models)
	if err != nil {
		return nil, err
	}
	bindings, err := catalog.Bind(s)
	if err != nil {
		return nil, err
	}
	assoc, ok := bindings.Lookup(catalog.Group, catalog.Item)
	if !ok {
		return nil, &catalog.ConfigError{Entity: catalog.Item, Reason: "no association to " + catalog.Group}
	}

	db, err := database.Open(dialector, s, o.log)
	if err != nil {
		return nil, err
	}
	if o.maxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			if c, ok := db.ConnPool.(io.Closer); ok {
				_ = c.Close()
			}
			return nil, fmt.Errorf("failed to access connection pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(o.maxOpenConns)
	}

	e := &Engine{
		Schema:     s,
		Bindings:   bindings,
		DB:         db,
		Groups:     repository.NewGroupRepository(db, s),
		Items:      repository.NewItemRepository(db, s),
		Parameters: repository.NewParameterRepository(db, s),
		Greetings:  repository.NewGreetingRepository(db, s),
		Users:      repository.NewUserRepository(db, s),
		Navigator:  repository.NewNavigator(db, s, assoc),
	}
	tx := repository.NewTransactionManager(db)
	e.Bootstrap = service.NewBootstrapService(db, tx, e.Groups, e.Items, e.Users, e.Navigator, o.seed, o.log)
	e.ParameterStore = service.NewParameterService(tx, e.Parameters, o.log)
	e.UserAccounts = service.NewUserService(tx, e.Users, o.secret, o.log)
	e.Greeter = service.NewGreetingService(e.Greetings)

	e.Seeded, err = e.Bootstrap.EnsureReady(ctx)
	if err != nil {
		_ = e.Close()
		return nil, fmt.Errorf("failed to bootstrap menu tables: %w", err)
	}
	if o.admin != nil {
		e.AdminCreated, err = e.UserAccounts.EnsureAdmin(ctx, *o.admin)
		if err != nil {
			_ = e.Close()
			return nil, fmt.Errorf("failed to create first superuser: %w", err)
		}
	}
	return e, nil
}

// Close releases the database connections.
func (e *Engine) Close() error {
	sqlDB, err := e.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

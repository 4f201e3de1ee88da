package service

import (
	"testing"

	"cmenu/internal/catalog"
	"cmenu/internal/database/databasetest"
	"cmenu/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testSecret = []byte("test-secret")

// env wires every repository and service over one in-memory database.
type env struct {
	db        *gorm.DB
	schema    *catalog.Schema
	tx        repository.TransactionManager
	groups    repository.GroupRepository
	items     repository.ItemRepository
	params    repository.ParameterRepository
	greetings repository.GreetingRepository
	users     repository.UserRepository
	nav       *repository.Navigator

	boot     BootstrapService
	paramSvc ParameterService
	greetSvc GreetingService
	userSvc  UserService
}

func setupEnv(t *testing.T, s *catalog.Schema, seed Seed) *env {
	t.Helper()
	db := databasetest.Open(t, s)

	b, err := catalog.Bind(s)
	require.NoError(t, err)
	assoc, ok := b.Lookup(catalog.Group, catalog.Item)
	require.True(t, ok)

	log := zap.NewNop()
	e := &env{
		db:        db,
		schema:    s,
		tx:        repository.NewTransactionManager(db),
		groups:    repository.NewGroupRepository(db, s),
		items:     repository.NewItemRepository(db, s),
		params:    repository.NewParameterRepository(db, s),
		greetings: repository.NewGreetingRepository(db, s),
		users:     repository.NewUserRepository(db, s),
		nav:       repository.NewNavigator(db, s, assoc),
	}
	e.boot = NewBootstrapService(db, e.tx, e.groups, e.items, e.users, e.nav, seed, log)
	e.paramSvc = NewParameterService(e.tx, e.params, log)
	e.greetSvc = NewGreetingService(e.greetings)
	e.userSvc = NewUserService(e.tx, e.users, testSecret, log)
	return e
}

// setupReady returns a canonical environment that has already been
// bootstrapped with the default seed.
func setupReady(t *testing.T) *env {
	t.Helper()
	e := setupEnv(t, databasetest.Canonical(t), DefaultSeed)
	seeded, err := e.boot.EnsureReady(t.Context())
	require.NoError(t, err)
	require.True(t, seeded)
	return e
}

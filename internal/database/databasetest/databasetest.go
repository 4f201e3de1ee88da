// Package databasetest opens throwaway in-memory databases for tests.
package databasetest

import (
	"testing"

	"cmenu/internal/catalog"
	"cmenu/internal/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dialector returns a fresh in-memory sqlite dialector.
func Dialector() gorm.Dialector {
	return sqlite.Open(":memory:")
}

// Open returns a database bound to s without creating any table. The pool is
// limited to one connection so the in-memory database lives for the test.
func Open(t *testing.T, s *catalog.Schema) *gorm.DB {
	t.Helper()
	db, err := database.Open(Dialector(), s, zap.NewNop())
	require.NoError(t, err)
	Pin(t, db)
	return db
}

// Pin limits db to a single connection and closes it when the test ends.
func Pin(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
}

// Canonical resolves the canonical registry with no overrides.
func Canonical(t *testing.T) *catalog.Schema {
	t.Helper()
	s, err := catalog.Resolve(catalog.Canonical(), nil, nil)
	require.NoError(t, err)
	return s
}

// Legacy resolves a schema shaped like a pre-existing host database: renamed
// tables and item columns, and an item table with no reference to groups.
func Legacy(t *testing.T) *catalog.Schema {
	t.Helper()
	s, err := catalog.Resolve(catalog.Canonical(),
		map[string]string{
			catalog.Group:     "cMenu_menugroups",
			catalog.Parameter: "cMenu_cparameters",
			catalog.Greeting:  "cMenu_cgreetings",
		},
		map[string]catalog.EntityDefinition{
			catalog.Item: {
				Table: "cMenu_menuitems",
				Fields: []catalog.Field{
					{Name: "id", Type: catalog.BigInteger},
					{Name: "group_ref", Column: "MenuGroup_id", Type: catalog.BigInteger},
					{Name: "menu_id", Column: "MenuID"},
					{Name: "option_number", Column: "OptionNumber"},
					{Name: "option_text", Column: "OptionText"},
					{Name: "command", Column: "Command_id"},
					{Name: "argument", Column: "Argument"},
					{Name: "guard_password", Column: "PWord"},
					{Name: "top_line", Column: "TopLine"},
				},
			},
		},
	)
	require.NoError(t, err)
	return s
}

// Trimmed resolves a schema whose user and parameter tables carry only the
// columns they cannot do without.
func Trimmed(t *testing.T) *catalog.Schema {
	t.Helper()
	s, err := catalog.Resolve(catalog.Canonical(), nil,
		map[string]catalog.EntityDefinition{
			catalog.User: {
				Table: "accounts",
				Fields: []catalog.Field{
					{Name: "id"},
					{Name: "username"},
					{Name: "email"},
					{Name: "password_hash"},
					{Name: "permissions"},
				},
			},
			catalog.Parameter: {
				Fields: []catalog.Field{
					{Name: "name"},
					{Name: "value"},
				},
			},
		},
	)
	require.NoError(t, err)
	return s
}

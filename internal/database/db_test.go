package database_test

import (
	"context"
	"testing"

	"cmenu/internal/catalog"
	"cmenu/internal/database"
	"cmenu/internal/database/databasetest"
	"cmenu/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{"", "postgres", "mysql", "sqlite"} {
		d, err := database.Dialector(driver, "dsn")
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}
	_, err := database.Dialector("oracle", "dsn")
	assert.Error(t, err)
}

func TestNamer_ResolvesThroughEffectiveSchema(t *testing.T) {
	n := database.NewNamer(databasetest.Legacy(t))

	assert.Equal(t, "cMenu_menuitems", n.TableName("MenuItem"))
	assert.Equal(t, "users", n.TableName("User"))
	assert.Equal(t, "MenuGroup_id", n.ColumnName("cMenu_menuitems", "GroupRef"))
	assert.Equal(t, "PWord", n.ColumnName("cMenu_menuitems", "GuardPassword"))
	assert.Equal(t, "menu_id", n.ColumnName("other_table", "MenuID"))
	assert.Equal(t, "widgets", n.TableName("Widget"))
}

func TestEnsureTables_CreatesOnceAndNeverAlters(t *testing.T) {
	ctx := context.Background()
	db := databasetest.Open(t, databasetest.Legacy(t))

	created, err := database.EnsureTables(ctx, db, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{catalog.Group, catalog.Item, catalog.Parameter, catalog.Greeting, catalog.User}, created)

	m := db.Migrator()
	assert.True(t, m.HasTable("cMenu_menuitems"))
	assert.True(t, m.HasColumn(&model.MenuItem{}, "PWord"))
	assert.True(t, m.HasColumn(&model.MenuItem{}, "MenuGroup_id"))
	assert.False(t, m.HasColumn(&model.MenuItem{}, "bottom_line"), "absent column is not created")

	created, err = database.EnsureTables(ctx, db, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestOpen_AbsentColumnsAreSkippedOnWrite(t *testing.T) {
	ctx := context.Background()
	db := databasetest.Open(t, databasetest.Legacy(t))
	_, err := database.EnsureTables(ctx, db, zap.NewNop())
	require.NoError(t, err)

	yes := true
	item := model.MenuItem{MenuID: 1, OptionNumber: 2, OptionText: "x", TopLine: &yes, BottomLine: &yes}
	require.NoError(t, db.Create(&item).Error)

	var got model.MenuItem
	require.NoError(t, db.First(&got, item.ID).Error)
	assert.Equal(t, "x", got.OptionText)
	require.NotNil(t, got.TopLine)
	assert.Nil(t, got.BottomLine)
}

func TestOpen_AbsentColumnsReadAsCanonicalDefault(t *testing.T) {
	ctx := context.Background()
	db := databasetest.Open(t, databasetest.Trimmed(t))
	_, err := database.EnsureTables(ctx, db, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, db.Migrator().HasColumn(&model.User{}, "active"))

	require.NoError(t, db.Create(&model.User{Username: "ann", Email: "a@example.com", PasswordHash: "x"}).Error)
	require.NoError(t, db.Create(&model.Parameter{Name: "Theme", Value: "dark"}).Error)

	var one model.User
	require.NoError(t, db.First(&one).Error)
	assert.True(t, one.Active)

	var many []*model.User
	require.NoError(t, db.Find(&many).Error)
	require.Len(t, many, 1)
	assert.True(t, many[0].Active)

	var params []model.Parameter
	require.NoError(t, db.Find(&params).Error)
	require.Len(t, params, 1)
	assert.True(t, params[0].UserModifiable)

	var n int64
	require.NoError(t, db.Model(&model.User{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

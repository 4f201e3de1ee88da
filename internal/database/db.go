package database

import (
	"context"
	"fmt"
	"time"

	"cmenu/internal/catalog"
	"cmenu/internal/model"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Dialector returns the gorm dialector for a driver name.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres", "":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

// Open connects through dialector with a naming strategy derived from the
// effective schema, so every model resolves to the host's tables and
// columns. Logical types and absent columns are applied to the parsed
// models before any table is touched.
func Open(dialector gorm.Dialector, s *catalog.Schema, log *zap.Logger) (*gorm.DB, error) {
	cfg := &gorm.Config{
		NamingStrategy: NewNamer(s),
		TranslateError: true,
		Logger: gormlogger.New(zap.NewStdLog(log), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := applySchema(db, s); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureTables creates every missing table. Existing tables are never
// altered or dropped. It returns the entities whose tables were created.
func EnsureTables(ctx context.Context, db *gorm.DB, log *zap.Logger) ([]string, error) {
	var created []string
	for _, b := range model.Bindings() {
		made := false
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			m := tx.Migrator()
			if m.HasTable(b.Model) {
				return nil
			}
			made = true
			return m.CreateTable(b.Model)
		})
		if err != nil {
			return created, fmt.Errorf("failed to create table for %s: %w", b.Entity, err)
		}
		if made {
			log.Info("table created", zap.String("entity", b.Entity))
			created = append(created, b.Entity)
		}
	}
	return created, nil
}

package database

import (
	"fmt"
	"reflect"

	"cmenu/internal/catalog"
	"cmenu/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// applySchema parses every model once and adjusts the cached schema: column
// types follow the effective definition, and columns the host table lacks
// are never read, written or created. Rows loaded from such tables report
// the canonical default for the missing columns.
func applySchema(db *gorm.DB, s *catalog.Schema) error {
	defaults := make(map[reflect.Type][]absentDefault)
	for _, b := range model.Bindings() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(b.Model); err != nil {
			return fmt.Errorf("failed to parse %s model: %w", b.Entity, err)
		}
		for _, f := range s.Entity(b.Entity).Fields {
			field := stmt.Schema.LookUpField(f.Column)
			if field == nil {
				return fmt.Errorf("%s model has no field for %s (column %q)", b.Entity, f.Name, f.Column)
			}
			if f.Absent {
				field.IgnoreMigration = true
				field.Creatable = false
				field.Updatable = false
				field.Readable = false
				if f.Default != nil {
					t := stmt.Schema.ModelType
					defaults[t] = append(defaults[t], absentDefault{field: field, value: f.Default})
				}
				continue
			}
			setDataType(field, f)
		}
	}
	if len(defaults) == 0 {
		return nil
	}
	return db.Callback().Query().After("gorm:query").Register("cmenu:absent_defaults", fillDefaults(defaults))
}

type absentDefault struct {
	field *schema.Field
	value any
}

func fillDefaults(defaults map[reflect.Type][]absentDefault) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		if tx.Error != nil || tx.Statement.Schema == nil {
			return
		}
		modelType := tx.Statement.Schema.ModelType
		fills := defaults[modelType]
		if len(fills) == 0 {
			return
		}
		set := func(row reflect.Value) {
			row = reflect.Indirect(row)
			if !row.IsValid() || row.Type() != modelType {
				return
			}
			for _, d := range fills {
				if err := d.field.Set(tx.Statement.Context, row, d.value); err != nil {
					_ = tx.AddError(fmt.Errorf("failed to default %s: %w", d.field.DBName, err))
					return
				}
			}
		}

		rv := tx.Statement.ReflectValue
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			for i := 0; i < rv.Len(); i++ {
				set(rv.Index(i))
			}
		default:
			set(rv)
		}
	}
}

func setDataType(field *schema.Field, f catalog.Field) {
	switch f.Type {
	case catalog.SmallInteger:
		field.DataType, field.Size = schema.Int, 16
	case catalog.Integer:
		field.DataType, field.Size = schema.Int, 32
	case catalog.BigInteger:
		field.DataType, field.Size = schema.Int, 64
	case catalog.String:
		field.DataType = schema.String
		if f.Size > 0 {
			field.Size = f.Size
		}
	case catalog.Text:
		field.DataType, field.Size = schema.String, 0
	case catalog.Boolean:
		field.DataType = schema.Bool
	case catalog.Timestamp:
		field.DataType = schema.Time
	}
}

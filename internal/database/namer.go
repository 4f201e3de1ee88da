package database

import (
	"reflect"

	"cmenu/internal/catalog"
	"cmenu/internal/model"

	"gorm.io/gorm/schema"
)

// Namer resolves model tables and columns through the effective schema and
// defers to gorm's default strategy for anything it does not know.
type Namer struct {
	schema.NamingStrategy
	effective *catalog.Schema
	entities  map[string]string // model type name -> entity
}

// NewNamer returns a Namer over s.
func NewNamer(s *catalog.Schema) Namer {
	n := Namer{effective: s, entities: map[string]string{}}
	for _, b := range model.Bindings() {
		n.entities[reflect.TypeOf(b.Model).Elem().Name()] = b.Entity
	}
	return n
}

func (n Namer) TableName(str string) string {
	if entity, ok := n.entities[str]; ok {
		return n.effective.Table(entity)
	}
	return n.NamingStrategy.TableName(str)
}

// ColumnName maps a struct field to its column. Struct fields are the
// CamelCase form of logical field names, so the default snake_case name is
// the logical name.
func (n Namer) ColumnName(table, column string) string {
	if entity, ok := n.effective.EntityForTable(table); ok {
		if f, ok := n.effective.Field(entity, n.NamingStrategy.ColumnName("", column)); ok {
			return f.Column
		}
	}
	return n.NamingStrategy.ColumnName(table, column)
}

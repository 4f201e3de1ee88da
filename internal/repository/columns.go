package repository

import (
	"cmenu/internal/catalog"

	"gorm.io/gorm/clause"
)

// columns builds clauses on logical field names of one entity, so queries
// keep working whatever the host called its columns.
type columns struct {
	schema *catalog.Schema
	entity string
}

func (c columns) col(field string) clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: c.schema.Column(c.entity, field)}
}

func (c columns) eq(field string, value any) clause.Eq {
	return clause.Eq{Column: c.col(field), Value: value}
}

func (c columns) asc(fields ...string) clause.OrderBy {
	order := clause.OrderBy{}
	for _, f := range fields {
		order.Columns = append(order.Columns, clause.OrderByColumn{Column: c.col(f)})
	}
	return order
}

package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrConfiguration is wrapped by every ConfigError.
var ErrConfiguration = errors.New("invalid schema configuration")

// ConfigError reports an invalid or conflicting override.
type ConfigError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s.%s: %s", ErrConfiguration, e.Entity, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Entity, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

func configErr(entity, field, format string, args ...any) error {
	return &ConfigError{Entity: entity, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Schema is the effective schema: the registry with host overrides applied.
type Schema struct {
	order     []string
	entities  map[string]EntityDefinition
	byTable   map[string]string
	relations []Relation
}

// Resolve merges host overrides over the registry. tableNames maps entity
// name to table name; models maps entity name to a host description of its
// table, whose fields are addressed by logical name. Neither map is mutated.
func Resolve(reg *Registry, tableNames map[string]string, models map[string]EntityDefinition) (*Schema, error) {
	for _, name := range sortedKeys(tableNames) {
		if _, ok := reg.Lookup(name); !ok {
			return nil, configErr(name, "", "unknown entity in table name overrides")
		}
	}
	for _, name := range sortedKeys(models) {
		if _, ok := reg.Lookup(name); !ok {
			return nil, configErr(name, "", "unknown entity in model overrides")
		}
	}

	s := &Schema{
		entities:  make(map[string]EntityDefinition, len(reg.order)),
		byTable:   make(map[string]string, len(reg.order)),
		relations: reg.Relations(),
	}
	for _, name := range reg.Names() {
		def := reg.Entity(name)
		if override, ok := models[name]; ok {
			merged, err := mergeModel(reg, def, override)
			if err != nil {
				return nil, err
			}
			def = merged
		}

		if table, ok := tableNames[name]; ok {
			table = strings.TrimSpace(table)
			if table == "" {
				return nil, configErr(name, "", "table name override is empty")
			}
			if override, ok := models[name]; ok && override.Table != "" && !strings.EqualFold(override.Table, table) {
				return nil, configErr(name, "", "model override table %q conflicts with table name override %q", override.Table, table)
			}
			def.Table = table
		}

		key := strings.ToLower(def.Table)
		if other, taken := s.byTable[key]; taken {
			return nil, configErr(name, "", "table %q already used by %s", def.Table, other)
		}
		s.byTable[key] = name
		s.order = append(s.order, name)
		s.entities[name] = def
	}
	return s, nil
}

func mergeModel(reg *Registry, canonical, override EntityDefinition) (EntityDefinition, error) {
	name := canonical.Name
	declared := make(map[string]Field, len(override.Fields))
	for _, f := range override.Fields {
		if _, ok := canonical.Field(f.Name); !ok {
			return EntityDefinition{}, configErr(name, f.Name, "no such logical field; fields may be remapped to other columns but not renamed")
		}
		if _, dup := declared[f.Name]; dup {
			return EntityDefinition{}, configErr(name, f.Name, "declared more than once")
		}
		if _, known := reg.Lookup(f.References); f.References != "" && !known {
			return EntityDefinition{}, configErr(name, f.Name, "unknown referenced entity %q", f.References)
		}
		declared[f.Name] = f
	}

	out := canonical.clone()
	if override.Table != "" {
		out.Table = strings.TrimSpace(override.Table)
		if out.Table == "" {
			return EntityDefinition{}, configErr(name, "", "model override table name is empty")
		}
	}
	columns := make(map[string]string, len(out.Fields))
	for i, f := range out.Fields {
		o, ok := declared[f.Name]
		if !ok {
			if f.PrimaryKey || f.Unique || (f.Required && !f.HasDefault) {
				return EntityDefinition{}, configErr(name, f.Name, "override must declare primary key, unique and required fields")
			}
			out.Fields[i].Absent = true
			continue
		}
		if o.Column != "" {
			f.Column = strings.TrimSpace(o.Column)
		}
		if o.Type != Unspecified {
			f.Type = o.Type
			f.Size = o.Size
		} else if o.Size > 0 {
			f.Size = o.Size
		}
		// A reference is only what the host declares; the binder fills the gap.
		f.References = o.References
		if prev, clash := columns[strings.ToLower(f.Column)]; clash {
			return EntityDefinition{}, configErr(name, f.Name, "column %q already used by field %s", f.Column, prev)
		}
		columns[strings.ToLower(f.Column)] = f.Name
		out.Fields[i] = f
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entity returns the effective definition for name. It panics on an unknown
// name.
func (s *Schema) Entity(name string) EntityDefinition {
	d, ok := s.entities[name]
	if !ok {
		panic(fmt.Sprintf("catalog: unknown entity %q", name))
	}
	return d.clone()
}

// Names returns the entity names in registry order.
func (s *Schema) Names() []string {
	return append([]string(nil), s.order...)
}

// Relations returns the registry's parent/child relations.
func (s *Schema) Relations() []Relation {
	return append([]Relation(nil), s.relations...)
}

// Table returns the resolved table name of an entity.
func (s *Schema) Table(entity string) string {
	return s.entities[entity].Table
}

// EntityForTable maps a resolved table name back to its entity.
func (s *Schema) EntityForTable(table string) (string, bool) {
	name, ok := s.byTable[strings.ToLower(table)]
	return name, ok
}

// Field returns the effective definition of a logical field.
func (s *Schema) Field(entity, field string) (Field, bool) {
	d, ok := s.entities[entity]
	if !ok {
		return Field{}, false
	}
	return d.Field(field)
}

// Column returns the column storing a logical field. Unknown fields panic.
func (s *Schema) Column(entity, field string) string {
	f, ok := s.Field(entity, field)
	if !ok {
		panic(fmt.Sprintf("catalog: unknown field %s.%s", entity, field))
	}
	return f.Column
}

// Package catalog holds the storage-agnostic definitions of the menu data
// model and the logic that reconciles them with a host application's schema.
package catalog

import "fmt"

// Entity names used across the catalog.
const (
	Group     = "Group"
	Item      = "Item"
	Parameter = "Parameter"
	Greeting  = "Greeting"
	User      = "User"
)

// FieldType is the logical storage type of a field.
type FieldType int

const (
	Unspecified FieldType = iota
	Integer
	BigInteger
	SmallInteger
	String
	Text
	Boolean
	Timestamp
)

func (t FieldType) String() string {
	switch t {
	case Integer:
		return "integer"
	case BigInteger:
		return "biginteger"
	case SmallInteger:
		return "smallinteger"
	case String:
		return "string"
	case Text:
		return "text"
	case Boolean:
		return "boolean"
	case Timestamp:
		return "timestamp"
	default:
		return "unspecified"
	}
}

// Field describes one logical field and the column that stores it.
type Field struct {
	Name       string // logical name, fixed
	Column     string
	Type       FieldType
	Size       int
	PrimaryKey bool
	Generated  bool
	Unique     bool
	Required   bool
	HasDefault bool
	// Default is the value reported for the field when the host table
	// does not carry it. Nil means the Go zero value.
	Default    any
	References string // parent entity name when the field is a declared reference

	// Absent marks a canonical field the host table does not carry.
	Absent bool
}

// EntityDefinition is the description of one entity and its table.
type EntityDefinition struct {
	Name   string
	Table  string
	Fields []Field
	// UniqueTogether lists composite unique constraints by logical field name.
	UniqueTogether [][]string
}

// Field returns the field with the given logical name.
func (d EntityDefinition) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (d EntityDefinition) clone() EntityDefinition {
	out := d
	out.Fields = append([]Field(nil), d.Fields...)
	out.UniqueTogether = make([][]string, 0, len(d.UniqueTogether))
	for _, u := range d.UniqueTogether {
		out.UniqueTogether = append(out.UniqueTogether, append([]string(nil), u...))
	}
	return out
}

// Relation declares a parent/child relationship joined on a child field.
type Relation struct {
	Parent    string
	Child     string
	JoinField string
}

// Registry is the read-only set of canonical entity definitions.
type Registry struct {
	order     []string
	entities  map[string]EntityDefinition
	relations []Relation
}

// NewRegistry builds a registry from definitions in declaration order.
func NewRegistry(defs []EntityDefinition, relations []Relation) *Registry {
	r := &Registry{entities: make(map[string]EntityDefinition, len(defs))}
	for _, d := range defs {
		r.order = append(r.order, d.Name)
		r.entities[d.Name] = d.clone()
	}
	r.relations = append(r.relations, relations...)
	return r
}

// Entity returns the canonical definition for name. It panics on an unknown
// name, which is always a programming error.
func (r *Registry) Entity(name string) EntityDefinition {
	d, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("catalog: unknown entity %q", name))
	}
	return d
}

// Lookup is the non-panicking form of Entity.
func (r *Registry) Lookup(name string) (EntityDefinition, bool) {
	d, ok := r.entities[name]
	if !ok {
		return EntityDefinition{}, false
	}
	return d.clone(), true
}

// Names returns the entity names in declaration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Relations returns the declared parent/child relations.
func (r *Registry) Relations() []Relation {
	return append([]Relation(nil), r.relations...)
}

// Canonical returns the built-in definitions of the menu data model.
func Canonical() *Registry {
	return NewRegistry([]EntityDefinition{
		{
			Name:  Group,
			Table: "cmenu_menugroups",
			Fields: []Field{
				{Name: "id", Column: "id", Type: Integer, PrimaryKey: true, Generated: true},
				{Name: "name", Column: "name", Type: String, Size: 100, Unique: true, Required: true},
				{Name: "info", Column: "info", Type: String, Size: 250, HasDefault: true},
			},
		},
		{
			Name:  Item,
			Table: "cmenu_menuitems",
			Fields: []Field{
				{Name: "id", Column: "id", Type: Integer, PrimaryKey: true, Generated: true},
				{Name: "group_ref", Column: "group_ref", Type: Integer, References: Group},
				{Name: "menu_id", Column: "menu_id", Type: SmallInteger, Required: true},
				{Name: "option_number", Column: "option_number", Type: SmallInteger, Required: true},
				{Name: "option_text", Column: "option_text", Type: String, Size: 250, Required: true},
				{Name: "command", Column: "command", Type: Integer},
				{Name: "argument", Column: "argument", Type: String, Size: 250, HasDefault: true},
				{Name: "guard_password", Column: "guard_password", Type: String, Size: 250, HasDefault: true},
				{Name: "top_line", Column: "top_line", Type: Boolean},
				{Name: "bottom_line", Column: "bottom_line", Type: Boolean},
			},
			UniqueTogether: [][]string{{"group_ref", "menu_id", "option_number"}},
		},
		{
			Name:  Parameter,
			Table: "cmenu_parameters",
			Fields: []Field{
				{Name: "name", Column: "name", Type: String, Size: 100, PrimaryKey: true},
				{Name: "value", Column: "value", Type: String, Size: 512, Required: true, HasDefault: true},
				{Name: "user_modifiable", Column: "user_modifiable", Type: Boolean, Required: true, HasDefault: true, Default: true},
				{Name: "comments", Column: "comments", Type: String, Size: 512, Required: true, HasDefault: true},
			},
		},
		{
			Name:  Greeting,
			Table: "cmenu_greetings",
			Fields: []Field{
				{Name: "id", Column: "id", Type: Integer, PrimaryKey: true, Generated: true},
				{Name: "text", Column: "text", Type: String, Size: 2000, Required: true},
			},
		},
		{
			Name:  User,
			Table: "users",
			Fields: []Field{
				{Name: "id", Column: "id", Type: Integer, PrimaryKey: true, Generated: true},
				{Name: "username", Column: "username", Type: String, Size: 80, Unique: true, Required: true},
				{Name: "email", Column: "email", Type: String, Size: 120, Unique: true, Required: true},
				{Name: "password_hash", Column: "password_hash", Type: String, Size: 255, Required: true},
				{Name: "active", Column: "active", Type: Boolean, Required: true, HasDefault: true, Default: true},
				{Name: "is_superuser", Column: "is_superuser", Type: Boolean, Required: true, HasDefault: true},
				{Name: "permissions", Column: "permissions", Type: String, Size: 1024, Required: true, HasDefault: true},
				{Name: "group_ref", Column: "group_ref", Type: Integer, References: Group},
				{Name: "joined_at", Column: "joined_at", Type: Timestamp, Required: true, HasDefault: true},
				{Name: "last_login", Column: "last_login", Type: Timestamp},
			},
		},
	}, []Relation{
		{Parent: Group, Child: Item, JoinField: "group_ref"},
	})
}

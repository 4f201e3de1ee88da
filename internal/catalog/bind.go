package catalog

// Association links a parent entity to its children through a join column.
// Virtual associations have no reference declared in the child's table
// definition; they exist only here.
type Association struct {
	Parent          string
	Child           string
	JoinField       string
	JoinColumn      string
	ParentKeyColumn string
	Virtual         bool
}

// Bindings holds the associations bound for an effective schema.
type Bindings struct {
	assocs []Association
}

// Bind attaches every registry relation to the effective schema. A child
// that already declares a reference to its parent is used as is; otherwise
// a virtual association is synthesized on the join field. The schema is not
// modified.
func Bind(s *Schema) (*Bindings, error) {
	b := &Bindings{}
	for _, rel := range s.Relations() {
		join, ok := s.Field(rel.Child, rel.JoinField)
		if !ok || join.Absent || join.Column == "" {
			return nil, configErr(rel.Child, rel.JoinField, "table %q has no column for the join key to %s", s.Table(rel.Child), rel.Parent)
		}
		key, ok := primaryKey(s.Entity(rel.Parent))
		if !ok {
			return nil, configErr(rel.Parent, "", "no primary key to join %s on", rel.Child)
		}
		b.assocs = append(b.assocs, Association{
			Parent:          rel.Parent,
			Child:           rel.Child,
			JoinField:       rel.JoinField,
			JoinColumn:      join.Column,
			ParentKeyColumn: key.Column,
			Virtual:         join.References != rel.Parent,
		})
	}
	return b, nil
}

func primaryKey(d EntityDefinition) (Field, bool) {
	for _, f := range d.Fields {
		if f.PrimaryKey {
			return f, true
		}
	}
	return Field{}, false
}

// Lookup returns the association between parent and child.
func (b *Bindings) Lookup(parent, child string) (Association, bool) {
	for _, a := range b.assocs {
		if a.Parent == parent && a.Child == child {
			return a, true
		}
	}
	return Association{}, false
}

// All returns every bound association.
func (b *Bindings) All() []Association {
	return append([]Association(nil), b.assocs...)
}

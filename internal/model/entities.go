package model

import "cmenu/internal/catalog"

// Binding ties a catalog entity to the model type that stores it.
type Binding struct {
	Entity string
	Model  any
}

// Bindings returns one prototype per catalog entity, parents first so that
// tables are created in dependency order.
func Bindings() []Binding {
	return []Binding{
		{Entity: catalog.Group, Model: &MenuGroup{}},
		{Entity: catalog.Item, Model: &MenuItem{}},
		{Entity: catalog.Parameter, Model: &Parameter{}},
		{Entity: catalog.Greeting, Model: &Greeting{}},
		{Entity: catalog.User, Model: &User{}},
	}
}

package repository

import (
	"context"

	"cmenu/internal/catalog"
	"cmenu/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Navigator walks the group/item association bound by catalog.Bind. It
// works the same for declared and virtual associations, since both are
// keyed on the join column alone. Navigation never writes.
type Navigator struct {
	db    *gorm.DB
	assoc catalog.Association
	items columns
}

func NewNavigator(db *gorm.DB, s *catalog.Schema, assoc catalog.Association) *Navigator {
	return &Navigator{db: db, assoc: assoc, items: columns{schema: s, entity: assoc.Child}}
}

// Association returns the association this navigator follows.
func (n *Navigator) Association() catalog.Association {
	return n.assoc
}

func (n *Navigator) join() clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: n.assoc.JoinColumn}
}

// ItemsOf returns the items of a group ordered by menu and option number.
func (n *Navigator) ItemsOf(ctx context.Context, groupID uint) ([]model.MenuItem, error) {
	var items []model.MenuItem
	err := GetDB(ctx, n.db).
		Where(clause.Eq{Column: n.join(), Value: groupID}).
		Order(n.items.asc("menu_id", "option_number")).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CountItems returns how many items refer to a group.
func (n *Navigator) CountItems(ctx context.Context, groupID uint) (int64, error) {
	var count int64
	err := GetDB(ctx, n.db).Model(&model.MenuItem{}).
		Where(clause.Eq{Column: n.join(), Value: groupID}).
		Count(&count).Error
	return count, err
}

// GroupOf returns the group an item belongs to, or nil for an item with no
// group.
func (n *Navigator) GroupOf(ctx context.Context, item *model.MenuItem) (*model.MenuGroup, error) {
	if item.GroupRef == nil {
		return nil, nil
	}
	var group model.MenuGroup
	err := GetDB(ctx, n.db).
		Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: n.assoc.ParentKeyColumn}, Value: *item.GroupRef}).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// Index maps each group id to the ordered ids of its items.
func (n *Navigator) Index(ctx context.Context) (map[uint][]uint, error) {
	var items []model.MenuItem
	err := GetDB(ctx, n.db).
		Where(clause.Expr{SQL: "? IS NOT NULL", Vars: []any{n.join()}}).
		Order(n.items.asc("group_ref", "menu_id", "option_number")).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	index := make(map[uint][]uint)
	for _, it := range items {
		index[*it.GroupRef] = append(index[*it.GroupRef], it.ID)
	}
	return index, nil
}

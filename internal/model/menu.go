package model

// MenuGroup owns a tree of menu items. Items refer to it through GroupRef;
// a group cannot be deleted while any item still refers to it.
type MenuGroup struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Info string `gorm:"size:250" json:"info"`
}

// MenuItem is one option of a sub-menu inside a group. (GroupRef, MenuID,
// OptionNumber) is unique.
type MenuItem struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	GroupRef      *uint  `gorm:"uniqueIndex:uq_menu_group_menu_option,priority:1" json:"group_ref"`
	MenuID        int16  `gorm:"not null;uniqueIndex:uq_menu_group_menu_option,priority:2" json:"menu_id"`
	OptionNumber  int16  `gorm:"not null;uniqueIndex:uq_menu_group_menu_option,priority:3" json:"option_number"`
	OptionText    string `gorm:"size:250;not null" json:"option_text"`
	Command       *int   `json:"command"`
	Argument      string `gorm:"size:250" json:"argument"`
	GuardPassword string `gorm:"size:250" json:"-"`
	TopLine       *bool  `json:"top_line"`
	BottomLine    *bool  `json:"bottom_line"`
}

package model

// Parameter is a named application setting.
type Parameter struct {
	Name           string `gorm:"primaryKey;size:100" json:"name"`
	Value          string `gorm:"size:512;not null" json:"value"`
	UserModifiable bool   `gorm:"not null" json:"user_modifiable"`
	Comments       string `gorm:"size:512;not null" json:"comments"`
}

// Greeting is a message shown to users on sign-in.
type Greeting struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Text string `gorm:"size:2000;not null" json:"text"`
}

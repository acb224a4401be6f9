// Package model contains domain models passed between layers.
package model

// Character is one cached catalog entity. Origin and Location hold the
// display names of the nested remote objects, flattened at ingestion time.
type Character struct {
	ID       int    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name     string `gorm:"column:name" json:"name"`
	Status   string `gorm:"column:status" json:"status"`
	Species  string `gorm:"column:species" json:"species"`
	Subtype  string `gorm:"column:subtype" json:"subtype"`
	Gender   string `gorm:"column:gender" json:"gender"`
	Origin   string `gorm:"column:origin" json:"origin"`
	Location string `gorm:"column:location" json:"location"`
	ImageURL string `gorm:"column:image_url" json:"image_url"`
}

// TableName pins the table name used by the store.
func (Character) TableName() string { return "characters" }

// QueryOptions narrows a character listing. Empty fields are not applied.
type QueryOptions struct {
	NameContains string
	Status       string
	Species      string
	Gender       string
	Location     string
}

// IsZero reports whether no filter is set.
func (o QueryOptions) IsZero() bool {
	return o == QueryOptions{}
}

package models

// Skill is a favor listing: something a user offers (is_offering=true) or
// seeks. Mutable by its owner only; moderation may delete it.
type Skill struct {
	BaseModel
	UserID      string `gorm:"not null;index"`
	Category    string `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	EffortTime  int    `gorm:"default:0"` // estimated minutes
	IsOffering  bool   `gorm:"default:true"`

	// Relations
	User User `gorm:"foreignKey:UserID"`
}

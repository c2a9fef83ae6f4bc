package models

// Review is a written review of a user's skill, separate from the 1-5 star
// rating. Creating one marks the reviewed user recently active, which
// schedules them for the nightly karma sweep.
type Review struct {
	BaseModel
	ReviewerID string `gorm:"not null;index;uniqueIndex:idx_review_triple"`
	ReviewedID string `gorm:"not null;index;uniqueIndex:idx_review_triple"`
	SkillID    string `gorm:"not null;index;uniqueIndex:idx_review_triple"`
	Title      string `gorm:"not null"`
	Content    string `gorm:"type:text"`
	IsVerified bool   `gorm:"default:false"`

	// Relations
	Reviewer User  `gorm:"foreignKey:ReviewerID"`
	Reviewed User  `gorm:"foreignKey:ReviewedID"`
	Skill    Skill `gorm:"foreignKey:SkillID"`
}

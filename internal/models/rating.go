package models

// Rating is immutable once created: one per (rater, rated, skill) triple,
// rater never equals rated, always against a skill owned by the rated user.
// Moderation content-removal is the only delete path.
type Rating struct {
	BaseModel
	RaterID string `gorm:"not null;index;uniqueIndex:idx_rating_triple"`
	RatedID string `gorm:"not null;index;uniqueIndex:idx_rating_triple"`
	SkillID string `gorm:"not null;index;uniqueIndex:idx_rating_triple"`
	Rating  int    `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Review  string `gorm:"type:text"`

	// Relations
	Rater User  `gorm:"foreignKey:RaterID"`
	Rated User  `gorm:"foreignKey:RatedID"`
	Skill Skill `gorm:"foreignKey:SkillID"`
}

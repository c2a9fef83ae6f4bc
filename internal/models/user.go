package models

import "time"

type User struct {
	BaseModel
	Username     string   `gorm:"uniqueIndex;not null"`
	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);default:'user'"`

	// KarmaScore is a derived value in [0,5]; only the karma engine writes it.
	KarmaScore float64 `gorm:"default:2.55"`

	IsVerified        bool `gorm:"default:false"`
	IsSuspended       bool `gorm:"default:false"`
	IsBanned          bool `gorm:"default:false"`
	SuspensionEnd     *time.Time
	VerificationToken string

	// Relations
	Profile *Profile `gorm:"foreignKey:UserID"`
	Skills  []Skill  `gorm:"foreignKey:UserID"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}

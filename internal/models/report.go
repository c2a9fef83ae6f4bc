package models

import "time"

type Report struct {
	BaseModel
	ReporterID  string `gorm:"not null;index"`
	ReportedID  string `gorm:"not null;index"`
	Type        string `gorm:"type:varchar(20);not null"`
	TargetID    string `gorm:"not null;index"`
	Reason      string `gorm:"type:varchar(30);not null"`
	Description string `gorm:"type:text"`
	Status      string `gorm:"type:varchar(20);default:'pending'"`
	ResolvedBy  *string
	ResolvedAt  *time.Time
}

type ModerationAction struct {
	BaseModel
	ReportID    string `gorm:"not null;index"`
	ModeratorID string `gorm:"not null;index"`
	ActionType  string `gorm:"type:varchar(30);not null"`
	Reason      string `gorm:"type:text"`
	// Duration applies to suspensions only, in hours.
	Duration *int
}

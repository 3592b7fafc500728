package models

import "time"

// TimeSheet is migrated for schema parity but has no API surface yet.
type TimeSheet struct {
	Base

	UserID     uint      `gorm:"not null;index" json:"userId"`
	ProjectID  uint      `gorm:"not null;index" json:"projectId"`
	Note       string    `json:"note"`
	Date       time.Time `gorm:"not null" json:"date"`
	HoursSpent float64   `gorm:"not null" json:"hoursSpent"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

package models

import "time"

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCancelled ProjectStatus = "cancelled"
)

type Project struct {
	Base

	Name        string        `gorm:"not null" json:"name"`
	Description string        `json:"description"`
	StartDate   time.Time     `gorm:"not null" json:"startDate"`
	EndDate     time.Time     `gorm:"not null" json:"endDate"`
	Status      ProjectStatus `gorm:"not null;default:active" json:"status"`

	// Relationships
	ProjectMembers []ProjectMember `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	TimeLogs       []TimeLog       `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

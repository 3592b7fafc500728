package models

import "time"

type TaskCategory string

const (
	TaskAnalysis      TaskCategory = "analysis"
	TaskCoding        TaskCategory = "coding"
	TaskTesting       TaskCategory = "testing"
	TaskDocumentation TaskCategory = "documentation"
	TaskMeeting       TaskCategory = "meeting"
)

type TimeLogStatus string

const (
	TimeLogPending  TimeLogStatus = "pending"
	TimeLogApproved TimeLogStatus = "approved"
	TimeLogRejected TimeLogStatus = "rejected"
)

type TimeLog struct {
	Base

	UserID    uint          `gorm:"not null;index" json:"userId"`
	ProjectID uint          `gorm:"not null;index" json:"projectId"`
	Text      string        `json:"text"`
	Task      TaskCategory  `gorm:"not null" json:"task"`
	Start     time.Time     `gorm:"not null" json:"start"`
	End       time.Time     `gorm:"not null" json:"end"`
	Status    TimeLogStatus `gorm:"not null;default:pending" json:"status"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

package models

import "time"

type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleProjectAdmin Role = "project_admin"
	RoleUser         Role = "user"
)

type User struct {
	Base

	DisplayName      string     `gorm:"not null" json:"displayName"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Password         string     `gorm:"not null" json:"-"`
	Role             Role       `gorm:"not null;default:user" json:"role"`
	IsInternal       bool       `gorm:"not null;default:true" json:"isInternal"`
	ResetToken       *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	// Relationships
	ProjectMembers []ProjectMember `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	TimeLogs       []TimeLog       `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

package models

type ProjectRole string

const (
	ProjectRoleOwner  ProjectRole = "owner"
	ProjectRoleMember ProjectRole = "member"
)

// ProjectMember is the sole source of truth for who can act on which
// project. At most one row exists per (user, project) pair; removal flips
// IsDeleted and re-adding flips it back, so the row and its role history
// survive.
type ProjectMember struct {
	Base

	UserID        uint        `gorm:"not null;uniqueIndex:idx_user_project" json:"userId"`
	ProjectID     uint        `gorm:"not null;uniqueIndex:idx_user_project" json:"projectId"`
	RoleInProject ProjectRole `gorm:"not null;default:member" json:"roleInProject"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

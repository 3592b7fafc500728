package models

import "gorm.io/datatypes"

// ActivityLog records who changed what. Entries are append-only and written
// best-effort; a failed insert never fails the request that triggered it.
type ActivityLog struct {
	Base

	ActorID    uint           `gorm:"not null;index" json:"actorId"`
	ActorName  string         `json:"actorName"`
	ActorEmail string         `json:"actorEmail"`
	EntityType string         `gorm:"not null;index" json:"entityType"`
	EntityID   uint           `gorm:"not null" json:"entityId"`
	Action     string         `gorm:"not null" json:"action"`
	Details    datatypes.JSON `gorm:"type:jsonb" json:"details"`
}

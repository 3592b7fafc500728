package models

import "time"

// Base replaces gorm.Model across every entity. Rows are never hard-deleted
// by application code; IsDeleted is the tombstone flag and all default
// listings filter on is_deleted = false.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsDeleted bool      `gorm:"not null;default:false;index" json:"isDeleted"`
}

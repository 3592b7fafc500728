// Package activity records an audit trail of mutations. Recording is
// best-effort: a failed insert is logged and otherwise ignored so the
// triggering request never fails because of it.
package activity

import (
	"encoding/json"
	"log"

	"github.com/sundial-dev/sundial/internal/middleware"
	"github.com/sundial-dev/sundial/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Recorder struct {
	db *gorm.DB
}

func NewRecorder(conn *gorm.DB) *Recorder {
	return &Recorder{db: conn}
}

func (r *Recorder) Log(actor middleware.AuthenticatedUser, entityType string, entityID uint, action string, details map[string]interface{}) {
	payload, err := json.Marshal(details)

	if err != nil {
		log.Printf("Failed to marshal activity details: %v", err)
		payload = []byte("{}")
	}

	entry := models.ActivityLog{
		ActorID:    actor.ID,
		ActorName:  actor.DisplayName,
		ActorEmail: actor.Email,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Details:    datatypes.JSON(payload),
	}

	if err := r.db.Create(&entry).Error; err != nil {
		log.Printf("Failed to record activity: %v", err)
	}
}

func (r *Recorder) Recent(limit int) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog

	err := r.db.Where("is_deleted = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error

	return entries, err
}

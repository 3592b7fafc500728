package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sundial-dev/sundial/internal/activity"
	"github.com/sundial-dev/sundial/internal/models"
	"github.com/sundial-dev/sundial/internal/utils"
	"gorm.io/gorm"
)

type TimeLogHandler struct {
	db       *gorm.DB
	activity *activity.Recorder
}

func NewTimeLogHandler(conn *gorm.DB, recorder *activity.Recorder) *TimeLogHandler {
	return &TimeLogHandler{db: conn, activity: recorder}
}

type CreateTimeLogRequest struct {
	Text      string              `json:"text" binding:"required"`
	Task      models.TaskCategory `json:"task" binding:"required,oneof=analysis coding testing documentation meeting"`
	Start     time.Time           `json:"start" binding:"required"`
	End       time.Time           `json:"end" binding:"required"`
	ProjectID uint                `json:"projectId" binding:"required"`
}

type UpdateTimeLogRequest struct {
	Text   string               `json:"text"`
	Task   models.TaskCategory  `json:"task" binding:"omitempty,oneof=analysis coding testing documentation meeting"`
	Start  *time.Time           `json:"start"`
	End    *time.Time           `json:"end"`
	Status models.TimeLogStatus `json:"status" binding:"omitempty,oneof=pending approved rejected"`
}

func (h *TimeLogHandler) My(ctx *gin.Context) {
	callerID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	timelogs := make([]models.TimeLog, 0)

	if err := h.db.Where("user_id = ? AND is_deleted = ?", callerID, false).Find(&timelogs).Error; err != nil {
		log.Printf("Failed to fetch timelogs: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch timelogs", "error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, timelogs)
}

func (h *TimeLogHandler) MyByProject(ctx *gin.Context) {
	callerID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	timelogs := make([]models.TimeLog, 0)

	err = h.db.Where("user_id = ? AND project_id = ? AND is_deleted = ?",
		callerID, ctx.Param("projectId"), false).Find(&timelogs).Error

	if err != nil {
		log.Printf("Failed to fetch timelogs: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch timelogs", "error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, timelogs)
}

// Create logs time for the calling user. The owner is always the caller —
// any impersonated user id in the payload is ignored — and new entries
// always start out pending.
func (h *TimeLogHandler) Create(ctx *gin.Context) {
	caller, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var body CreateTimeLogRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Timelog is required"})
		return
	}

	if !body.End.After(body.Start) {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "End must be after start"})
		return
	}

	timelog := models.TimeLog{
		UserID:    caller.ID,
		ProjectID: body.ProjectID,
		Text:      body.Text,
		Task:      body.Task,
		Start:     body.Start,
		End:       body.End,
		Status:    models.TimeLogPending,
	}

	if err := h.db.Create(&timelog).Error; err != nil {
		log.Printf("Failed to create timelog: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create timelog", "error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, timelog)
}

// Update lets an admin edit a timelog's fields or move its approval
// status. Admins may act on their own entries; the original system only
// guarded that in its UI.
func (h *TimeLogHandler) Update(ctx *gin.Context) {
	caller, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var body UpdateTimeLogRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	var timelog models.TimeLog

	err = h.db.Where("id = ? AND is_deleted = ?", ctx.Param("id"), false).First(&timelog).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Timelog not found"})
		} else {
			log.Printf("Failed to fetch timelog: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update timelog", "error": err.Error()})
		}
		return
	}

	if body.Text != "" {
		timelog.Text = body.Text
	}

	if body.Task != "" {
		timelog.Task = body.Task
	}

	if body.Start != nil {
		timelog.Start = *body.Start
	}

	if body.End != nil {
		timelog.End = *body.End
	}

	if !timelog.End.After(timelog.Start) {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "End must be after start"})
		return
	}

	if body.Status != "" {
		timelog.Status = body.Status
	}

	if err := h.db.Save(&timelog).Error; err != nil {
		log.Printf("Failed to update timelog: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update timelog", "error": err.Error()})
		return
	}

	h.activity.Log(caller, "timelog", timelog.ID, "update", map[string]interface{}{"status": timelog.Status})

	ctx.JSON(http.StatusOK, timelog)
}

type AdminTimeLogResponse struct {
	models.TimeLog
	User struct {
		ID          uint        `json:"id"`
		DisplayName string      `json:"displayName"`
		Email       string      `json:"email"`
		Role        models.Role `json:"role"`
	} `json:"user"`
}

func (h *TimeLogHandler) AdminByProject(ctx *gin.Context) {
	timelogs := make([]models.TimeLog, 0)

	err := h.db.Preload("User").
		Where("project_id = ? AND is_deleted = ?", ctx.Param("projectId"), false).
		Find(&timelogs).Error

	if err != nil {
		log.Printf("Failed to fetch timelogs: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch timelogs", "error": err.Error()})
		return
	}

	response := make([]AdminTimeLogResponse, 0, len(timelogs))

	for _, timelog := range timelogs {
		entry := AdminTimeLogResponse{TimeLog: timelog}
		entry.User.ID = timelog.User.ID
		entry.User.DisplayName = timelog.User.DisplayName
		entry.User.Email = timelog.User.Email
		entry.User.Role = timelog.User.Role
		response = append(response, entry)
	}

	ctx.JSON(http.StatusOK, response)
}

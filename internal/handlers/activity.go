package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sundial-dev/sundial/internal/activity"
)

const activityPageSize = 100

type ActivityHandler struct {
	activity *activity.Recorder
}

func NewActivityHandler(recorder *activity.Recorder) *ActivityHandler {
	return &ActivityHandler{activity: recorder}
}

func (h *ActivityHandler) List(ctx *gin.Context) {
	entries, err := h.activity.Recent(activityPageSize)

	if err != nil {
		log.Printf("Failed to fetch activity logs: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch activity logs", "error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, entries)
}

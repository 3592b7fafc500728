package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sundial-dev/sundial/internal/activity"
	"github.com/sundial-dev/sundial/internal/authz"
	"github.com/sundial-dev/sundial/internal/memberships"
	"github.com/sundial-dev/sundial/internal/models"
	"github.com/sundial-dev/sundial/internal/utils"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	db       *gorm.DB
	members  *memberships.Ledger
	activity *activity.Recorder
}

func NewProjectHandler(conn *gorm.DB, members *memberships.Ledger, recorder *activity.Recorder) *ProjectHandler {
	return &ProjectHandler{db: conn, members: members, activity: recorder}
}

type CreateProjectRequest struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	StartDate   time.Time            `json:"startDate" binding:"required"`
	EndDate     time.Time            `json:"endDate" binding:"required"`
	Status      models.ProjectStatus `json:"status" binding:"omitempty,oneof=active on_hold cancelled"`
}

type UpdateProjectRequest struct {
	Name        string               `json:"name"`
	Description *string              `json:"description"`
	StartDate   *time.Time           `json:"startDate"`
	EndDate     *time.Time           `json:"endDate"`
	Status      models.ProjectStatus `json:"status" binding:"omitempty,oneof=active on_hold cancelled"`
}

// List returns every non-deleted project for super admins; everyone else
// only sees projects where they hold an active membership.
func (h *ProjectHandler) List(ctx *gin.Context) {
	caller, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	projects, err := h.projectsForCaller(caller.ID, authz.ListsAllProjects(caller.Role))

	if err != nil {
		log.Printf("Failed to fetch projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch projects", "error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, projects)
}

// ListAdmin is the management listing: identical scoping, but reachable
// only by admins (project_admins still see just their own projects).
func (h *ProjectHandler) ListAdmin(ctx *gin.Context) {
	caller, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	projects, err := h.projectsForCaller(caller.ID, authz.ListsAllProjects(caller.Role))

	if err != nil {
		log.Printf("Failed to fetch projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch projects", "error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) projectsForCaller(userID uint, all bool) ([]models.Project, error) {
	projects := make([]models.Project, 0)

	if all {
		err := h.db.Where("is_deleted = ?", false).Find(&projects).Error
		return projects, err
	}

	ids, err := h.members.ActiveProjectIDs(userID)

	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return projects, nil
	}

	err = h.db.Where("id IN ? AND is_deleted = ?", ids, false).Find(&projects).Error

	return projects, err
}

func (h *ProjectHandler) Get(ctx *gin.Context) {
	var project models.Project

	err := h.db.Where("id = ? AND is_deleted = ?", ctx.Param("id"), false).First(&project).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		} else {
			log.Printf("Failed to fetch project: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch project", "error": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, project)
}

// Create inserts the project and the creator's owner membership in one
// transaction so a project can never exist without an owner.
func (h *ProjectHandler) Create(ctx *gin.Context) {
	caller, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Project Name is required"})
		return
	}

	var existing models.Project

	// Names are unique among non-deleted projects only; a soft-deleted
	// project releases its name.
	err = h.db.Where("name = ? AND is_deleted = ?", body.Name, false).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"message": "Project name already exists"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create project", "error": err.Error()})
		return
	}

	status := body.Status

	if status == "" {
		status = models.ProjectActive
	}

	project := models.Project{
		Name:        body.Name,
		Description: body.Description,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
		Status:      status,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		owner := models.ProjectMember{
			UserID:        caller.ID,
			ProjectID:     project.ID,
			RoleInProject: models.ProjectRoleOwner,
		}

		return tx.Create(&owner).Error
	})

	if err != nil {
		log.Printf("Failed to create project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create project", "error": err.Error()})
		return
	}

	h.activity.Log(caller, "project", project.ID, "create", map[string]interface{}{"name": project.Name})

	ctx.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) Update(ctx *gin.Context) {
	caller, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var body UpdateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	var project models.Project

	err = h.db.Where("id = ? AND is_deleted = ?", ctx.Param("id"), false).First(&project).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		} else {
			log.Printf("Failed to fetch project: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update project", "error": err.Error()})
		}
		return
	}

	if body.Name != "" {
		project.Name = body.Name
	}

	if body.Description != nil {
		project.Description = *body.Description
	}

	if body.StartDate != nil {
		project.StartDate = *body.StartDate
	}

	if body.EndDate != nil {
		project.EndDate = *body.EndDate
	}

	if body.Status != "" {
		project.Status = body.Status
	}

	if err := h.db.Save(&project).Error; err != nil {
		log.Printf("Failed to update project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update project", "error": err.Error()})
		return
	}

	h.activity.Log(caller, "project", project.ID, "update", map[string]interface{}{"name": project.Name})

	ctx.JSON(http.StatusOK, project)
}

package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sundial-dev/sundial/internal/activity"
	"github.com/sundial-dev/sundial/internal/authz"
	"github.com/sundial-dev/sundial/internal/memberships"
	"github.com/sundial-dev/sundial/internal/models"
	"github.com/sundial-dev/sundial/internal/utils"
)

type ProjectMemberHandler struct {
	members  *memberships.Ledger
	activity *activity.Recorder
}

func NewProjectMemberHandler(members *memberships.Ledger, recorder *activity.Recorder) *ProjectMemberHandler {
	return &ProjectMemberHandler{members: members, activity: recorder}
}

type CreateProjectMemberRequest struct {
	UserID        uint               `json:"userId" binding:"required"`
	ProjectID     uint               `json:"projectId" binding:"required"`
	RoleInProject models.ProjectRole `json:"roleInProject" binding:"omitempty,oneof=owner member"`
}

type ReconcileProjectsRequest struct {
	ProjectIDs []uint `json:"projectIds" binding:"required"`
}

type ProjectMemberResponse struct {
	ID            uint               `json:"id"`
	ProjectID     uint               `json:"projectId"`
	RoleInProject models.ProjectRole `json:"roleInProject"`
	CreatedAt     string             `json:"createdAt"`
	User          struct {
		ID          uint        `json:"id"`
		DisplayName string      `json:"displayName"`
		Email       string      `json:"email"`
		Role        models.Role `json:"role"`
	} `json:"user"`
}

// ListByProject returns the active members of a project, with enough user
// identity for the member grid. Plain users may only see projects they
// belong to.
func (h *ProjectMemberHandler) ListByProject(ctx *gin.Context) {
	caller, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	projectID, err := strconv.ParseUint(ctx.Param("projectId"), 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project id"})
		return
	}

	if !authz.IsAdmin(caller.Role) {
		isMember, err := h.members.IsMember(caller.ID, uint(projectID))

		if err != nil {
			log.Printf("Failed to check membership: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch project members", "error": err.Error()})
			return
		}

		if !isMember {
			ctx.JSON(http.StatusForbidden, gin.H{"message": "You do not have access to this project"})
			return
		}
	}

	members, err := h.members.MembersOfProject(uint(projectID))

	if err != nil {
		log.Printf("Failed to fetch project members: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch project members", "error": err.Error()})
		return
	}

	response := make([]ProjectMemberResponse, 0, len(members))

	for _, member := range members {
		entry := ProjectMemberResponse{
			ID:            member.ID,
			ProjectID:     member.ProjectID,
			RoleInProject: member.RoleInProject,
			CreatedAt:     member.CreatedAt.Format(time.RFC3339),
		}
		entry.User.ID = member.User.ID
		entry.User.DisplayName = member.User.DisplayName
		entry.User.Email = member.User.Email
		entry.User.Role = member.User.Role
		response = append(response, entry)
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *ProjectMemberHandler) Create(ctx *gin.Context) {
	caller, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var body CreateProjectMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Project and User Id is required"})
		return
	}

	member, err := h.members.Add(body.UserID, body.ProjectID, body.RoleInProject)

	if err != nil {
		log.Printf("Failed to add project member: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add project member", "error": err.Error()})
		return
	}

	h.activity.Log(caller, "project_member", member.ID, "add", map[string]interface{}{
		"userId":    body.UserID,
		"projectId": body.ProjectID,
	})

	ctx.JSON(http.StatusCreated, member)
}

func (h *ProjectMemberHandler) Delete(ctx *gin.Context) {
	caller, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	memberID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid member id"})
		return
	}

	err = h.members.Remove(uint(memberID))

	if err != nil {
		switch {
		case errors.Is(err, memberships.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Project Member not found"})
		case errors.Is(err, memberships.ErrOwnerProtected):
			ctx.JSON(http.StatusForbidden, gin.H{"message": "Project owner cannot be deleted."})
		default:
			log.Printf("Failed to delete project member: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete member", "error": err.Error()})
		}
		return
	}

	h.activity.Log(caller, "project_member", uint(memberID), "remove", nil)

	ctx.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully"})
}

// ReconcileUserProjects replaces a user's active project set with the
// caller-supplied one via set-difference add/remove.
func (h *ProjectMemberHandler) ReconcileUserProjects(ctx *gin.Context) {
	caller, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	userID, err := strconv.ParseUint(ctx.Param("userId"), 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
		return
	}

	var body ReconcileProjectsRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "projectIds is required"})
		return
	}

	if err := h.members.Reconcile(ctx.Request.Context(), uint(userID), body.ProjectIDs); err != nil {
		log.Printf("Failed to reconcile user projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user projects", "error": err.Error()})
		return
	}

	h.activity.Log(caller, "project_member", uint(userID), "reconcile", map[string]interface{}{
		"projectIds": body.ProjectIDs,
	})

	members, err := h.members.ActiveMemberships(uint(userID))

	if err != nil {
		log.Printf("Failed to fetch memberships: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch memberships", "error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, members)
}

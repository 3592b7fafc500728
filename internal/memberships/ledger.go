// Package memberships owns the project-membership lifecycle: upsert with
// reactivation, owner-protected removal, and bulk reconciliation of a
// user's project set.
package memberships

import (
	"context"
	"errors"

	"github.com/samber/lo"
	"github.com/sundial-dev/sundial/internal/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	// ErrOwnerProtected is returned when removal targets an owner
	// membership. The row is left unchanged.
	ErrOwnerProtected = errors.New("project owner cannot be removed")

	ErrNotFound = errors.New("project member not found")
)

const maxReconcileWorkers = 10

type Ledger struct {
	db *gorm.DB
}

func NewLedger(conn *gorm.DB) *Ledger {
	return &Ledger{db: conn}
}

// Add grants a user membership in a project. If any row already exists for
// the pair, soft-deleted or not, it is reactivated in place rather than
// duplicated; the stored role is only overwritten when one is passed
// explicitly. A repeated Add with no intervening removal is a no-op.
func (l *Ledger) Add(userID, projectID uint, role models.ProjectRole) (*models.ProjectMember, error) {
	var member models.ProjectMember

	err := l.db.Where("user_id = ? AND project_id = ?", userID, projectID).First(&member).Error

	if err == nil {
		updates := map[string]interface{}{"is_deleted": false}

		if role != "" {
			updates["role_in_project"] = role
		}

		if err := l.db.Model(&member).Updates(updates).Error; err != nil {
			return nil, err
		}

		return &member, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if role == "" {
		role = models.ProjectRoleMember
	}

	member = models.ProjectMember{
		UserID:        userID,
		ProjectID:     projectID,
		RoleInProject: role,
	}

	if err := l.db.Create(&member).Error; err != nil {
		return nil, err
	}

	return &member, nil
}

// Remove soft-deletes a membership by row id. Owner memberships are never
// removable through this operation, regardless of who asks.
func (l *Ledger) Remove(memberID uint) error {
	var member models.ProjectMember

	err := l.db.First(&member, memberID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	if err != nil {
		return err
	}

	if member.RoleInProject == models.ProjectRoleOwner {
		return ErrOwnerProtected
	}

	return l.db.Model(&member).Update("is_deleted", true).Error
}

// Reconcile brings the user's active membership set to exactly the target
// project ids. Additions and removals are computed as set differences so
// retained memberships are never touched (their rows, roles, and creation
// timestamps survive). Mutations fan out concurrently; concurrent
// reconciles for the same user are not serialized.
func (l *Ledger) Reconcile(ctx context.Context, userID uint, target []uint) error {
	current, err := l.ActiveProjectIDs(userID)

	if err != nil {
		return err
	}

	toAdd, toRemove := lo.Difference(target, current)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxReconcileWorkers)

	for _, projectID := range toAdd {
		projectID := projectID
		g.Go(func() error {
			var member models.ProjectMember

			tx := l.db.WithContext(gctx)
			err := tx.Where("user_id = ? AND project_id = ?", userID, projectID).First(&member).Error

			if err == nil {
				return tx.Model(&member).Update("is_deleted", false).Error
			}

			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			member = models.ProjectMember{
				UserID:        userID,
				ProjectID:     projectID,
				RoleInProject: models.ProjectRoleMember,
			}

			return tx.Create(&member).Error
		})
	}

	for _, projectID := range toRemove {
		projectID := projectID
		g.Go(func() error {
			return l.db.WithContext(gctx).
				Model(&models.ProjectMember{}).
				Where("user_id = ? AND project_id = ? AND is_deleted = ?", userID, projectID, false).
				Update("is_deleted", true).Error
		})
	}

	return g.Wait()
}

func (l *Ledger) IsMember(userID, projectID uint) (bool, error) {
	var count int64

	err := l.db.Model(&models.ProjectMember{}).
		Where("user_id = ? AND project_id = ? AND is_deleted = ?", userID, projectID, false).
		Count(&count).Error

	return count > 0, err
}

func (l *Ledger) IsOwner(userID, projectID uint) (bool, error) {
	var count int64

	err := l.db.Model(&models.ProjectMember{}).
		Where("user_id = ? AND project_id = ? AND role_in_project = ? AND is_deleted = ?",
			userID, projectID, models.ProjectRoleOwner, false).
		Count(&count).Error

	return count > 0, err
}

func (l *Ledger) ActiveMemberships(userID uint) ([]models.ProjectMember, error) {
	var members []models.ProjectMember

	err := l.db.Where("user_id = ? AND is_deleted = ?", userID, false).Find(&members).Error

	return members, err
}

func (l *Ledger) ActiveProjectIDs(userID uint) ([]uint, error) {
	members, err := l.ActiveMemberships(userID)

	if err != nil {
		return nil, err
	}

	return lo.Map(members, func(m models.ProjectMember, _ int) uint {
		return m.ProjectID
	}), nil
}

func (l *Ledger) MembersOfProject(projectID uint) ([]models.ProjectMember, error) {
	var members []models.ProjectMember

	err := l.db.Preload("User").
		Where("project_id = ? AND is_deleted = ?", projectID, false).
		Find(&members).Error

	return members, err
}

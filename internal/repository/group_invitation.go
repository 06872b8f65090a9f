package repository

import (
	"context"
	"errors"

	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/pkg/xcontext"
	"gorm.io/gorm"
)

type GroupInvitationRepository interface {
	Create(ctx context.Context, data *entity.GroupInvitation) error
	GetByID(ctx context.Context, id string) (*entity.GroupInvitation, error)
	HasPending(ctx context.Context, groupID, inviteeID string) (bool, error)
	GetPendingByInvitee(ctx context.Context, inviteeID string) ([]entity.GroupInvitation, error)
	Resolve(ctx context.Context, id string, status entity.GroupInvitationStatus) error
}

type groupInvitationRepository struct{}

func NewGroupInvitationRepository() *groupInvitationRepository {
	return &groupInvitationRepository{}
}

func (r *groupInvitationRepository) Create(ctx context.Context, data *entity.GroupInvitation) error {
	if data.Status == entity.GroupInvitationPending {
		data.PendingKey = entity.InvitationPendingKey(data.GroupID, data.InviteeID)
	}

	return xcontext.DB(ctx).Create(data).Error
}

func (r *groupInvitationRepository) GetByID(ctx context.Context, id string) (*entity.GroupInvitation, error) {
	var result entity.GroupInvitation
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *groupInvitationRepository) HasPending(ctx context.Context, groupID, inviteeID string) (bool, error) {
	var result entity.GroupInvitation
	err := xcontext.DB(ctx).
		Where("group_id=? AND invitee_id=? AND status=?", groupID, inviteeID, entity.GroupInvitationPending).
		Take(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (r *groupInvitationRepository) GetPendingByInvitee(
	ctx context.Context, inviteeID string,
) ([]entity.GroupInvitation, error) {
	var result []entity.GroupInvitation
	err := xcontext.DB(ctx).
		Preload("Group").
		Where("invitee_id=? AND status=?", inviteeID, entity.GroupInvitationPending).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Resolve moves a pending invitation to a terminal status and releases its
// pending slot. It returns gorm.ErrRecordNotFound if the invitation is not
// pending anymore.
func (r *groupInvitationRepository) Resolve(
	ctx context.Context, id string, status entity.GroupInvitationStatus,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.GroupInvitation{}).
		Where("id=? AND status=?", id, entity.GroupInvitationPending).
		Updates(map[string]any{
			"status":      status,
			"pending_key": nil,
		})
	if tx.Error != nil {
		return tx.Error
	}

	return checkAffectedRows(tx)
}

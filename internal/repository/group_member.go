package repository

import (
	"context"

	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/pkg/xcontext"
)

type GroupMemberRepository interface {
	Create(ctx context.Context, data *entity.GroupMembership) error
	Get(ctx context.Context, groupID, userID string) (*entity.GroupMembership, error)
	GetListByGroupID(ctx context.Context, groupID string) ([]entity.GroupMembership, error)
	Count(ctx context.Context, groupID string) (int64, error)
	Delete(ctx context.Context, groupID, userID string) error
}

type groupMemberRepository struct{}

func NewGroupMemberRepository() *groupMemberRepository {
	return &groupMemberRepository{}
}

func (r *groupMemberRepository) Create(ctx context.Context, data *entity.GroupMembership) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *groupMemberRepository) Get(
	ctx context.Context, groupID, userID string,
) (*entity.GroupMembership, error) {
	var result entity.GroupMembership
	err := xcontext.DB(ctx).Where("group_id=? AND user_id=?", groupID, userID).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *groupMemberRepository) GetListByGroupID(
	ctx context.Context, groupID string,
) ([]entity.GroupMembership, error) {
	var result []entity.GroupMembership
	err := xcontext.DB(ctx).
		Preload("User").
		Where("group_id=?", groupID).
		Order("joined_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *groupMemberRepository) Count(ctx context.Context, groupID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.GroupMembership{}).Where("group_id=?", groupID).Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *groupMemberRepository) Delete(ctx context.Context, groupID, userID string) error {
	tx := xcontext.DB(ctx).
		Where("group_id=? AND user_id=?", groupID, userID).
		Delete(&entity.GroupMembership{})
	if tx.Error != nil {
		return tx.Error
	}

	return checkAffectedRows(tx)
}

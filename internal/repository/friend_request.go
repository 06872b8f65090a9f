package repository

import (
	"context"

	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/pkg/xcontext"
)

type FriendRequestRepository interface {
	Create(ctx context.Context, data *entity.FriendRequest) error
	GetByID(ctx context.Context, id string) (*entity.FriendRequest, error)
	ExistsBetween(ctx context.Context, userA, userB string) (bool, error)
	GetPending(ctx context.Context, senderID, receiverID string) (*entity.FriendRequest, error)
	GetPendingByReceiver(ctx context.Context, receiverID string) ([]entity.FriendRequest, error)
	UpdateStatus(ctx context.Context, id string, from, to entity.FriendRequestStatus) error
}

type friendRequestRepository struct{}

func NewFriendRequestRepository() *friendRequestRepository {
	return &friendRequestRepository{}
}

func (r *friendRequestRepository) Create(ctx context.Context, data *entity.FriendRequest) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *friendRequestRepository) GetByID(ctx context.Context, id string) (*entity.FriendRequest, error) {
	var result entity.FriendRequest
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// ExistsBetween reports whether any request, in either direction and with any
// status, exists between the two users.
func (r *friendRequestRepository) ExistsBetween(ctx context.Context, userA, userB string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.FriendRequest{}).
		Where("(sender_id=? AND receiver_id=?) OR (sender_id=? AND receiver_id=?)", userA, userB, userB, userA).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *friendRequestRepository) GetPending(
	ctx context.Context, senderID, receiverID string,
) (*entity.FriendRequest, error) {
	var result entity.FriendRequest
	err := xcontext.DB(ctx).
		Where("sender_id=? AND receiver_id=? AND status=?", senderID, receiverID, entity.FriendRequestPending).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *friendRequestRepository) GetPendingByReceiver(
	ctx context.Context, receiverID string,
) ([]entity.FriendRequest, error) {
	var result []entity.FriendRequest
	err := xcontext.DB(ctx).
		Preload("Sender").
		Where("receiver_id=? AND status=?", receiverID, entity.FriendRequestPending).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateStatus moves the request from one status to another. It returns
// gorm.ErrRecordNotFound if the request is no longer in the from status.
func (r *friendRequestRepository) UpdateStatus(
	ctx context.Context, id string, from, to entity.FriendRequestStatus,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.FriendRequest{}).
		Where("id=? AND status=?", id, from).
		Update("status", to)
	if tx.Error != nil {
		return tx.Error
	}

	return checkAffectedRows(tx)
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type FriendshipRepository interface {
	CreatePair(ctx context.Context, userID, friendID string) error
	DeletePair(ctx context.Context, userID, friendID string) (int64, error)
	Exists(ctx context.Context, userID, friendID string) (bool, error)
	GetFriendIDs(ctx context.Context, userID string) ([]string, error)
}

type friendshipRepository struct{}

func NewFriendshipRepository() *friendshipRepository {
	return &friendshipRepository{}
}

// CreatePair inserts both directions of the friendship. Directions which
// already exist are left untouched, so two concurrent calls for the same pair
// both succeed.
func (r *friendshipRepository) CreatePair(ctx context.Context, userID, friendID string) error {
	pair := []entity.Friendship{
		{
			Base:     entity.Base{ID: uuid.NewString()},
			UserID:   userID,
			FriendID: friendID,
			Status:   entity.FriendshipAccepted,
		},
		{
			Base:     entity.Base{ID: uuid.NewString()},
			UserID:   friendID,
			FriendID: userID,
			Status:   entity.FriendshipAccepted,
		},
	}

	return xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&pair).Error
}

// DeletePair removes both directions of the friendship and returns the number
// of deleted rows. Deleting a missing pair is not an error.
func (r *friendshipRepository) DeletePair(ctx context.Context, userID, friendID string) (int64, error) {
	tx := xcontext.DB(ctx).
		Where("(user_id=? AND friend_id=?) OR (user_id=? AND friend_id=?)", userID, friendID, friendID, userID).
		Delete(&entity.Friendship{})
	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}

func (r *friendshipRepository) Exists(ctx context.Context, userID, friendID string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.Friendship{}).
		Where("user_id=? AND friend_id=?", userID, friendID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *friendshipRepository) GetFriendIDs(ctx context.Context, userID string) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).
		Model(&entity.Friendship{}).
		Where("user_id=? AND status=?", userID, entity.FriendshipAccepted).
		Order("created_at DESC").
		Pluck("friend_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

package repository

import (
	"context"

	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/pkg/xcontext"
)

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	GetInterests(ctx context.Context, id string) ([]string, error)
	UpdateInterests(ctx context.Context, id string, interests []string) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	var result []entity.User
	if len(ids) == 0 {
		return result, nil
	}

	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) GetInterests(ctx context.Context, id string) ([]string, error) {
	var result entity.User
	err := xcontext.DB(ctx).Select("id", "interests").Take(&result, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return result.Interests, nil
}

func (r *userRepository) UpdateInterests(ctx context.Context, id string, interests []string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Update("interests", entity.Array[string](interests))
	if tx.Error != nil {
		return tx.Error
	}

	return checkAffectedRows(tx)
}

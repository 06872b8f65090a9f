package repository

import (
	"context"

	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/pkg/xcontext"
)

type GroupRepository interface {
	Create(ctx context.Context, data *entity.Group) error
	GetByID(ctx context.Context, id string) (*entity.Group, error)
}

type groupRepository struct{}

func NewGroupRepository() *groupRepository {
	return &groupRepository{}
}

func (r *groupRepository) Create(ctx context.Context, data *entity.Group) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*entity.Group, error) {
	var result entity.Group
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

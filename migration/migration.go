package migration

import (
	"context"
	"errors"

	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/pkg/xcontext"
	"gorm.io/gorm"
)

type migrator func(context.Context) error

// migrators must only be appended. The index is the version stored in the
// migrations table.
var migrators = []migrator{
	migrate0000,
	migrate0001,
}

// Migrate runs every migrator newer than the stored version.
func Migrate(ctx context.Context) error {
	db := xcontext.DB(ctx)
	if err := db.AutoMigrate(&entity.Migration{}); err != nil {
		return err
	}

	var last entity.Migration
	current := -1
	err := db.Order("version DESC").Take(&last).Error
	switch {
	case err == nil:
		current = last.Version
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	for version := current + 1; version < len(migrators); version++ {
		xcontext.Logger(ctx).Infof("Running migration %04d", version)
		err := xcontext.Transaction(ctx, func(ctx context.Context) error {
			if err := migrators[version](ctx); err != nil {
				return err
			}

			return xcontext.DB(ctx).Create(&entity.Migration{Version: version}).Error
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// AutoMigrate creates the latest schema directly. When it is called, no need to
// call other migrators.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.FriendRequest{},
		&entity.Friendship{},
		&entity.Group{},
		&entity.GroupMembership{},
		&entity.GroupInvitation{},
		&entity.Topic{},
		&entity.Post{},
		&entity.Follow{},
		&entity.Migration{},
	)
}

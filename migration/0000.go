package migration

import (
	"context"

	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/pkg/xcontext"
)

// migrate0000 will create the database with the first version.
func migrate0000(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.FriendRequest{},
		&entity.Friendship{},
		&entity.Group{},
		&entity.GroupMembership{},
		&entity.GroupInvitation{},
		&entity.Topic{},
		&entity.Post{},
	)
}

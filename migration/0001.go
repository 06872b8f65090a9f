package migration

import (
	"context"

	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/pkg/xcontext"
)

// migrate0001 adds the follows table with its target check constraint.
func migrate0001(ctx context.Context) error {
	migrator := xcontext.DB(ctx).Migrator()
	if migrator.HasTable(&entity.Follow{}) {
		return nil
	}

	return migrator.CreateTable(&entity.Follow{})
}

package middleware

import (
	"context"
	"strings"

	"github.com/questx-lab/forum/pkg/errorx"
	"github.com/questx-lab/forum/pkg/router"
	"github.com/questx-lab/forum/pkg/xcontext"
)

// Authenticate trusts the user id header set by the identity provider in
// front of this service.
func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		header := xcontext.Configs(ctx).Auth.UserIDHeader
		userID := strings.TrimSpace(xcontext.HTTPRequest(ctx).Header.Get(header))
		if userID == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return xcontext.WithRequestUserID(ctx, userID), nil
	}
}

package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/forum/pkg/errorx"
	"github.com/questx-lab/forum/pkg/xcontext"
)

// requestContext is cancelled together with the request and falls back to the
// root context of the router for values.
type requestContext struct {
	context.Context
	root context.Context
}

func (c requestContext) Value(key any) any {
	if v := c.Context.Value(key); v != nil {
		return v
	}

	return c.root.Value(key)
}

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	befores := router.befores
	afters := router.afters

	return func(c *gin.Context) {
		var ctx context.Context = requestContext{Context: c.Request.Context(), root: router.root}
		ctx = xcontext.WithHTTPRequest(ctx, c.Request)

		resp, err := func() (*Response, error) {
			for _, before := range befores {
				newCtx, err := before(ctx)
				if err != nil {
					return nil, err
				}

				if newCtx != nil {
					ctx = newCtx
				}
			}

			var req Request
			if err := bind(c, method, &req); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot bind request: %v", err)
				return nil, errorx.New(errorx.BadRequest, "Invalid request")
			}

			return handler(ctx, &req)
		}()

		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			c.JSON(errorx.HTTPStatus(err), newErrorResponse(err))
		} else {
			c.JSON(http.StatusOK, newResponse(resp))
		}

		for _, after := range afters {
			after(ctx)
		}
	}
}

func bind(c *gin.Context, method string, req any) error {
	switch method {
	case http.MethodGet:
		return c.ShouldBindQuery(req)
	default:
		if c.Request.ContentLength == 0 {
			return nil
		}

		return c.ShouldBindJSON(req)
	}
}

package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/forum/config"
	"github.com/questx-lab/forum/pkg/xcontext"
	"github.com/rs/cors"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. The returned context replaces the
// current one unless it is nil. Returning an error aborts the request.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response is written, even if the request failed.
type CloserFunc func(ctx context.Context)

type Router struct {
	root    context.Context
	inner   gin.IRouter
	befores []MiddlewareFunc
	afters  []CloserFunc
}

// New creates a router whose handlers resolve configs, logger and database
// from ctx.
func New(ctx context.Context) *Router {
	if xcontext.Configs(ctx).Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{root: ctx, inner: engine}
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

// Before appends a middleware to the routes registered after this call.
func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

// After appends a closer to the routes registered after this call.
func (r *Router) After(closer CloserFunc) {
	r.afters = append(r.afters, closer)
}

// Branch returns a router sharing the same routes. Middlewares added to the
// branch do not affect the parent.
func (r *Router) Branch() *Router {
	return &Router{
		root:    r.root,
		inner:   r.inner,
		befores: append([]MiddlewareFunc{}, r.befores...),
		afters:  append([]CloserFunc{}, r.afters...),
	}
}

// Handle mounts a plain http.Handler, skipping middlewares and closers.
func (r *Router) Handle(method, pattern string, handler http.Handler) {
	r.inner.Handle(method, pattern, gin.WrapH(handler))
}

// Handler returns the root handler with the cross origin policy of cfg.
func (r *Router) Handler(cfg config.APIServerConfigs) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(r.inner.(*gin.Engine))
}

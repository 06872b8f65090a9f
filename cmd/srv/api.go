package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/questx-lab/forum/internal/middleware"
	"github.com/questx-lab/forum/pkg/prometheus"
	"github.com/questx-lab/forum/pkg/router"
	"github.com/questx-lab/forum/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

func (s *srv) startApi(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}

	s.loadLogger()
	if err := s.loadDatabase(); err != nil {
		return err
	}

	if err := s.loadRedis(); err != nil {
		return err
	}

	if err := s.loadPublisher(); err != nil {
		return err
	}

	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx).ApiServer
	s.server = &http.Server{
		Addr:    cfg.Address(),
		Handler: s.router.Handler(cfg),
	}

	go func() {
		xcontext.Logger(s.ctx).Infof("Starting server on %s", cfg.Address())
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			xcontext.Logger(s.ctx).Errorf("Server stopped: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(s.ctx, shutdownTimeout)
	defer cancel()

	xcontext.Logger(s.ctx).Infof("Shutting down server")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}

	for _, closer := range s.closers {
		if err := closer(ctx); err != nil {
			xcontext.Logger(s.ctx).Warnf("Cannot close client: %v", err)
		}
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.Before(middleware.WithStartTime())
	s.router.After(middleware.Logger())
	s.router.After(middleware.Prometheus())
	s.router.Handle(http.MethodGet, "/metrics", prometheus.NewHandler())

	authRouter := s.router.Branch()
	authRouter.Before(middleware.Authenticate())
	{
		// Relationship API
		router.POST(authRouter, "/sendFriendRequest", s.relationshipDomain.SendFriendRequest)
		router.POST(authRouter, "/respondFriendRequest", s.relationshipDomain.RespondFriendRequest)
		router.POST(authRouter, "/removeFriend", s.relationshipDomain.RemoveFriend)
		router.GET(authRouter, "/getRelationshipStatus", s.relationshipDomain.GetRelationshipStatus)
		router.GET(authRouter, "/getFriends", s.relationshipDomain.GetFriends)
		router.GET(authRouter, "/getPendingFriendRequests", s.relationshipDomain.GetPendingFriendRequests)

		// Group API
		router.POST(authRouter, "/createGroup", s.groupDomain.Create)
		router.GET(authRouter, "/getGroup", s.groupDomain.Get)
		router.POST(authRouter, "/joinGroup", s.groupDomain.Join)
		router.POST(authRouter, "/leaveGroup", s.groupDomain.Leave)
		router.GET(authRouter, "/getGroupMembers", s.groupDomain.GetMembers)
		router.POST(authRouter, "/inviteToGroup", s.groupDomain.Invite)
		router.POST(authRouter, "/respondGroupInvitation", s.groupDomain.RespondInvitation)
		router.GET(authRouter, "/getPendingGroupInvitations", s.groupDomain.GetPendingInvitations)

		// Follow API
		router.POST(authRouter, "/followTopic", s.followDomain.FollowTopic)
		router.POST(authRouter, "/unfollowTopic", s.followDomain.UnfollowTopic)
		router.GET(authRouter, "/getFollowedTopics", s.followDomain.GetFollowedTopics)
		router.POST(authRouter, "/followUser", s.followDomain.FollowUser)
		router.POST(authRouter, "/unfollowUser", s.followDomain.UnfollowUser)
		router.GET(authRouter, "/getFollowedUsers", s.followDomain.GetFollowedUsers)

		// Topic API
		router.POST(authRouter, "/createTopic", s.topicDomain.Create)
		router.GET(authRouter, "/getTopic", s.topicDomain.Get)
		router.POST(authRouter, "/createPost", s.topicDomain.CreatePost)
		router.GET(authRouter, "/getPosts", s.topicDomain.GetPosts)

		// User API
		router.POST(authRouter, "/updateInterests", s.userDomain.UpdateInterests)

		// Feed API
		router.GET(authRouter, "/getFeed", s.feedDomain.Get)
	}
}

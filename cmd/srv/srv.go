package main

import (
	"context"
	"net/http"

	"github.com/questx-lab/forum/config"
	"github.com/questx-lab/forum/internal/domain"
	"github.com/questx-lab/forum/internal/repository"
	"github.com/questx-lab/forum/pkg/kafka"
	"github.com/questx-lab/forum/pkg/logger"
	"github.com/questx-lab/forum/pkg/pubsub"
	"github.com/questx-lab/forum/pkg/router"
	"github.com/questx-lab/forum/pkg/xcontext"
	"github.com/questx-lab/forum/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	redisClient xredis.Client
	publisher   pubsub.Publisher
	closers     []func(context.Context) error

	userRepo            repository.UserRepository
	friendRequestRepo   repository.FriendRequestRepository
	friendshipRepo      repository.FriendshipRepository
	groupRepo           repository.GroupRepository
	groupMemberRepo     repository.GroupMemberRepository
	groupInvitationRepo repository.GroupInvitationRepository
	followRepo          repository.FollowRepository
	topicRepo           repository.TopicRepository
	postRepo            repository.PostRepository

	relationshipDomain domain.RelationshipDomain
	groupDomain        domain.GroupDomain
	followDomain       domain.FollowDomain
	feedDomain         domain.FeedDomain
	topicDomain        domain.TopicDomain
	userDomain         domain.UserDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
	return nil
}

func (s *srv) loadLogger() {
	cfg := xcontext.Configs(s.ctx).Log
	level := logger.ParseLevel(cfg.Level)

	var l logger.Logger = logger.NewLogger(level)
	if cfg.Development {
		l = logger.NewDevelopmentLogger(level)
	}

	s.ctx = xcontext.WithLogger(s.ctx, l)
}

func (s *srv) loadDatabase() error {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.ConnectionString())
	case "sqlite":
		dialector = sqlite.Open(cfg.ConnectionString())
	default:
		dialector = mysql.Open(cfg.ConnectionString())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(logger.GormWriter{Logger: xcontext.Logger(s.ctx)}, gormlogger.Config{
			SlowThreshold:             cfg.SlowThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
	return nil
}

func (s *srv) loadRedis() error {
	if !xcontext.Configs(s.ctx).Redis.Enable {
		return nil
	}

	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		return err
	}

	s.redisClient = client
	s.closers = append(s.closers, func(context.Context) error { return client.Close() })
	return nil
}

func (s *srv) loadPublisher() error {
	cfg := xcontext.Configs(s.ctx).Kafka
	if !cfg.Enable {
		return nil
	}

	publisher, err := kafka.NewPublisher(cfg.ClientID, cfg.Addrs)
	if err != nil {
		return err
	}

	s.publisher = publisher
	s.closers = append(s.closers, publisher.Stop)
	return nil
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.friendRequestRepo = repository.NewFriendRequestRepository()
	s.friendshipRepo = repository.NewFriendshipRepository()
	s.groupRepo = repository.NewGroupRepository()
	s.groupMemberRepo = repository.NewGroupMemberRepository()
	s.groupInvitationRepo = repository.NewGroupInvitationRepository()
	s.followRepo = repository.NewFollowRepository()
	s.topicRepo = repository.NewTopicRepository()
	s.postRepo = repository.NewPostRepository()
}

func (s *srv) loadDomains() {
	s.relationshipDomain = domain.NewRelationshipDomain(
		s.userRepo, s.friendRequestRepo, s.friendshipRepo, s.redisClient, s.publisher)
	s.groupDomain = domain.NewGroupDomain(
		s.userRepo, s.groupRepo, s.groupMemberRepo, s.groupInvitationRepo, s.publisher)
	s.followDomain = domain.NewFollowDomain(s.followRepo, s.topicRepo, s.userRepo, s.redisClient)
	s.feedDomain = domain.NewFeedDomain(
		s.userRepo, s.friendshipRepo, s.followRepo, s.topicRepo, s.postRepo, s.redisClient)
	s.topicDomain = domain.NewTopicDomain(
		s.topicRepo, s.postRepo, s.friendshipRepo, s.followRepo, s.redisClient)
	s.userDomain = domain.NewUserDomain(s.userRepo, s.redisClient)
}

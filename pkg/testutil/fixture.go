package testutil

import (
	"context"
	"time"

	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/internal/repository"
)

var (
	User1 = &entity.User{Base: entity.Base{ID: "user1"}, Username: "alice"}
	User2 = &entity.User{Base: entity.Base{ID: "user2"}, Username: "bob"}
	User3 = &entity.User{Base: entity.Base{ID: "user3"}, Username: "carol"}
	User4 = &entity.User{Base: entity.Base{ID: "user4"}, Username: "dave"}

	Users = []*entity.User{User1, User2, User3, User4}

	// Topic1 is public, Topic2 is private.
	Topic1 = &entity.Topic{Base: entity.Base{ID: "topic1"}, Title: "General discussion", CreatedBy: User1.ID, IsPublic: true}
	Topic2 = &entity.Topic{Base: entity.Base{ID: "topic2"}, Title: "Private lounge", CreatedBy: User2.ID, IsPublic: false}
	Topic3 = &entity.Topic{Base: entity.Base{ID: "topic3"}, Title: "Board games", CreatedBy: User3.ID, IsPublic: true}

	Topics = []*entity.Topic{Topic1, Topic2, Topic3}
)

// CreateFixtureDb inserts users and topics into the database of ctx.
func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertTopics(ctx)
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	for _, u := range Users {
		user := *u
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}
}

func InsertTopics(ctx context.Context) {
	topicRepo := repository.NewTopicRepository()
	for _, t := range Topics {
		topic := *t
		if err := topicRepo.Create(ctx, &topic); err != nil {
			panic(err)
		}
	}
}

// InsertPost creates a post with an explicit creation time so ordering in
// tests does not depend on the clock.
func InsertPost(ctx context.Context, id, authorID, topicID, content string, createdAt time.Time) *entity.Post {
	post := &entity.Post{
		Base:      entity.Base{ID: id, CreatedAt: createdAt, UpdatedAt: createdAt},
		Content:   content,
		CreatedBy: authorID,
		TopicID:   topicID,
	}

	if err := repository.NewPostRepository().Create(ctx, post); err != nil {
		panic(err)
	}

	return post
}

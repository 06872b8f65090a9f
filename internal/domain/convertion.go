package domain

import (
	"time"

	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/internal/model"
)

const defaultTimeLayout string = time.RFC3339Nano

func convertShortUser(user *entity.User) model.ShortUser {
	if user == nil {
		return model.ShortUser{}
	}

	return model.ShortUser{ID: user.ID, Username: user.Username}
}

func convertFriendRequest(request *entity.FriendRequest) model.FriendRequest {
	if request == nil {
		return model.FriendRequest{}
	}

	return model.FriendRequest{
		ID:         request.ID,
		SenderID:   request.SenderID,
		Sender:     convertShortUser(&request.Sender),
		ReceiverID: request.ReceiverID,
		Status:     string(request.Status),
		CreatedAt:  request.CreatedAt.Format(defaultTimeLayout),
	}
}

func convertGroup(group *entity.Group, members int64) model.Group {
	if group == nil {
		return model.Group{}
	}

	return model.Group{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		AccessType:  string(group.AccessType),
		CreatedBy:   group.CreatedBy,
		CreatedAt:   group.CreatedAt.Format(defaultTimeLayout),
		Members:     members,
	}
}

func convertGroupMember(member *entity.GroupMembership) model.GroupMember {
	if member == nil {
		return model.GroupMember{}
	}

	return model.GroupMember{
		GroupID:  member.GroupID,
		UserID:   member.UserID,
		User:     convertShortUser(&member.User),
		Role:     string(member.Role),
		JoinedAt: member.JoinedAt.Format(defaultTimeLayout),
	}
}

func convertGroupInvitation(invitation *entity.GroupInvitation) model.GroupInvitation {
	if invitation == nil {
		return model.GroupInvitation{}
	}

	return model.GroupInvitation{
		ID:        invitation.ID,
		GroupID:   invitation.GroupID,
		Group:     convertGroup(&invitation.Group, 0),
		InviterID: invitation.InviterID,
		InviteeID: invitation.InviteeID,
		Status:    string(invitation.Status),
		CreatedAt: invitation.CreatedAt.Format(defaultTimeLayout),
	}
}

func convertTopic(topic *entity.Topic) model.Topic {
	if topic == nil {
		return model.Topic{}
	}

	return model.Topic{
		ID:        topic.ID,
		Title:     topic.Title,
		CreatedBy: topic.CreatedBy,
		IsPublic:  topic.IsPublic,
		CreatedAt: topic.CreatedAt.Format(defaultTimeLayout),
	}
}

func convertPost(post *entity.Post) model.Post {
	if post == nil {
		return model.Post{}
	}

	return model.Post{
		ID:        post.ID,
		Content:   post.Content,
		CreatedBy: post.CreatedBy,
		TopicID:   post.TopicID,
		CreatedAt: post.CreatedAt.Format(defaultTimeLayout),
	}
}

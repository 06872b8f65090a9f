package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/forum/internal/common"
	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/internal/model"
	"github.com/questx-lab/forum/internal/repository"
	"github.com/questx-lab/forum/pkg/enum"
	"github.com/questx-lab/forum/pkg/errorx"
	"github.com/questx-lab/forum/pkg/pubsub"
	"github.com/questx-lab/forum/pkg/xcontext"
	"gorm.io/gorm"
)

const maxGroupNameLength = 128

type GroupDomain interface {
	Create(context.Context, *model.CreateGroupRequest) (*model.CreateGroupResponse, error)
	Get(context.Context, *model.GetGroupRequest) (*model.GetGroupResponse, error)
	Join(context.Context, *model.JoinGroupRequest) (*model.JoinGroupResponse, error)
	Leave(context.Context, *model.LeaveGroupRequest) (*model.LeaveGroupResponse, error)
	GetMembers(context.Context, *model.GetGroupMembersRequest) (*model.GetGroupMembersResponse, error)
	Invite(context.Context, *model.InviteToGroupRequest) (*model.InviteToGroupResponse, error)
	RespondInvitation(context.Context, *model.RespondGroupInvitationRequest) (*model.RespondGroupInvitationResponse, error)
	GetPendingInvitations(context.Context, *model.GetPendingGroupInvitationsRequest) (*model.GetPendingGroupInvitationsResponse, error)
}

type groupDomain struct {
	userRepo            repository.UserRepository
	groupRepo           repository.GroupRepository
	groupMemberRepo     repository.GroupMemberRepository
	groupInvitationRepo repository.GroupInvitationRepository
	groupRoleVerifier   *common.GroupRoleVerifier
	publisher           pubsub.Publisher
}

func NewGroupDomain(
	userRepo repository.UserRepository,
	groupRepo repository.GroupRepository,
	groupMemberRepo repository.GroupMemberRepository,
	groupInvitationRepo repository.GroupInvitationRepository,
	publisher pubsub.Publisher,
) GroupDomain {
	return &groupDomain{
		userRepo:            userRepo,
		groupRepo:           groupRepo,
		groupMemberRepo:     groupMemberRepo,
		groupInvitationRepo: groupInvitationRepo,
		groupRoleVerifier:   common.NewGroupRoleVerifier(groupMemberRepo),
		publisher:           publisher,
	}
}

func (d *groupDomain) Create(
	ctx context.Context, req *model.CreateGroupRequest,
) (*model.CreateGroupResponse, error) {
	creatorID := xcontext.RequestUserID(ctx)
	if creatorID == "" {
		return nil, errorx.New(errorx.BadRequest, "Creator is required")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errorx.New(errorx.BadRequest, "Group name is required")
	}

	if len(name) > maxGroupNameLength {
		return nil, errorx.New(errorx.BadRequest, "Group name too long (at most %d characters)", maxGroupNameLength)
	}

	accessType, err := enum.ToEnum[entity.GroupAccessType](req.AccessType)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid access type: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid access type %q", req.AccessType)
	}

	group := &entity.Group{
		Base:        entity.Base{ID: uuid.NewString()},
		Name:        name,
		Description: req.Description,
		AccessType:  accessType,
		CreatedBy:   creatorID,
	}

	err = xcontext.Transaction(ctx, func(ctx context.Context) error {
		if err := d.groupRepo.Create(ctx, group); err != nil {
			return err
		}

		return d.groupMemberRepo.Create(ctx, &entity.GroupMembership{
			GroupID:  group.ID,
			UserID:   creatorID,
			Role:     entity.GroupOwner,
			JoinedAt: time.Now(),
		})
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create group: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateGroupResponse{Group: convertGroup(group, 1)}, nil
}

func (d *groupDomain) Get(
	ctx context.Context, req *model.GetGroupRequest,
) (*model.GetGroupResponse, error) {
	group, err := d.getGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	count, err := d.groupMemberRepo.Count(ctx, group.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count group members: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetGroupResponse{Group: convertGroup(group, count)}, nil
}

func (d *groupDomain) Join(
	ctx context.Context, req *model.JoinGroupRequest,
) (*model.JoinGroupResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	group, err := d.getGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	if group.AccessType == entity.GroupAccessInvitation {
		return nil, errorx.New(errorx.PermissionDenied, "This group requires an invitation")
	}

	if err := d.checkNotMember(ctx, group.ID, userID, "You are already a member of this group"); err != nil {
		return nil, err
	}

	err = d.groupMemberRepo.Create(ctx, &entity.GroupMembership{
		GroupID:  group.ID,
		UserID:   userID,
		Role:     entity.GroupMember,
		JoinedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "You are already a member of this group")
		}

		xcontext.Logger(ctx).Errorf("Cannot join group: %v", err)
		return nil, errorx.Unknown
	}

	publishEvent(ctx, d.publisher, model.GroupMemberJoinedEvent, userID, group.ID, "")

	return &model.JoinGroupResponse{}, nil
}

func (d *groupDomain) Leave(
	ctx context.Context, req *model.LeaveGroupRequest,
) (*model.LeaveGroupResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	member, err := d.groupMemberRepo.Get(ctx, req.GroupID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "You are not a member of this group")
		}

		xcontext.Logger(ctx).Errorf("Cannot get group member: %v", err)
		return nil, errorx.Unknown
	}

	// There is no way to hand the group over yet, so the owner stays.
	if member.Role == entity.GroupOwner {
		return nil, errorx.New(errorx.OwnerMustTransfer, "The owner must transfer ownership before leaving")
	}

	if err := d.groupMemberRepo.Delete(ctx, req.GroupID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "You are not a member of this group")
		}

		xcontext.Logger(ctx).Errorf("Cannot leave group: %v", err)
		return nil, errorx.Unknown
	}

	publishEvent(ctx, d.publisher, model.GroupMemberLeftEvent, userID, req.GroupID, "")

	return &model.LeaveGroupResponse{}, nil
}

func (d *groupDomain) GetMembers(
	ctx context.Context, req *model.GetGroupMembersRequest,
) (*model.GetGroupMembersResponse, error) {
	group, err := d.getGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	members, err := d.groupMemberRepo.GetListByGroupID(ctx, group.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get group members: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.GroupMember{}
	for i := range members {
		result = append(result, convertGroupMember(&members[i]))
	}

	return &model.GetGroupMembersResponse{Members: result}, nil
}

func (d *groupDomain) Invite(
	ctx context.Context, req *model.InviteToGroupRequest,
) (*model.InviteToGroupResponse, error) {
	inviterID := xcontext.RequestUserID(ctx)
	if req.InviteeID == "" {
		return nil, errorx.New(errorx.BadRequest, "Invitee is required")
	}

	if req.InviteeID == inviterID {
		return nil, errorx.New(errorx.BadRequest, "Cannot invite yourself")
	}

	group, err := d.getGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	err = d.groupRoleVerifier.Verify(ctx, group.ID, inviterID, entity.GroupManagerRoles...)
	if err != nil {
		if errors.Is(err, common.ErrPermissionDenied) {
			return nil, errorx.New(errorx.PermissionDenied, "Only owner or admin can invite")
		}

		xcontext.Logger(ctx).Errorf("Cannot verify inviter role: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := d.userRepo.GetByID(ctx, req.InviteeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found invitee")
		}

		xcontext.Logger(ctx).Errorf("Cannot get invitee: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.checkNotMember(ctx, group.ID, req.InviteeID, "The user is already a member of this group"); err != nil {
		return nil, err
	}

	hasPending, err := d.groupInvitationRepo.HasPending(ctx, group.ID, req.InviteeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check pending invitation: %v", err)
		return nil, errorx.Unknown
	}

	if hasPending {
		return nil, errorx.New(errorx.AlreadyExists, "The user already has a pending invitation")
	}

	invitation := &entity.GroupInvitation{
		Base:      entity.Base{ID: uuid.NewString()},
		GroupID:   group.ID,
		InviterID: inviterID,
		InviteeID: req.InviteeID,
		Status:    entity.GroupInvitationPending,
	}

	if err := d.groupInvitationRepo.Create(ctx, invitation); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "The user already has a pending invitation")
		}

		xcontext.Logger(ctx).Errorf("Cannot create invitation: %v", err)
		return nil, errorx.Unknown
	}

	publishEvent(ctx, d.publisher, model.GroupInvitationCreatedEvent, inviterID, req.InviteeID, invitation.ID)

	invitation.Group = *group
	return &model.InviteToGroupResponse{Invitation: convertGroupInvitation(invitation)}, nil
}

func (d *groupDomain) RespondInvitation(
	ctx context.Context, req *model.RespondGroupInvitationRequest,
) (*model.RespondGroupInvitationResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	invitation, err := d.groupInvitationRepo.GetByID(ctx, req.InvitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found invitation")
		}

		xcontext.Logger(ctx).Errorf("Cannot get invitation: %v", err)
		return nil, errorx.Unknown
	}

	if invitation.InviteeID != userID || invitation.Status != entity.GroupInvitationPending {
		return nil, errorx.New(errorx.NotFound, "Not found invitation")
	}

	newStatus := entity.GroupInvitationRejected
	if req.Accept {
		newStatus = entity.GroupInvitationAccepted
	}

	// The status change and the membership are one unit, a failed insert
	// leaves the invitation pending.
	err = xcontext.Transaction(ctx, func(ctx context.Context) error {
		if err := d.groupInvitationRepo.Resolve(ctx, invitation.ID, newStatus); err != nil {
			return err
		}

		if !req.Accept {
			return nil
		}

		return d.groupMemberRepo.Create(ctx, &entity.GroupMembership{
			GroupID:  invitation.GroupID,
			UserID:   userID,
			Role:     entity.GroupMember,
			JoinedAt: time.Now(),
		})
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			current, err := d.groupInvitationRepo.GetByID(ctx, invitation.ID)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get invitation: %v", err)
				return nil, errorx.Unknown
			}

			if current.Status != newStatus {
				return nil, errorx.New(errorx.NotFound, "Not found invitation")
			}

			return &model.RespondGroupInvitationResponse{}, nil

		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, errorx.New(errorx.AlreadyExists, "You are already a member of this group")

		default:
			xcontext.Logger(ctx).Errorf("Cannot respond to invitation: %v", err)
			return nil, errorx.Unknown
		}
	}

	publishEvent(ctx, d.publisher, model.GroupInvitationRespondedEvent, userID, invitation.InviterID, invitation.ID)
	if req.Accept {
		publishEvent(ctx, d.publisher, model.GroupMemberJoinedEvent, userID, invitation.GroupID, "")
	}

	return &model.RespondGroupInvitationResponse{}, nil
}

func (d *groupDomain) GetPendingInvitations(
	ctx context.Context, req *model.GetPendingGroupInvitationsRequest,
) (*model.GetPendingGroupInvitationsResponse, error) {
	invitations, err := d.groupInvitationRepo.GetPendingByInvitee(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pending invitations: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.GroupInvitation{}
	for i := range invitations {
		result = append(result, convertGroupInvitation(&invitations[i]))
	}

	return &model.GetPendingGroupInvitationsResponse{Invitations: result}, nil
}

func (d *groupDomain) getGroup(ctx context.Context, groupID string) (*entity.Group, error) {
	if groupID == "" {
		return nil, errorx.New(errorx.BadRequest, "Group id is required")
	}

	group, err := d.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found group")
		}

		xcontext.Logger(ctx).Errorf("Cannot get group: %v", err)
		return nil, errorx.Unknown
	}

	return group, nil
}

func (d *groupDomain) checkNotMember(ctx context.Context, groupID, userID, msg string) error {
	_, err := d.groupMemberRepo.Get(ctx, groupID, userID)
	if err == nil {
		return errorx.New(errorx.AlreadyExists, msg)
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get group member: %v", err)
		return errorx.Unknown
	}

	return nil
}

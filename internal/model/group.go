package model

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	AccessType  string `json:"access_type"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id" form:"group_id"`
}

type GetGroupResponse struct {
	Group Group `json:"group"`
}

type JoinGroupRequest struct {
	GroupID string `json:"group_id"`
}

type JoinGroupResponse struct{}

type LeaveGroupRequest struct {
	GroupID string `json:"group_id"`
}

type LeaveGroupResponse struct{}

type GetGroupMembersRequest struct {
	GroupID string `json:"group_id" form:"group_id"`
}

type GetGroupMembersResponse struct {
	Members []GroupMember `json:"members"`
}

type InviteToGroupRequest struct {
	GroupID   string `json:"group_id"`
	InviteeID string `json:"invitee_id"`
}

type InviteToGroupResponse struct {
	Invitation GroupInvitation `json:"invitation"`
}

type RespondGroupInvitationRequest struct {
	InvitationID string `json:"invitation_id"`
	Accept       bool   `json:"accept"`
}

type RespondGroupInvitationResponse struct{}

type GetPendingGroupInvitationsRequest struct{}

type GetPendingGroupInvitationsResponse struct {
	Invitations []GroupInvitation `json:"invitations"`
}

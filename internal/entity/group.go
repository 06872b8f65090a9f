package entity

import (
	"time"

	"github.com/questx-lab/forum/pkg/enum"
)

type GroupAccessType string

var (
	GroupAccessOpen       = enum.New(GroupAccessType("open"))
	GroupAccessInvitation = enum.New(GroupAccessType("invitation"))
)

type Group struct {
	Base
	Name          string          `gorm:"size:128"`
	Description   string          `gorm:"type:text"`
	AccessType    GroupAccessType `gorm:"size:16"`
	CreatedBy     string          `gorm:"size:36"`
	CreatedByUser User            `gorm:"foreignKey:CreatedBy"`
}

type GroupRole string

var (
	GroupOwner  = enum.New(GroupRole("owner"))
	GroupAdmin  = enum.New(GroupRole("admin"))
	GroupMember = enum.New(GroupRole("member"))
)

// GroupManagerRoles may invite other users.
var GroupManagerRoles = []GroupRole{GroupOwner, GroupAdmin}

type GroupMembership struct {
	GroupID  string    `gorm:"primaryKey;size:36"`
	Group    Group     `gorm:"foreignKey:GroupID"`
	UserID   string    `gorm:"primaryKey;size:36;index"`
	User     User      `gorm:"foreignKey:UserID"`
	Role     GroupRole `gorm:"size:16"`
	JoinedAt time.Time
}

func (GroupMembership) TableName() string {
	return "group_members"
}

type GroupInvitationStatus string

var (
	GroupInvitationPending  = enum.New(GroupInvitationStatus("pending"))
	GroupInvitationAccepted = enum.New(GroupInvitationStatus("accepted"))
	GroupInvitationRejected = enum.New(GroupInvitationStatus("rejected"))
)

type GroupInvitation struct {
	Base
	GroupID   string                `gorm:"size:36;index"`
	Group     Group                 `gorm:"foreignKey:GroupID"`
	InviterID string                `gorm:"size:36"`
	Inviter   User                  `gorm:"foreignKey:InviterID"`
	InviteeID string                `gorm:"size:36;index"`
	Invitee   User                  `gorm:"foreignKey:InviteeID"`
	Status    GroupInvitationStatus `gorm:"size:16"`

	// PendingKey is group_id:invitee_id while the invitation is pending and
	// NULL afterwards, so the unique index only covers pending rows.
	PendingKey *string `gorm:"size:80;uniqueIndex"`
}

func InvitationPendingKey(groupID, inviteeID string) *string {
	key := groupID + ":" + inviteeID
	return &key
}

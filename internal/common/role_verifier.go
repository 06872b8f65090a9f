package common

import (
	"context"
	"errors"

	"github.com/questx-lab/forum/internal/entity"
	"github.com/questx-lab/forum/internal/repository"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

var ErrPermissionDenied = errors.New("user role does not have permission")

type GroupRoleVerifier struct {
	groupMemberRepo repository.GroupMemberRepository
}

func NewGroupRoleVerifier(groupMemberRepo repository.GroupMemberRepository) *GroupRoleVerifier {
	return &GroupRoleVerifier{groupMemberRepo: groupMemberRepo}
}

// Verify returns ErrPermissionDenied if the user is not a member of the group
// or has none of the required roles. Other errors come from the storage.
func (verifier *GroupRoleVerifier) Verify(
	ctx context.Context,
	groupID, userID string,
	requiredRoles ...entity.GroupRole,
) error {
	member, err := verifier.groupMemberRepo.Get(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPermissionDenied
		}

		return err
	}

	if !slices.Contains(requiredRoles, member.Role) {
		return ErrPermissionDenied
	}

	return nil
}

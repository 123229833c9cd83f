package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/worktalk/worktalk-backend/internal/common"
	"github.com/worktalk/worktalk-backend/internal/domain"
)

func TestCreateGroup_CreatorBecomesAdmin(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", uint64(1)).Return(&domain.User{ID: 1, CanCreateGroup: true}, nil)
	groupRepo := new(MockGroupRepository)
	groupRepo.On("Create", mock.AnythingOfType("*domain.Group")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*domain.Group).ID = 7
		}).Return(nil)

	svc := NewGroupService(groupRepo, userRepo, 256)

	group, err := svc.CreateGroup(1, &domain.CreateGroupRequest{Title: "platform team", MaxMembers: 20})

	assert.NoError(t, err)
	assert.Equal(t, uint64(7), group.ID)
	assert.Equal(t, 20, group.MaxMembers)
}

func TestCreateGroup_WithoutPrivilegeDenied(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", uint64(1)).Return(&domain.User{ID: 1, CanCreateGroup: false}, nil)
	groupRepo := new(MockGroupRepository)

	svc := NewGroupService(groupRepo, userRepo, 256)

	_, err := svc.CreateGroup(1, &domain.CreateGroupRequest{Title: "nope"})

	assert.ErrorIs(t, err, common.ErrPermission)
	groupRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateGroup_ClampsMaxMembers(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", uint64(1)).Return(&domain.User{ID: 1, CanCreateGroup: true}, nil)
	groupRepo := new(MockGroupRepository)
	groupRepo.On("Create", mock.AnythingOfType("*domain.Group")).Return(nil)

	svc := NewGroupService(groupRepo, userRepo, 256)

	group, err := svc.CreateGroup(1, &domain.CreateGroupRequest{Title: "big", MaxMembers: 5000})

	assert.NoError(t, err)
	assert.Equal(t, 256, group.MaxMembers)
}

func TestAddMember_GroupFull(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("IsActive", uint64(9)).Return(true, nil)
	groupRepo := new(MockGroupRepository)
	groupRepo.On("FindByID", uint64(7)).Return(&domain.Group{ID: 7, MaxMembers: 3}, nil)
	groupRepo.On("IsMember", uint64(7), uint64(1)).Return(true, nil)
	groupRepo.On("AddMember", mock.AnythingOfType("*domain.GroupMember"), 3).
		Return(common.ErrGroupFull)

	svc := NewGroupService(groupRepo, userRepo, 256)

	err := svc.AddMember(1, 7, 9)

	assert.ErrorIs(t, err, common.ErrGroupFull)
}

func TestAddMember_NonMemberActorDenied(t *testing.T) {
	userRepo := new(MockUserRepository)
	groupRepo := new(MockGroupRepository)
	groupRepo.On("FindByID", uint64(7)).Return(&domain.Group{ID: 7, MaxMembers: 256}, nil)
	groupRepo.On("IsMember", uint64(7), uint64(1)).Return(false, nil)

	svc := NewGroupService(groupRepo, userRepo, 256)

	err := svc.AddMember(1, 7, 9)

	assert.ErrorIs(t, err, common.ErrPermission)
	groupRepo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything)
}

func TestRemoveMember_SelfLeaveAllowed(t *testing.T) {
	userRepo := new(MockUserRepository)
	groupRepo := new(MockGroupRepository)
	groupRepo.On("FindByID", uint64(7)).Return(&domain.Group{ID: 7, MaxMembers: 256}, nil)
	groupRepo.On("RemoveMember", uint64(7), uint64(2)).Return(nil)

	svc := NewGroupService(groupRepo, userRepo, 256)

	assert.NoError(t, svc.RemoveMember(2, 7, 2))
	groupRepo.AssertNotCalled(t, "RoleOf", mock.Anything, mock.Anything)
}

func TestRemoveMember_OtherRequiresAdmin(t *testing.T) {
	userRepo := new(MockUserRepository)
	groupRepo := new(MockGroupRepository)
	groupRepo.On("FindByID", uint64(7)).Return(&domain.Group{ID: 7, MaxMembers: 256}, nil)
	groupRepo.On("RoleOf", uint64(7), uint64(2)).Return(domain.GroupRoleMember, nil)

	svc := NewGroupService(groupRepo, userRepo, 256)

	err := svc.RemoveMember(2, 7, 3)

	assert.ErrorIs(t, err, common.ErrPermission)
	groupRepo.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything)
}

func TestDeleteGroup_MemberDenied(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", uint64(2)).Return(&domain.User{ID: 2}, nil)
	groupRepo := new(MockGroupRepository)
	groupRepo.On("FindByID", uint64(7)).Return(&domain.Group{ID: 7, MaxMembers: 256}, nil)
	groupRepo.On("RoleOf", uint64(7), uint64(2)).Return(domain.GroupRoleMember, nil)

	svc := NewGroupService(groupRepo, userRepo, 256)

	err := svc.DeleteGroup(2, 7)

	assert.ErrorIs(t, err, common.ErrPermission)
	groupRepo.AssertNotCalled(t, "SoftDelete", mock.Anything)
}

func TestDeleteGroup_GroupAdmin(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", uint64(1)).Return(&domain.User{ID: 1}, nil)
	groupRepo := new(MockGroupRepository)
	groupRepo.On("FindByID", uint64(7)).Return(&domain.Group{ID: 7, MaxMembers: 256}, nil)
	groupRepo.On("RoleOf", uint64(7), uint64(1)).Return(domain.GroupRoleAdmin, nil)
	groupRepo.On("SoftDelete", uint64(7)).Return(nil)

	svc := NewGroupService(groupRepo, userRepo, 256)

	assert.NoError(t, svc.DeleteGroup(1, 7))
	groupRepo.AssertExpectations(t)
}

func TestPromoteToAdmin_AdminOnly(t *testing.T) {
	userRepo := new(MockUserRepository)
	groupRepo := new(MockGroupRepository)
	groupRepo.On("RoleOf", uint64(7), uint64(1)).Return(domain.GroupRoleAdmin, nil)
	groupRepo.On("SetRole", uint64(7), uint64(2), domain.GroupRoleAdmin).Return(nil)

	svc := NewGroupService(groupRepo, userRepo, 256)

	assert.NoError(t, svc.PromoteToAdmin(1, 7, 2))
	groupRepo.AssertExpectations(t)
}

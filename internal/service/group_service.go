package service

import (
	"fmt"

	"github.com/worktalk/worktalk-backend/internal/common"
	"github.com/worktalk/worktalk-backend/internal/domain"
	"github.com/worktalk/worktalk-backend/internal/repository"
)

// GroupService group lifecycle and membership management
type GroupService interface {
	CreateGroup(creatorID uint64, req *domain.CreateGroupRequest) (*domain.Group, error)
	AddMember(actorID, groupID, userID uint64) error
	RemoveMember(actorID, groupID, userID uint64) error
	PromoteToAdmin(actorID, groupID, userID uint64) error
	DeleteGroup(actorID, groupID uint64) error
}

type groupService struct {
	groupRepo         repository.GroupRepository
	userRepo          repository.UserRepository
	defaultMaxMembers int
}

// NewGroupService creates a new GroupService
func NewGroupService(groupRepo repository.GroupRepository, userRepo repository.UserRepository, defaultMaxMembers int) GroupService {
	return &groupService{
		groupRepo:         groupRepo,
		userRepo:          userRepo,
		defaultMaxMembers: defaultMaxMembers,
	}
}

// CreateGroup creates a group with the creator as its first admin
func (s *groupService) CreateGroup(creatorID uint64, req *domain.CreateGroupRequest) (*domain.Group, error) {
	creator, err := s.userRepo.FindByID(creatorID)
	if err != nil {
		return nil, err
	}
	if !creator.CanCreateGroup && !creator.IsAdmin {
		return nil, fmt.Errorf("%w: not allowed to create groups", common.ErrPermission)
	}

	maxMembers := req.MaxMembers
	if maxMembers <= 0 || maxMembers > s.defaultMaxMembers {
		maxMembers = s.defaultMaxMembers
	}

	group := &domain.Group{
		Title:      req.Title,
		CreatorID:  creatorID,
		MaxMembers: maxMembers,
	}
	if err := s.groupRepo.Create(group); err != nil {
		return nil, err
	}
	return group, nil
}

// AddMember adds a user to the group. Any current member may add;
// the size limit is re-checked atomically in the repository.
func (s *groupService) AddMember(actorID, groupID, userID uint64) error {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		return err
	}

	member, err := s.groupRepo.IsMember(groupID, actorID)
	if err != nil {
		return err
	}
	if !member {
		return fmt.Errorf("%w: only members may add users", common.ErrPermission)
	}

	active, err := s.userRepo.IsActive(userID)
	if err != nil {
		return err
	}
	if !active {
		return fmt.Errorf("%w: user not found or deactivated", common.ErrNotFound)
	}

	return s.groupRepo.AddMember(&domain.GroupMember{
		GroupID: groupID,
		UserID:  userID,
		Role:    domain.GroupRoleMember,
	}, group.MaxMembers)
}

// RemoveMember removes a user. Removing someone else is a destructive
// action and requires the admin role; leaving (self-removal) does not.
func (s *groupService) RemoveMember(actorID, groupID, userID uint64) error {
	if _, err := s.groupRepo.FindByID(groupID); err != nil {
		return err
	}

	if actorID != userID {
		role, err := s.groupRepo.RoleOf(groupID, actorID)
		if err != nil {
			return err
		}
		if role != domain.GroupRoleAdmin {
			return fmt.Errorf("%w: only admins may remove members", common.ErrPermission)
		}
	}

	return s.groupRepo.RemoveMember(groupID, userID)
}

// PromoteToAdmin grants the admin role (admin only)
func (s *groupService) PromoteToAdmin(actorID, groupID, userID uint64) error {
	role, err := s.groupRepo.RoleOf(groupID, actorID)
	if err != nil {
		return err
	}
	if role != domain.GroupRoleAdmin {
		return fmt.Errorf("%w: only admins may promote members", common.ErrPermission)
	}
	return s.groupRepo.SetRole(groupID, userID, domain.GroupRoleAdmin)
}

// DeleteGroup soft-deletes the group (group admin or platform admin).
// History stays readable through direct message lookups but the group
// disappears from listings and rejects new sends.
func (s *groupService) DeleteGroup(actorID, groupID uint64) error {
	if _, err := s.groupRepo.FindByID(groupID); err != nil {
		return err
	}

	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin {
		role, err := s.groupRepo.RoleOf(groupID, actorID)
		if err != nil {
			return err
		}
		if role != domain.GroupRoleAdmin {
			return fmt.Errorf("%w: only admins may delete the group", common.ErrPermission)
		}
	}

	return s.groupRepo.SoftDelete(groupID)
}

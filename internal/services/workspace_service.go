package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tasknexus/tasknexus-api/internal/models"
	"github.com/tasknexus/tasknexus-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidWorkspaceName = errors.New("workspace name cannot be empty")
	ErrWorkspaceNotFound    = errors.New("workspace not found")
	ErrNotWorkspaceMember   = errors.New("user is not a member of the workspace")
	ErrNotWorkspaceOwner    = errors.New("only the workspace owner can perform this action")
	ErrInviteeNotFound      = errors.New("user not found")
	ErrAlreadyMember        = errors.New("already member")
)

// WorkspaceService provides business logic for workspace operations.
type WorkspaceService struct {
	workspaceRepo    repository.WorkspaceRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	activity         *ActivityService
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(workspaceRepo repository.WorkspaceRepository, userRepo repository.UserRepository, notificationRepo repository.NotificationRepository, activity *ActivityService) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo:    workspaceRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		activity:         activity,
	}
}

// CreateWorkspaceInput represents parameters to create a new workspace.
type CreateWorkspaceInput struct {
	Name        string
	Description string
	OwnerID     uint64
}

// CreateWorkspace creates a workspace and its owner membership atomically.
func (s *WorkspaceService) CreateWorkspace(input CreateWorkspaceInput) (*models.Workspace, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidWorkspaceName
	}

	workspace := &models.Workspace{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
	}

	member := &models.WorkspaceMember{
		UserID:   input.OwnerID,
		Role:     models.RoleOwner,
		JoinedAt: time.Now(),
	}

	if err := s.workspaceRepo.CreateWithOwner(workspace, member); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	s.activity.Record(input.OwnerID, "create", "workspace", workspace.ID, workspace.Name)

	return workspace, nil
}

// ListWorkspacesForUser returns the memberships of every workspace the user
// belongs to, with workspaces preloaded.
func (s *WorkspaceService) ListWorkspacesForUser(userID uint64) ([]models.WorkspaceMember, error) {
	memberships, err := s.workspaceRepo.ListMembershipsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return memberships, nil
}

// RequireMember loads the caller's membership in a workspace. Callers that
// are not members get ErrWorkspaceNotFound rather than a forbidden error so
// workspace existence is not leaked.
func (s *WorkspaceService) RequireMember(workspaceID, userID uint64) (*models.WorkspaceMember, error) {
	if _, err := s.workspaceRepo.FindByID(workspaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}

	member, err := s.workspaceRepo.FindMember(workspaceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	return member, nil
}

// DeleteWorkspace removes a workspace and everything under it. Only the
// workspace owner may delete it.
func (s *WorkspaceService) DeleteWorkspace(workspaceID, callerID uint64) error {
	member, err := s.RequireMember(workspaceID, callerID)
	if err != nil {
		return err
	}

	if member.Role != models.RoleOwner {
		return ErrNotWorkspaceOwner
	}

	if err := s.workspaceRepo.Delete(workspaceID); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	s.activity.Record(callerID, "delete", "workspace", workspaceID, "")

	return nil
}

// ListMembers returns all (user, role) pairs for a workspace. The caller
// must be a member.
func (s *WorkspaceService) ListMembers(workspaceID, callerID uint64) ([]models.WorkspaceMember, error) {
	if _, err := s.RequireMember(workspaceID, callerID); err != nil {
		return nil, err
	}

	members, err := s.workspaceRepo.ListMembers(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace members: %w", err)
	}

	return members, nil
}

// Invite adds the user with the given email to the workspace as a member
// and notifies them. The caller must be a member of the workspace.
func (s *WorkspaceService) Invite(workspaceID, callerID uint64, email string) error {
	if _, err := s.RequireMember(workspaceID, callerID); err != nil {
		return err
	}

	workspace, err := s.workspaceRepo.FindByID(workspaceID)
	if err != nil {
		return fmt.Errorf("failed to find workspace: %w", err)
	}

	invitee, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInviteeNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.workspaceRepo.FindMember(workspaceID, invitee.ID); err == nil {
		return ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      invitee.ID,
		Role:        models.RoleMember,
		JoinedAt:    time.Now(),
	}

	if err := s.workspaceRepo.AddMember(member); err != nil {
		// The composite primary key rejects a concurrent duplicate invite.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyMember
		}
		return fmt.Errorf("failed to add member: %w", err)
	}

	notification := &models.Notification{
		UserID:  invitee.ID,
		Type:    models.NotificationWorkspaceInvite,
		Message: fmt.Sprintf("You have been added to workspace %q", workspace.Name),
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		// Membership is already committed; log and continue.
		log.Printf("Failed to create invite notification: %v", err)
	}

	s.activity.Record(callerID, "invite", "workspace", workspaceID, invitee.Email)

	return nil
}

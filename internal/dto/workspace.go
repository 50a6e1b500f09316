package dto

import (
	"time"

	"github.com/tasknexus/tasknexus-api/internal/models"
)

// WorkspaceDTO represents a workspace in API responses
type WorkspaceDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uint64    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// WorkspaceWithRoleDTO annotates a workspace with the caller's role in it
type WorkspaceWithRoleDTO struct {
	WorkspaceDTO
	Role models.WorkspaceRole `json:"role"`
}

// WorkspaceMemberDTO represents a member in a workspace member list
type WorkspaceMemberDTO struct {
	ID       uint64               `json:"id"`
	Username string               `json:"username"`
	Email    string               `json:"email"`
	Role     models.WorkspaceRole `json:"role"`
	JoinedAt time.Time            `json:"joined_at"`
}

// ToWorkspaceDTO converts a Workspace model to WorkspaceDTO
func ToWorkspaceDTO(workspace models.Workspace) WorkspaceDTO {
	return WorkspaceDTO{
		ID:          workspace.ID,
		Name:        workspace.Name,
		Description: workspace.Description,
		OwnerID:     workspace.OwnerID,
		CreatedAt:   workspace.CreatedAt,
	}
}

// ToWorkspaceWithRoleDTO converts a membership to a workspace annotated with
// the member's role
func ToWorkspaceWithRoleDTO(member models.WorkspaceMember) WorkspaceWithRoleDTO {
	return WorkspaceWithRoleDTO{
		WorkspaceDTO: ToWorkspaceDTO(member.Workspace),
		Role:         member.Role,
	}
}

// ToWorkspaceMemberDTO converts a membership (with user preloaded) to DTO
func ToWorkspaceMemberDTO(member models.WorkspaceMember) WorkspaceMemberDTO {
	return WorkspaceMemberDTO{
		ID:       member.User.ID,
		Username: member.User.Username,
		Email:    member.User.Email,
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

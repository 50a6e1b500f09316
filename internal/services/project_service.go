package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tasknexus/tasknexus-api/internal/models"
	"github.com/tasknexus/tasknexus-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidProjectName = errors.New("project name cannot be empty")
	ErrProjectNotFound    = errors.New("project not found")
)

const defaultProjectColor = "#3B82F6"

// ProjectService provides business logic for project operations. Every
// operation is gated on the caller's membership in the project's workspace.
type ProjectService struct {
	projectRepo   repository.ProjectRepository
	workspaceRepo repository.WorkspaceRepository
	activity      *ActivityService
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, workspaceRepo repository.WorkspaceRepository, activity *ActivityService) *ProjectService {
	return &ProjectService{
		projectRepo:   projectRepo,
		workspaceRepo: workspaceRepo,
		activity:      activity,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	Color       string
	WorkspaceID uint64
	CallerID    uint64
}

// CreateProject creates a project in a workspace the caller belongs to.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidProjectName
	}

	if err := s.requireWorkspaceMember(input.WorkspaceID, input.CallerID); err != nil {
		return nil, err
	}

	color := input.Color
	if color == "" {
		color = defaultProjectColor
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		Color:       color,
		WorkspaceID: input.WorkspaceID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.activity.Record(input.CallerID, "create", "project", project.ID, project.Name)

	return project, nil
}

// ListProjects returns the projects of a workspace the caller belongs to.
func (s *ProjectService) ListProjects(workspaceID, callerID uint64) ([]models.Project, error) {
	if err := s.requireWorkspaceMember(workspaceID, callerID); err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.ListByWorkspace(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

// ListAllProjects returns every project across the caller's workspaces.
func (s *ProjectService) ListAllProjects(callerID uint64) ([]models.Project, error) {
	workspaceIDs, err := s.workspaceRepo.MemberWorkspaceIDs(callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace memberships: %w", err)
	}

	projects, err := s.projectRepo.ListByWorkspaces(workspaceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

// DeleteProject removes a project and all tasks under it. The caller must
// be a member of the project's workspace.
func (s *ProjectService) DeleteProject(projectID, callerID uint64) error {
	project, err := s.findAccessibleProject(projectID, callerID)
	if err != nil {
		return err
	}

	if err := s.projectRepo.Delete(project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.activity.Record(callerID, "delete", "project", project.ID, project.Name)

	return nil
}

// findAccessibleProject loads a project and verifies the caller belongs to
// its workspace. Non-members get ErrProjectNotFound so project existence is
// not leaked.
func (s *ProjectService) findAccessibleProject(projectID, callerID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if _, err := s.workspaceRepo.FindMember(project.WorkspaceID, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	return project, nil
}

func (s *ProjectService) requireWorkspaceMember(workspaceID, callerID uint64) error {
	if _, err := s.workspaceRepo.FindMember(workspaceID, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotWorkspaceMember
		}
		return fmt.Errorf("failed to verify membership: %w", err)
	}
	return nil
}

package repository

import (
	"github.com/tasknexus/tasknexus-api/internal/models"
	"github.com/tasknexus/tasknexus-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithDefaults creates a user together with their default
	// workspace, owner membership, and starter project within a single
	// transaction.
	CreateWithDefaults(user *models.User, workspace *models.Workspace, member *models.WorkspaceMember, project *models.Project) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// WorkspaceRepository defines the interface for workspace data access
type WorkspaceRepository interface {
	// CreateWithOwner creates a workspace and its owner membership atomically
	CreateWithOwner(workspace *models.Workspace, member *models.WorkspaceMember) error

	// FindByID finds a workspace by ID
	FindByID(id uint64) (*models.Workspace, error)

	// Delete removes a workspace and cascades to its projects, the tasks
	// under those projects, and its membership rows
	Delete(id uint64) error

	// AddMember adds a member to a workspace
	AddMember(member *models.WorkspaceMember) error

	// FindMember finds a specific workspace membership
	FindMember(workspaceID, userID uint64) (*models.WorkspaceMember, error)

	// ListMembers lists all members of a workspace with users preloaded
	ListMembers(workspaceID uint64) ([]models.WorkspaceMember, error)

	// ListMembershipsByUserID lists all workspaces a user is a member of
	ListMembershipsByUserID(userID uint64) ([]models.WorkspaceMember, error)

	// MemberWorkspaceIDs returns the IDs of every workspace the user belongs to
	MemberWorkspaceIDs(userID uint64) ([]uint64, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// ListByWorkspace lists all projects in a workspace
	ListByWorkspace(workspaceID uint64) ([]models.Project, error)

	// ListByWorkspaces lists all projects across the given workspaces
	ListByWorkspaces(workspaceIDs []uint64) ([]models.Project, error)

	// Delete removes a project and all tasks under it
	Delete(id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// ListByProject retrieves tasks for a project, newest first, paginated
	ListByProject(projectID uint64, params utils.PaginationParams) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create creates a new notification
	Create(notification *models.Notification) error

	// FindByID finds a notification by ID
	FindByID(id uint64) (*models.Notification, error)

	// ListByUser lists a user's notifications, newest first
	ListByUser(userID uint64) ([]models.Notification, error)

	// MarkRead flips the read flag on a notification
	MarkRead(id uint64) error
}

// ActivityRepository defines the interface for the append-only audit trail
type ActivityRepository interface {
	// Record appends an activity entry. Entries are never updated or deleted.
	Record(entry *models.ActivityLog) error
}

// DashboardStats holds the aggregate counts shown on the dashboard
type DashboardStats struct {
	TotalTasks      int64              `json:"totalTasks"`
	CompletedTasks  int64              `json:"completedTasks"`
	InProgressTasks int64              `json:"inProgressTasks"`
	OverdueTasks    int64              `json:"overdueTasks"`
	TotalProjects   int64              `json:"totalProjects"`
	TotalWorkspaces int64              `json:"totalWorkspaces"`
	TasksByStatus   []StatusCount      `json:"tasksByStatus"`
	TasksByPriority []PriorityCount    `json:"tasksByPriority"`
}

type StatusCount struct {
	Status models.TaskStatus `json:"status"`
	Count  int64             `json:"count"`
}

type PriorityCount struct {
	Priority models.TaskPriority `json:"priority"`
	Count    int64               `json:"count"`
}

// AnalyticsRepository defines the interface for dashboard aggregates
type AnalyticsRepository interface {
	// StatsForWorkspaces computes aggregate counts across the given workspaces
	StatsForWorkspaces(workspaceIDs []uint64) (*DashboardStats, error)
}

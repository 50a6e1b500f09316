package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tasknexus/tasknexus-api/internal/models"
	"github.com/tasknexus/tasknexus-api/internal/repository"
	"github.com/tasknexus/tasknexus-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTitleRequired       = errors.New("title is required")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
	ErrTaskNotFound        = errors.New("task not found")
	ErrInvalidAssignee     = errors.New("assignee is not a member of the workspace")
)

// TaskService handles task business logic. Access to a task flows through
// its project's workspace membership.
type TaskService struct {
	taskRepo         repository.TaskRepository
	projectRepo      repository.ProjectRepository
	workspaceRepo    repository.WorkspaceRepository
	notificationRepo repository.NotificationRepository
	activity         *ActivityService
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, workspaceRepo repository.WorkspaceRepository, notificationRepo repository.NotificationRepository, activity *ActivityService) *TaskService {
	return &TaskService{
		taskRepo:         taskRepo,
		projectRepo:      projectRepo,
		workspaceRepo:    workspaceRepo,
		notificationRepo: notificationRepo,
		activity:         activity,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	DueDate     *time.Time
	ProjectID   uint64
	AssigneeID  *uint64
	CreatorID   uint64
}

// CreateTask creates a task in a project the caller can access. Status
// always starts at todo; priority must be one of the four allowed values.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !models.ValidTaskPriority(priority) {
		return nil, ErrInvalidTaskPriority
	}

	project, err := s.findAccessibleProject(input.ProjectID, input.CreatorID)
	if err != nil {
		return nil, err
	}

	if input.AssigneeID != nil {
		if _, err := s.workspaceRepo.FindMember(project.WorkspaceID, *input.AssigneeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidAssignee
			}
			return nil, fmt.Errorf("failed to verify assignee: %w", err)
		}
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskStatusTodo,
		Priority:    priority,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
		AssigneeID:  input.AssigneeID,
		CreatedBy:   input.CreatorID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if task.AssigneeID != nil && *task.AssigneeID != input.CreatorID {
		notification := &models.Notification{
			UserID:  *task.AssigneeID,
			Type:    models.NotificationTaskAssigned,
			Message: fmt.Sprintf("You have been assigned to task %q", task.Title),
		}
		if err := s.notificationRepo.Create(notification); err != nil {
			log.Printf("Failed to create assignment notification: %v", err)
		}
	}

	s.activity.Record(input.CreatorID, "create", "task", task.ID, task.Title)

	return task, nil
}

// ListTasks returns the tasks of a project the caller can access, newest
// first, paginated.
func (s *TaskService) ListTasks(projectID, callerID uint64, params utils.PaginationParams) ([]models.Task, int64, error) {
	if _, err := s.findAccessibleProject(projectID, callerID); err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.taskRepo.ListByProject(projectID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// UpdateTaskStatus moves a task to a new status. The status must be one of
// the four allowed values.
func (s *TaskService) UpdateTaskStatus(taskID, callerID uint64, status models.TaskStatus) (*models.Task, error) {
	if !models.ValidTaskStatus(status) {
		return nil, ErrInvalidTaskStatus
	}

	task, err := s.findAccessibleTask(taskID, callerID)
	if err != nil {
		return nil, err
	}

	task.Status = status
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.activity.Record(callerID, "update", "task", task.ID, string(status))

	return task, nil
}

// DeleteTask removes a task the caller can access.
func (s *TaskService) DeleteTask(taskID, callerID uint64) error {
	task, err := s.findAccessibleTask(taskID, callerID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.activity.Record(callerID, "delete", "task", task.ID, task.Title)

	return nil
}

// findAccessibleTask loads a task and verifies the caller belongs to the
// workspace of the task's project. Non-members get ErrTaskNotFound so task
// existence is not leaked.
func (s *TaskService) findAccessibleTask(taskID, callerID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if _, err := s.findAccessibleProject(task.ProjectID, callerID); err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	return task, nil
}

func (s *TaskService) findAccessibleProject(projectID, callerID uint64) (*models.Project, error) {
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

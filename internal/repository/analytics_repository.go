package repository

import (
	"time"

	"github.com/tasknexus/tasknexus-api/internal/models"
	"gorm.io/gorm"
)

// GormAnalyticsRepository is a GORM implementation of AnalyticsRepository
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new AnalyticsRepository
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

// StatsForWorkspaces computes aggregate counts across the given workspaces
func (r *GormAnalyticsRepository) StatsForWorkspaces(workspaceIDs []uint64) (*DashboardStats, error) {
	stats := &DashboardStats{
		TotalWorkspaces: int64(len(workspaceIDs)),
		TasksByStatus:   []StatusCount{},
		TasksByPriority: []PriorityCount{},
	}

	if len(workspaceIDs) == 0 {
		return stats, nil
	}

	projectIDs := r.db.Model(&models.Project{}).
		Select("id").
		Where("workspace_id IN ?", workspaceIDs)

	if err := r.db.Model(&models.Project{}).
		Where("workspace_id IN ?", workspaceIDs).
		Count(&stats.TotalProjects).Error; err != nil {
		return nil, err
	}

	tasks := func() *gorm.DB {
		return r.db.Model(&models.Task{}).Where("project_id IN (?)", projectIDs)
	}

	if err := tasks().Count(&stats.TotalTasks).Error; err != nil {
		return nil, err
	}
	if err := tasks().Where("status = ?", models.TaskStatusDone).
		Count(&stats.CompletedTasks).Error; err != nil {
		return nil, err
	}
	if err := tasks().Where("status = ?", models.TaskStatusInProgress).
		Count(&stats.InProgressTasks).Error; err != nil {
		return nil, err
	}
	if err := tasks().Where("due_date IS NOT NULL AND due_date < ? AND status != ?", time.Now(), models.TaskStatusDone).
		Count(&stats.OverdueTasks).Error; err != nil {
		return nil, err
	}

	if err := tasks().
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&stats.TasksByStatus).Error; err != nil {
		return nil, err
	}

	if err := tasks().
		Select("priority, COUNT(*) as count").
		Group("priority").
		Scan(&stats.TasksByPriority).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

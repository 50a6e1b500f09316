package services

import (
	"fmt"

	"github.com/tasknexus/tasknexus-api/internal/repository"
)

// AnalyticsService computes the dashboard aggregates for a user, scoped to
// the workspaces they belong to.
type AnalyticsService struct {
	analyticsRepo repository.AnalyticsRepository
	workspaceRepo repository.WorkspaceRepository
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository, workspaceRepo repository.WorkspaceRepository) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		workspaceRepo: workspaceRepo,
	}
}

// DashboardStats returns aggregate counts across the user's workspaces.
func (s *AnalyticsService) DashboardStats(userID uint64) (*repository.DashboardStats, error) {
	workspaceIDs, err := s.workspaceRepo.MemberWorkspaceIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspaces: %w", err)
	}

	stats, err := s.analyticsRepo.StatsForWorkspaces(workspaceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}

	return stats, nil
}

package services

import (
	"log"

	"github.com/tasknexus/tasknexus-api/internal/models"
	"github.com/tasknexus/tasknexus-api/internal/repository"
)

// ActivityService appends entries to the audit trail. Recording is
// best-effort: a failed insert is logged and never fails the caller's
// request.
type ActivityService struct {
	activityRepo repository.ActivityRepository
}

// NewActivityService creates a new ActivityService.
func NewActivityService(activityRepo repository.ActivityRepository) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
	}
}

// Record appends an audit entry for an action a user performed on an entity.
func (s *ActivityService) Record(userID uint64, action, entityType string, entityID uint64, details string) {
	entry := &models.ActivityLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if details != "" {
		entry.Details = &details
	}

	if err := s.activityRepo.Record(entry); err != nil {
		log.Printf("Failed to record activity %s/%s: %v", action, entityType, err)
	}
}

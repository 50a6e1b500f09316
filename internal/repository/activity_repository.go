package repository

import (
	"github.com/tasknexus/tasknexus-api/internal/models"
	"gorm.io/gorm"
)

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

// Record appends an activity entry
func (r *GormActivityRepository) Record(entry *models.ActivityLog) error {
	return r.db.Create(entry).Error
}

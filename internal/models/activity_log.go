package models

import "time"

// ActivityLog is an append-only audit trail. Rows are only ever inserted;
// the application never updates or deletes them.
type ActivityLog struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	UserID     uint64    `gorm:"not null;index" json:"user_id"`
	Action     string    `gorm:"type:varchar(50);not null" json:"action"`
	EntityType string    `gorm:"type:varchar(50);not null" json:"entity_type"`
	EntityID   uint64    `gorm:"not null" json:"entity_id"`
	Details    *string   `gorm:"type:text" json:"details"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

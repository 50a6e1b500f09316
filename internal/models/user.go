package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	AvatarURL    *string        `gorm:"type:varchar(500)" json:"avatar_url"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	OwnedWorkspaces []Workspace       `gorm:"foreignKey:OwnerID" json:"-"`
	Memberships     []WorkspaceMember `gorm:"foreignKey:UserID" json:"-"`
	Notifications   []Notification    `gorm:"foreignKey:UserID" json:"-"`
	CreatedTasks    []Task            `gorm:"foreignKey:CreatedBy" json:"-"`
	AssignedTasks   []Task            `gorm:"foreignKey:AssigneeID;constraint:OnDelete:SET NULL" json:"-"`
}

package repository

import (
	"errors"
	"fmt"

	"github.com/tasknexus/tasknexus-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrDuplicateUser is returned when the username or email uniqueness
	// constraint rejects the insert inside the registration transaction.
	ErrDuplicateUser = errors.New("user repository: username or email already exists")
	// ErrCreateWorkspace is returned when creating the default workspace fails inside the registration transaction.
	ErrCreateWorkspace = errors.New("user repository: create default workspace failed")
	// ErrCreateMember is returned when creating the owner membership fails inside the registration transaction.
	ErrCreateMember = errors.New("user repository: create owner membership failed")
	// ErrCreateProject is returned when creating the starter project fails inside the registration transaction.
	ErrCreateProject = errors.New("user repository: create starter project failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// CreateWithDefaults creates the user, their default workspace, the owner
// membership, and the starter project atomically. A failure at any step
// rolls the whole registration back.
func (r *GormUserRepository) CreateWithDefaults(user *models.User, workspace *models.Workspace, member *models.WorkspaceMember, project *models.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateUser
			}
			return fmt.Errorf("create user: %w", err)
		}

		workspace.OwnerID = user.ID
		if err := tx.Create(workspace).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateWorkspace, err)
		}

		member.WorkspaceID = workspace.ID
		member.UserID = user.ID
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateMember, err)
		}

		project.WorkspaceID = workspace.ID
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateProject, err)
		}

		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tasknexus/tasknexus-api/internal/auth"
	"github.com/tasknexus/tasknexus-api/internal/constants"
	"github.com/tasknexus/tasknexus-api/internal/models"
	"github.com/tasknexus/tasknexus-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrAllFieldsRequired    = errors.New("username, email and password are required")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserExists           = errors.New("username or email already exists")
	ErrNoAccount            = errors.New("no account found")
	ErrWrongPassword        = errors.New("wrong password")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToIssueToken   = errors.New("failed to issue session token")
)

const (
	defaultWorkspaceDescription = "Default workspace"
	defaultProjectName          = "My First Project"
	defaultProjectDescription   = "Default project"
)

// AuthService handles registration, login, and identity lookup.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	activity *ActivityService
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, activity *ActivityService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		activity: activity,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthResult carries the issued token and the authenticated user.
type AuthResult struct {
	Token string
	User  *models.User
}

// Register creates a new user together with their default workspace, owner
// membership, and starter project in one transaction, then issues a session
// token. Duplicate usernames and emails surface from the store's uniqueness
// constraint, not from a pre-check.
func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" || input.Password == "" {
		return nil, ErrAllFieldsRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	workspace := &models.Workspace{
		Name:        fmt.Sprintf("%s Workspace", username),
		Description: defaultWorkspaceDescription,
	}

	member := &models.WorkspaceMember{
		Role: models.RoleOwner,
	}

	project := &models.Project{
		Name:        defaultProjectName,
		Description: defaultProjectDescription,
	}

	if err := s.userRepo.CreateWithDefaults(user, workspace, member, project); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to complete registration: %w", err)
	}

	token, err := s.tokens.Generate(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, ErrFailedToIssueToken
	}

	s.activity.Record(user.ID, "register", "user", user.ID, "")

	return &AuthResult{Token: token, User: user}, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a session token. An unknown email
// and a wrong password are reported separately, matching the client's
// expectations.
func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoAccount
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrWrongPassword
	}

	token, err := s.tokens.Generate(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, ErrFailedToIssueToken
	}

	return &AuthResult{Token: token, User: user}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

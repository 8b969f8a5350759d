package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"
	"unicode"

	"github.com/vibestack/backend/internal/core/domain"
	"github.com/vibestack/backend/internal/core/ports"
)

const (
	minPasswordLen = 8
	minUsernameLen = 3
	maxUsernameLen = 50
	maxNameLen     = 100
	maxBioLen      = 1000
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)
)

type userService struct {
	repo   ports.UserRepository
	hasher *PasswordHasher
	logger *slog.Logger
}

func NewUserService(repo ports.UserRepository, hasher *PasswordHasher, logger *slog.Logger) ports.UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{repo: repo, hasher: hasher, logger: logger}
}

func (s *userService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if err := validateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	if err := validateProfile(input.Username, input.FirstName, input.LastName, input.Bio); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	if input.Username != nil {
		existing, err := s.repo.GetByUsername(ctx, *input.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if existing != nil {
			return nil, domain.ErrUsernameTaken
		}
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:          input.Email,
		HashedPassword: hash,
		Username:       input.Username,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Bio:            input.Bio,
		AvatarURL:      input.AvatarURL,
		IsActive:       true,
		Role:           "user",
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, skip, limit int, activeOnly bool) ([]domain.User, error) {
	users, err := s.repo.List(ctx, skip, limit, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) Update(ctx context.Context, id int64, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validateProfile(input.Username, input.FirstName, input.LastName, input.Bio); err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		if err := validateEmail(*input.Email); err != nil {
			return nil, err
		}
		existing, err := s.repo.GetByEmail(ctx, *input.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if existing != nil {
			return nil, domain.ErrEmailTaken
		}
		user.Email = *input.Email
	}

	if input.Username != nil && (user.Username == nil || *input.Username != *user.Username) {
		existing, err := s.repo.GetByUsername(ctx, *input.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if existing != nil {
			return nil, domain.ErrUsernameTaken
		}
		user.Username = input.Username
	}

	if input.FirstName != nil {
		user.FirstName = input.FirstName
	}
	if input.LastName != nil {
		user.LastName = input.LastName
	}
	if input.Bio != nil {
		user.Bio = input.Bio
	}
	if input.AvatarURL != nil {
		user.AvatarURL = input.AvatarURL
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.IsVerified != nil {
		user.IsVerified = *input.IsVerified
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("user updated", "user_id", user.ID)
	return user, nil
}

// Deactivate is a soft delete: the row stays, is_active flips to false.
func (s *userService) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	s.logger.Info("user deactivated", "user_id", id)
	return nil
}

func (s *userService) ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.hasher.Check(currentPassword, user.HashedPassword) {
		return domain.ErrInvalidCredentials
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	s.logger.Info("password changed", "user_id", id)
	return nil
}

// Authenticate collapses unknown email, wrong password and inactive
// account into the same ErrInvalidCredentials so callers cannot probe
// which accounts exist.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		s.logger.Debug("authentication failed: unknown email")
		return nil, domain.ErrInvalidCredentials
	}
	if !s.hasher.Check(password, user.HashedPassword) {
		s.logger.Debug("authentication failed: wrong password", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.logger.Debug("authentication failed: inactive account", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// Last-login is best effort; a lost write must not fail the login.
		s.logger.Warn("failed to update last login", "user_id", user.ID, "error", err)
	} else {
		user.LastLoginAt = &now
	}

	s.logger.Info("user authenticated", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters long", domain.ErrInvalidInput, minPasswordLen)
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("%w: password must contain at least one uppercase letter", domain.ErrInvalidInput)
	}
	if !hasLower {
		return fmt.Errorf("%w: password must contain at least one lowercase letter", domain.ErrInvalidInput)
	}
	if !hasDigit {
		return fmt.Errorf("%w: password must contain at least one digit", domain.ErrInvalidInput)
	}
	return nil
}

func validateProfile(username, firstName, lastName, bio *string) error {
	if username != nil {
		if len(*username) < minUsernameLen || len(*username) > maxUsernameLen {
			return fmt.Errorf("%w: username must be between %d and %d characters long", domain.ErrInvalidInput, minUsernameLen, maxUsernameLen)
		}
		if !usernameRegex.MatchString(*username) {
			return fmt.Errorf("%w: username can only contain letters, numbers, underscores, and hyphens", domain.ErrInvalidInput)
		}
	}
	for _, name := range []*string{firstName, lastName} {
		if name != nil && len(*name) > maxNameLen {
			return fmt.Errorf("%w: name must be at most %d characters long", domain.ErrInvalidInput, maxNameLen)
		}
	}
	if bio != nil && len(*bio) > maxBioLen {
		return fmt.Errorf("%w: bio must be at most %d characters long", domain.ErrInvalidInput, maxBioLen)
	}
	return nil
}

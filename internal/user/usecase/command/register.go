package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tranqv/shopcore/internal/user/domain"
	"github.com/tranqv/shopcore/pkg/auth"
	"github.com/tranqv/shopcore/pkg/logger"
)

// ErrUsernameTaken is returned when the username or email already exists
var ErrUsernameTaken = errors.New("username or email already taken")

// RegisterCommand creates a new customer account
type RegisterCommand struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// RegisterHandler handles account registration
type RegisterHandler struct {
	users domain.UserRepository
}

// NewRegisterHandler creates a new RegisterHandler
func NewRegisterHandler(users domain.UserRepository) *RegisterHandler {
	return &RegisterHandler{users: users}
}

// Handle validates the command, hashes the password and persists the account
func (h *RegisterHandler) Handle(ctx context.Context, cmd RegisterCommand) (*domain.User, error) {
	cmd.Username = strings.TrimSpace(cmd.Username)
	cmd.Email = strings.TrimSpace(strings.ToLower(cmd.Email))

	if cmd.Username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if cmd.Email == "" || !strings.Contains(cmd.Email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(cmd.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	if _, err := h.users.FindByUsername(cmd.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := h.users.FindByEmail(cmd.Email); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     cmd.Username,
		Email:        cmd.Email,
		PasswordHash: hash,
		FullName:     cmd.FullName,
		Role:         domain.RoleCustomer,
	}
	if err := h.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info(ctx).Str("username", user.Username).Msg("user registered")
	return user, nil
}

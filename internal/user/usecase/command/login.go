package command

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tranqv/shopcore/internal/user/domain"
	"github.com/tranqv/shopcore/pkg/auth"
	"github.com/tranqv/shopcore/pkg/logger"
)

// ErrInvalidCredentials is returned for a bad username or password; the two
// cases are indistinguishable on purpose
var ErrInvalidCredentials = errors.New("invalid username or password")

// LoginCommand authenticates an account
type LoginCommand struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult carries the signed token and the account it belongs to
type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// LoginHandler handles authentication
type LoginHandler struct {
	users domain.UserRepository
}

// NewLoginHandler creates a new LoginHandler
func NewLoginHandler(users domain.UserRepository) *LoginHandler {
	return &LoginHandler{users: users}
}

// Handle checks the credentials and issues a JWT
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	if cmd.Username == "" || cmd.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := h.users.FindByUsername(cmd.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !auth.CheckPassword(cmd.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	logger.Info(ctx).Str("username", user.Username).Msg("user logged in")
	return &LoginResult{Token: token, User: user}, nil
}

package query

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tranqv/shopcore/internal/user/domain"
)

// GetProfileQuery fetches the authenticated account
type GetProfileQuery struct {
	UserID uint
}

// GetProfileHandler handles profile lookups
type GetProfileHandler struct {
	users domain.UserRepository
}

// NewGetProfileHandler creates a new GetProfileHandler
func NewGetProfileHandler(users domain.UserRepository) *GetProfileHandler {
	return &GetProfileHandler{users: users}
}

// Handle returns the account for the id
func (h *GetProfileHandler) Handle(ctx context.Context, q GetProfileQuery) (*domain.User, error) {
	if q.UserID == 0 {
		return nil, fmt.Errorf("user_id is required")
	}
	user, err := h.users.FindByID(q.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

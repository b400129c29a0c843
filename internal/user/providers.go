package user

import (
	"gorm.io/gorm"

	"github.com/tranqv/shopcore/internal/user/domain"
	"github.com/tranqv/shopcore/internal/user/repository"
)

// ProvideUserRepository provides the user repository
func ProvideUserRepository(db *gorm.DB) domain.UserRepository {
	return repository.NewGormUserRepository(db)
}

//go:build wireinject
// +build wireinject

package user

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	httpdelivery "github.com/tranqv/shopcore/internal/user/delivery/http"
	"github.com/tranqv/shopcore/internal/user/usecase/command"
	"github.com/tranqv/shopcore/internal/user/usecase/query"
)

var RepositorySet = wire.NewSet(
	ProvideUserRepository,
)

var HandlerSet = wire.NewSet(
	command.NewRegisterHandler,
	command.NewLoginHandler,
	query.NewGetProfileHandler,
)

// InitializeHTTPHandler initializes the user HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*httpdelivery.UserHandler, error) {
	wire.Build(
		RepositorySet,
		HandlerSet,
		httpdelivery.NewUserHandler,
	)
	return nil, nil
}

package router

import (
	"github.com/costschef/user-service/internal/application"
	"github.com/costschef/user-service/internal/container"
	pginfra "github.com/costschef/user-service/internal/infrastructure/postgres"
	handlers "github.com/costschef/user-service/internal/interface/http"
	"github.com/costschef/user-service/internal/router/modules"
)

// InitModules initializes all application modules and registers them with
// the router registry. Called once during startup after the container
// singletons are in place.
func InitModules(r *Registry) {
	pool := container.GetPGPool()
	logger := container.GetLogger()

	users := pginfra.NewUserRepository(pool)
	creds := pginfra.NewCredentialRepository(pool)

	authSvc := application.NewAuthService(
		users,
		creds,
		container.GetHasher(),
		container.GetJWT(),
		container.GetMailSender(),
		logger,
	)
	userSvc := application.NewUserService(users, logger)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger), container.GetJWT()))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), container.GetJWT()))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

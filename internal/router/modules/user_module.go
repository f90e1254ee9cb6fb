package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/costschef/user-service/internal/container"
	handlers "github.com/costschef/user-service/internal/interface/http"
	"github.com/costschef/user-service/internal/interface/middleware"
	"github.com/costschef/user-service/pkg/helpers"
)

// UserModule wires the profile CRUD endpoints. Everything is bearer-protected.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Bearer(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/users", m.Handler.List)
		auth.GET("/users/:id", m.Handler.Get)
		auth.PUT("/users/:id", m.Handler.Update)
		auth.DELETE("/users/:id", m.Handler.Delete)
	}
}

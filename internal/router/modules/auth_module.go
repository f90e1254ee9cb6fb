package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/costschef/user-service/internal/container"
	handlers "github.com/costschef/user-service/internal/interface/http"
	"github.com/costschef/user-service/internal/interface/middleware"
	"github.com/costschef/user-service/pkg/helpers"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	confirmLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/register-confirm", confirmLimiter, m.Handler.VerifyOTP)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)

	// Reachable anonymous or authenticated; the handler relaxes the
	// already-verified guard when a valid token came along.
	rg.POST("/auth/refresh-otp",
		middleware.BearerOptional(m.JWT),
		middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil),
		m.Handler.RequestNewOTP,
	)

	// Protected
	auth := rg.Group("/")
	auth.Use(middleware.Bearer(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/auth/refresh-token", m.Handler.RefreshToken)
		auth.POST("/auth/password-reset", m.Handler.PasswordReset)
	}
}

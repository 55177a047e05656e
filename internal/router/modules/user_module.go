package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aditpras/taskboard/internal/container"
	repo "github.com/aditpras/taskboard/internal/domain/repository"
	handlers "github.com/aditpras/taskboard/internal/interface/http"
	"github.com/aditpras/taskboard/internal/interface/middleware"
	"github.com/aditpras/taskboard/pkg/helpers"
)

// UserModule wires user HTTP handlers and the auth gate into routes.
// Public: POST /api/user/register, POST /api/user/login
// Protected: PUT /api/user/:id, GET /api/user/profile
// Admin: DELETE /api/user/:id, GET /api/user/admin/users

type UserModule struct {
	Handler *handlers.UserHandler
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, users repo.UserRepository, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, Users: users, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/user")

	// Public with rate limiting
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())

	g.POST("/register", registerLimiter, m.Handler.Register)
	g.POST("/login", loginLimiter, m.Handler.Login)

	// Protected
	auth := g.Group("/")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	{
		auth.GET("/profile", m.Handler.Profile)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", middleware.AdminOnly(), m.Handler.Delete)
		auth.GET("/admin/users", middleware.AdminOnly(), m.Handler.ListNonAdmins)
	}
}

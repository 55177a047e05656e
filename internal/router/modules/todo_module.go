package modules

import (
	"github.com/gin-gonic/gin"

	repo "github.com/aditpras/taskboard/internal/domain/repository"
	handlers "github.com/aditpras/taskboard/internal/interface/http"
	"github.com/aditpras/taskboard/internal/interface/middleware"
	"github.com/aditpras/taskboard/pkg/helpers"
)

// TodoModule wires todo HTTP handlers behind the auth gate.
// Creation is admin-only at the route level; update and delete defer
// ownership checks to the service.

type TodoModule struct {
	Handler *handlers.TodoHandler
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
}

func NewTodoModule(h *handlers.TodoHandler, users repo.UserRepository, jwt *helpers.JWTManager) *TodoModule {
	return &TodoModule{Handler: h, Users: users, JWT: jwt}
}

func (m *TodoModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/todo")
	g.Use(middleware.Auth(m.Users, m.JWT))
	{
		g.POST("", middleware.AdminOnly(), m.Handler.Create)
		g.GET("", m.Handler.List)
		g.PUT("/:id", m.Handler.Update)
		g.DELETE("/:id", m.Handler.Delete)
	}
}

package router

import (
	"github.com/aditpras/taskboard/internal/application"
	"github.com/aditpras/taskboard/internal/container"
	"github.com/aditpras/taskboard/internal/infrastructure/mongodb"
	handlers "github.com/aditpras/taskboard/internal/interface/http"
	"github.com/aditpras/taskboard/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the
// router registry. Called once during application startup.
func InitModules(r *Registry) {
	db := container.GetMongo()
	logger := container.GetLogger()

	userRepo := mongodb.NewUserRepository(db)
	todoRepo := mongodb.NewTodoRepository(db)

	userSvc := application.NewUserService(userRepo, todoRepo, container.GetJWT(), logger)
	todoSvc := application.NewTodoService(todoRepo, userRepo, logger, container.GetRabbitPub())

	userHandler := handlers.NewUserHandler(userSvc, logger)
	todoHandler := handlers.NewTodoHandler(todoSvc, logger)

	r.Add(modules.NewUserModule(userHandler, userRepo, container.GetJWT()))
	r.Add(modules.NewTodoModule(todoHandler, userRepo, container.GetJWT()))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

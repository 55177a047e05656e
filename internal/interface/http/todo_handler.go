package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/aditpras/taskboard/internal/application"
	"github.com/aditpras/taskboard/internal/interface/middleware"
	"github.com/aditpras/taskboard/pkg/response"
	"github.com/aditpras/taskboard/pkg/validation"
)

type TodoHandler struct {
	Svc    *application.TodoService
	Logger *logrus.Logger
}

func NewTodoHandler(svc *application.TodoService, logger *logrus.Logger) *TodoHandler {
	return &TodoHandler{Svc: svc, Logger: logger}
}

type createTodoRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority" binding:"omitempty,priority"`
	UserID      string `json:"userId" binding:"required"`
}

type updateTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority" binding:"omitempty,priority"`
	UserID      string `json:"userId"`
	Completed   *bool  `json:"completed"`
}

func (h *TodoHandler) Create(c *gin.Context) {
	actor := middleware.AuthUser(c)
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	t, err := h.Svc.Create(c.Request.Context(), actor, application.CreateTodoInput{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		h.writeTodoError(c, err, "create todo failed")
		return
	}
	response.Success(c, http.StatusCreated, t, "task created successfully", nil)
}

func (h *TodoHandler) List(c *gin.Context) {
	actor := middleware.AuthUser(c)
	todos, err := h.Svc.List(c.Request.Context(), actor)
	if err != nil {
		h.writeTodoError(c, err, "list todos failed")
		return
	}
	response.Success(c, http.StatusOK, todos, "tasks", nil)
}

func (h *TodoHandler) Update(c *gin.Context) {
	actor := middleware.AuthUser(c)
	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	t, err := h.Svc.Update(c.Request.Context(), actor, c.Param("id"), application.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		UserID:      req.UserID,
		Completed:   req.Completed,
	})
	if err != nil {
		h.writeTodoError(c, err, "update todo failed")
		return
	}
	response.Success(c, http.StatusOK, t, "task updated successfully", nil)
}

func (h *TodoHandler) Delete(c *gin.Context) {
	actor := middleware.AuthUser(c)
	if err := h.Svc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.writeTodoError(c, err, "delete todo failed")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "task deleted successfully", nil)
}

func (h *TodoHandler) writeTodoError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, application.ErrInvalidUserID):
		response.Error[any](c, http.StatusBadRequest, "invalid userId format", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "assigned user not found", nil)
	case errors.Is(err, application.ErrTodoNotFound):
		response.Error[any](c, http.StatusNotFound, "task not found", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "access denied", nil)
	default:
		h.Logger.WithError(err).Error(logMsg)
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

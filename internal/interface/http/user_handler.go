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

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Fullname string `json:"fullname" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"omitempty,role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateUserRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,pwd"`
	Role     string `json:"role" binding:"omitempty,role"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "please enter all required fields", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Fullname: req.Fullname,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error[any](c, http.StatusBadRequest, "email already exists", nil)
			return
		}
		h.Logger.WithError(err).Error("register failed")
		response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": u, "token": token}, "user registered successfully", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "please enter email and password", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			// Same message for unknown email and wrong password.
			response.Error[any](c, http.StatusBadRequest, "invalid credentials", nil)
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Error[any](c, http.StatusInternalServerError, "login failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u, "token": token}, "login successful", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	actor := middleware.AuthUser(c)
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Update(c.Request.Context(), actor, c.Param("id"), application.UpdateUserInput{
		Fullname: req.Fullname,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.writeUserError(c, err, "update user failed")
		return
	}
	response.Success(c, http.StatusOK, u, "user updated successfully", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	actor := middleware.AuthUser(c)
	if err := h.Svc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.writeUserError(c, err, "delete user failed")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "user deleted successfully", nil)
}

// Profile returns the identity resolved by the auth middleware.
func (h *UserHandler) Profile(c *gin.Context) {
	u := middleware.AuthUser(c)
	if u == nil {
		response.Error[any](c, http.StatusUnauthorized, "not authorized", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "profile", nil)
}

func (h *UserHandler) ListNonAdmins(c *gin.Context) {
	actor := middleware.AuthUser(c)
	users, err := h.Svc.ListNonAdmins(c.Request.Context(), actor)
	if err != nil {
		h.writeUserError(c, err, "list users failed")
		return
	}
	response.Success(c, http.StatusOK, users, "users", nil)
}

func (h *UserHandler) writeUserError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "access denied", nil)
	default:
		h.Logger.WithError(err).Error(logMsg)
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

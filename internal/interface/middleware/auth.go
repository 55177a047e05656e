package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aditpras/taskboard/internal/domain/entity"
	repo "github.com/aditpras/taskboard/internal/domain/repository"
	"github.com/aditpras/taskboard/pkg/helpers"
	"github.com/aditpras/taskboard/pkg/response"
)

const (
	CtxUserIDKey   = "userID"
	CtxUserRoleKey = "userRole"
	CtxUserKey     = "authUser"
)

// Auth resolves the Authorization bearer token to a user identity and
// attaches it to the Gin context. The user record is re-read on every
// request so deleted accounts are rejected even with a live token.
func Auth(users repo.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "not authorized, no token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "not authorized, invalid token", nil)
			c.Abort()
			return
		}
		uid, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "not authorized, invalid token", nil)
			c.Abort()
			return
		}
		u, err := users.GetByID(c.Request.Context(), uid)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "user not found", nil)
			c.Abort()
			return
		}
		u.Password = "" // identity never carries the hash downstream

		c.Set(CtxUserIDKey, u.ID.Hex())
		c.Set(CtxUserRoleKey, string(u.Role))
		c.Set(CtxUserKey, u)
		c.Next()
	}
}

// AuthUser returns the identity attached by Auth, or nil when absent.
func AuthUser(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

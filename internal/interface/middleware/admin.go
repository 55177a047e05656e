package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aditpras/taskboard/internal/domain/entity"
	"github.com/aditpras/taskboard/pkg/response"
)

// AdminOnly rejects any authenticated identity that does not hold the admin
// role. Must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserRoleKey) != string(entity.RoleAdmin) {
			response.Error[any](c, http.StatusForbidden, "access denied, admins only", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

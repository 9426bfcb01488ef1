package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole is the single authorization gate for role-restricted routes.
// It must run after VerifyJWT. Requests whose principal holds none of the
// allowed roles are rejected with 403.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(ctx *gin.Context) {
		role := ctx.GetString(ContextKeyUserRole)
		if _, ok := allowed[role]; !ok {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		ctx.Next()
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/agromanage/agromanage/internal/auth"
	"github.com/agromanage/agromanage/internal/types"
	"github.com/gin-gonic/gin"
)

type AuthenticatedUser struct {
	ID       uint       `json:"id"`
	Username string     `json:"username"`
	Role     types.Role `json:"role"`
}

// AuthMiddleware requires a valid bearer token and stores the caller's
// claims under types.ContextUserKey.
func AuthMiddleware(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := issuer.ValidateToken(parts[1])

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:       claims.ID,
			Username: claims.Username,
			Role:     claims.Role,
		})
		ctx.Next()
	}
}

// RequireRoles rejects authenticated callers whose role is not listed. It
// must run after AuthMiddleware.
func RequireRoles(roles ...types.Role) gin.HandlerFunc {
	allowed := make(map[types.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(ctx *gin.Context) {
		value, exists := ctx.Get(types.ContextUserKey)
		user, ok := value.(AuthenticatedUser)

		if !exists || !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		if !allowed[user.Role] {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		ctx.Next()
	}
}

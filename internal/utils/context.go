package utils

import (
	"fmt"

	"github.com/agromanage/agromanage/internal/middleware"
	"github.com/agromanage/agromanage/internal/types"
	"github.com/gin-gonic/gin"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// IsAdmin reports whether the authenticated caller has the admin role.
func IsAdmin(ctx *gin.Context) bool {
	user, err := GetCurrentUser(ctx)

	return err == nil && user.Role == types.RoleAdmin
}

package middleware

import (
	"strings"

	"github.com/Govind-619/MintSphere/config"
	"github.com/Govind-619/MintSphere/models"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid bearer token and puts the user in the context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogDebug("AuthMiddleware called")

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.LogDebug("Missing Authorization header on %s", c.Request.URL.Path)
			utils.Unauthorized(c, utils.ErrAuthRequired)
			c.Abort()
			return
		}

		// Extract token from Bearer header
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			utils.LogError("Invalid Bearer token format")
			utils.Unauthorized(c, utils.ErrAuthRequired)
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.LogError("Invalid token: %v", err)
			utils.Unauthorized(c, utils.ErrInvalidToken)
			c.Abort()
			return
		}

		var user models.User
		if err := config.DB.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
			utils.LogError("User %d from token not found: %v", claims.UserID, err)
			utils.Unauthorized(c, utils.ErrInvalidToken)
			c.Abort()
			return
		}

		c.Set("user", user)
		utils.LogDebug("User %d authenticated", user.ID)
		c.Next()
	}
}

// AdminMiddleware requires the authenticated user to carry the admin role.
// It must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogDebug("AdminMiddleware called")

		user, exists := c.Get("user")
		if !exists {
			utils.LogError("User not found in context")
			utils.Unauthorized(c, utils.ErrAuthRequired)
			c.Abort()
			return
		}

		userModel, ok := user.(models.User)
		if !ok {
			utils.LogError("Invalid user type in context")
			utils.InternalServerError(c, utils.ErrInternalServer, nil)
			c.Abort()
			return
		}

		if !userModel.IsAdmin() {
			utils.LogError("Non-admin user attempted admin access: %d", userModel.ID)
			utils.Forbidden(c, utils.ErrAdminRequired)
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

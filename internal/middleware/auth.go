package middleware

import (
	"net/http"

	"spectra/internal/models"
	"spectra/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// LoadUser retrieves user from session and sets to context
func LoadUser(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			if id, ok := userID.(uint); ok {
				if user, err := users.GetByID(c.Request.Context(), id); err == nil {
					c.Set(CheckUserKey, user)
				}
			}
		}
		c.Next()
	}
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		c.Next()
	}
}

// RequireModerator 管理接口：owner/admin 才放行
func RequireModerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get(CheckUserKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		if !user.(*models.User).CanModerate() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}

// CurrentUser 从上下文取已加载的登录用户
func CurrentUser(c *gin.Context) (*models.User, bool) {
	user, exists := c.Get(CheckUserKey)
	if !exists {
		return nil, false
	}
	return user.(*models.User), true
}

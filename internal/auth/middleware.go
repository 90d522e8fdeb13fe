package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireAuth ensures the request carries an authenticated session. API
// clients get a JSON 401; they are expected to redirect to sign-in
// themselves.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		// Set context values for downstream handlers
		c.Set("user_id", userID)
		c.Set("user_email", session.Get("user_email"))
		c.Set("user_name", session.Get("user_name"))

		c.Next()
	}
}

// UserID returns the authenticated user's database ID from the request
// context. The second return is false when the middleware did not run or the
// session value has an unexpected type.
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

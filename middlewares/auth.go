package middlewares

import (
	"fmt"
	"net/http"
	"strings"

	"backend/entity"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// AuthMiddleware verifies the bearer token and (if given) enforces roles.
// The user row is re-read on every request: a profile disabled mid-session
// fails the very next check, which is what invalidates the credential.
func AuthMiddleware(db *gorm.DB, secret string, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing or invalid token"})
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(h, "Bearer ")

		claims := &utils.Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			c.Abort()
			return
		}

		var user entity.User
		if err := db.Select("id, email, role, disabled").First(&user, claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			c.Abort()
			return
		}
		if user.Disabled {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "account disabled"})
			c.Abort()
			return
		}

		// role comes from the row, not the token, so role changes apply immediately
		c.Set("userId", user.ID)
		c.Set("role", user.Role)
		c.Set("email", user.Email)

		if len(requiredRoles) > 0 {
			allowed := false
			for _, r := range requiredRoles {
				if user.Role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

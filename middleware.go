package main

import (
	"net/http"

	"workboard/models"
	"workboard/pkg/policy"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		token, err := jwt.Parse(authHeader[7:], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		sub, _ := claims["sub"].(float64)
		if sub <= 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		c.Set("uid", uint(sub))
		c.Next()
	}
}

// currentPrincipal resolves the authenticated principal for this request.
// The role is read from the profile row, not the token, so a role change
// takes effect immediately rather than on the next token refresh.
func currentPrincipal(c *gin.Context) (policy.Principal, bool) {
	uidVal, ok := c.Get("uid")
	if !ok {
		return policy.Principal{}, false
	}
	uid := uidVal.(uint)
	var profile models.Profile
	if err := db.WithContext(c.Request.Context()).Where("user_id = ?", uid).First(&profile).Error; err != nil {
		// Profile is created lazily on sign-in; a valid token without one
		// means the account was deleted underneath the session.
		return policy.Principal{}, false
	}
	return policy.Principal{ID: uid, Role: profile.Role}, true
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := currentPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			c.Abort()
			return
		}
		if !p.Admin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}

package authentication

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"clinic-connect/configuration"
	"clinic-connect/gateway"
	"clinic-connect/models"
)

// AuthenticateToken parses and verifies a bearer token issued by the backend.
// The signing key is shared; this service never issues tokens itself.
func AuthenticateToken(signedToken string) (*models.UserClaims, error) {
	var claims models.UserClaims
	token, err := jwt.ParseWithClaims(signedToken, &claims, func(token *jwt.Token) (interface{}, error) {
		return configuration.JWTKey(), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	return &claims, nil
}

// AuthMiddleware requires a bearer token, verifies it and stashes the
// principal plus the raw token so outbound gateway calls can forward it.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "User Authorization is missing"})
			return
		}

		authHeader := strings.Replace(tokenString, "Bearer ", "", 1)
		claims, err := AuthenticateToken(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": err.Error()})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		c.Request = c.Request.WithContext(gateway.WithToken(c.Request.Context(), authHeader))
	}
}

// AdminOnly gates the admin route group.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := c.Get("role"); role != "admin" {
			c.AbortWithStatusJSON(403, gin.H{"error": "Admin access required"})
			return
		}
	}
}

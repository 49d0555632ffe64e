package web

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/zh1gn/FoundItBot/internal/config"
)

const adminIDContextKey = "adminID"

// adminClaims is the payload carried by admin API tokens.
type adminClaims struct {
	AdminID int64 `json:"admin_id"`
	jwt.RegisteredClaims
}

// IssueAdminToken mints a signed bearer token for the given admin id.
func IssueAdminToken(jwtCfg config.JWTConfig, adminID int64) (string, error) {
	if strings.TrimSpace(jwtCfg.Secret) == "" {
		return "", fmt.Errorf("web: jwt secret is not configured")
	}
	now := time.Now()
	claims := adminClaims{
		AdminID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtCfg.Expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, errSign := token.SignedString([]byte(jwtCfg.Secret))
	if errSign != nil {
		return "", fmt.Errorf("web: sign admin token: %w", errSign)
	}
	return signed, nil
}

// parseAdminToken verifies the signature and expiry of an admin token.
func parseAdminToken(secret, tokenString string) (*adminClaims, error) {
	claims := &adminClaims{}
	token, errParse := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("web: unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if errParse != nil {
		return nil, fmt.Errorf("web: parse admin token: %w", errParse)
	}
	if !token.Valid {
		return nil, fmt.Errorf("web: invalid admin token")
	}
	return claims, nil
}

// adminAuthMiddleware validates admin bearer tokens and loads the admin id
// into the request context. An empty secret rejects every request.
func adminAuthMiddleware(jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		if strings.TrimSpace(jwtCfg.Secret) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin api disabled"})
			return
		}

		claims, errJWT := parseAdminToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(adminIDContextKey, claims.AdminID)
		c.Next()
	}
}

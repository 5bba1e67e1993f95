package api

import (
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

const userKey = "larder.user"

// Auth validates bearer tokens and attaches the user id to the
// request. With an empty secret (development mode) every request runs
// as the "default" user.
type Auth struct {
	secret []byte
}

// NewAuth creates the auth helper. secret may be empty for dev mode.
func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// Middleware returns the gin handler enforcing authentication.
func (a *Auth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(a.secret) == 0 {
			c.Set(userKey, "default")
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims := jwt.MapClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return a.secret, nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token missing subject"})
			return
		}
		c.Set(userKey, sub)
		c.Next()
	}
}

// userID returns the authenticated user for the request.
func userID(c *gin.Context) string {
	if v, ok := c.Get(userKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "default"
}

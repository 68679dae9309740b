package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// issueSessionToken signs a token whose subject is the workspace id. There
// are no user accounts; the token is just an unforgeable session handle.
func (s *server) issueSessionToken(sessionID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sessionID,
		"exp": time.Now().Add(sessionTTL).Unix(),
	})
	return token.SignedString(s.jwtSecret)
}

// sessionMiddleware resolves the Bearer token to its in-memory workspace
// and stores it on the request context.
func (s *server) sessionMiddleware() gin.HandlerFunc {
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
			return s.jwtSecret, nil
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
		sid, _ := claims["sid"].(string)
		sess, ok := s.sessions.get(sid)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			c.Abort()
			return
		}
		c.Set("session", sess)
		c.Next()
	}
}

// sessionFromContext fetches the workspace set by sessionMiddleware.
func sessionFromContext(c *gin.Context) (*session, bool) {
	v, ok := c.Get("session")
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session)
	return sess, ok
}

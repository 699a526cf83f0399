package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/arsip/internal/common"
	"github.com/dmitrijs2005/arsip/internal/models"
	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

// authRequired resolves the bearer token to the current user record and
// stores it under actorKey.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			abortWithError(c, http.StatusUnauthorized, "missing token")
			return
		}

		userID, err := UserIDFromToken(token, s.jwtSecret)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}

		u, err := s.svc.Auth.Lookup(userID)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "unknown user")
			return
		}

		c.Set(actorKey, u)
		c.Next()
	}
}

func adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !actor(c).IsAdmin() {
			abortWithError(c, http.StatusForbidden, common.ErrForbidden.Error())
			return
		}
		c.Next()
	}
}

func actor(c *gin.Context) models.User {
	u, _ := c.Get(actorKey)
	user, _ := u.(models.User)
	return user
}

package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	obscontext "github.com/sobremesalab/sobremesa/internal/observability/context"
)

const contextUserIDKey = "user_id"

// AuthRequired resolves the session cookie into an authenticated user id.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		session, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserIDKey, session.UserID)
		c.Request = c.Request.WithContext(
			obscontext.WithUserID(c.Request.Context(), session.UserID.String()),
		)
		c.Next()
	}
}

// currentUserID returns the authenticated user id set by AuthRequired.
func currentUserID(c *gin.Context) (snowflake.ID, bool) {
	value, ok := c.Get(contextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := value.(snowflake.ID)
	return id, ok
}

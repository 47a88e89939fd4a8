package server

import (
	"errors"
	"net/http"
	"strings"

	"trade-desk-go/internal/session"
	"trade-desk-go/internal/store"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// authMiddleware verifies the bearer token and attaches the resulting
// session to the request context.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		sess, err := s.sessions.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// requireAdmin gates admin-only routes on the session role.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if !sess.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) session.Session {
	value, ok := c.Get(sessionKey)
	if !ok {
		return session.Session{}
	}
	sess, _ := value.(session.Session)
	return sess
}

// writeStoreError maps store sentinels to HTTP responses so the UI can render
// specific messages.
func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_amount"})
	case errors.Is(err, store.ErrInsufficientFunds):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "insufficient_funds"})
	case errors.Is(err, store.ErrInsufficientHoldings):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "insufficient_holdings"})
	case errors.Is(err, store.ErrWalletInactive):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "wallet_inactive"})
	case errors.Is(err, store.ErrAlreadyResolved):
		c.JSON(http.StatusConflict, gin.H{"error": "already_resolved"})
	case errors.Is(err, store.ErrDuplicateTrade):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate_trade"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

package handlers

import (
	"net/http"

	"techblog/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	// sessionCookieName is the cookie the token travels in, matching
	// what the deployed frontend expects.
	sessionCookieName = "token"

	claimsContextKey = "sessionClaims"
)

const (
	errNoToken      = "Unauthorized: No token provided"
	errInvalidToken = "Unauthorized: Invalid token"
)

// sessionRequired reads the session cookie, verifies the token and
// stores the decoded claims in the request context. An absent cookie
// and a failed verification both end in 401; nothing else may pass.
func (h *Handler) sessionRequired(c *gin.Context) {
	token, err := c.Cookie(sessionCookieName)
	if err != nil || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errNoToken})
		return
	}

	claims, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidToken})
		return
	}

	c.Set(claimsContextKey, claims)
	c.Next()
}

// currentClaims returns the claims stored by sessionRequired.
func currentClaims(c *gin.Context) (*service.Claims, bool) {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*service.Claims)
	return claims, ok
}

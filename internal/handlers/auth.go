package handlers

import (
	"errors"
	"net/http"

	"techblog/internal/service"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials payload for both signup and signin.
type authCredentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

const (
	errInvalidCredentials = "invalid credentials"
	errUsernameTaken      = "username already taken"
	errSignUpFailed       = "could not create user"
	errSignInFailed       = "could not sign in"
)

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("auth_bad_request_body", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// setSessionCookie attaches the token as an httpOnly cookie permissive
// enough for cross-site calls from the frontend origin.
func (h *Handler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(sessionCookieName, token, maxAge, "/", "", h.cfg.SecureCookie, true)
}

// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body  authCredentials  true  "username and password"
// @Success      201  {object}  models.User
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /auth/signup [post]
func (h *Handler) signUp(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	user, err := h.services.SignUp(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": errUsernameTaken})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errSignUpFailed,
			"auth_sign_up_failed", err, "username", input.Username)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body  authCredentials  true  "username and password"
// @Success      200  {object}  models.User  "session cookie is set"
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/signin [post]
func (h *Handler) signIn(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, user, err := h.services.SignIn(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errInvalidCredentials})
		case errors.Is(err, service.ErrInvalidPassword):
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errSignInFailed,
				"auth_sign_in_failed", err, "username", input.Username)
		}
		return
	}

	h.setSessionCookie(c, token, 0)
	c.JSON(http.StatusOK, user)
}

// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "id, name"
// @Failure      401  {object}  map[string]string
// @Router       /auth/profile [get]
func (h *Handler) profile(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errNoToken})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": claims.UserID, "name": claims.Name})
}

// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/signout [post]
func (h *Handler) signOut(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Success: User signed out"})
}

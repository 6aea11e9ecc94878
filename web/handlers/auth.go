package handlers

import (
	"crypto/subtle"
	"net/http"

	"clozesmith/config"
	"clozesmith/web/middleware"
	"clozesmith/web/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	cfg    *config.Config
	secret []byte
	logger *zap.Logger
}

func NewAuthHandler(cfg *config.Config, secret []byte, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, secret: secret, logger: logger}
}

// Login checks the shared password and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	if h.cfg.AuthPassword == "" {
		c.JSON(http.StatusOK, gin.H{"status": "open access"})
		return
	}

	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "password is required")
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.AuthPassword)) != 1 {
		h.logger.Warn("Failed login attempt", zap.String("ip", c.ClientIP()))
		respondWithClientError(c, http.StatusUnauthorized, "wrong password")
		return
	}

	token, err := middleware.MintSessionToken(h.secret, h.cfg.SessionTTL)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "could not create session", h.logger)
		return
	}

	maxAge := int(h.cfg.SessionTTL.Seconds())
	c.SetCookie(middleware.SessionCookieName, token, maxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

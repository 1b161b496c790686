package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"greencurry/internal/infra/security"
)

type AuthHandler struct {
	Username     string
	PasswordHash string
	Hasher       security.BcryptHasher
	Issuer       security.TokenIssuer
	Logger       *slog.Logger
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Username != h.Username || h.Hasher.Compare(h.PasswordHash, req.Password) != nil {
		if h.Logger != nil {
			h.Logger.Info("login rejected", "username", req.Username)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	token, err := h.Issuer.Issue(req.Username, "admin", time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": req.Username, "role": "admin", "token": token})
}

var _ AuthHTTP = AuthHandler{}

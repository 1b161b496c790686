package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"greencurry/internal/infra/security"
)

const claimsContextKey = "greencurry.claims"

// AdminGuard rejects requests without a valid admin bearer token.
type AdminGuard struct {
	Issuer security.TokenIssuer
}

func (g AdminGuard) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return
	}
	claims, err := g.Issuer.Verify(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	if claims.Role != "admin" {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return
	}
	c.Set(claimsContextKey, claims)
	c.Next()
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

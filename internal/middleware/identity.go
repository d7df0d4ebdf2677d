package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	companyIDHeader = "X-Company-ID"
	userIDHeader    = "X-User-ID"

	companyIDContextKey = "companyID"
	userIDContextKey    = "userID"
)

// IdentityMiddleware extracts the calling company and user from the gateway
// headers and stores them in the gin context. Authentication itself happens at
// the gateway; every request reaching this service must already carry both.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := c.GetHeader(companyIDHeader)
		userID := c.GetHeader(userIDHeader)
		if companyID == "" || userID == "" {
			GetLoggerFromCtx(c.Request.Context()).Warn("Request missing identity headers",
				slog.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing identity headers"})
			return
		}
		c.Set(companyIDContextKey, companyID)
		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

// GetCompanyIDFromContext retrieves the calling company ID set by IdentityMiddleware.
func GetCompanyIDFromContext(c *gin.Context) (string, bool) {
	companyID := c.GetString(companyIDContextKey)
	return companyID, companyID != ""
}

// GetUserIDFromContext retrieves the calling user ID set by IdentityMiddleware.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID := c.GetString(userIDContextKey)
	return userID, userID != ""
}

package middleware

import (
	"errors"
	"net/http"

	"github.com/fes-crm/clientgate/internal/backend"
	"github.com/fes-crm/clientgate/internal/gateway"
	"github.com/fes-crm/clientgate/internal/model"
	"github.com/fes-crm/clientgate/internal/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

// AuthGateMiddleware asks the backend whether the caller may use the
// application at all. Three outcomes:
//
//   - authorized: proceed.
//   - operatorMissing: proceed. Nobody has bootstrapped the admin list
//     yet, and blocking here would make bootstrapping impossible.
//   - unauthorized: 403.
//
// A backend session still being established is not a verdict; the caller
// sees 503 with a loading marker and retries.
func AuthGateMiddleware(gw *gateway.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := gw.IsAuthorized(c.Request.Context())
		if err != nil {
			if errors.Is(err, backend.ErrNotReady) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
				c.Abort()
				return
			}
			c.Error(apperrors.New(apperrors.ErrUpstream, "authorization check failed", err))
			c.Abort()
			return
		}

		if result.Status == model.AuthUnauthorized {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "access denied",
				"message": result.Message,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

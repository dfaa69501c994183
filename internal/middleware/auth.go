package middleware

import (
	"net/http"

	"storefront-be/internal/apperror"
	"storefront-be/internal/auth"
	"storefront-be/internal/logger"
	"storefront-be/internal/response"
	"storefront-be/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth requires a valid access token and puts the account into the request
// context.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := auth.ExtractAccessToken(c.Request)
		if tokenStr == "" {
			response.Abort(c, http.StatusUnauthorized, apperror.Unauthorized.String(), "authentication required")
			return
		}

		claims, err := auth.ParseToken(secret, tokenStr)
		if err != nil {
			logger.FromCtx(c.Request.Context()).Debug("rejected token",
				zap.String("layer", "middleware"),
				zap.Error(err),
			)
			response.Abort(c, http.StatusUnauthorized, apperror.Unauthorized.String(), "invalid or expired token")
			return
		}

		ctx := utils.SetUserContext(c.Request.Context(), claims.UserID, claims.Email, claims.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if _, ok := utils.GetUserIDFromContext(ctx); !ok {
			response.Abort(c, http.StatusUnauthorized, apperror.Unauthorized.String(), "authentication required")
			return
		}
		if !utils.IsAdmin(ctx) {
			response.Abort(c, http.StatusForbidden, apperror.Forbidden.String(), "admin access required")
			return
		}
		c.Next()
	}
}

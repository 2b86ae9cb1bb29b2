package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/speechkit/errors"
)

// ClaimsKey is the gin.Context key holding the validated token claims.
const ClaimsKey = "auth_claims"

// AuthConfig configures bearer-token authentication.
type AuthConfig struct {
	// Validate checks a raw token and returns its claims.
	Validate func(token string) (any, error)
	// SkipPaths are path prefixes served without a token.
	SkipPaths []string
}

// Auth rejects requests without a valid "Authorization: Bearer" token with
// an UNAUTHORIZED error body. Validated claims are stored under ClaimsKey.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		switch {
		case header == "":
			abortUnauthorized(c, "authorization header required")
			return
		case !ok || !strings.EqualFold(scheme, "Bearer") || token == "":
			abortUnauthorized(c, "expected a bearer token")
			return
		}

		claims, err := cfg.Validate(token)
		if err != nil {
			_ = c.Error(err)
			abortUnauthorized(c, "invalid token")
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, reason string) {
	appErr := apperrors.Unauthorized(reason)
	c.Header("WWW-Authenticate", `Bearer realm="speechkit"`)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirelens/hirelens/internal/apperr"
	"github.com/hirelens/hirelens/internal/dto"
	"github.com/hirelens/hirelens/internal/token"
	"github.com/rs/zerolog/log"
)

const principalKey = "applicantPrincipal"

// ApplicantAuth verifies the bearer token and stores the resulting principal
// on the context. Every rejection looks identical to the caller; the real
// reason only goes to the logs.
func ApplicantAuth(authn *token.ApplicantAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := token.ExtractBearer(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
			return
		}

		principal, err := authn.Verify(raw)
		if err != nil {
			var authErr *apperr.AuthError
			if errors.As(err, &authErr) {
				log.Warn().Str("reason", string(authErr.Reason)).Str("path", c.FullPath()).Msg("Applicant token rejected")
			} else {
				log.Error().Err(err).Str("path", c.FullPath()).Msg("Applicant token verification error")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// PrincipalFrom returns the authenticated principal placed by ApplicantAuth.
func PrincipalFrom(c *gin.Context) (*token.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	principal, ok := value.(*token.Principal)
	return principal, ok
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirelens/hirelens/internal/dto"
	"github.com/hirelens/hirelens/internal/token"
)

// InterviewAccess guards interview-scoped routes with the signed interview
// token. The token is bound to the public id in the path, so a token for one
// interview never opens another.
func InterviewAccess(signer *token.InterviewTokenSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		publicID := c.Param("public_id")
		tok := c.GetHeader("X-Interview-Token")
		if tok == "" {
			tok = c.Query("interview_token")
		}
		if publicID == "" || !signer.Verify(tok, publicID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Valid interview token required"})
			return
		}
		c.Next()
	}
}

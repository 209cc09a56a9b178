package public

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirelens/hirelens/internal/apperr"
	"github.com/hirelens/hirelens/internal/dto"
	"github.com/hirelens/hirelens/internal/repository"
	"github.com/hirelens/hirelens/internal/token"
	"github.com/rs/zerolog/log"
)

// AuthController exchanges phase tokens for an authenticated session payload.
// Rejections never disclose why a token was refused.
type AuthController struct {
	authn         *token.ApplicantAuthenticator
	signer        *token.InterviewTokenSigner
	applicantRepo repository.ApplicantRepository
	interviewRepo repository.InterviewRepository
}

func NewAuthController(
	authn *token.ApplicantAuthenticator,
	signer *token.InterviewTokenSigner,
	applicantRepo repository.ApplicantRepository,
	interviewRepo repository.InterviewRepository,
) *AuthController {
	return &AuthController{
		authn:         authn,
		signer:        signer,
		applicantRepo: applicantRepo,
		interviewRepo: interviewRepo,
	}
}

// MagicLogin godoc
// @Summary Enter via a magic-link token
// @Description Verify a phase1, phase2 or retake token and return the applicant session. Retake tokens additionally return the interview-scoped access token.
// @Tags Auth
// @Produce json
// @Param token path string true "Applicant phase token"
// @Success 200 {object} dto.MagicLoginResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired token"
// @Router /auth/magic-login/{token} [post]
func (c *AuthController) MagicLogin(ctx *gin.Context) {
	principal, err := c.authn.Verify(ctx.Param("token"))
	if err != nil {
		c.reject(ctx, err)
		return
	}

	resp, err := c.buildSession(principal)
	if err != nil {
		c.reject(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// QRLogin godoc
// @Summary Enter via a QR token and rotate it
// @Description Verify a phase2 token, then issue a fresh one. Issuing supersedes every previously issued phase2 token for this applicant.
// @Tags Auth
// @Produce json
// @Param token path string true "Phase2 applicant token"
// @Success 200 {object} dto.MagicLoginResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired token"
// @Router /auth/qr-login/{token} [post]
func (c *AuthController) QRLogin(ctx *gin.Context) {
	principal, err := c.authn.Verify(ctx.Param("token"))
	if err != nil {
		c.reject(ctx, err)
		return
	}
	if principal.Phase != token.PhaseQR {
		c.reject(ctx, apperr.Rejected(apperr.ReasonInvalidType))
		return
	}

	fresh, _, err := c.authn.IssuePhase2(principal.ApplicantID)
	if err != nil {
		log.Error().Err(err).Uint("applicantID", principal.ApplicantID).Msg("Failed to rotate phase2 token")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
		return
	}

	resp, err := c.buildSession(principal)
	if err != nil {
		c.reject(ctx, err)
		return
	}
	resp.RotatedToken = fresh
	ctx.JSON(http.StatusOK, resp)
}

func (c *AuthController) buildSession(principal *token.Principal) (*dto.MagicLoginResponse, error) {
	applicant, err := c.applicantRepo.FindByID(principal.ApplicantID)
	if err != nil {
		return nil, apperr.Rejected(apperr.ReasonNotFound)
	}

	resp := &dto.MagicLoginResponse{
		ApplicantID:        applicant.ID,
		FullName:           applicant.FullName(),
		Email:              applicant.Email,
		Phase:              string(principal.Phase),
		InterviewCompleted: applicant.InterviewCompleted,
	}

	if principal.Phase == token.PhaseRetake {
		interview, err := c.interviewRepo.FindByIDForApplicant(principal.InterviewID, principal.ApplicantID)
		if err != nil {
			return nil, apperr.Rejected(apperr.ReasonInterviewNotFound)
		}
		resp.InterviewPublicID = interview.PublicID
		resp.InterviewToken = c.signer.Generate(interview.PublicID)
	}

	return resp, nil
}

func (c *AuthController) reject(ctx *gin.Context, err error) {
	var authErr *apperr.AuthError
	if errors.As(err, &authErr) {
		log.Warn().Str("reason", string(authErr.Reason)).Msg("Login token rejected")
	} else {
		log.Error().Err(err).Msg("Login verification error")
	}
	ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
}

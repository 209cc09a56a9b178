package public

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hirelens/hirelens/internal/controller"
	"github.com/hirelens/hirelens/internal/dto"
	"github.com/hirelens/hirelens/internal/middleware"
	"github.com/hirelens/hirelens/internal/service"
	"github.com/hirelens/hirelens/internal/token"
	"github.com/rs/zerolog/log"
)

// InterviewController serves the applicant-facing interview flow.
type InterviewController struct {
	interviewSvc  service.InterviewService
	processingSvc service.ProcessingService
	signer        *token.InterviewTokenSigner
}

func NewInterviewController(
	interviewSvc service.InterviewService,
	processingSvc service.ProcessingService,
	signer *token.InterviewTokenSigner,
) *InterviewController {
	return &InterviewController{
		interviewSvc:  interviewSvc,
		processingSvc: processingSvc,
		signer:        signer,
	}
}

// CreateInterview godoc
// @Summary Start a new interview
// @Description Create an interview for the authenticated applicant. The question list is selected and frozen at creation. The response includes the interview-scoped access token for all further interview calls.
// @Tags Interviews
// @Accept json
// @Produce json
// @Param interview body dto.CreateInterviewRequest true "Category and retake flag"
// @Success 201 {object} dto.CreateInterviewResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired token"
// @Failure 422 {object} dto.ErrorResponse "Question bank cannot satisfy the blueprint"
// @Router /public/interviews [post]
func (c *InterviewController) CreateInterview(ctx *gin.Context) {
	principal, ok := middleware.PrincipalFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
		return
	}

	var req dto.CreateInterviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateInterview: failed to bind request")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if principal.Phase == token.PhaseRetake {
		req.IsRetake = true
	}

	detail, err := c.interviewSvc.Create(principal.ApplicantID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreateInterviewResponse{
		Interview:   *detail,
		AccessToken: c.signer.Generate(detail.PublicID),
	})
}

// GetInterview godoc
// @Summary Get an interview
// @Description Retrieve an interview by its public id. Retrieval of an in-progress interview recomputes the resume position.
// @Tags Interviews
// @Produce json
// @Param public_id path string true "Interview public id"
// @Success 200 {object} dto.InterviewDetail
// @Failure 401 {object} dto.ErrorResponse "Valid interview token required"
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Failure 409 {object} dto.ErrorResponse "Interview expired"
// @Router /public/interviews/{public_id} [get]
func (c *InterviewController) GetInterview(ctx *gin.Context) {
	detail, err := c.interviewSvc.GetByPublicID(ctx.Param("public_id"))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// RecordAnswer godoc
// @Summary Record a video answer
// @Description Store one video answer for a question in this interview. A question can only be answered once; over-long durations are capped and flagged.
// @Tags Interviews
// @Accept json
// @Produce json
// @Param public_id path string true "Interview public id"
// @Param answer body dto.RecordAnswerRequest true "Answer payload"
// @Success 201 {object} dto.AnswerReceipt
// @Failure 400 {object} dto.ErrorResponse "Question not in interview or already answered"
// @Failure 401 {object} dto.ErrorResponse "Valid interview token required"
// @Failure 409 {object} dto.ErrorResponse "Interview already submitted or expired"
// @Router /public/interviews/{public_id}/video-response [post]
func (c *InterviewController) RecordAnswer(ctx *gin.Context) {
	var req dto.RecordAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("RecordAnswer: failed to bind request")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	receipt, err := c.interviewSvc.RecordAnswer(ctx.Param("public_id"), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, receipt)
}

// SubmitInterview godoc
// @Summary Submit an interview for analysis
// @Description Finalize the interview and enqueue background analysis. Submitting an interview that is already processing is a no-op that reports the current state. force=true re-queues a finished or failed run.
// @Tags Interviews
// @Produce json
// @Param public_id path string true "Interview public id"
// @Param force query bool false "Re-queue even after a finished or failed run"
// @Success 202 {object} dto.SubmitResult
// @Failure 400 {object} dto.ErrorResponse "No answers recorded"
// @Failure 401 {object} dto.ErrorResponse "Valid interview token required"
// @Failure 409 {object} dto.ErrorResponse "Already finalized, or retry requires force"
// @Router /public/interviews/{public_id}/submit [post]
func (c *InterviewController) SubmitInterview(ctx *gin.Context) {
	force, _ := strconv.ParseBool(ctx.DefaultQuery("force", "false"))

	result, err := c.interviewSvc.Submit(ctx.Param("public_id"), force)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusAccepted, result)
}

// ProcessingStatus godoc
// @Summary Get analysis progress
// @Description Report processing state, per-video progress and a linear time estimate.
// @Tags Interviews
// @Produce json
// @Param public_id path string true "Interview public id"
// @Success 200 {object} dto.ProcessingStatus
// @Failure 401 {object} dto.ErrorResponse "Valid interview token required"
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Router /public/interviews/{public_id}/processing-status [get]
func (c *InterviewController) ProcessingStatus(ctx *gin.Context) {
	status, err := c.processingSvc.Status(ctx.Param("public_id"))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, status)
}

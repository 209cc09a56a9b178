package hr

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/hirelens/hirelens/internal/apperr"
	"github.com/hirelens/hirelens/internal/controller"
	"github.com/hirelens/hirelens/internal/dto"
	"github.com/hirelens/hirelens/internal/model"
	"github.com/hirelens/hirelens/internal/repository"
	"github.com/hirelens/hirelens/internal/selection"
	"github.com/hirelens/hirelens/internal/token"
	"github.com/rs/zerolog/log"
)

// AdminController backs the HR tooling: question bank management, applicant
// records and token issuance.
type AdminController struct {
	applicantRepo repository.ApplicantRepository
	categoryRepo  repository.JobCategoryRepository
	questionRepo  repository.QuestionRepository
	interviewRepo repository.InterviewRepository
	authn         *token.ApplicantAuthenticator
	validate      *validator.Validate
}

func NewAdminController(
	applicantRepo repository.ApplicantRepository,
	categoryRepo repository.JobCategoryRepository,
	questionRepo repository.QuestionRepository,
	interviewRepo repository.InterviewRepository,
	authn *token.ApplicantAuthenticator,
	validate *validator.Validate,
) *AdminController {
	return &AdminController{
		applicantRepo: applicantRepo,
		categoryRepo:  categoryRepo,
		questionRepo:  questionRepo,
		interviewRepo: interviewRepo,
		authn:         authn,
		validate:      validate,
	}
}

// CreateApplicant godoc
// @Summary (HR) Register an applicant
// @Tags HR
// @Accept json
// @Produce json
// @Param applicant body dto.CreateApplicantRequest true "Applicant data"
// @Success 201 {object} model.Applicant
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Router /hr/applicants [post]
func (c *AdminController) CreateApplicant(ctx *gin.Context) {
	var req dto.CreateApplicantRequest
	if !c.bind(ctx, &req) {
		return
	}

	applicant := &model.Applicant{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if err := c.applicantRepo.Create(applicant); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to create applicant")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create applicant", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, applicant)
}

// CreateJobCategory godoc
// @Summary (HR) Create a job category
// @Tags HR
// @Accept json
// @Produce json
// @Param category body dto.CreateJobCategoryRequest true "Category data"
// @Success 201 {object} model.JobCategory
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Router /hr/job-categories [post]
func (c *AdminController) CreateJobCategory(ctx *gin.Context) {
	var req dto.CreateJobCategoryRequest
	if !c.bind(ctx, &req) {
		return
	}

	category := &model.JobCategory{Code: req.Code, Title: req.Title, IsActive: true}
	if err := c.categoryRepo.Create(category); err != nil {
		log.Error().Err(err).Str("code", req.Code).Msg("Failed to create job category")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create job category", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, category)
}

// CreateQuestion godoc
// @Summary (HR) Add a question to the bank
// @Description The competency must be one the selection blueprint or its fallback chains can reach; anything else would never be asked.
// @Tags HR
// @Accept json
// @Produce json
// @Param question body dto.CreateQuestionRequest true "Question data"
// @Success 201 {object} model.InterviewQuestion
// @Failure 400 {object} dto.ErrorResponse "Invalid input or unknown competency"
// @Router /hr/questions [post]
func (c *AdminController) CreateQuestion(ctx *gin.Context) {
	var req dto.CreateQuestionRequest
	if !c.bind(ctx, &req) {
		return
	}

	if !selection.KnownCompetency(req.Competency) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Message: "Unknown competency",
			Details: []string{"competency " + req.Competency + " is not reachable by the selection blueprint"},
		})
		return
	}
	category, err := c.categoryRepo.FindByCode(req.CategoryCode)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Job category not found"})
		return
	}

	question := &model.InterviewQuestion{
		CategoryID:   category.ID,
		QuestionText: req.QuestionText,
		Competency:   req.Competency,
		QuestionType: model.QuestionTypeGeneral,
		Order:        req.Order,
		IsActive:     true,
	}
	if err := c.questionRepo.Create(question); err != nil {
		log.Error().Err(err).Msg("Failed to create question")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create question", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, question)
}

// InviteApplicant godoc
// @Summary (HR) Issue an initial invite token
// @Description Mint a phase1 magic-link token for the applicant, optionally with a custom expiry.
// @Tags HR
// @Accept json
// @Produce json
// @Param id path int true "Applicant ID"
// @Param invite body dto.InviteApplicantRequest false "Optional expiry override"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Applicant not found"
// @Router /hr/applicants/{id}/invite [post]
func (c *AdminController) InviteApplicant(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid applicant ID"})
		return
	}

	var req dto.InviteApplicantRequest
	if ctx.Request.ContentLength > 0 {
		if !c.bind(ctx, &req) {
			return
		}
	}

	applicant, err := c.applicantRepo.FindByID(uint(id))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Applicant not found"})
		return
	}

	ttl := time.Duration(req.ExpiryHours) * time.Hour
	signed, expiresAt, err := c.authn.IssuePhase1(applicant.ID, ttl)
	if err != nil {
		log.Error().Err(err).Uint("applicantID", applicant.ID).Msg("Failed to issue invite token")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
		return
	}
	ctx.JSON(http.StatusOK, dto.TokenResponse{Token: signed, Phase: string(token.PhaseInitial), ExpiresAt: expiresAt})
}

// IssueRetakeToken godoc
// @Summary (HR) Issue a retake token for one interview
// @Description Mint a token scoped to a single existing interview. Its expiry tracks the interview's own deadline.
// @Tags HR
// @Produce json
// @Param id path int true "Applicant ID"
// @Param interview_id path int true "Interview ID"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Interview not found for applicant"
// @Router /hr/applicants/{id}/interviews/{interview_id}/retake-token [post]
func (c *AdminController) IssueRetakeToken(ctx *gin.Context) {
	applicantID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid applicant ID"})
		return
	}
	interviewID, err := strconv.ParseUint(ctx.Param("interview_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid interview ID"})
		return
	}

	interview, err := c.interviewRepo.FindByIDForApplicant(uint(interviewID), uint(applicantID))
	if err != nil {
		controller.RespondError(ctx, apperr.NotFoundf("interview not found for applicant"))
		return
	}

	var expiresAt time.Time
	if interview.ExpiresAt != nil {
		expiresAt = *interview.ExpiresAt
	}
	signed, tokenExpiry, err := c.authn.IssueRetake(uint(applicantID), interview.ID, expiresAt)
	if err != nil {
		log.Error().Err(err).Uint("interviewID", interview.ID).Msg("Failed to issue retake token")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
		return
	}
	ctx.JSON(http.StatusOK, dto.TokenResponse{Token: signed, Phase: string(token.PhaseRetake), ExpiresAt: tokenExpiry})
}

func (c *AdminController) bind(ctx *gin.Context, req any) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return false
	}
	if err := c.validate.Struct(req); err != nil {
		details := make([]string, 0)
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				details = append(details, fe.Field()+" failed "+fe.Tag()+" validation")
			}
		} else {
			details = append(details, err.Error())
		}
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Validation failed", Details: details})
		return false
	}
	return true
}

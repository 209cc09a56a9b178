// Package token issues and verifies the two credential kinds of the applicant
// flow: phase-scoped JWTs used by the login/magic-link surface, and a
// signed-timestamp token bound to one interview used by the interview-taking
// endpoints.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hirelens/hirelens/config"
	"github.com/hirelens/hirelens/internal/apperr"
	"github.com/hirelens/hirelens/internal/repository"
)

// Phase is the access context a credential was minted for. Each phase has
// distinct invalidation rules.
type Phase string

const (
	PhaseInitial Phase = "phase1" // initial invite (magic link)
	PhaseQR      Phase = "phase2" // QR re-entry; superseded by reissue
	PhaseRetake  Phase = "retake" // re-attempt of one specific interview
)

const subjectApplicant = "applicant"

type applicantClaims struct {
	ApplicantID uint   `json:"applicant_id"`
	TokenType   string `json:"type"`
	Phase       Phase  `json:"phase"`
	InterviewID uint   `json:"interview_id,omitempty"`
	// Custom embedded expiry, re-checked independently of the signature's exp.
	ExpiresAtClaim string `json:"expires_at"`
	// Phase2 supersession stamp; must equal the applicant's latest issuance.
	IssuedAtClaim string `json:"issued_at,omitempty"`
	jwt.RegisteredClaims
}

// Principal is the verified identity carried by an applicant token.
type Principal struct {
	ApplicantID uint
	Phase       Phase
	InterviewID uint // set for retake tokens only
}

// ApplicantAuthenticator issues and verifies applicant phase tokens.
type ApplicantAuthenticator struct {
	secret     []byte
	phase1TTL  time.Duration
	phase2TTL  time.Duration
	retakeTTL  time.Duration
	applicants repository.ApplicantRepository
	interviews repository.InterviewRepository

	now   func() time.Time
	sleep func(time.Duration)
}

func NewApplicantAuthenticator(
	cfg *config.Config,
	applicants repository.ApplicantRepository,
	interviews repository.InterviewRepository,
) *ApplicantAuthenticator {
	return &ApplicantAuthenticator{
		secret:     []byte(cfg.Auth.ApplicantSecret),
		phase1TTL:  time.Duration(cfg.Auth.Phase1ExpiryHours) * time.Hour,
		phase2TTL:  time.Duration(cfg.Auth.Phase2ExpiryHours) * time.Hour,
		retakeTTL:  time.Duration(cfg.Auth.RetakeExpiryHours) * time.Hour,
		applicants: applicants,
		interviews: interviews,
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// IssuePhase1 mints an initial-invite token. ttl <= 0 uses the configured
// default.
func (a *ApplicantAuthenticator) IssuePhase1(applicantID uint, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = a.phase1TTL
	}
	expiresAt := a.now().Add(ttl)
	signed, err := a.sign(applicantClaims{ApplicantID: applicantID, Phase: PhaseInitial}, expiresAt)
	return signed, expiresAt, err
}

// IssuePhase2 mints a QR re-entry token and persists the issuance timestamp on
// the applicant record, which supersedes every previously issued phase2 token.
func (a *ApplicantAuthenticator) IssuePhase2(applicantID uint) (string, time.Time, error) {
	issuedAt := a.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(a.phase2TTL)
	claims := applicantClaims{
		ApplicantID:   applicantID,
		Phase:         PhaseQR,
		IssuedAtClaim: issuedAt.Format(time.RFC3339),
	}
	signed, err := a.sign(claims, expiresAt)
	if err != nil {
		return "", time.Time{}, err
	}
	if err := a.applicants.SetPhase2IssuedAt(applicantID, issuedAt); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to record phase2 issuance: %w", err)
	}
	return signed, expiresAt, nil
}

// IssueRetake mints a token scoped to one interview. expiresAt is normally the
// interview's own expiry; zero falls back to the configured retake TTL.
func (a *ApplicantAuthenticator) IssueRetake(applicantID, interviewID uint, expiresAt time.Time) (string, time.Time, error) {
	if expiresAt.IsZero() {
		expiresAt = a.now().Add(a.retakeTTL)
	}
	claims := applicantClaims{
		ApplicantID: applicantID,
		Phase:       PhaseRetake,
		InterviewID: interviewID,
	}
	signed, err := a.sign(claims, expiresAt)
	return signed, expiresAt, err
}

func (a *ApplicantAuthenticator) sign(claims applicantClaims, expiresAt time.Time) (string, error) {
	claims.TokenType = subjectApplicant
	claims.ExpiresAtClaim = expiresAt.UTC().Format(time.RFC3339)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(a.now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify checks an applicant token and returns its principal. Every failure is
// an apperr.AuthError; the reason is for internal logging only and all of them
// map to the same generic unauthorized response.
func (a *ApplicantAuthenticator) Verify(tokenString string) (*Principal, error) {
	claims := &applicantClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Rejected(apperr.ReasonExpired)
		}
		// slight delay to blunt brute-force guessing of applicant tokens
		a.sleep(time.Second)
		return nil, apperr.Rejected(apperr.ReasonInvalid)
	}

	if claims.TokenType != subjectApplicant {
		return nil, apperr.Rejected(apperr.ReasonInvalidType)
	}
	if claims.ApplicantID == 0 {
		return nil, apperr.Rejected(apperr.ReasonInvalid)
	}

	applicant, err := a.applicants.FindByID(claims.ApplicantID)
	if err != nil {
		return nil, apperr.Rejected(apperr.ReasonNotFound)
	}

	if claims.ExpiresAtClaim != "" {
		expiresAt, parseErr := time.Parse(time.RFC3339, claims.ExpiresAtClaim)
		if parseErr != nil || expiresAt.Before(a.now()) {
			return nil, apperr.Rejected(apperr.ReasonExpired)
		}
	}

	phase := claims.Phase
	if applicant.InterviewCompleted && phase != PhaseQR && phase != PhaseRetake {
		return nil, apperr.Rejected(apperr.ReasonAlreadyCompleted)
	}

	if phase == PhaseQR {
		if claims.IssuedAtClaim == "" || applicant.Phase2TokenIssuedAt == nil {
			return nil, apperr.Rejected(apperr.ReasonSuperseded)
		}
		issuedAt, parseErr := time.Parse(time.RFC3339, claims.IssuedAtClaim)
		if parseErr != nil || !issuedAt.Equal(applicant.Phase2TokenIssuedAt.UTC().Truncate(time.Second)) {
			return nil, apperr.Rejected(apperr.ReasonSuperseded)
		}
	}

	principal := &Principal{ApplicantID: applicant.ID, Phase: phase}

	if phase == PhaseRetake {
		if claims.InterviewID == 0 {
			return nil, apperr.Rejected(apperr.ReasonInvalid)
		}
		interview, findErr := a.interviews.FindByIDForApplicant(claims.InterviewID, applicant.ID)
		if findErr != nil {
			return nil, apperr.Rejected(apperr.ReasonInterviewNotFound)
		}
		if interview.Status.Terminal() {
			return nil, apperr.Rejected(apperr.ReasonAlreadyCompleted)
		}
		if interview.Expired(a.now()) {
			return nil, apperr.Rejected(apperr.ReasonExpired)
		}
		principal.InterviewID = interview.ID
	}

	return principal, nil
}

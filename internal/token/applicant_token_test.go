package token

import (
	"errors"
	"testing"
	"time"

	"github.com/hirelens/hirelens/config"
	"github.com/hirelens/hirelens/internal/apperr"
	"github.com/hirelens/hirelens/internal/model"
)

type fakeApplicantRepo struct {
	applicants map[uint]*model.Applicant
}

func (f *fakeApplicantRepo) Create(a *model.Applicant) error { f.applicants[a.ID] = a; return nil }
func (f *fakeApplicantRepo) FindByID(id uint) (*model.Applicant, error) {
	a, ok := f.applicants[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return a, nil
}
func (f *fakeApplicantRepo) Update(a *model.Applicant) error { f.applicants[a.ID] = a; return nil }
func (f *fakeApplicantRepo) SetPhase2IssuedAt(id uint, issuedAt time.Time) error {
	a, ok := f.applicants[id]
	if !ok {
		return errors.New("record not found")
	}
	a.Phase2TokenIssuedAt = &issuedAt
	return nil
}
func (f *fakeApplicantRepo) MarkInterviewCompleted(id uint) error {
	a, ok := f.applicants[id]
	if !ok {
		return errors.New("record not found")
	}
	a.InterviewCompleted = true
	return nil
}

type fakeInterviewRepo struct {
	interviews map[uint]*model.Interview
}

func (f *fakeInterviewRepo) Create(iv *model.Interview) error { f.interviews[iv.ID] = iv; return nil }
func (f *fakeInterviewRepo) FindByID(id uint) (*model.Interview, error) {
	iv, ok := f.interviews[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return iv, nil
}
func (f *fakeInterviewRepo) FindByPublicID(publicID string) (*model.Interview, error) {
	for _, iv := range f.interviews {
		if iv.PublicID == publicID {
			return iv, nil
		}
	}
	return nil, errors.New("record not found")
}
func (f *fakeInterviewRepo) FindByIDForApplicant(id, applicantID uint) (*model.Interview, error) {
	iv, ok := f.interviews[id]
	if !ok || iv.ApplicantID != applicantID || iv.Archived {
		return nil, errors.New("record not found")
	}
	return iv, nil
}
func (f *fakeInterviewRepo) Update(iv *model.Interview) error { f.interviews[iv.ID] = iv; return nil }
func (f *fakeInterviewRepo) UpdateLocked(id uint, fn func(*model.Interview) (*model.ProcessingQueue, error)) error {
	iv, ok := f.interviews[id]
	if !ok {
		return errors.New("record not found")
	}
	entry, err := fn(iv)
	if err != nil {
		return err
	}
	if entry != nil {
		entry.ID = uint(len(f.interviews) + 100)
		iv.CurrentQueueEntryID = &entry.ID
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.Auth{
			ApplicantSecret:           "test-secret",
			InterviewTokenSecret:      "interview-secret",
			Phase1ExpiryHours:         6,
			Phase2ExpiryHours:         24,
			RetakeExpiryHours:         24,
			InterviewTokenMaxAgeHours: 48,
		},
	}
}

func newTestAuthenticator(t *testing.T) (*ApplicantAuthenticator, *fakeApplicantRepo, *fakeInterviewRepo, *time.Duration) {
	t.Helper()
	applicants := &fakeApplicantRepo{applicants: map[uint]*model.Applicant{
		1: {ID: 1, FirstName: "Ada", LastName: "Test", Email: "ada@example.com"},
	}}
	interviews := &fakeInterviewRepo{interviews: map[uint]*model.Interview{}}

	authn := NewApplicantAuthenticator(testConfig(), applicants, interviews)
	var slept time.Duration
	authn.sleep = func(d time.Duration) { slept += d }
	return authn, applicants, interviews, &slept
}

func rejectionReason(t *testing.T, err error) apperr.AuthReason {
	t.Helper()
	if err == nil {
		t.Fatal("expected a rejection")
	}
	var authErr *apperr.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %T: %v", err, err)
	}
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Error("AuthError must match ErrUnauthorized")
	}
	return authErr.Reason
}

func TestVerify_Phase1RoundTrip(t *testing.T) {
	authn, _, _, _ := newTestAuthenticator(t)

	signed, _, err := authn.IssuePhase1(1, 0)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	principal, err := authn.Verify(signed)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if principal.ApplicantID != 1 {
		t.Errorf("expected applicant 1, got %d", principal.ApplicantID)
	}
	if principal.Phase != PhaseInitial {
		t.Errorf("expected phase1, got %q", principal.Phase)
	}
}

func TestVerify_MalformedTokenSleepsAndRejects(t *testing.T) {
	authn, _, _, slept := newTestAuthenticator(t)

	_, err := authn.Verify("not-a-jwt")
	if reason := rejectionReason(t, err); reason != apperr.ReasonInvalid {
		t.Errorf("expected reason invalid, got %q", reason)
	}
	if *slept < time.Second {
		t.Errorf("expected at least 1s delay on malformed token, slept %v", *slept)
	}
}

func TestVerify_ExpiredTokenSkipsDelay(t *testing.T) {
	authn, _, _, slept := newTestAuthenticator(t)

	past := time.Now().Add(-48 * time.Hour)
	authn.now = func() time.Time { return past }
	signed, _, err := authn.IssuePhase1(1, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	authn.now = time.Now

	_, err = authn.Verify(signed)
	if reason := rejectionReason(t, err); reason != apperr.ReasonExpired {
		t.Errorf("expected reason expired, got %q", reason)
	}
	if *slept != 0 {
		t.Errorf("expired tokens must fail fast, slept %v", *slept)
	}
}

func TestVerify_UnknownApplicant(t *testing.T) {
	authn, _, _, _ := newTestAuthenticator(t)

	signed, _, err := authn.IssuePhase1(99, 0)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	_, err = authn.Verify(signed)
	if reason := rejectionReason(t, err); reason != apperr.ReasonNotFound {
		t.Errorf("expected reason not_found, got %q", reason)
	}
}

func TestVerify_Phase2Supersession(t *testing.T) {
	authn, _, _, _ := newTestAuthenticator(t)

	base := time.Now().UTC().Truncate(time.Second)
	authn.now = func() time.Time { return base }
	first, _, err := authn.IssuePhase2(1)
	if err != nil {
		t.Fatalf("first issue failed: %v", err)
	}

	if _, err := authn.Verify(first); err != nil {
		t.Fatalf("fresh phase2 token rejected: %v", err)
	}

	// reissue a second later; the first token is now superseded
	authn.now = func() time.Time { return base.Add(time.Second) }
	second, _, err := authn.IssuePhase2(1)
	if err != nil {
		t.Fatalf("second issue failed: %v", err)
	}

	_, err = authn.Verify(first)
	if reason := rejectionReason(t, err); reason != apperr.ReasonSuperseded {
		t.Errorf("expected reason superseded, got %q", reason)
	}
	if _, err := authn.Verify(second); err != nil {
		t.Errorf("latest phase2 token rejected: %v", err)
	}
}

func TestVerify_Phase2ReissueLeavesPhase1Alone(t *testing.T) {
	authn, _, _, _ := newTestAuthenticator(t)

	phase1, _, err := authn.IssuePhase1(1, 0)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, _, err := authn.IssuePhase2(1); err != nil {
		t.Fatalf("phase2 issue failed: %v", err)
	}

	if _, err := authn.Verify(phase1); err != nil {
		t.Errorf("phase1 token invalidated by phase2 reissue: %v", err)
	}
}

func TestVerify_CompletedApplicantBlocksPhase1Only(t *testing.T) {
	authn, applicants, interviews, _ := newTestAuthenticator(t)
	applicants.applicants[1].InterviewCompleted = true
	interviews.interviews[7] = &model.Interview{ID: 7, ApplicantID: 1, Status: model.StatusPending}

	phase1, _, err := authn.IssuePhase1(1, 0)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	_, err = authn.Verify(phase1)
	if reason := rejectionReason(t, err); reason != apperr.ReasonAlreadyCompleted {
		t.Errorf("expected reason already_completed, got %q", reason)
	}

	retake, _, err := authn.IssueRetake(1, 7, time.Time{})
	if err != nil {
		t.Fatalf("retake issue failed: %v", err)
	}
	if _, err := authn.Verify(retake); err != nil {
		t.Errorf("retake token must survive interview completion: %v", err)
	}
}

func TestVerify_RetakeChecks(t *testing.T) {
	authn, _, interviews, _ := newTestAuthenticator(t)

	t.Run("missing interview", func(t *testing.T) {
		signed, _, err := authn.IssueRetake(1, 42, time.Time{})
		if err != nil {
			t.Fatalf("issue failed: %v", err)
		}
		_, err = authn.Verify(signed)
		if reason := rejectionReason(t, err); reason != apperr.ReasonInterviewNotFound {
			t.Errorf("expected reason interview_not_found, got %q", reason)
		}
	})

	t.Run("terminal interview", func(t *testing.T) {
		interviews.interviews[8] = &model.Interview{ID: 8, ApplicantID: 1, Status: model.StatusCompleted}
		signed, _, err := authn.IssueRetake(1, 8, time.Time{})
		if err != nil {
			t.Fatalf("issue failed: %v", err)
		}
		_, err = authn.Verify(signed)
		if reason := rejectionReason(t, err); reason != apperr.ReasonAlreadyCompleted {
			t.Errorf("expected reason already_completed, got %q", reason)
		}
	})

	t.Run("expired interview", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		interviews.interviews[9] = &model.Interview{ID: 9, ApplicantID: 1, Status: model.StatusPending, ExpiresAt: &past}
		signed, _, err := authn.IssueRetake(1, 9, time.Time{})
		if err != nil {
			t.Fatalf("issue failed: %v", err)
		}
		_, err = authn.Verify(signed)
		if reason := rejectionReason(t, err); reason != apperr.ReasonExpired {
			t.Errorf("expected reason expired, got %q", reason)
		}
	})

	t.Run("valid retake carries interview id", func(t *testing.T) {
		interviews.interviews[10] = &model.Interview{ID: 10, ApplicantID: 1, Status: model.StatusInProgress}
		signed, _, err := authn.IssueRetake(1, 10, time.Time{})
		if err != nil {
			t.Fatalf("issue failed: %v", err)
		}
		principal, err := authn.Verify(signed)
		if err != nil {
			t.Fatalf("verify failed: %v", err)
		}
		if principal.InterviewID != 10 {
			t.Errorf("expected interview 10 on principal, got %d", principal.InterviewID)
		}
	})
}

func TestVerify_WrongSecret(t *testing.T) {
	authn, _, _, _ := newTestAuthenticator(t)
	signed, _, err := authn.IssuePhase1(1, 0)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	other := NewApplicantAuthenticator(&config.Config{Auth: config.Auth{
		ApplicantSecret: "different-secret", Phase1ExpiryHours: 6, Phase2ExpiryHours: 24, RetakeExpiryHours: 24,
	}}, &fakeApplicantRepo{applicants: map[uint]*model.Applicant{}}, &fakeInterviewRepo{interviews: map[uint]*model.Interview{}})
	other.sleep = func(time.Duration) {}

	_, err = other.Verify(signed)
	if reason := rejectionReason(t, err); reason != apperr.ReasonInvalid {
		t.Errorf("expected reason invalid, got %q", reason)
	}
}

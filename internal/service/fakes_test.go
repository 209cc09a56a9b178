package service

import (
	"errors"
	"sort"
	"time"

	"github.com/hirelens/hirelens/internal/model"
)

// In-memory repository fakes shared by the service tests.

var errNotFound = errors.New("record not found")

type memApplicants struct {
	byID map[uint]*model.Applicant
}

func newMemApplicants() *memApplicants {
	return &memApplicants{byID: map[uint]*model.Applicant{}}
}
func (m *memApplicants) Create(a *model.Applicant) error { m.byID[a.ID] = a; return nil }
func (m *memApplicants) FindByID(id uint) (*model.Applicant, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, errNotFound
	}
	return a, nil
}
func (m *memApplicants) Update(a *model.Applicant) error { m.byID[a.ID] = a; return nil }
func (m *memApplicants) SetPhase2IssuedAt(id uint, issuedAt time.Time) error {
	a, ok := m.byID[id]
	if !ok {
		return errNotFound
	}
	a.Phase2TokenIssuedAt = &issuedAt
	return nil
}
func (m *memApplicants) MarkInterviewCompleted(id uint) error {
	a, ok := m.byID[id]
	if !ok {
		return errNotFound
	}
	a.InterviewCompleted = true
	return nil
}

type memCategories struct {
	byID map[uint]*model.JobCategory
}

func newMemCategories() *memCategories {
	return &memCategories{byID: map[uint]*model.JobCategory{}}
}
func (m *memCategories) Create(c *model.JobCategory) error { m.byID[c.ID] = c; return nil }
func (m *memCategories) FindByID(id uint) (*model.JobCategory, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, errNotFound
	}
	return c, nil
}
func (m *memCategories) FindByCode(code string) (*model.JobCategory, error) {
	for _, c := range m.byID {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, errNotFound
}
func (m *memCategories) FindAllActive() ([]model.JobCategory, error) {
	var out []model.JobCategory
	for _, c := range m.byID {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

type memQuestions struct {
	byID map[uint]*model.InterviewQuestion
}

func newMemQuestions() *memQuestions {
	return &memQuestions{byID: map[uint]*model.InterviewQuestion{}}
}
func (m *memQuestions) Create(q *model.InterviewQuestion) error { m.byID[q.ID] = q; return nil }
func (m *memQuestions) FindByID(id uint) (*model.InterviewQuestion, error) {
	q, ok := m.byID[id]
	if !ok {
		return nil, errNotFound
	}
	return q, nil
}
func (m *memQuestions) FindByIDs(ids []uint) ([]model.InterviewQuestion, error) {
	var out []model.InterviewQuestion
	for _, id := range ids {
		if q, ok := m.byID[id]; ok {
			out = append(out, *q)
		}
	}
	return out, nil
}
func (m *memQuestions) FindActiveGeneral(categoryID uint, competencies []string) ([]model.InterviewQuestion, error) {
	wanted := make(map[string]bool, len(competencies))
	for _, c := range competencies {
		wanted[c] = true
	}
	var out []model.InterviewQuestion
	for _, q := range m.byID {
		if q.CategoryID == categoryID && q.IsActive && q.QuestionType == model.QuestionTypeGeneral && wanted[q.Competency] {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (m *memQuestions) Update(q *model.InterviewQuestion) error { m.byID[q.ID] = q; return nil }

type memInterviews struct {
	byID   map[uint]*model.Interview
	nextID uint
	// queue entries inserted through UpdateLocked
	entries []*model.ProcessingQueue
}

func newMemInterviews() *memInterviews {
	return &memInterviews{byID: map[uint]*model.Interview{}, nextID: 1}
}
func (m *memInterviews) Create(iv *model.Interview) error {
	if iv.ID == 0 {
		iv.ID = m.nextID
		m.nextID++
	}
	m.byID[iv.ID] = iv
	return nil
}
func (m *memInterviews) FindByID(id uint) (*model.Interview, error) {
	iv, ok := m.byID[id]
	if !ok {
		return nil, errNotFound
	}
	return iv, nil
}
func (m *memInterviews) FindByPublicID(publicID string) (*model.Interview, error) {
	for _, iv := range m.byID {
		if iv.PublicID == publicID {
			return iv, nil
		}
	}
	return nil, errNotFound
}
func (m *memInterviews) FindByIDForApplicant(id, applicantID uint) (*model.Interview, error) {
	iv, ok := m.byID[id]
	if !ok || iv.ApplicantID != applicantID || iv.Archived {
		return nil, errNotFound
	}
	return iv, nil
}
func (m *memInterviews) Update(iv *model.Interview) error { m.byID[iv.ID] = iv; return nil }
func (m *memInterviews) UpdateLocked(id uint, fn func(*model.Interview) (*model.ProcessingQueue, error)) error {
	iv, ok := m.byID[id]
	if !ok {
		return errNotFound
	}
	entry, err := fn(iv)
	if err != nil {
		return err
	}
	if entry != nil {
		entry.ID = uint(len(m.entries) + 1)
		m.entries = append(m.entries, entry)
		iv.CurrentQueueEntryID = &entry.ID
	}
	return nil
}

type memVideos struct {
	byID   map[uint]*model.VideoResponse
	nextID uint
}

func newMemVideos() *memVideos {
	return &memVideos{byID: map[uint]*model.VideoResponse{}, nextID: 1}
}
func (m *memVideos) Create(v *model.VideoResponse) error {
	if v.ID == 0 {
		v.ID = m.nextID
		m.nextID++
	}
	m.byID[v.ID] = v
	return nil
}
func (m *memVideos) Update(v *model.VideoResponse) error { m.byID[v.ID] = v; return nil }
func (m *memVideos) FindByInterviewAndQuestion(interviewID, questionID uint) (*model.VideoResponse, error) {
	for _, v := range m.byID {
		if v.InterviewID == interviewID && v.QuestionID == questionID {
			return v, nil
		}
	}
	return nil, errNotFound
}
func (m *memVideos) FindAllByInterview(interviewID uint) ([]model.VideoResponse, error) {
	var out []model.VideoResponse
	for _, v := range m.byID {
		if v.InterviewID == interviewID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (m *memVideos) CountByInterview(interviewID uint) (int64, error) {
	var count int64
	for _, v := range m.byID {
		if v.InterviewID == interviewID {
			count++
		}
	}
	return count, nil
}
func (m *memVideos) CountByInterviewAndStatus(interviewID uint, status string) (int64, error) {
	var count int64
	for _, v := range m.byID {
		if v.InterviewID == interviewID && v.Status == status {
			count++
		}
	}
	return count, nil
}

type memAudit struct {
	entries []model.InterviewAuditLog
}

func (m *memAudit) Create(e *model.InterviewAuditLog) error {
	m.entries = append(m.entries, *e)
	return nil
}
func (m *memAudit) FindAllByInterview(interviewID uint) ([]model.InterviewAuditLog, error) {
	var out []model.InterviewAuditLog
	for _, e := range m.entries {
		if e.InterviewID == interviewID {
			out = append(out, e)
		}
	}
	return out, nil
}
func (m *memAudit) events() []string {
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Event)
	}
	return out
}

type memQueue struct {
	interviews *memInterviews
}

func (m *memQueue) FindByID(id uint) (*model.ProcessingQueue, error) {
	for _, e := range m.interviews.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, errNotFound
}
func (m *memQueue) Update(e *model.ProcessingQueue) error {
	for i, existing := range m.interviews.entries {
		if existing.ID == e.ID {
			m.interviews.entries[i] = e
			return nil
		}
	}
	return errNotFound
}

type fakeScheduler struct {
	scheduled []string
	err       error
}

func (f *fakeScheduler) ScheduleAnalysis(interviewID uint, taskID string) error {
	if f.err != nil {
		return f.err
	}
	f.scheduled = append(f.scheduled, taskID)
	return nil
}

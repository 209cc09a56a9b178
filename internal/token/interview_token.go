package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/hirelens/hirelens/config"
)

const interviewTokenSalt = "interview-access"

// InterviewTokenSigner produces the interview-scoped access token: a generic
// signed-timestamp primitive over the interview's public id. Verification is a
// signature + max-age check followed by a single equality against the
// requested resource.
type InterviewTokenSigner struct {
	key    []byte
	maxAge time.Duration

	now func() time.Time
}

func NewInterviewTokenSigner(cfg *config.Config) *InterviewTokenSigner {
	return &InterviewTokenSigner{
		key:    []byte(interviewTokenSalt + ":" + cfg.Auth.InterviewTokenSecret),
		maxAge: time.Duration(cfg.Auth.InterviewTokenMaxAgeHours) * time.Hour,
		now:    time.Now,
	}
}

// Generate signs the public id with the current timestamp.
func (s *InterviewTokenSigner) Generate(publicID string) string {
	payload := publicID + ":" + strconv.FormatInt(s.now().Unix(), 36)
	return payload + ":" + s.mac(payload)
}

// Verify checks signature and age, then matches the signed value against the
// requested interview's public id.
func (s *InterviewTokenSigner) Verify(tok, publicID string) bool {
	if tok == "" {
		return false
	}
	parts := strings.Split(tok, ":")
	if len(parts) != 3 {
		return false
	}
	value, ts := parts[0], parts[1]
	payload := value + ":" + ts
	if !hmac.Equal([]byte(parts[2]), []byte(s.mac(payload))) {
		return false
	}
	issued, err := strconv.ParseInt(ts, 36, 64)
	if err != nil {
		return false
	}
	age := s.now().Sub(time.Unix(issued, 0))
	if age < 0 || age > s.maxAge {
		return false
	}
	return value == publicID
}

func (s *InterviewTokenSigner) mac(payload string) string {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

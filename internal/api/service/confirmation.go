package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"reviewhub/internal/api/models"
)

const confirmationMacLength = 32

// CodeSigner issues and checks confirmation codes. A code is an HMAC over
// the user's id, a hash of their mutable account state, and an issue
// timestamp: `<base36 timestamp>-<truncated hex mac>`. Codes are never
// stored; they stay valid until the TTL elapses or the bound state changes.
type CodeSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodeSigner(secret string, ttl time.Duration) *CodeSigner {
	return &CodeSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// MakeCode generates a confirmation code bound to the user's current state.
func (s *CodeSigner) MakeCode(user *models.User) string {
	ts := strconv.FormatInt(s.now().Unix(), 36)
	return ts + "-" + s.mac(user, ts)
}

// CheckCode reports whether the code matches the user's current state and
// has not expired.
func (s *CodeSigner) CheckCode(user *models.User, code string) bool {
	ts, mac, found := strings.Cut(code, "-")
	if !found {
		return false
	}

	issuedAt, err := strconv.ParseInt(ts, 36, 64)
	if err != nil {
		return false
	}
	age := s.now().Sub(time.Unix(issuedAt, 0))
	if age < 0 || age > s.ttl {
		return false
	}

	return hmac.Equal([]byte(mac), []byte(s.mac(user, ts)))
}

func (s *CodeSigner) mac(user *models.User, ts string) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%s|%s", user.ID, stateHash(user), ts)
	digest := hex.EncodeToString(mac.Sum(nil))
	return digest[:confirmationMacLength]
}

// stateHash covers the account fields whose change must invalidate
// outstanding codes. Last login is excluded so a code survives repeated
// token exchanges within its window.
func stateHash(user *models.User) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s", strings.ToLower(user.Email), user.Role)
	return hex.EncodeToString(h.Sum(nil))
}

package models

import (
	"time"

	"github.com/dmitrijs2005/todopoc/internal/common"
)

// Verification codes are six decimal digits.
const (
	MinVerificationCode = 100000
	MaxVerificationCode = 999999
)

// PendingContact is a registration waiting for its verification code.
type PendingContact struct {
	ID               string
	Name             string
	Email            string
	VerificationCode string
	ExpiresAt        time.Time
	CreatedAt        time.Time
}

// NewPendingContact validates the registration and attaches code and expiry.
func NewPendingContact(name, email, code string, expiresAt time.Time) (*PendingContact, error) {
	if err := validateNameEmail(name, email); err != nil {
		return nil, err
	}
	if !validCode(code) {
		return nil, common.InvalidInput("verification code must be six digits")
	}
	if expiresAt.IsZero() {
		return nil, common.InvalidInput("expiry is required")
	}
	return &PendingContact{Name: name, Email: email, VerificationCode: code, ExpiresAt: expiresAt}, nil
}

// Expired reports whether the code is no longer usable at now. A code
// expiring exactly at now is already expired.
func (p *PendingContact) Expired(now time.Time) bool {
	return !p.ExpiresAt.After(now)
}

func validCode(code string) bool {
	if len(code) != 6 || code[0] == '0' {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

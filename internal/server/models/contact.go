// Package models defines the records the server persists: verified contacts,
// pending registrations and tasks.
package models

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/todopoc/internal/common"
)

// Contact is a verified point of contact that tasks can be assigned to.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewContact validates name and email and returns an unsaved Contact.
func NewContact(name, email string) (*Contact, error) {
	if err := validateNameEmail(name, email); err != nil {
		return nil, err
	}
	return &Contact{Name: name, Email: email}, nil
}

func validateNameEmail(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return common.InvalidInput("name is required")
	}
	if email == "" {
		return common.InvalidInput("email is required")
	}
	if !ValidEmail(email) {
		return common.InvalidInput("invalid email format")
	}
	return nil
}

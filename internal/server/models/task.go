package models

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/todopoc/internal/common"
)

// Task is a todo item. ContactID is nil only after an explicit unassignment.
type Task struct {
	ID        string
	Text      string
	DueDate   *Date
	Completed bool
	ContactID *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTask validates text and binds the task to contactID.
func NewTask(text string, dueDate *Date, contactID string) (*Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, common.InvalidInput("text is required")
	}
	if contactID == "" {
		return nil, common.ErrMissingContact
	}
	return &Task{Text: text, DueDate: dueDate, ContactID: &contactID}, nil
}

// ContactRef is the contact summary embedded in a task read model.
type ContactRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TaskView is a Task joined with its contact, as returned by the API.
type TaskView struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	DueDate   *Date       `json:"dueDate"`
	Completed bool        `json:"completed"`
	ContactID *string     `json:"contactId"`
	Contact   *ContactRef `json:"contact"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// TaskPatch lists the fields of an update. A nil pointer means the field
// was not sent; ContactEmail pointing at "" means unassign.
type TaskPatch struct {
	Completed    *bool
	Text         *string
	DueDate      **Date
	ContactEmail *string
}

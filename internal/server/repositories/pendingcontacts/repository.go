// Package pendingcontacts stores registrations awaiting email verification.
// There is at most one row per email.
package pendingcontacts

import (
	"context"

	"github.com/dmitrijs2005/todopoc/internal/server/models"
)

type Repository interface {
	// Replace stores p as the only pending registration for p.Email,
	// discarding any previous one in the same statement. p gets a fresh ID.
	Replace(ctx context.Context, p *models.PendingContact) (*models.PendingContact, error)
	// Find returns the registration with exactly this email and code,
	// expired or not.
	Find(ctx context.Context, email, code string) (*models.PendingContact, error)
	GetByEmail(ctx context.Context, email string) (*models.PendingContact, error)
	// Delete removes the registration by ID and returns common.ErrorNotFound
	// if nothing was removed, which makes it usable as a claim.
	Delete(ctx context.Context, id string) error
}

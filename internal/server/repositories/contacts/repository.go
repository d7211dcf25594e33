// Package contacts stores verified contacts.
package contacts

import (
	"context"

	"github.com/dmitrijs2005/todopoc/internal/server/models"
)

type Repository interface {
	// Create inserts c, assigning its ID. A taken email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, c *models.Contact) (*models.Contact, error)
	GetByID(ctx context.Context, id string) (*models.Contact, error)
	// GetByEmail matches the email exactly.
	GetByEmail(ctx context.Context, email string) (*models.Contact, error)
	// List returns all contacts ordered by name.
	List(ctx context.Context) ([]*models.Contact, error)
	Update(ctx context.Context, c *models.Contact) error
	// Delete fails with common.ErrorReferenced while tasks still point at the contact.
	Delete(ctx context.Context, id string) error
}

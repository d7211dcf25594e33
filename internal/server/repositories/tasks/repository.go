// Package tasks stores todo items and reads them joined with their contact.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/todopoc/internal/server/models"
)

type Repository interface {
	// Create inserts t, assigning its ID. An unknown contact yields common.ErrorReferenced.
	Create(ctx context.Context, t *models.Task) (*models.Task, error)
	Get(ctx context.Context, id string) (*models.Task, error)
	// Update writes every column of t back.
	Update(ctx context.Context, t *models.Task) error
	Delete(ctx context.Context, id string) error
	CountByContact(ctx context.Context, contactID string) (int, error)

	GetView(ctx context.Context, id string) (*models.TaskView, error)
	// ListViews returns all tasks, newest first.
	ListViews(ctx context.Context) ([]*models.TaskView, error)
}

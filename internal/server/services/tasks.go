package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/todopoc/internal/common"
	"github.com/dmitrijs2005/todopoc/internal/dbx"
	"github.com/dmitrijs2005/todopoc/internal/logging"
	"github.com/dmitrijs2005/todopoc/internal/server/models"
	"github.com/dmitrijs2005/todopoc/internal/server/repositories/repomanager"
)

// TaskService applies the assignment rules: a task is created for a
// verified contact, addressed by email.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *TaskService {
	return &TaskService{db: db, repomanager: m, logger: l.With("module", "tasks"), now: time.Now}
}

// List returns all tasks with their contacts, newest first.
func (s *TaskService) List(ctx context.Context) ([]*models.TaskView, error) {
	list, err := s.repomanager.Tasks(s.db).ListViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return list, nil
}

// Create adds an open task assigned to the contact with contactEmail.
func (s *TaskService) Create(ctx context.Context, text string, dueDate *models.Date, contactEmail string) (*models.TaskView, error) {
	if contactEmail == "" {
		return nil, common.ErrMissingContact
	}
	if strings.TrimSpace(text) == "" {
		return nil, common.InvalidInput("text is required")
	}

	var view *models.TaskView
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		c, err := s.resolveContact(ctx, tx, contactEmail)
		if err != nil {
			return err
		}

		t, err := models.NewTask(text, dueDate, c.ID)
		if err != nil {
			return err
		}
		now := s.now()
		t.CreatedAt, t.UpdatedAt = now, now

		repo := s.repomanager.Tasks(tx)
		t, err = repo.Create(ctx, t)
		if err != nil {
			if errors.Is(err, common.ErrorReferenced) {
				return common.ErrContactNotFound
			}
			return fmt.Errorf("error creating task: %w", err)
		}

		view, err = repo.GetView(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("error reading task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Update changes the fields present in p. An empty ContactEmail unassigns
// the task; a non-empty one must name an existing contact.
func (s *TaskService) Update(ctx context.Context, id string, p models.TaskPatch) (*models.TaskView, error) {
	if p.Text != nil && strings.TrimSpace(*p.Text) == "" {
		return nil, common.InvalidInput("text must not be empty")
	}

	var view *models.TaskView
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		t, err := repo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrTaskNotFound
			}
			return fmt.Errorf("error searching task: %w", err)
		}

		if p.Completed != nil {
			t.Completed = *p.Completed
		}
		if p.Text != nil {
			t.Text = *p.Text
		}
		if p.DueDate != nil {
			t.DueDate = *p.DueDate
		}
		if p.ContactEmail != nil {
			if *p.ContactEmail == "" {
				t.ContactID = nil
			} else {
				c, err := s.resolveContact(ctx, tx, *p.ContactEmail)
				if err != nil {
					return err
				}
				t.ContactID = &c.ID
			}
		}
		t.UpdatedAt = s.now()

		if err := repo.Update(ctx, t); err != nil {
			switch {
			case errors.Is(err, common.ErrorNotFound):
				return common.ErrTaskNotFound
			case errors.Is(err, common.ErrorReferenced):
				return common.ErrContactNotFound
			}
			return fmt.Errorf("error updating task: %w", err)
		}

		view, err = repo.GetView(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("error reading task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.repomanager.Tasks(s.db).Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrTaskNotFound
		}
		return fmt.Errorf("error deleting task: %w", err)
	}
	return nil
}

func (s *TaskService) resolveContact(ctx context.Context, tx dbx.DBTX, email string) (*models.Contact, error) {
	c, err := s.repomanager.Contacts(tx).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.KindContactNotFound, "no contact with email "+email)
		}
		return nil, fmt.Errorf("error searching contact: %w", err)
	}
	return c, nil
}

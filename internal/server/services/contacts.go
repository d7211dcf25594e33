package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/todopoc/internal/common"
	"github.com/dmitrijs2005/todopoc/internal/dbx"
	"github.com/dmitrijs2005/todopoc/internal/logging"
	"github.com/dmitrijs2005/todopoc/internal/server/models"
	"github.com/dmitrijs2005/todopoc/internal/server/repositories/repomanager"
)

// ContactService is the administrative CRUD over verified contacts.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewContactService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *ContactService {
	return &ContactService{db: db, repomanager: m, logger: l.With("module", "contacts"), now: time.Now}
}

// List returns every contact ordered by name. The slice is never nil.
func (s *ContactService) List(ctx context.Context) ([]*models.Contact, error) {
	list, err := s.repomanager.Contacts(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing contacts: %w", err)
	}
	return list, nil
}

// Create adds a contact without the verification round trip.
func (s *ContactService) Create(ctx context.Context, name, email string) (*models.Contact, error) {
	c, err := models.NewContact(name, email)
	if err != nil {
		return nil, err
	}
	now := s.now()
	c.CreatedAt, c.UpdatedAt = now, now

	c, err = s.repomanager.Contacts(s.db).Create(ctx, c)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("error creating contact: %w", err)
	}
	return c, nil
}

// Update replaces name and email of contact id.
func (s *ContactService) Update(ctx context.Context, id, name, email string) (*models.Contact, error) {
	upd, err := models.NewContact(name, email)
	if err != nil {
		return nil, err
	}

	var contact *models.Contact
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Contacts(tx)

		c, err := repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrContactNotFound
			}
			return fmt.Errorf("error searching contact: %w", err)
		}

		c.Name, c.Email, c.UpdatedAt = upd.Name, upd.Email, s.now()
		if err := repo.Update(ctx, c); err != nil {
			switch {
			case errors.Is(err, common.ErrorAlreadyExists):
				return common.ErrAlreadyRegistered
			case errors.Is(err, common.ErrorNotFound):
				return common.ErrContactNotFound
			}
			return fmt.Errorf("error updating contact: %w", err)
		}

		contact = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contact, nil
}

// Delete removes contact id. Contacts that still own tasks are kept and
// common.ErrContactInUse is returned.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.repomanager.Tasks(tx).CountByContact(ctx, id)
		if err != nil {
			return fmt.Errorf("error counting tasks: %w", err)
		}
		if n > 0 {
			return common.NewError(common.KindContactInUse, fmt.Sprintf("%d task(s) assigned", n))
		}

		if err := s.repomanager.Contacts(tx).Delete(ctx, id); err != nil {
			switch {
			case errors.Is(err, common.ErrorNotFound):
				return common.ErrContactNotFound
			case errors.Is(err, common.ErrorReferenced):
				return common.ErrContactInUse
			}
			return fmt.Errorf("error deleting contact: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "contact deleted", "contact_id", id)
	return nil
}

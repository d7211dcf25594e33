// Package services contains server-side business logic: the email
// verification workflow and the contact and task rules built on top of the
// repositories.
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
	"github.com/dmitrijs2005/todopoc/internal/server/notify"
	"github.com/dmitrijs2005/todopoc/internal/server/repositories/repomanager"
)

// CodeSender queues a verification message for background delivery.
// notify.Dispatcher implements it.
type CodeSender interface {
	Enqueue(ctx context.Context, m notify.Message)
}

// VerificationService runs the registration lifecycle of a contact:
// NONE -> PENDING (Initiate, repeatable) -> VERIFIED (Confirm).
type VerificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sender      CodeSender
	logger      logging.Logger
	expiry      time.Duration

	now          func() time.Time
	generateCode func() (string, error)
}

func NewVerificationService(db *sql.DB, m repomanager.RepositoryManager, sender CodeSender, l logging.Logger, expiry time.Duration) *VerificationService {
	return &VerificationService{
		db:           db,
		repomanager:  m,
		sender:       sender,
		logger:       l.With("module", "verification"),
		expiry:       expiry,
		now:          time.Now,
		generateCode: GenerateCode,
	}
}

// InitiateVerification stores a fresh pending registration for email,
// replacing any earlier one, and queues the code for delivery. Delivery
// problems are never reported to the caller.
func (s *VerificationService) InitiateVerification(ctx context.Context, name, email string) (*models.PendingContact, error) {
	code, err := s.generateCode()
	if err != nil {
		return nil, fmt.Errorf("error generating code: %w", err)
	}

	now := s.now()
	p, err := models.NewPendingContact(name, email, code, now.Add(s.expiry))
	if err != nil {
		return nil, err
	}
	p.CreatedAt = now

	_, err = s.repomanager.Contacts(s.db).GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrAlreadyRegistered
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error searching contact: %w", err)
	}

	p, err = s.repomanager.PendingContacts(s.db).Replace(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("error storing pending contact: %w", err)
	}

	s.sender.Enqueue(ctx, notify.Message{Name: p.Name, Email: p.Email, Code: p.VerificationCode, ExpiresAt: p.ExpiresAt})
	s.logger.Info(ctx, "verification issued", "email", p.Email, "expires_at", p.ExpiresAt)

	return p, nil
}

// ConfirmVerification promotes the pending registration matching email and
// code to a Contact. A wrong, expired or already used code all yield
// common.ErrInvalidOrExpiredCode. The pending row is claimed by a
// conditional delete inside the transaction, so concurrent confirmations
// of one registration create at most one contact. Missing email or code
// fails the same way.
func (s *VerificationService) ConfirmVerification(ctx context.Context, email, code string) (*models.Contact, error) {
	if email == "" || code == "" {
		return nil, common.ErrInvalidOrExpiredCode
	}

	var contact *models.Contact
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		pendingRepo := s.repomanager.PendingContacts(tx)

		p, err := pendingRepo.Find(ctx, email, code)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidOrExpiredCode
			}
			return fmt.Errorf("error searching pending contact: %w", err)
		}

		now := s.now()
		if p.Expired(now) {
			return common.ErrInvalidOrExpiredCode
		}

		if err := pendingRepo.Delete(ctx, p.ID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidOrExpiredCode
			}
			return fmt.Errorf("error deleting pending contact: %w", err)
		}

		c := &models.Contact{Name: p.Name, Email: p.Email, CreatedAt: now, UpdatedAt: now}
		c, err = s.repomanager.Contacts(tx).Create(ctx, c)
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return common.ErrAlreadyRegistered
			}
			return fmt.Errorf("error creating contact: %w", err)
		}

		contact = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "contact verified", "contact_id", contact.ID, "email", contact.Email)
	return contact, nil
}

// PendingVerification returns the outstanding registration for email, so a
// client can show when the current code runs out. Expired registrations are
// reported as absent.
func (s *VerificationService) PendingVerification(ctx context.Context, email string) (*models.PendingContact, error) {
	p, err := s.repomanager.PendingContacts(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrPendingContactNotFound
		}
		return nil, fmt.Errorf("error searching pending contact: %w", err)
	}
	if p.Expired(s.now()) {
		return nil, common.ErrPendingContactNotFound
	}
	return p, nil
}

package pendingcontacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todopoc/internal/common"
	"github.com/dmitrijs2005/todopoc/internal/dbx"
	"github.com/dmitrijs2005/todopoc/internal/server/models"
	"github.com/google/uuid"
)

var newID = uuid.NewString

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Replace(ctx context.Context, p *models.PendingContact) (*models.PendingContact, error) {
	// last writer wins on concurrent reissues for one email
	query :=
		`INSERT INTO pending_contacts (id, name, email, verification_code, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (email) DO UPDATE SET
		     id = excluded.id,
		     name = excluded.name,
		     verification_code = excluded.verification_code,
		     expires_at = excluded.expires_at,
		     created_at = excluded.created_at`

	id := newID()
	_, err := r.db.ExecContext(ctx, query, id, p.Name, p.Email, p.VerificationCode, p.ExpiresAt, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	p.ID = id
	return p, nil
}

func (r *SQLRepository) Find(ctx context.Context, email, code string) (*models.PendingContact, error) {
	query :=
		`SELECT id, name, email, verification_code, expires_at, created_at FROM pending_contacts
		 WHERE email = $1 AND verification_code = $2`

	return r.getOne(ctx, query, email, code)
}

func (r *SQLRepository) GetByEmail(ctx context.Context, email string) (*models.PendingContact, error) {
	query :=
		`SELECT id, name, email, verification_code, expires_at, created_at FROM pending_contacts
		 WHERE email = $1`

	return r.getOne(ctx, query, email)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, args ...any) (*models.PendingContact, error) {
	p := &models.PendingContact{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&p.ID, &p.Name, &p.Email, &p.VerificationCode, &p.ExpiresAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM pending_contacts
		 WHERE id = $1`

	n, err := dbx.ExecAffected(ctx, r.db, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

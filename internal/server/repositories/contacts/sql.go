package contacts

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

// newID is a seam for tests.
var newID = uuid.NewString

// SQLRepository works on both PostgreSQL and SQLite; the queries stay inside
// the dialect subset the two share.
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	query :=
		`INSERT INTO contacts (id, name, email, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`

	id := newID()
	_, err := r.db.ExecContext(ctx, query, id, c.Name, c.Email, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	c.ID = id
	return c, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	query :=
		`SELECT id, name, email, created_at, updated_at FROM contacts
		 WHERE id = $1`

	return r.getOne(ctx, query, id)
}

func (r *SQLRepository) GetByEmail(ctx context.Context, email string) (*models.Contact, error) {
	query :=
		`SELECT id, name, email, created_at, updated_at FROM contacts
		 WHERE email = $1`

	return r.getOne(ctx, query, email)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, arg any) (*models.Contact, error) {
	c := &models.Contact{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]*models.Contact, error) {
	query :=
		`SELECT id, name, email, created_at, updated_at FROM contacts
		 ORDER BY name ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Contact, 0)
	for rows.Next() {
		c := &models.Contact{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) Update(ctx context.Context, c *models.Contact) error {
	query :=
		`UPDATE contacts SET name = $1, email = $2, updated_at = $3
		 WHERE id = $4`

	n, err := dbx.ExecAffected(ctx, r.db, query, c.Name, c.Email, c.UpdatedAt, c.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM contacts
		 WHERE id = $1`

	n, err := dbx.ExecAffected(ctx, r.db, query, id)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return common.ErrorReferenced
		}
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

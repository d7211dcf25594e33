package tasks

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

const viewSelect = `SELECT t.id, t.text, t.due_date, t.completed, t.contact_id, t.created_at, t.updated_at,
		        c.id, c.name, c.email
		 FROM tasks t
		 LEFT JOIN contacts c ON c.id = t.contact_id`

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	query :=
		`INSERT INTO tasks (id, text, due_date, completed, contact_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	id := newID()
	_, err := r.db.ExecContext(ctx, query,
		id, t.Text, dueDateArg(t.DueDate), t.Completed, contactArg(t.ContactID), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorReferenced
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	t.ID = id
	return t, nil
}

func (r *SQLRepository) Get(ctx context.Context, id string) (*models.Task, error) {
	query :=
		`SELECT id, text, due_date, completed, contact_id, created_at, updated_at FROM tasks
		 WHERE id = $1`

	var (
		t         models.Task
		dueDate   sql.NullTime
		contactID sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&t.ID, &t.Text, &dueDate, &t.Completed, &contactID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	t.DueDate = dueDateFrom(dueDate)
	if contactID.Valid {
		t.ContactID = &contactID.String
	}
	return &t, nil
}

func (r *SQLRepository) Update(ctx context.Context, t *models.Task) error {
	query :=
		`UPDATE tasks SET text = $1, due_date = $2, completed = $3, contact_id = $4, updated_at = $5
		 WHERE id = $6`

	n, err := dbx.ExecAffected(ctx, r.db, query,
		t.Text, dueDateArg(t.DueDate), t.Completed, contactArg(t.ContactID), t.UpdatedAt, t.ID)
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

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM tasks
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

func (r *SQLRepository) CountByContact(ctx context.Context, contactID string) (int, error) {
	query :=
		`SELECT COUNT(*) FROM tasks
		 WHERE contact_id = $1`

	var n int
	if err := r.db.QueryRowContext(ctx, query, contactID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) GetView(ctx context.Context, id string) (*models.TaskView, error) {
	query := viewSelect + `
		 WHERE t.id = $1`

	v, err := scanView(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *SQLRepository) ListViews(ctx context.Context) ([]*models.TaskView, error) {
	query := viewSelect + `
		 ORDER BY t.created_at DESC, t.id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.TaskView, 0)
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanView(s scanner) (*models.TaskView, error) {
	var (
		v                  models.TaskView
		dueDate            sql.NullTime
		contactID          sql.NullString
		cID, cName, cEmail sql.NullString
	)
	err := s.Scan(&v.ID, &v.Text, &dueDate, &v.Completed, &contactID, &v.CreatedAt, &v.UpdatedAt,
		&cID, &cName, &cEmail)
	if err != nil {
		return nil, err
	}

	v.DueDate = dueDateFrom(dueDate)
	if contactID.Valid {
		v.ContactID = &contactID.String
	}
	if cID.Valid {
		v.Contact = &models.ContactRef{ID: cID.String, Name: cName.String, Email: cEmail.String}
	}
	return &v, nil
}

func dueDateArg(d *models.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

func dueDateFrom(t sql.NullTime) *models.Date {
	if !t.Valid {
		return nil
	}
	d := models.NewDate(t.Time)
	return &d
}

func contactArg(id *string) any {
	if id == nil {
		return nil
	}
	return *id
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GoSim-25-26J-441/project-records/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-records/internal/storage/sqldb"
)

// DB is the slice of *sql.DB the repository needs.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const projectColumns = `id, name, date, owner, notes, status, photo_ref`

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db      DB
	dialect sqldb.Dialect
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db DB, dialect sqldb.Dialect) *ProjectRepository {
	return &ProjectRepository{db: db, dialect: dialect}
}

// List returns every project, or only those with the given status when it
// is non-empty. Rows come back in id order.
func (r *ProjectRepository) List(ctx context.Context, status string) ([]domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects`
	var args []any
	if status != "" {
		q += ` WHERE status = ` + r.dialect.Placeholder(1)
		args = append(args, status)
	}
	q += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list projects: %v", domain.ErrStore, err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan project: %v", domain.ErrStore, err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list projects: %v", domain.ErrStore, err)
	}
	return out, nil
}

// Get returns a single project by id.
func (r *ProjectRepository) Get(ctx context.Context, id int64) (*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE id = ` + r.dialect.Placeholder(1)

	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get project: %v", domain.ErrStore, err)
	}
	return p, nil
}

// Create inserts a project and returns it with its store-assigned id.
func (r *ProjectRepository) Create(ctx context.Context, in domain.NewProject) (*domain.Project, error) {
	ph := r.dialect.Placeholder
	q := fmt.Sprintf(`
INSERT INTO projects (name, date, owner, notes, status, photo_ref)
VALUES (%s, %s, %s, %s, %s, %s)
RETURNING id`, ph(1), ph(2), ph(3), ph(4), ph(5), ph(6))

	var id int64
	err := r.db.QueryRowContext(ctx, q,
		in.Name, in.Date, in.Owner, nullString(in.Notes), in.Status, nullString(in.PhotoRef),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("%w: insert project: %v", domain.ErrStore, err)
	}

	return &domain.Project{
		ID:       id,
		Name:     in.Name,
		Date:     in.Date,
		Owner:    in.Owner,
		Notes:    in.Notes,
		Status:   in.Status,
		PhotoRef: in.PhotoRef,
	}, nil
}

// Update applies a partial update in a single statement.
// It returns domain.ErrNotFound when no row has the id.
func (r *ProjectRepository) Update(ctx context.Context, id int64, patch domain.ProjectPatch) error {
	q, args, err := buildUpdate(r.dialect, id, patch)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("%w: update project: %v", domain.ErrStore, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update project: %v", domain.ErrStore, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a project and reports whether a row existed.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) (bool, error) {
	q := `DELETE FROM projects WHERE id = ` + r.dialect.Placeholder(1)

	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, fmt.Errorf("%w: delete project: %v", domain.ErrStore, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: delete project: %v", domain.ErrStore, err)
	}
	return n > 0, nil
}

// PhotoRefs returns every non-null photo reference currently stored.
func (r *ProjectRepository) PhotoRefs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT photo_ref FROM projects WHERE photo_ref IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("%w: list photo refs: %v", domain.ErrStore, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("%w: scan photo ref: %v", domain.ErrStore, err)
		}
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list photo refs: %v", domain.ErrStore, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*domain.Project, error) {
	var (
		p               domain.Project
		notes, photoRef sql.NullString
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Date, &p.Owner, &notes, &p.Status, &photoRef); err != nil {
		return nil, err
	}
	if notes.Valid {
		p.Notes = &notes.String
	}
	if photoRef.Valid {
		p.PhotoRef = &photoRef.String
	}
	return &p, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

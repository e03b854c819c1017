package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoSim-25-26J-441/project-records/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-records/internal/storage/sqldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "name", "date", "owner", "notes", "status", "photo_ref"}

func setupProjectRepo(t *testing.T) (*ProjectRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewProjectRepository(db, sqldb.Postgres)
	return repo, mock, db
}

func TestProjectRepository_List(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()
	ctx := context.Background()

	t.Run("lists all projects", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, date, owner, notes, status, photo_ref FROM projects ORDER BY id`)).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(1, "Bridge", "2024-01-01", "alice", nil, "pending", nil).
				AddRow(2, "Tunnel", "2024-02-01", "bob", "deep", "completed", "t.jpg"))

		items, err := repo.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Nil(t, items[0].Notes)
		assert.Nil(t, items[0].PhotoRef)
		assert.Equal(t, "deep", *items[1].Notes)
		assert.Equal(t, "t.jpg", *items[1].PhotoRef)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("binds the status filter", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM projects WHERE status = $1 ORDER BY id`)).
			WithArgs("pending").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(1, "Bridge", "2024-01-01", "alice", nil, "pending", nil))

		items, err := repo.List(ctx, "pending")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "pending", items[0].Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps store errors", func(t *testing.T) {
		mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("connection reset"))

		_, err := repo.List(ctx, "")
		assert.ErrorIs(t, err, domain.ErrStore)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_Get(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM projects WHERE id = $1`)).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(5, "Bridge", "2024-01-01", "alice", "n", "in_progress", "p.png"))

		p, err := repo.Get(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), p.ID)
		assert.Equal(t, "in_progress", p.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM projects WHERE id = $1`)).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.Get(ctx, 404)
		assert.Equal(t, domain.ErrNotFound, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_Create(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()
	ctx := context.Background()

	t.Run("inserts with null notes and photo", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs("Bridge", "2024-01-01", "alice", nil, "pending", nil).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

		p, err := repo.Create(ctx, domain.NewProject{
			Name: "Bridge", Date: "2024-01-01", Owner: "alice", Status: "pending",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(42), p.ID)
		assert.Nil(t, p.PhotoRef)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inserts photo reference", func(t *testing.T) {
		ref := "abc.jpg"
		notes := "span"
		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs("Bridge", "2024-01-01", "alice", "span", "pending", "abc.jpg").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(43))

		p, err := repo.Create(ctx, domain.NewProject{
			Name: "Bridge", Date: "2024-01-01", Owner: "alice", Status: "pending",
			Notes: &notes, PhotoRef: &ref,
		})
		require.NoError(t, err)
		assert.Equal(t, "abc.jpg", *p.PhotoRef)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps insert failure", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO projects`).WillReturnError(errors.New("disk full"))

		_, err := repo.Create(ctx, domain.NewProject{Name: "a", Date: "b", Owner: "c", Status: "pending"})
		assert.ErrorIs(t, err, domain.ErrStore)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_Update(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()
	ctx := context.Background()
	status := "completed"

	t.Run("updates one column", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE projects SET status = $1 WHERE id = $2`)).
			WithArgs("completed", int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(ctx, 7, domain.ProjectPatch{Status: &status})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows is not found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE projects`).
			WithArgs("completed", int64(8)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, 8, domain.ProjectPatch{Status: &status})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty patch never reaches the store", func(t *testing.T) {
		err := repo.Update(ctx, 7, domain.ProjectPatch{})
		assert.ErrorIs(t, err, domain.ErrNoFieldsProvided)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_Delete(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM projects WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM projects WHERE id = $1`)).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_PhotoRefs(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT photo_ref FROM projects WHERE photo_ref IS NOT NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"photo_ref"}).AddRow("a.jpg").AddRow("b.png"))

	refs, err := repo.PhotoRefs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.png"}, refs)
	require.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atinyakov/listkeeper/internal/common"
	"github.com/atinyakov/listkeeper/internal/models"
)

func setupListMock(t *testing.T) (*PostgresListRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	return NewPostgresListRepository(db), mock, func() { db.Close() }
}

var listRowColumns = []string{"id", "name", "description", "date_created"}

func TestListCreate(t *testing.T) {
	repo, mock, cleanup := setupListMock(t)
	defer cleanup()

	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO lists (name, description)`)).
		WithArgs("groceries", nil).
		WillReturnRows(sqlmock.NewRows(listRowColumns).AddRow(int64(10), "groceries", nil, day))

	l, err := repo.Create(context.Background(), models.ListRequest{Name: "groceries"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.ID != 10 || l.Name != "groceries" || l.Description != nil || !l.DateCreated.Equal(day) {
		t.Errorf("unexpected list: %+v", l)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestListFindByID(t *testing.T) {
	repo, mock, cleanup := setupListMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, description, date_created FROM lists WHERE id = $1`)).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(listRowColumns).AddRow(int64(10), "groceries", "weekly", time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, description, date_created FROM lists WHERE id = $1`)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(listRowColumns))

	l, err := repo.FindByID(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Description == nil || *l.Description != "weekly" {
		t.Errorf("unexpected description: %v", l.Description)
	}

	_, err = repo.FindByID(context.Background(), 11)
	if !errors.Is(err, common.ErrListNotFound) {
		t.Errorf("expected ErrListNotFound, got %v", err)
	}
}

func TestListFindForUser(t *testing.T) {
	repo, mock, cleanup := setupListMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`JOIN user_list_links ul ON ul.list_id = l.id`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(listRowColumns).
			AddRow(int64(1), "a", nil, time.Now()).
			AddRow(int64(2), "b", "desc", time.Now()))

	lists, err := repo.FindForUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lists) != 2 || lists[0].ID != 1 || lists[1].ID != 2 {
		t.Errorf("unexpected lists: %+v", lists)
	}
}

func TestListFindForUser_Empty(t *testing.T) {
	repo, mock, cleanup := setupListMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM lists l`)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(listRowColumns))

	lists, err := repo.FindForUser(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lists == nil || len(lists) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", lists)
	}
}

func TestListDelete(t *testing.T) {
	repo, mock, cleanup := setupListMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM lists WHERE id = $1`)).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM lists WHERE id = $1`)).
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Delete(context.Background(), 11); !errors.Is(err, common.ErrListNotFound) {
		t.Errorf("expected ErrListNotFound, got %v", err)
	}
}

package resource

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"

	"github.com/tastemap/tastemap-backend/internal/domain"
	"github.com/tastemap/tastemap-backend/internal/registry"
)

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func TestCreate_DropsUnknownFields(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	sch := registry.MustLookup(domain.ResourceRestaurants)

	mock.ExpectQuery(`INSERT INTO restaurants \(name,city_id\)`).
		WithArgs("Joe's Pizza", int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "city_id"}).
			AddRow(int64(1), "Joe's Pizza", int64(5)))

	row, err := repo.Create(context.Background(), sch, map[string]any{
		"name":    "Joe's Pizza",
		"city_id": int64(5),
		"rating":  4.9, // not in the whitelist, must not reach SQL
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row["id"] != int64(1) {
		t.Errorf("id: got %v, want 1", row["id"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreate_NoValidColumns(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	sch := registry.MustLookup(domain.ResourceRestaurants)

	_, err := repo.Create(context.Background(), sch, map[string]any{
		"rating": 4.9,
		"emoji":  "🍕",
	})
	if !errors.Is(err, domain.ErrNoValidColumns) {
		t.Fatalf("expected ErrNoValidColumns, got %v", err)
	}
	// No SQL may be issued for an empty whitelist intersection.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected queries: %v", err)
	}
}

func TestCreate_UniqueViolationNamesField(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	sch := registry.MustLookup(domain.ResourceCities)

	mock.ExpectQuery(`INSERT INTO cities`).
		WithArgs("Portland").
		WillReturnError(&pgconn.PgError{
			Code:           "23505",
			ConstraintName: "cities_name_key",
		})

	_, err := repo.Create(context.Background(), sch, map[string]any{"name": "Portland"})
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Field != "name" {
		t.Errorf("conflict field: got %q, want %q", conflict.Field, "name")
	}
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Error("conflict should unwrap to ErrAlreadyExists")
	}
}

func TestFindByID_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	sch := registry.MustLookup(domain.ResourceDishes)

	mock.ExpectQuery(`SELECT \* FROM dishes WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}))

	_, err := repo.FindByID(context.Background(), sch, 42)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_NoValidColumnsReturnsCurrentRow(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	sch := registry.MustLookup(domain.ResourceDishes)

	// restaurant_id is not updatable on dishes: the call degrades to a read.
	mock.ExpectQuery(`SELECT \* FROM dishes WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow(int64(7), "Margherita"))

	row, err := repo.Update(context.Background(), sch, 7, map[string]any{
		"restaurant_id": int64(99),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row["name"] != "Margherita" {
		t.Errorf("name: got %v, want Margherita", row["name"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdate_WhitelistedFields(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	sch := registry.MustLookup(domain.ResourceDishes)

	mock.ExpectQuery(`UPDATE dishes SET name = \$1 WHERE id = \$2 RETURNING \*`).
		WithArgs("Diavola", int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow(int64(7), "Diavola"))

	row, err := repo.Update(context.Background(), sch, 7, map[string]any{
		"name":          "Diavola",
		"restaurant_id": int64(99), // dropped
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row["name"] != "Diavola" {
		t.Errorf("name: got %v, want Diavola", row["name"])
	}
}

func TestUpdateField(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	sch := registry.MustLookup(domain.ResourceRestaurants)

	mock.ExpectExec(`UPDATE restaurants SET phone = \$1 WHERE id = \$2`).
		WithArgs("(212) 555-1234", int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.UpdateField(context.Background(), sch, 3, "phone", "(212) 555-1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected row to be updated")
	}
}

func TestDelete_ReportsExistence(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	sch := registry.MustLookup(domain.ResourceHashtags)

	mock.ExpectExec(`DELETE FROM hashtags WHERE id = \$1`).
		WithArgs(int64(10)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM hashtags WHERE id = \$1`).
		WithArgs(int64(11)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	existed, err := repo.Delete(context.Background(), sch, 10)
	if err != nil || !existed {
		t.Errorf("delete existing: got (%v, %v), want (true, nil)", existed, err)
	}

	existed, err = repo.Delete(context.Background(), sch, 11)
	if err != nil || existed {
		t.Errorf("delete missing: got (%v, %v), want (false, nil)", existed, err)
	}
}

func TestExists(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	sch := registry.MustLookup(domain.ResourceCities)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM cities WHERE id = \$1\)`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), sch, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected exists = true")
	}
}

func TestListAll_AppliesExtraFilter(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	sch := registry.MustLookup(domain.ResourceSubmissions)

	mock.ExpectQuery(`SELECT \* FROM submissions WHERE status = \$1 ORDER BY id ASC`).
		WithArgs("pending").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "status"}).
			AddRow(int64(1), " sushi place ", "pending").
			AddRow(int64(2), "Taco Cart", "pending"))

	rows, err := repo.ListAll(context.Background(), sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(rows))
	}
	if rows[0]["id"] != int64(1) || rows[1]["id"] != int64(2) {
		t.Error("rows must come back ordered by id")
	}
}

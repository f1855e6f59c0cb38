package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tastemap/tastemap-backend/internal/adapter/postgres"
	"github.com/tastemap/tastemap-backend/internal/adapter/postgres/testhelper"
)

// cityExists checks whether a city row with the given name exists.
func cityExists(t *testing.T, pool *pgxpool.Pool, name string) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(
		context.Background(),
		`SELECT EXISTS(SELECT 1 FROM cities WHERE name = $1)`,
		name,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("cityExists query: %v", err)
	}
	return exists
}

func insertCity(ctx context.Context, q postgres.Querier, name string) error {
	_, err := q.Exec(ctx, `INSERT INTO cities (name, state) VALUES ($1, $2)`, name, "OR")
	return err
}

func TestRunInTx_Commit(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return insertCity(ctx, postgres.QuerierFromCtx(ctx, pool), "tx-commit-city")
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !cityExists(t, pool, "tx-commit-city") {
		t.Fatal("expected city to exist after committed transaction")
	}
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	sentinel := errors.New("business logic error")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if execErr := insertCity(ctx, postgres.QuerierFromCtx(ctx, pool), "tx-rollback-city"); execErr != nil {
			t.Fatalf("insert inside tx failed: %v", execErr)
		}
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}

	if cityExists(t, pool, "tx-rollback-city") {
		t.Fatal("expected city NOT to exist after rolled-back transaction")
	}
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic to be re-raised")
		}
		if r != "test panic" {
			t.Fatalf("expected panic value %q, got %v", "test panic", r)
		}

		if cityExists(t, pool, "tx-panic-city") {
			t.Fatal("expected city NOT to exist after panic-rolled-back transaction")
		}
	}()

	_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertCity(ctx, postgres.QuerierFromCtx(ctx, pool), "tx-panic-city"); err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		panic("test panic")
	})
}

func TestRunInTx_QuerierFromCtx_UsesTx(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, pool)
		if err := insertCity(ctx, q, "tx-visibility-city"); err != nil {
			return err
		}

		// Should be visible within the transaction.
		var exists bool
		err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM cities WHERE name = $1)`, "tx-visibility-city").Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			t.Fatal("expected city to be visible within the transaction")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !cityExists(t, pool, "tx-visibility-city") {
		t.Fatal("expected city to exist after committed transaction")
	}
}

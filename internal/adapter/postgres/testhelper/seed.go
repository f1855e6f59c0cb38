package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedCity creates a city with a unique name and returns its id.
func SeedCity(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO cities (name, state) VALUES ($1, $2) RETURNING id`,
		"City "+uniqueSuffix(), "OR",
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedCity: %v", err)
	}
	return id
}

// SeedNeighborhood creates a neighborhood in the given city and returns its id.
func SeedNeighborhood(t *testing.T, pool *pgxpool.Pool, cityID int64) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO neighborhoods (name, city_id) VALUES ($1, $2) RETURNING id`,
		"Neighborhood "+uniqueSuffix(), cityID,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedNeighborhood: %v", err)
	}
	return id
}

// SeedUser creates a user with a unique username and email and returns its id.
func SeedUser(t *testing.T, pool *pgxpool.Pool, role string) int64 {
	t.Helper()

	suffix := uniqueSuffix()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (username, email, display_name, role, password_hash)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		"user-"+suffix, "user-"+suffix+"@example.com", "Test User "+suffix, role, "$2a$10$test",
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}
	return id
}

// SeedRestaurant creates a restaurant with the given name in the given city
// and returns its id.
func SeedRestaurant(t *testing.T, pool *pgxpool.Pool, name string, cityID int64) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO restaurants (name, city_id, address)
		 VALUES ($1, $2, $3) RETURNING id`,
		name, cityID, "100 Test St",
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedRestaurant: %v", err)
	}
	return id
}

// SeedDish creates a dish for the given restaurant and returns its id.
func SeedDish(t *testing.T, pool *pgxpool.Pool, name string, restaurantID int64) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO dishes (name, restaurant_id, price)
		 VALUES ($1, $2, $3) RETURNING id`,
		name, restaurantID, 9.50,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedDish: %v", err)
	}
	return id
}

// SeedHashtag creates a hashtag with a unique name and returns its id.
func SeedHashtag(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO hashtags (name) VALUES ($1) RETURNING id`,
		"tag-"+uniqueSuffix(),
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedHashtag: %v", err)
	}
	return id
}

// SeedSubmission creates a pending submission and returns its id.
func SeedSubmission(t *testing.T, pool *pgxpool.Pool, name string, cityID int64) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO submissions (name, city_id, status)
		 VALUES ($1, $2, 'pending') RETURNING id`,
		name, cityID,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedSubmission: %v", err)
	}
	return id
}

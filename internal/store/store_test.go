// store_test.go provides a shared test database helper for all store
// integration tests. It uses the PostgreSQL described by POSTGRES_* when it
// is reachable, and otherwise starts a throwaway container. Tests are
// skipped when neither is available.
package store

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"adpress/internal/database"
)

var (
	containerOnce sync.Once
	container     *postgres.PostgresContainer
	containerDSN  string
	containerErr  error
)

func TestMain(m *testing.M) {
	code := m.Run()
	if container != nil {
		testcontainers.TerminateContainer(container)
	}
	os.Exit(code)
}

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "adpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "adpress")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// startContainer runs a disposable PostgreSQL shared by the whole package.
func startContainer(t *testing.T) string {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	containerOnce.Do(func() {
		ctx := context.Background()
		container, containerErr = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("adpress"),
			postgres.WithUsername("adpress"),
			postgres.WithPassword("adpress"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if containerErr != nil {
			return
		}
		containerDSN, containerErr = container.ConnectionString(ctx, "sslmode=disable")
	})

	if containerErr != nil {
		t.Skipf("skipping integration test: cannot start postgres container: %v", containerErr)
	}
	return containerDSN
}

func open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// testDB opens a connection to the test database and runs migrations.
// A cleanup function is registered to close the connection when the test
// finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := open(testDSN())
	if err != nil {
		t.Logf("configured DB not reachable (%v), trying a container", err)
		db, err = open(startContainer(t))
		if err != nil {
			t.Skipf("skipping integration test: DB not reachable: %v", err)
		}
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanPostsInCategory removes every post filed under the category id. Tests
// give each run a fresh category id so this never touches other data.
func cleanPostsInCategory(t *testing.T, db *sql.DB, categoryID any) {
	t.Helper()
	db.Exec("DELETE FROM posts WHERE category_id = $1", categoryID)
}

// cleanCategories removes test categories by slug. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM categories WHERE slug = $1", s)
	}
}

// cleanAds removes test ads by id. Call in t.Cleanup().
func cleanAds(t *testing.T, db *sql.DB, ids ...any) {
	t.Helper()
	for _, id := range ids {
		db.Exec("DELETE FROM ads WHERE id = $1", id)
	}
}

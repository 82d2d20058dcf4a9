package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kushwaha-yash/loan-risk/pkg/postgres"
)

const postgresImage = "postgres:16-alpine"

// PostgresContainer is a throwaway PostgreSQL instance for repository tests.
type PostgresContainer struct {
	Container *tcpostgres.PostgresContainer
	DSN       string
	Pool      *pgxpool.Pool
}

// NewPostgresContainer starts PostgreSQL for the lifetime of t. Tests calling
// it are skipped under -short.
func NewPostgresContainer(ctx context.Context, t *testing.T) *PostgresContainer {
	t.Helper()
	if testing.Short() {
		t.Skip("container-backed test skipped in short mode")
	}

	ctr, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase("loan_risk_test"),
		tcpostgres.WithUsername("risk"),
		tcpostgres.WithPassword("risk"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start %s: %v", postgresImage, err)
	}
	pc := &PostgresContainer{Container: ctr}
	t.Cleanup(func() { pc.terminate(t) })

	if pc.DSN, err = ctr.ConnectionString(ctx, "sslmode=disable"); err != nil {
		t.Fatalf("connection string: %v", err)
	}
	if pc.Pool, err = pgxpool.New(ctx, pc.DSN); err != nil {
		t.Fatalf("open pool: %v", err)
	}
	if err := postgres.HealthCheck(ctx, pc.Pool); err != nil {
		t.Fatal(err)
	}
	return pc
}

// RunMigrations applies every up migration in dir with the same migrator
// the service uses at startup.
func (pc *PostgresContainer) RunMigrations(t *testing.T, dir string) {
	t.Helper()

	abs, err := filepath.Abs(dir)
	if err != nil {
		t.Fatalf("resolve %s: %v", dir, err)
	}
	if err := postgres.RunMigrations(pc.DSN, "file://"+filepath.ToSlash(abs)); err != nil {
		t.Fatal(err)
	}
}

func (pc *PostgresContainer) terminate(t *testing.T) {
	t.Helper()
	if pc.Pool != nil {
		pc.Pool.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pc.Container.Terminate(ctx); err != nil {
		t.Logf("terminate postgres container: %v", err)
	}
}

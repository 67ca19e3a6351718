//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mpapenbr/f1results/pkg/db/migrate"
	"github.com/mpapenbr/f1results/pkg/db/postgres"
	"github.com/mpapenbr/f1results/pkg/model"
)

// SetupTestDB starts (or reuses) a postgres container and returns a pool
// for the migrated test database
func SetupTestDB() *pgxpool.Pool {
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		log.Fatal(err)
	}
	container, err := SetupPostgres(ctx,
		WithPort(port.Port()),
		WithInitialDatabase("postgres", "password", "postgres"),
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
		WithName("f1results-test"),
	)
	if err != nil {
		log.Fatal(err)
	}
	containerPort, err := container.MappedPort(ctx, port)
	if err != nil {
		log.Fatal(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		log.Fatal(err)
	}
	dbURL := fmt.Sprintf("postgresql://postgres:password@%s:%s/postgres?sslmode=disable",
		host, containerPort.Port())
	return setupPool(ctx, dbURL)
}

// SetupExternalTestDB uses the database given by TESTDB_URL
func SetupExternalTestDB() *pgxpool.Pool {
	return setupPool(context.Background(), postgres.PrepareURL(os.Getenv("TESTDB_URL")))
}

func setupPool(ctx context.Context, dbURL string) *pgxpool.Pool {
	if _, err := migrate.MigrateDB(dbURL); err != nil {
		log.Fatal(err)
	}
	pool, err := postgres.InitWithURL(ctx, dbURL)
	if err != nil {
		log.Fatal(err)
	}
	return pool
}

func ClearAllTables(pool *pgxpool.Pool) {
	for _, name := range model.TableNames {
		pool.Exec(context.Background(), fmt.Sprintf("delete from %s", name))
	}
}

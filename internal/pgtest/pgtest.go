// Package pgtest opens PostgreSQL connections for integration tests.
//
// Tests are skipped unless DDD_KERNEL_TEST_POSTGRES_DSN is set. ADAPTER_TYPE selects the client library
// the engines under test are built on: "pgx.pool" (default), "sql.db" or "sqlx.db".
package pgtest

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // database/sql driver "postgres"

	"github.com/AntonStoeckl/ddd-kernel-go/internal/pgadapters"
)

// Environment variables read by Connect.
const (
	EnvDSN         = "DDD_KERNEL_TEST_POSTGRES_DSN"
	EnvAdapterType = "ADAPTER_TYPE"
)

// Adapter types.
const (
	TypePGXPool = "pgx.pool"
	TypeSQLDB   = "sql.db"
	TypeSQLXDB  = "sqlx.db"
)

const connectTimeout = 5 * time.Second

// Conn holds exactly one open connection of the selected adapter type.
type Conn struct {
	Type  string
	Pool  *pgxpool.Pool
	SQLDB *sql.DB
	SQLX  *sqlx.DB
	db    pgadapters.DBAdapter
}

// Connect opens a connection of the configured adapter type, or skips the test when no DSN is configured.
// The connection is closed with t.Cleanup.
func Connect(t testing.TB) Conn {
	t.Helper()

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s not set, skipping PostgreSQL integration test", EnvDSN)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	conn := Conn{Type: adapterType()}

	switch conn.Type {
	case TypeSQLDB:
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			t.Fatalf("opening sql.DB: %v", err)
		}
		conn.SQLDB = db
		conn.db = pgadapters.NewSQLAdapter(db)
		t.Cleanup(func() { _ = db.Close() })

	case TypeSQLXDB:
		db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
		if err != nil {
			t.Fatalf("opening sqlx.DB: %v", err)
		}
		conn.SQLX = db
		conn.db = pgadapters.NewSQLXAdapter(db)
		t.Cleanup(func() { _ = db.Close() })

	default:
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			t.Fatalf("opening pgxpool.Pool: %v", err)
		}
		conn.Pool = pool
		conn.db = pgadapters.NewPGXAdapter(pool)
		t.Cleanup(pool.Close)
	}

	return conn
}

// Exec runs a statement on the open connection and fails the test on error.
func (c Conn) Exec(t testing.TB, statement string) {
	t.Helper()

	if _, err := c.db.Exec(context.Background(), statement); err != nil {
		t.Fatalf("executing %q: %v", statement, err)
	}
}

// Adapter returns the adapter the connection was opened with.
func (c Conn) Adapter() pgadapters.DBAdapter {
	return c.db
}

func adapterType() string {
	switch adapterType := os.Getenv(EnvAdapterType); adapterType {
	case TypeSQLDB, TypeSQLXDB:
		return adapterType
	default:
		return TypePGXPool
	}
}

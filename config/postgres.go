package config

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver for database/sql and sqlx
)

const driverName = "postgres"

// Adapter selects the database library used to talk to Postgres.
type Adapter string

const (
	AdapterPGX  Adapter = "pgx"
	AdapterSQL  Adapter = "sql"
	AdapterSQLX Adapter = "sqlx"
)

var (
	ErrInvalidPoolSize       = errors.New("min connections must not exceed max connections")
	ErrEmptyTableName        = errors.New("table name must not be empty")
	ErrParsingDSNFailed      = errors.New("parsing postgres dsn failed")
	ErrNoReplicaConfigured   = errors.New("no replica dsn configured")
	ErrOpeningDatabaseFailed = errors.New("opening database failed")
	ErrPingFailed            = errors.New("pinging database failed")
	ErrUnknownAdapter        = errors.New("unknown database adapter")
)

// PostgresConfig holds the connection settings.
//
// The pgx pool uses MaxConns and MinConns, database/sql and sqlx use MaxOpenConns and MaxIdleConns.
type PostgresConfig struct {
	DSN        string  `env:"DSN,required,notEmpty"`
	ReplicaDSN string  `env:"REPLICA_DSN"`
	Adapter    Adapter `env:"ADAPTER" envDefault:"pgx"`

	MaxConns          int32         `env:"MAX_CONNS"           envDefault:"8"`
	MinConns          int32         `env:"MIN_CONNS"           envDefault:"2"`
	MaxOpenConns      int           `env:"MAX_OPEN_CONNS"      envDefault:"50"`
	MaxIdleConns      int           `env:"MAX_IDLE_CONNS"      envDefault:"10"`
	MaxConnLifetime   time.Duration `env:"MAX_CONN_LIFETIME"   envDefault:"1h"`
	MaxConnIdleTime   time.Duration `env:"MAX_CONN_IDLE_TIME"  envDefault:"5m"`
	HealthCheckPeriod time.Duration `env:"HEALTH_CHECK_PERIOD" envDefault:"1m"`
	ConnectTimeout    time.Duration `env:"CONNECT_TIMEOUT"     envDefault:"5s"`

	OutboxTable string `env:"OUTBOX_TABLE" envDefault:"outbox"`
}

func (c PostgresConfig) validate() error {
	if c.MinConns > c.MaxConns || c.MaxIdleConns > c.MaxOpenConns {
		return ErrInvalidPoolSize
	}

	if c.OutboxTable == "" {
		return ErrEmptyTableName
	}

	switch c.Adapter {
	case AdapterPGX, AdapterSQL, AdapterSQLX:
	default:
		return ErrUnknownAdapter
	}

	return nil
}

// PGXPoolConfig returns a pool config for the primary.
func (c PostgresConfig) PGXPoolConfig() (*pgxpool.Config, error) {
	return c.pgxPoolConfig(c.DSN)
}

// ReplicaPGXPoolConfig returns a pool config for the read replica, or ErrNoReplicaConfigured.
func (c PostgresConfig) ReplicaPGXPoolConfig() (*pgxpool.Config, error) {
	if c.ReplicaDSN == "" {
		return nil, ErrNoReplicaConfigured
	}

	return c.pgxPoolConfig(c.ReplicaDSN)
}

func (c PostgresConfig) pgxPoolConfig(dsn string) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Join(ErrParsingDSNFailed, err)
	}

	poolConfig.MaxConns = c.MaxConns
	poolConfig.MinConns = c.MinConns
	poolConfig.MaxConnLifetime = c.MaxConnLifetime
	poolConfig.MaxConnIdleTime = c.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = c.HealthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = c.ConnectTimeout

	return poolConfig, nil
}

// OpenPGXPool creates the primary pool and pings it.
func (c PostgresConfig) OpenPGXPool(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, err := c.PGXPoolConfig()
	if err != nil {
		return nil, err
	}

	return openPGXPool(ctx, poolConfig)
}

// OpenReplicaPGXPool opens and pings a pgx pool on the read replica, or returns ErrNoReplicaConfigured.
func (c PostgresConfig) OpenReplicaPGXPool(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, err := c.ReplicaPGXPoolConfig()
	if err != nil {
		return nil, err
	}

	return openPGXPool(ctx, poolConfig)
}

func openPGXPool(ctx context.Context, poolConfig *pgxpool.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, errors.Join(ErrPingFailed, pingErr)
	}

	return pool, nil
}

// OpenSQLDB opens a database/sql handle through lib/pq and pings it.
func (c PostgresConfig) OpenSQLDB(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(driverName, c.DSN)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	c.configureSQLPool(db)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, errors.Join(ErrPingFailed, pingErr)
	}

	return db, nil
}

// OpenSQLX opens an sqlx handle through lib/pq and pings it.
func (c PostgresConfig) OpenSQLX(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverName, c.DSN)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	c.configureSQLPool(db.DB)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, errors.Join(ErrPingFailed, pingErr)
	}

	return db, nil
}

func (c PostgresConfig) configureSQLPool(db *sql.DB) {
	db.SetMaxOpenConns(c.MaxOpenConns)
	db.SetMaxIdleConns(c.MaxIdleConns)
	db.SetConnMaxLifetime(c.MaxConnLifetime)
	db.SetConnMaxIdleTime(c.MaxConnIdleTime)
}

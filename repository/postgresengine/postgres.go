package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/ddd-kernel-go/internal/pgadapters"
	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
	"github.com/AntonStoeckl/ddd-kernel-go/observability"
	"github.com/AntonStoeckl/ddd-kernel-go/repository"
)

const (
	dialectPostgres = "postgres"

	colID         = "id"
	colDocument   = "document"
	colCreatedAt  = "created_at"
	colCreatedBy  = "created_by"
	colModifiedAt = "modified_at"
	colModifiedBy = "modified_by"

	castJsonb     = "?::jsonb"
	castTimestamp = "?::timestamp with time zone"

	opGetByID     = "repository.get_by_id"
	opAdd         = "repository.add"
	opUpdate      = "repository.update"
	opRemove      = "repository.remove"
	opCreateTable = "repository.create_table"

	logAttrTable    = "table"
	logAttrID       = "id"
	logAttrError    = "error"
	logMsgCloseRows = "failed to close database rows"

	errTypeBuildQuery = "build_query"
	errTypeDatabase   = "database_error"
	errTypeCodec      = "codec_error"
	errTypeNotFound   = "not_found"
	errTypeExists     = "already_exists"
)

var (
	ErrNilDatabaseConnection  = errors.New("database connection is nil")
	ErrEmptyTableNameSupplied = errors.New("empty table name supplied")
	ErrNilCodec               = errors.New("codec must not be nil")
	ErrBuildingQueryFailed    = errors.New("building query failed")
	ErrQueryingFailed         = errors.New("querying aggregate failed")
	ErrWritingFailed          = errors.New("writing aggregate failed")
	ErrEncodingFailed         = errors.New("encoding aggregate failed")
	ErrDecodingFailed         = errors.New("decoding aggregate failed")
	ErrCreatingTableFailed    = errors.New("creating aggregate table failed")
)

// DocumentRepository stores aggregates of one type as JSON documents.
type DocumentRepository[A repository.Aggregate[TID], TID comparable] struct {
	db        pgadapters.DBAdapter
	tableName string
	codec     Codec[A, TID]
	instr     observability.Instrumentation
}

// NewDocumentRepositoryFromPGXPool creates a DocumentRepository using a pgx Pool.
func NewDocumentRepositoryFromPGXPool[A repository.Aggregate[TID], TID comparable](
	db *pgxpool.Pool,
	tableName string,
	codec Codec[A, TID],
	options ...Option,
) (*DocumentRepository[A, TID], error) {

	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newDocumentRepository(pgadapters.NewPGXAdapter(db), tableName, codec, options...)
}

// NewDocumentRepositoryFromPGXPoolAndReplica creates a DocumentRepository that serves GetByID from replica
// when the context was prepared with WithReplicaReads. Writes always go to the primary.
func NewDocumentRepositoryFromPGXPoolAndReplica[A repository.Aggregate[TID], TID comparable](
	primary *pgxpool.Pool,
	replica *pgxpool.Pool,
	tableName string,
	codec Codec[A, TID],
	options ...Option,
) (*DocumentRepository[A, TID], error) {

	if primary == nil || replica == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newDocumentRepository(pgadapters.NewPGXAdapterWithReplica(primary, replica), tableName, codec, options...)
}

// WithReplicaReads marks ctx so that reads of a repository with a replica may be served by the replica.
// Use it for query-side reads only. A replica can lag behind, so loading an aggregate to change it must
// keep the default primary reads.
func WithReplicaReads(ctx context.Context) context.Context {
	return pgadapters.WithReplicaReads(ctx)
}

// InTransaction runs fn inside one transaction on the primary and satisfies uow.Transactor.
// Writes made with the ctx passed to fn join it, together with outbox appends on the same pool.
func (r *DocumentRepository[A, TID]) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.InTransaction(ctx, fn)
}

// NewDocumentRepositoryFromSQLDB creates a DocumentRepository using a sql.DB.
func NewDocumentRepositoryFromSQLDB[A repository.Aggregate[TID], TID comparable](
	db *sql.DB,
	tableName string,
	codec Codec[A, TID],
	options ...Option,
) (*DocumentRepository[A, TID], error) {

	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newDocumentRepository(pgadapters.NewSQLAdapter(db), tableName, codec, options...)
}

// NewDocumentRepositoryFromSQLX creates a DocumentRepository using a sqlx.DB.
func NewDocumentRepositoryFromSQLX[A repository.Aggregate[TID], TID comparable](
	db *sqlx.DB,
	tableName string,
	codec Codec[A, TID],
	options ...Option,
) (*DocumentRepository[A, TID], error) {

	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newDocumentRepository(pgadapters.NewSQLXAdapter(db), tableName, codec, options...)
}

func newDocumentRepository[A repository.Aggregate[TID], TID comparable](
	db pgadapters.DBAdapter,
	tableName string,
	codec Codec[A, TID],
	options ...Option,
) (*DocumentRepository[A, TID], error) {

	if tableName == "" {
		return nil, ErrEmptyTableNameSupplied
	}

	if codec == nil {
		return nil, ErrNilCodec
	}

	configured := config{}
	for _, option := range options {
		if err := option(&configured); err != nil {
			return nil, err
		}
	}

	return &DocumentRepository[A, TID]{
		db:        db,
		tableName: tableName,
		codec:     codec,
		instr:     configured.instr,
	}, nil
}

// CreateTableStatement returns the DDL for the document table.
// A schema-qualified table name is quoted per part, matching the generated queries.
func (r *DocumentRepository[A, TID]) CreateTableStatement() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s text PRIMARY KEY,
	%s jsonb NOT NULL,
	%s timestamp with time zone NULL,
	%s text NULL,
	%s timestamp with time zone NULL,
	%s text NULL
)`,
		pgx.Identifier(strings.Split(r.tableName, ".")).Sanitize(),
		colID, colDocument, colCreatedAt, colCreatedBy, colModifiedAt, colModifiedBy,
	)
}

// CreateTable creates the document table if it does not exist yet.
func (r *DocumentRepository[A, TID]) CreateTable(ctx context.Context) error {
	ctx, op := r.instr.Start(ctx, opCreateTable, map[string]string{logAttrTable: r.tableName})

	if _, err := r.exec(ctx, opCreateTable, r.CreateTableStatement()); err != nil {
		op.Failure(err, errTypeDatabase)
		return errors.Join(ErrCreatingTableFailed, err)
	}

	op.Success(nil)

	return nil
}

type documentRow struct {
	document   []byte
	createdAt  *time.Time
	createdBy  *string
	modifiedAt *time.Time
	modifiedBy *string
}

// GetByID loads the aggregate with the given id.
func (r *DocumentRepository[A, TID]) GetByID(ctx context.Context, id TID) (A, error) {
	var zero A
	idString := r.codec.IDString(id)

	ctx, op := r.instr.Start(ctx, opGetByID, map[string]string{logAttrTable: r.tableName})

	sqlQuery, buildErr := r.buildSelectQuery(idString)
	if buildErr != nil {
		op.Failure(buildErr, errTypeBuildQuery)
		return zero, buildErr
	}

	start := time.Now()
	rows, queryErr := r.db.Query(ctx, sqlQuery)
	r.instr.LogSQL(ctx, opGetByID, sqlQuery, time.Since(start))

	if queryErr != nil {
		op.Failure(queryErr, errTypeDatabase)
		return zero, errors.Join(ErrQueryingFailed, queryErr)
	}
	defer r.closeRows(ctx, rows)

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			op.Failure(rowsErr, errTypeDatabase)
			return zero, errors.Join(ErrQueryingFailed, rowsErr)
		}

		err := errors.Join(repository.ErrNotFound, fmt.Errorf("id: %s", idString))
		op.Failure(err, errTypeNotFound)

		return zero, err
	}

	row := documentRow{}
	if scanErr := rows.Scan(&row.document, &row.createdAt, &row.createdBy, &row.modifiedAt, &row.modifiedBy); scanErr != nil {
		op.Failure(scanErr, errTypeDatabase)
		return zero, errors.Join(ErrQueryingFailed, scanErr)
	}

	aggregate, decodeErr := r.codec.Unmarshal(id, row.document, auditInfoFrom(row))
	if decodeErr != nil {
		op.Failure(decodeErr, errTypeCodec)
		return zero, errors.Join(ErrDecodingFailed, decodeErr)
	}

	op.Success(nil, logAttrID, idString)

	return aggregate, nil
}

func auditInfoFrom(row documentRow) kernel.AuditInfo {
	if row.createdAt == nil {
		return kernel.AuditInfo{}
	}

	createdBy := ""
	if row.createdBy != nil {
		createdBy = *row.createdBy
	}

	return kernel.RestoreAuditInfo(*row.createdAt, createdBy, row.modifiedAt, row.modifiedBy)
}

// Add inserts a new aggregate. It fails with repository.ErrAlreadyExists if the id is taken.
func (r *DocumentRepository[A, TID]) Add(ctx context.Context, aggregate A) error {
	return r.write(ctx, opAdd, aggregate, r.buildInsertQuery, repository.ErrAlreadyExists, errTypeExists)
}

// Update replaces the document of a stored aggregate. It fails with repository.ErrNotFound for an unknown id.
func (r *DocumentRepository[A, TID]) Update(ctx context.Context, aggregate A) error {
	return r.write(ctx, opUpdate, aggregate, r.buildUpdateQuery, repository.ErrNotFound, errTypeNotFound)
}

// Remove deletes a stored aggregate. It fails with repository.ErrNotFound for an unknown id.
func (r *DocumentRepository[A, TID]) Remove(ctx context.Context, aggregate A) error {
	buildDelete := func(idString string, _ []byte, _ auditColumns) (string, error) {
		return r.buildDeleteQuery(idString)
	}

	return r.write(ctx, opRemove, aggregate, buildDelete, repository.ErrNotFound, errTypeNotFound)
}

type auditColumns struct {
	createdAt  any
	createdBy  any
	modifiedAt any
	modifiedBy any
}

type writeQueryBuilder func(idString string, document []byte, audit auditColumns) (string, error)

// write runs a statement that must affect exactly one row; zero affected rows map to noRowsErr.
func (r *DocumentRepository[A, TID]) write(
	ctx context.Context,
	operation string,
	aggregate A,
	build writeQueryBuilder,
	noRowsErr error,
	noRowsErrType string,
) error {

	idString := r.codec.IDString(aggregate.ID())
	ctx, op := r.instr.Start(ctx, operation, map[string]string{logAttrTable: r.tableName})

	document, encodeErr := r.codec.Marshal(aggregate)
	if encodeErr != nil {
		op.Failure(encodeErr, errTypeCodec)
		return errors.Join(ErrEncodingFailed, encodeErr)
	}

	sqlQuery, buildErr := build(idString, document, auditColumnsOf(aggregate))
	if buildErr != nil {
		op.Failure(buildErr, errTypeBuildQuery)
		return buildErr
	}

	rowsAffected, execErr := r.exec(ctx, operation, sqlQuery)
	if execErr != nil {
		op.Failure(execErr, errTypeDatabase)
		return errors.Join(ErrWritingFailed, execErr)
	}

	if rowsAffected == 0 {
		err := errors.Join(noRowsErr, fmt.Errorf("id: %s", idString))
		op.Failure(err, noRowsErrType)

		return err
	}

	op.Success(nil, logAttrID, idString)

	return nil
}

func auditColumnsOf(aggregate any) auditColumns {
	columns := auditColumns{}

	auditable, ok := aggregate.(kernel.Auditable)
	if !ok || auditable.CreatedAtUTC().IsZero() {
		return columns
	}

	columns.createdAt = goqu.L(castTimestamp, auditable.CreatedAtUTC())
	columns.createdBy = auditable.CreatedBy()

	if modifiedAt, modified := auditable.ModifiedAtUTC(); modified {
		columns.modifiedAt = goqu.L(castTimestamp, modifiedAt)
		columns.modifiedBy, _ = auditable.ModifiedBy()
	}

	return columns
}

func (r *DocumentRepository[A, TID]) exec(ctx context.Context, action string, statement string) (int64, error) {
	start := time.Now()
	result, execErr := r.db.Exec(ctx, statement)
	r.instr.LogSQL(ctx, action, statement, time.Since(start))

	if execErr != nil {
		return 0, execErr
	}

	return result.RowsAffected()
}

func (r *DocumentRepository[A, TID]) buildSelectQuery(idString string) (string, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(r.tableName).
		Select(colDocument, colCreatedAt, colCreatedBy, colModifiedAt, colModifiedBy).
		Where(goqu.C(colID).Eq(idString))

	return toSQL(selectStmt)
}

func (r *DocumentRepository[A, TID]) buildInsertQuery(idString string, document []byte, audit auditColumns) (string, error) {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(r.tableName).
		Rows(goqu.Record{
			colID:         idString,
			colDocument:   goqu.L(castJsonb, string(document)),
			colCreatedAt:  audit.createdAt,
			colCreatedBy:  audit.createdBy,
			colModifiedAt: audit.modifiedAt,
			colModifiedBy: audit.modifiedBy,
		}).
		OnConflict(goqu.DoNothing())

	return toSQL(insertStmt)
}

func (r *DocumentRepository[A, TID]) buildUpdateQuery(idString string, document []byte, audit auditColumns) (string, error) {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(r.tableName).
		Set(goqu.Record{
			colDocument:   goqu.L(castJsonb, string(document)),
			colCreatedAt:  audit.createdAt,
			colCreatedBy:  audit.createdBy,
			colModifiedAt: audit.modifiedAt,
			colModifiedBy: audit.modifiedBy,
		}).
		Where(goqu.C(colID).Eq(idString))

	return toSQL(updateStmt)
}

func (r *DocumentRepository[A, TID]) buildDeleteQuery(idString string) (string, error) {
	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(r.tableName).
		Where(goqu.C(colID).Eq(idString))

	return toSQL(deleteStmt)
}

type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

func toSQL(builder sqlBuilder) (string, error) {
	sqlQuery, _, toSQLErr := builder.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (r *DocumentRepository[A, TID]) closeRows(ctx context.Context, rows pgadapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		r.instr.Warn(ctx, logMsgCloseRows, logAttrError, closeErr.Error())
	}
}

package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/ddd-kernel-go/internal/pgadapters"
	"github.com/AntonStoeckl/ddd-kernel-go/observability"
	"github.com/AntonStoeckl/ddd-kernel-go/outbox"
)

const (
	defaultTableName = "outbox"
	dialectPostgres  = "postgres"

	colSequenceNumber = "sequence_number"
	colMessageID      = "message_id"
	colAggregateType  = "aggregate_type"
	colAggregateID    = "aggregate_id"
	colEventType      = "event_type"
	colOccurredAt     = "occurred_at"
	colPayload        = "payload"
	colMetadata       = "metadata"
	colDispatchedAt   = "dispatched_at"

	castUUID      = "?::uuid"
	castText      = "?::text"
	castTimestamp = "?::timestamp with time zone"
	castJsonb     = "?::jsonb"

	opAppend         = "outbox.append"
	opPending        = "outbox.pending"
	opMarkDispatched = "outbox.mark_dispatched"
	opCreateTable    = "outbox.create_table"

	logActionAppend         = "append"
	logActionPending        = "pending"
	logActionMarkDispatched = "mark_dispatched"
	logActionCreateTable    = "create_table"

	logAttrEventCount   = "event_count"
	logAttrRecordCount  = "record_count"
	logAttrRowsAffected = "rows_affected"
	logAttrLimit        = "limit"
	logMsgCloseRows     = "failed to close database rows"
	logAttrError        = "error"

	errTypeBuildQuery   = "build_query"
	errTypeDatabase     = "database_error"
	errTypeScan         = "scan_error"
	errTypeInvalidRow   = "invalid_row"
	errTypeRowsAffected = "rows_affected"
)

// Store is a PostgreSQL backed transactional outbox.
type Store struct {
	db        pgadapters.DBAdapter
	tableName string
	instr     observability.Instrumentation
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, ErrNilDatabaseConnection
	}

	return newStore(pgadapters.NewPGXAdapter(db), options...)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, ErrNilDatabaseConnection
	}

	return newStore(pgadapters.NewSQLAdapter(db), options...)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, ErrNilDatabaseConnection
	}

	return newStore(pgadapters.NewSQLXAdapter(db), options...)
}

func newStore(db pgadapters.DBAdapter, options ...Option) (Store, error) {
	s := Store{
		db:        db,
		tableName: defaultTableName,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	return s, nil
}

// TableName returns the configured outbox table name.
func (s Store) TableName() string {
	return s.tableName
}

// CreateTableStatement returns the DDL for the outbox table, including the partial index used by Pending.
func (s Store) CreateTableStatement() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
	%[2]s bigserial PRIMARY KEY,
	%[3]s uuid NOT NULL UNIQUE,
	%[4]s text NOT NULL,
	%[5]s text NOT NULL,
	%[6]s text NOT NULL,
	%[7]s timestamp with time zone NOT NULL,
	%[8]s jsonb NOT NULL,
	%[9]s jsonb NOT NULL,
	%[10]s timestamp with time zone NULL
);
CREATE INDEX IF NOT EXISTS %[11]s ON %[1]s (%[2]s) WHERE %[10]s IS NULL;`,
		tableIdentifier(s.tableName),
		colSequenceNumber, colMessageID, colAggregateType, colAggregateID, colEventType,
		colOccurredAt, colPayload, colMetadata, colDispatchedAt,
		pgx.Identifier{pendingIndexName(s.tableName)}.Sanitize(),
	)
}

// tableIdentifier quotes a possibly schema-qualified table name the way goqu does for the queries.
func tableIdentifier(tableName string) string {
	return pgx.Identifier(strings.Split(tableName, ".")).Sanitize()
}

// pendingIndexName is unqualified, Postgres creates an index in the schema of its table.
func pendingIndexName(tableName string) string {
	return tableName[strings.LastIndex(tableName, ".")+1:] + "_pending_idx"
}

// CreateTable creates the outbox table and its pending index if they do not exist yet.
func (s Store) CreateTable(ctx context.Context) error {
	ctx, op := s.instr.Start(ctx, opCreateTable, nil)

	statement := s.CreateTableStatement()
	start := time.Now()
	_, execErr := s.db.Exec(ctx, statement)
	s.instr.LogSQL(ctx, logActionCreateTable, statement, time.Since(start))

	if execErr != nil {
		op.Failure(execErr, errTypeDatabase)
		return errors.Join(ErrCreatingTableFailed, execErr)
	}

	op.Success(nil)

	return nil
}

// InTransaction runs fn inside one database transaction and satisfies uow.Transactor.
// Appends made with the ctx passed to fn join that transaction, and so does every outbox store or
// document repository built on the same connection pool.
func (s Store) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.db.InTransaction(ctx, fn)
}

// Append inserts one or several storable events into the outbox with a single INSERT statement.
// The sequence numbers follow the order of the arguments.
func (s Store) Append(ctx context.Context, event outbox.StorableEvent, additionalEvents ...outbox.StorableEvent) error {
	allEvents := outbox.StorableEvents{event}
	allEvents = append(allEvents, additionalEvents...)

	eventCount := strconv.Itoa(len(allEvents))
	ctx, op := s.instr.Start(ctx, opAppend, map[string]string{logAttrEventCount: eventCount})

	sqlQuery, buildErr := s.buildInsertQuery(allEvents)
	if buildErr != nil {
		op.Failure(buildErr, errTypeBuildQuery, logAttrEventCount, len(allEvents))
		return buildErr
	}

	start := time.Now()
	result, execErr := s.db.Exec(ctx, sqlQuery)
	s.instr.LogSQL(ctx, logActionAppend, sqlQuery, time.Since(start))

	if execErr != nil {
		op.Failure(execErr, errTypeDatabase, logAttrEventCount, len(allEvents))
		return errors.Join(ErrAppendingEventsFailed, execErr)
	}

	rowsAffected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		op.Failure(rowsErr, errTypeRowsAffected)
		return errors.Join(ErrGettingRowsAffectedFailed, rowsErr)
	}

	if rowsAffected != int64(len(allEvents)) {
		err := fmt.Errorf("expected %d inserted rows, got %d", len(allEvents), rowsAffected)
		op.Failure(err, errTypeRowsAffected)

		return errors.Join(ErrAppendingEventsFailed, err)
	}

	op.Success(map[string]string{logAttrRowsAffected: strconv.FormatInt(rowsAffected, 10)}, logAttrEventCount, len(allEvents))

	return nil
}

// Pending returns up to limit records that were not dispatched yet, in ascending sequence order.
func (s Store) Pending(ctx context.Context, limit int) ([]outbox.Record, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	ctx, op := s.instr.Start(ctx, opPending, map[string]string{logAttrLimit: strconv.Itoa(limit)})

	sqlQuery, buildErr := s.buildPendingQuery(limit)
	if buildErr != nil {
		op.Failure(buildErr, errTypeBuildQuery)
		return nil, buildErr
	}

	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery)
	s.instr.LogSQL(ctx, logActionPending, sqlQuery, time.Since(start))

	if queryErr != nil {
		op.Failure(queryErr, errTypeDatabase)
		return nil, errors.Join(ErrQueryingPendingFailed, queryErr)
	}
	defer s.closeRows(ctx, rows)

	records, scanErr := s.processPendingRows(rows)
	if scanErr != nil {
		op.Failure(scanErr, errTypeScan)
		return nil, scanErr
	}

	op.Success(map[string]string{logAttrRecordCount: strconv.Itoa(len(records))}, logAttrRecordCount, len(records))

	return records, nil
}

type pendingRow struct {
	sequenceNumber int64
	messageID      string
	aggregateType  string
	aggregateID    string
	eventType      string
	occurredAt     time.Time
	payload        []byte
	metadata       []byte
}

func (s Store) processPendingRows(rows pgadapters.DBRows) ([]outbox.Record, error) {
	records := make([]outbox.Record, 0)

	for rows.Next() {
		row := pendingRow{}

		scanErr := rows.Scan(
			&row.sequenceNumber,
			&row.messageID,
			&row.aggregateType,
			&row.aggregateID,
			&row.eventType,
			&row.occurredAt,
			&row.payload,
			&row.metadata,
		)
		if scanErr != nil {
			return nil, errors.Join(ErrScanningDBRowFailed, scanErr)
		}

		record, buildErr := recordFrom(row)
		if buildErr != nil {
			return nil, buildErr
		}

		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, errors.Join(ErrQueryingPendingFailed, rowsErr)
	}

	return records, nil
}

func recordFrom(row pendingRow) (outbox.Record, error) {
	messageID, parseErr := uuid.Parse(row.messageID)
	if parseErr != nil {
		return outbox.Record{}, errors.Join(ErrBuildingStorableEventFailed, parseErr)
	}

	event, buildErr := outbox.BuildStorableEvent(
		messageID,
		row.aggregateType,
		row.aggregateID,
		row.eventType,
		row.occurredAt,
		row.payload,
		row.metadata,
	)
	if buildErr != nil {
		return outbox.Record{}, errors.Join(ErrBuildingStorableEventFailed, buildErr)
	}

	return outbox.Record{SequenceNumber: row.sequenceNumber, Event: event}, nil
}

// MarkDispatched sets dispatched_at for the given sequence numbers, skipping records that were already dispatched.
// It returns the number of records that changed.
func (s Store) MarkDispatched(ctx context.Context, at time.Time, sequenceNumbers ...int64) (int64, error) {
	if len(sequenceNumbers) == 0 {
		return 0, nil
	}

	ctx, op := s.instr.Start(ctx, opMarkDispatched, map[string]string{logAttrRecordCount: strconv.Itoa(len(sequenceNumbers))})

	sqlQuery, buildErr := s.buildMarkDispatchedQuery(at, sequenceNumbers)
	if buildErr != nil {
		op.Failure(buildErr, errTypeBuildQuery)
		return 0, buildErr
	}

	start := time.Now()
	result, execErr := s.db.Exec(ctx, sqlQuery)
	s.instr.LogSQL(ctx, logActionMarkDispatched, sqlQuery, time.Since(start))

	if execErr != nil {
		op.Failure(execErr, errTypeDatabase)
		return 0, errors.Join(ErrMarkingDispatchedFailed, execErr)
	}

	rowsAffected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		op.Failure(rowsErr, errTypeRowsAffected)
		return 0, errors.Join(ErrGettingRowsAffectedFailed, rowsErr)
	}

	op.Success(map[string]string{logAttrRowsAffected: strconv.FormatInt(rowsAffected, 10)}, logAttrRowsAffected, rowsAffected)

	return rowsAffected, nil
}

func (s Store) buildInsertQuery(events outbox.StorableEvents) (string, error) {
	rows := make([][]any, 0, len(events))

	for _, event := range events {
		rows = append(rows, []any{
			goqu.L(castUUID, event.MessageID.String()),
			goqu.L(castText, event.AggregateType),
			goqu.L(castText, event.AggregateID),
			goqu.L(castText, event.EventType),
			goqu.L(castTimestamp, event.OccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)),
			goqu.L(castJsonb, string(event.MetadataJSON)),
		})
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(s.tableName).
		Cols(colMessageID, colAggregateType, colAggregateID, colEventType, colOccurredAt, colPayload, colMetadata).
		Vals(rows...)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (s Store) buildPendingQuery(limit int) (string, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.tableName).
		Select(
			goqu.C(colSequenceNumber),
			goqu.L(castText, goqu.C(colMessageID)),
			goqu.C(colAggregateType),
			goqu.C(colAggregateID),
			goqu.C(colEventType),
			goqu.C(colOccurredAt),
			goqu.C(colPayload),
			goqu.C(colMetadata),
		).
		Where(goqu.C(colDispatchedAt).IsNull()).
		Order(goqu.C(colSequenceNumber).Asc()).
		Limit(uint(limit))

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (s Store) buildMarkDispatchedQuery(at time.Time, sequenceNumbers []int64) (string, error) {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(s.tableName).
		Set(goqu.Record{colDispatchedAt: goqu.L(castTimestamp, at.UTC())}).
		Where(
			goqu.C(colSequenceNumber).In(sequenceNumbers),
			goqu.C(colDispatchedAt).IsNull(),
		)

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// closeRows safely closes database rows and logs any errors.
func (s Store) closeRows(ctx context.Context, rows pgadapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		s.instr.Warn(ctx, logMsgCloseRows, logAttrError, closeErr.Error())
	}
}

package postgresengine

import "errors"

var (
	ErrNilDatabaseConnection       = errors.New("database connection is nil")
	ErrEmptyTableNameSupplied      = errors.New("empty outbox table name supplied")
	ErrInvalidLimit                = errors.New("limit must be greater than zero")
	ErrBuildingQueryFailed         = errors.New("building query failed")
	ErrAppendingEventsFailed       = errors.New("appending events to the outbox failed")
	ErrQueryingPendingFailed       = errors.New("querying pending outbox records failed")
	ErrScanningDBRowFailed         = errors.New("scanning db row failed")
	ErrBuildingStorableEventFailed = errors.New("building storable event failed")
	ErrMarkingDispatchedFailed     = errors.New("marking outbox records dispatched failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting rows affected failed")
	ErrCreatingTableFailed         = errors.New("creating outbox table failed")
)

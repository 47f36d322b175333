package postgresengine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ddd-kernel-go/internal/pgtest"
	"github.com/AntonStoeckl/ddd-kernel-go/repository"
	"github.com/AntonStoeckl/ddd-kernel-go/repository/postgresengine"
)

func givenTenantRepository(t *testing.T) *postgresengine.DocumentRepository[*tenant, tenantID] {
	t.Helper()

	conn := pgtest.Connect(t)
	tableName := "tenants_test_" + uuid.NewString()[:8]
	codec := givenTenantCodec()

	var repo *postgresengine.DocumentRepository[*tenant, tenantID]
	var err error

	switch conn.Type {
	case pgtest.TypeSQLDB:
		repo, err = postgresengine.NewDocumentRepositoryFromSQLDB[*tenant, tenantID](conn.SQLDB, tableName, codec)
	case pgtest.TypeSQLXDB:
		repo, err = postgresengine.NewDocumentRepositoryFromSQLX[*tenant, tenantID](conn.SQLX, tableName, codec)
	default:
		repo, err = postgresengine.NewDocumentRepositoryFromPGXPool[*tenant, tenantID](conn.Pool, tableName, codec)
	}
	require.NoError(t, err)

	require.NoError(t, repo.CreateTable(context.Background()))
	t.Cleanup(func() { conn.Exec(t, `DROP TABLE IF EXISTS "`+tableName+`"`) })

	return repo
}

func Test_DocumentRepository_Lifecycle(t *testing.T) {
	// arrange
	ctx := context.Background()
	repo := givenTenantRepository(t)
	acme := newTenant("t-1", "Acme", 5)
	acme.SetCreated(givenFixedTime(), "alice")

	// act + assert
	require.NoError(t, repo.Add(ctx, acme))
	assert.ErrorIs(t, repo.Add(ctx, acme), repository.ErrAlreadyExists)

	loaded, getErr := repo.GetByID(ctx, "t-1")
	require.NoError(t, getErr)
	assert.Equal(t, "Acme", loaded.name)
	assert.True(t, loaded.CreatedAtUTC().Equal(givenFixedTime()))
	assert.Equal(t, "alice", loaded.CreatedBy())

	loaded.seats = 9
	loaded.SetModified(givenFixedTime().Add(1), "bob")
	require.NoError(t, repo.Update(ctx, loaded))

	reloaded, reloadErr := repo.GetByID(ctx, "t-1")
	require.NoError(t, reloadErr)
	assert.Equal(t, 9, reloaded.seats)
	by, modified := reloaded.ModifiedBy()
	assert.True(t, modified)
	assert.Equal(t, "bob", by)

	require.NoError(t, repo.Remove(ctx, reloaded))
	_, goneErr := repo.GetByID(ctx, "t-1")
	assert.ErrorIs(t, goneErr, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Remove(ctx, reloaded), repository.ErrNotFound)
}

func Test_DocumentRepository_InTransaction_RollsBackWrites(t *testing.T) {
	// arrange
	repo := givenTenantRepository(t)
	errAbort := errors.New("abort")

	// act
	err := repo.InTransaction(context.Background(), func(ctx context.Context) error {
		if addErr := repo.Add(ctx, newTenant("t-1", "Acme", 5)); addErr != nil {
			return addErr
		}

		if _, getErr := repo.GetByID(ctx, "t-1"); getErr != nil {
			return getErr
		}

		return errAbort
	})

	// assert
	require.ErrorIs(t, err, errAbort)
	_, getErr := repo.GetByID(context.Background(), "t-1")
	assert.ErrorIs(t, getErr, repository.ErrNotFound)
}

func Test_FactoryFunctions_ShouldFail_WithNilDatabaseConnection(t *testing.T) {
	_, err := postgresengine.NewDocumentRepositoryFromPGXPool[*tenant, tenantID](nil, "tenants", givenTenantCodec())
	assert.ErrorIs(t, err, postgresengine.ErrNilDatabaseConnection)

	_, err = postgresengine.NewDocumentRepositoryFromSQLDB[*tenant, tenantID](nil, "tenants", givenTenantCodec())
	assert.ErrorIs(t, err, postgresengine.ErrNilDatabaseConnection)

	_, err = postgresengine.NewDocumentRepositoryFromSQLX[*tenant, tenantID](nil, "tenants", givenTenantCodec())
	assert.ErrorIs(t, err, postgresengine.ErrNilDatabaseConnection)

	_, err = postgresengine.NewDocumentRepositoryFromPGXPoolAndReplica[*tenant, tenantID](nil, nil, "tenants", givenTenantCodec())
	assert.ErrorIs(t, err, postgresengine.ErrNilDatabaseConnection)
}

func Test_DocumentRepository_WithReplicaReads(t *testing.T) {
	// arrange
	conn := pgtest.Connect(t)
	if conn.Type != pgtest.TypePGXPool {
		t.Skip("replica reads need the pgx adapter")
	}

	ctx := context.Background()
	tableName := "tenants_test_" + uuid.NewString()[:8]

	// the same pool serves as replica, which is enough to exercise the routing
	repo, err := postgresengine.NewDocumentRepositoryFromPGXPoolAndReplica[*tenant, tenantID](
		conn.Pool, conn.Pool, tableName, givenTenantCodec(),
	)
	require.NoError(t, err)
	require.NoError(t, repo.CreateTable(ctx))
	t.Cleanup(func() { conn.Exec(t, `DROP TABLE IF EXISTS "`+tableName+`"`) })

	require.NoError(t, repo.Add(ctx, newTenant("t-2", "Globex", 3)))

	// act
	loaded, getErr := repo.GetByID(postgresengine.WithReplicaReads(ctx), "t-2")

	// assert
	require.NoError(t, getErr)
	assert.Equal(t, "Globex", loaded.name)
}

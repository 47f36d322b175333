package pgadapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/ddd-kernel-go/internal/pgadapters"
)

func Test_ReadsFromReplica_DefaultsToPrimary(t *testing.T) {
	assert.False(t, pgadapters.ReadsFromReplica(context.Background()))
}

func Test_WithReplicaReads(t *testing.T) {
	ctx := pgadapters.WithReplicaReads(context.Background())

	assert.True(t, pgadapters.ReadsFromReplica(ctx))
}

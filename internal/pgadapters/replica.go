package pgadapters

import "context"

type replicaReadsKey struct{}

// WithReplicaReads returns a context whose queries may be served by a replica pool.
// Without it all reads go to the primary. Reads inside a transaction always use the primary.
func WithReplicaReads(ctx context.Context) context.Context {
	return context.WithValue(ctx, replicaReadsKey{}, true)
}

// ReadsFromReplica reports whether ctx allows replica reads.
func ReadsFromReplica(ctx context.Context) bool {
	allowed, _ := ctx.Value(replicaReadsKey{}).(bool)
	return allowed
}

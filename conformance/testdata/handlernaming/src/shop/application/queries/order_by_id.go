package queries

import "context"

type OrderByID struct{ ID string }

type OrderByIDQueryHandler struct{}

func (OrderByIDQueryHandler) Handle(ctx context.Context, q OrderByID) (string, error) { return q.ID, nil }

type OrderLookup struct{} // want `type OrderLookup has a Handle method and must be named \*QueryHandler`

func (OrderLookup) Handle(ctx context.Context, q OrderByID) (string, error) { return q.ID, nil }

package postgresengine_test

import (
	"time"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
	"github.com/AntonStoeckl/ddd-kernel-go/repository/postgresengine"
)

type tenantID string

type tenant struct {
	kernel.AggregateRoot[tenantID]
	kernel.AuditInfo
	name  string
	seats int
}

func newTenant(id tenantID, name string, seats int) *tenant {
	root, _ := kernel.NewAggregateRoot(id)
	return &tenant{AggregateRoot: root, name: name, seats: seats}
}

type tenantDocument struct {
	Name  string `json:"name"`
	Seats int    `json:"seats"`
}

func givenTenantCodec() postgresengine.JSONCodec[*tenant, tenantID, tenantDocument] {
	return postgresengine.NewJSONCodec(
		func(t *tenant) tenantDocument {
			return tenantDocument{Name: t.name, Seats: t.seats}
		},
		func(id tenantID, doc tenantDocument, audit kernel.AuditInfo) (*tenant, error) {
			restored := newTenant(id, doc.Name, doc.Seats)
			restored.AuditInfo = audit

			return restored, nil
		},
	)
}

func givenFixedTime() time.Time {
	return time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
}

package domain

import (
	"database/sql" // want `domain layer must not depend on database/sql: shop/domain imports "database/sql"`
	"time"

	"shop/application/clock" // want `domain layer must not depend on application: shop/domain imports "shop/application/clock"`
)

type Order struct {
	PlacedAt time.Time
	db       *sql.DB
}

func NewOrder() Order { return Order{PlacedAt: clock.Now()} }

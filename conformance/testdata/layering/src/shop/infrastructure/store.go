package infrastructure

import (
	"database/sql"

	"shop/domain"
)

type Store struct {
	db    *sql.DB
	order domain.Order
}

package ordering

import (
	"shop/domain"
	"shop/presentation" // want `application layer must not depend on presentation: shop/application/ordering imports "shop/presentation"`
)

type Service struct {
	Order domain.Order
}

func (s Service) Serve() { presentation.Serve() }

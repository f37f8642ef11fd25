package repository

import "github.com/tu-usuario/tienda-stock/internal/domain/entity"

// ProductRepository define el puerto de alta de catálogo (hoy solo lo usa el
// seeder). El motor de stock trata los productos como referencias opacas; las
// lecturas de catálogo llegan por los joins de ListLowStock y el audit trail.
type ProductRepository interface {
	Create(product *entity.Product) error
}

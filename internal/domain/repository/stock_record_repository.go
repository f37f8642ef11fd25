package repository

import (
	"context"

	"github.com/tu-usuario/tienda-stock/internal/domain/entity"
)

// LowStockItem producto en o por debajo de su nivel de reorden (join con catálogo).
type LowStockItem struct {
	ProductID      string
	SKU            string
	Name           string
	QuantityOnHand int64
	ReorderLevel   int64
}

// StockRecordRepository define el puerto para consultar/actualizar el stock por producto.
// Las mutaciones se usan solo dentro de transacciones del motor de stock.
type StockRecordRepository interface {
	Get(productID string) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(productID string) (*entity.StockRecord, error)
	Create(record *entity.StockRecord) error
	UpdateQuantity(productID string, quantity int64) error
	UpdateReorderLevel(productID string, level int64) error
	Delete(productID string) error
	// ListLowStock devuelve los productos con quantity_on_hand <= reorder_level.
	ListLowStock(ctx context.Context) ([]LowStockItem, error)
}

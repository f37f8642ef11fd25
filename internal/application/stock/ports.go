package stock

import (
	"context"

	"github.com/tu-usuario/tienda-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad para el motor de stock: o todo lo que hace
// fn queda confirmado, o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		recordRepo repository.StockRecordRepository,
		receiptRepo repository.StockReceiptRepository,
	) error) error
}

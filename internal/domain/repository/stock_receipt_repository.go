package repository

import "github.com/tu-usuario/tienda-stock/internal/domain/entity"

// StockReceiptRepository define el puerto de persistencia para cabeceras de recepción.
// La clave de idempotencia es única: el INSERT de un token repetido falla con 23505.
type StockReceiptRepository interface {
	Create(receipt *entity.StockReceipt) error
	GetByIdempotencyKey(key string) (*entity.StockReceipt, error)
}

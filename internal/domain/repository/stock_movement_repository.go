package repository

import (
	"context"

	"github.com/tu-usuario/tienda-stock/internal/domain/entity"
)

// MovementFilter filtros del audit trail. Reason y Search son opcionales;
// Limit acota el número de filas (el caso de uso aplica el valor por defecto).
type MovementFilter struct {
	Reason string
	Search string
	Limit  int
}

// StockMovementRepository define el puerto del ledger de movimientos: solo
// append y lecturas. Ningún método actualiza un movimiento ya escrito;
// DeleteByProduct existe únicamente para la purga explícita en cascada.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// ListFiltered lista movimientos con datos de producto, más reciente primero
	// (created_at DESC, id DESC).
	ListFiltered(ctx context.Context, filter MovementFilter) ([]*entity.MovementWithProduct, error)
	// SumByProduct suma los quantity_change de un producto (verificación de cuadre).
	SumByProduct(productID string) (int64, error)
	CountByReference(referenceType, referenceID string) (int, error)
	DeleteByProduct(productID string) error
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/tienda-stock/internal/domain"
	"github.com/tu-usuario/tienda-stock/internal/domain/entity"
	"github.com/tu-usuario/tienda-stock/internal/domain/repository"
)

var _ repository.StockReceiptRepository = (*StockReceiptRepo)(nil)

// StockReceiptRepo implementación de StockReceiptRepository sobre PostgreSQL.
type StockReceiptRepo struct {
	q Querier
}

// NewStockReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockReceiptRepository(q Querier) *StockReceiptRepo {
	return &StockReceiptRepo{q: q}
}

// Create inserta la cabecera de un recibo. Un IdempotencyKey repetido viola el
// constraint único y se devuelve como ErrDuplicate para que el motor relea el
// recibo original.
func (r *StockReceiptRepo) Create(receipt *entity.StockReceipt) error {
	query := `
		INSERT INTO stock_receipts (id, idempotency_key, received_by, created_at)
		VALUES ($1, $2, $3, $4)`
	key := nullable(receipt.IdempotencyKey)
	_, err := r.q.Exec(context.Background(), query,
		receipt.ID, key, receipt.ReceivedBy, receipt.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: idempotency key %q", domain.ErrDuplicate, receipt.IdempotencyKey)
		}
		return fmt.Errorf("create stock receipt: %w", err)
	}
	return nil
}

// GetByIdempotencyKey busca un recibo por token. Devuelve nil si no existe.
func (r *StockReceiptRepo) GetByIdempotencyKey(key string) (*entity.StockReceipt, error) {
	query := `
		SELECT id, COALESCE(idempotency_key, ''), received_by, created_at
		FROM stock_receipts WHERE idempotency_key = $1`
	var receipt entity.StockReceipt
	err := r.q.QueryRow(context.Background(), query, key).Scan(
		&receipt.ID, &receipt.IdempotencyKey, &receipt.ReceivedBy, &receipt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt by key: %w", err)
	}
	return &receipt, nil
}

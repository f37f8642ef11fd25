package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/tienda-stock/internal/domain/entity"
	"github.com/tu-usuario/tienda-stock/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación de StockRecordRepository sobre PostgreSQL (usable con pool o tx).
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

// Get obtiene el registro de stock de un producto. Devuelve nil si no existe.
func (r *StockRecordRepo) Get(productID string) (*entity.StockRecord, error) {
	query := `
		SELECT product_id, quantity_on_hand, reorder_level, updated_at
		FROM stock_records WHERE product_id = $1`
	var s entity.StockRecord
	err := r.q.QueryRow(context.Background(), query, productID).Scan(
		&s.ProductID, &s.QuantityOnHand, &s.ReorderLevel, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock record: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
// Devuelve nil si el producto no existe.
func (r *StockRecordRepo) GetForUpdate(productID string) (*entity.StockRecord, error) {
	query := `
		SELECT product_id, quantity_on_hand, reorder_level, updated_at
		FROM stock_records WHERE product_id = $1
		FOR UPDATE`
	var s entity.StockRecord
	err := r.q.QueryRow(context.Background(), query, productID).Scan(
		&s.ProductID, &s.QuantityOnHand, &s.ReorderLevel, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock record for update: %w", err)
	}
	return &s, nil
}

// Create inserta el registro de stock de un producto nuevo.
func (r *StockRecordRepo) Create(record *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (product_id, quantity_on_hand, reorder_level, updated_at)
		VALUES ($1, $2, $3, now())`
	_, err := r.q.Exec(context.Background(), query,
		record.ProductID, record.QuantityOnHand, record.ReorderLevel)
	if err != nil {
		return fmt.Errorf("create stock record: %w", err)
	}
	return nil
}

// UpdateQuantity fija la cantidad en mano. El CHECK quantity_on_hand >= 0 de
// la tabla es la red de seguridad final; el motor valida antes de llegar aquí.
func (r *StockRecordRepo) UpdateQuantity(productID string, quantity int64) error {
	query := `
		UPDATE stock_records SET quantity_on_hand = $2, updated_at = now()
		WHERE product_id = $1`
	_, err := r.q.Exec(context.Background(), query, productID, quantity)
	if err != nil {
		return fmt.Errorf("update stock quantity: %w", err)
	}
	return nil
}

// UpdateReorderLevel fija el nivel de reorden.
func (r *StockRecordRepo) UpdateReorderLevel(productID string, level int64) error {
	query := `
		UPDATE stock_records SET reorder_level = $2, updated_at = now()
		WHERE product_id = $1`
	_, err := r.q.Exec(context.Background(), query, productID, level)
	if err != nil {
		return fmt.Errorf("update reorder level: %w", err)
	}
	return nil
}

// Delete elimina el registro de stock (solo desde la purga en cascada del motor).
func (r *StockRecordRepo) Delete(productID string) error {
	query := `DELETE FROM stock_records WHERE product_id = $1`
	_, err := r.q.Exec(context.Background(), query, productID)
	if err != nil {
		return fmt.Errorf("delete stock record: %w", err)
	}
	return nil
}

// ListLowStock devuelve los productos con quantity_on_hand <= reorder_level,
// con nombre y SKU del catálogo.
func (r *StockRecordRepo) ListLowStock(ctx context.Context) ([]repository.LowStockItem, error) {
	query := `
		SELECT s.product_id, p.sku, p.name, s.quantity_on_hand, s.reorder_level
		FROM stock_records s
		JOIN products p ON p.id = s.product_id
		WHERE s.quantity_on_hand <= s.reorder_level`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	var list []repository.LowStockItem
	for rows.Next() {
		var it repository.LowStockItem
		if err := rows.Scan(&it.ProductID, &it.SKU, &it.Name, &it.QuantityOnHand, &it.ReorderLevel); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

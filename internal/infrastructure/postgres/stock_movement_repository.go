package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/tu-usuario/tienda-stock/internal/domain/entity"
	"github.com/tu-usuario/tienda-stock/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
// Solo INSERT y SELECT: los movimientos nunca se actualizan.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento y asigna su ID (BIGSERIAL, orden total).
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (product_id, quantity_change, reason, reference_type, reference_id, actor, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	refType := nullable(movement.ReferenceType)
	refID := nullable(movement.ReferenceID)
	notes := nullable(movement.Notes)
	err := r.q.QueryRow(context.Background(), query,
		movement.ProductID, movement.QuantityChange, movement.Reason,
		refType, refID, movement.Actor, notes, movement.CreatedAt,
	).Scan(&movement.ID)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListFiltered lista movimientos con datos de producto, más reciente primero
// (created_at DESC, id DESC). Search aplica ILIKE contra nombre, SKU, ID de
// producto y razón.
func (r *StockMovementRepo) ListFiltered(ctx context.Context, filter repository.MovementFilter) ([]*entity.MovementWithProduct, error) {
	query := `
		SELECT m.id, m.product_id, m.quantity_change, m.reason, m.reference_type, m.reference_id,
		       m.actor, m.notes, m.created_at, p.name, p.sku
		FROM stock_movements m
		JOIN products p ON p.id = m.product_id
		WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.Reason != "" {
		query += fmt.Sprintf(" AND m.reason = $%d", pos)
		args = append(args, filter.Reason)
		pos++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (p.name ILIKE $%d OR p.sku ILIKE $%d OR m.product_id ILIKE $%d OR m.reason ILIKE $%d)",
			pos, pos, pos, pos)
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		pos++
	}
	query += fmt.Sprintf(" ORDER BY m.created_at DESC, m.id DESC LIMIT $%d", pos)
	args = append(args, filter.Limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementWithProduct
	for rows.Next() {
		var m entity.MovementWithProduct
		var refType, refID, notes *string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.QuantityChange, &m.Reason, &refType, &refID,
			&m.Actor, &notes, &m.CreatedAt, &m.ProductName, &m.ProductSKU); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if refType != nil {
			m.ReferenceType = *refType
		}
		if refID != nil {
			m.ReferenceID = *refID
		}
		if notes != nil {
			m.Notes = *notes
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumByProduct suma los quantity_change de un producto (verificación de cuadre).
func (r *StockMovementRepo) SumByProduct(productID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity_change), 0)
		FROM stock_movements WHERE product_id = $1`
	var sum int64
	if err := r.q.QueryRow(context.Background(), query, productID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

// CountByReference cuenta los movimientos de un evento causante (ej. un recibo).
func (r *StockMovementRepo) CountByReference(referenceType, referenceID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM stock_movements WHERE reference_type = $1 AND reference_id = $2`
	var n int
	if err := r.q.QueryRow(context.Background(), query, referenceType, referenceID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements by reference: %w", err)
	}
	return n, nil
}

// DeleteByProduct elimina los movimientos de un producto. Solo lo invoca la
// purga explícita en cascada; el camino normal jamás borra historial.
func (r *StockMovementRepo) DeleteByProduct(productID string) error {
	query := `DELETE FROM stock_movements WHERE product_id = $1`
	_, err := r.q.Exec(context.Background(), query, productID)
	if err != nil {
		return fmt.Errorf("delete movements by product: %w", err)
	}
	return nil
}

// escapeLike escapa los comodines de LIKE (%, _, \) para que el texto del
// usuario se busque literal y no como patrón.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// nullable convierte cadena vacía en NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

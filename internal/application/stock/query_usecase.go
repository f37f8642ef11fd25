package stock

import (
	"context"
	"fmt"

	"github.com/tu-usuario/tienda-stock/internal/application/dto"
	"github.com/tu-usuario/tienda-stock/internal/domain"
	"github.com/tu-usuario/tienda-stock/internal/domain/entity"
	"github.com/tu-usuario/tienda-stock/internal/domain/repository"
	"github.com/tu-usuario/tienda-stock/pkg/logger"
)

// DefaultAuditLimit página por defecto del audit trail.
const DefaultAuditLimit = 100

// QueryService es el lado de lectura: agrega sobre registros de stock y el
// ledger de movimientos sin estado propio ni caché. Nunca muta.
type QueryService struct {
	recordRepo repository.StockRecordRepository
	movRepo    repository.StockMovementRepository
	log        *logger.Logger
}

// NewQueryService construye el servicio de consulta.
func NewQueryService(
	recordRepo repository.StockRecordRepository,
	movRepo repository.StockMovementRepository,
	log *logger.Logger,
) *QueryService {
	return &QueryService{recordRepo: recordRepo, movRepo: movRepo, log: log}
}

// GetStock devuelve el stock y el nivel de reorden de un producto.
func (s *QueryService) GetStock(ctx context.Context, productID string) (*entity.StockRecord, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: falta product_id", domain.ErrInvalidInput)
	}
	record, err := s.recordRepo.Get(productID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: producto %q", domain.ErrNotFound, productID)
	}
	return record, nil
}

// ListLowStock devuelve los productos con quantity_on_hand <= reorder_level.
// El orden es arbitrario; el caller ordena si lo necesita.
func (s *QueryService) ListLowStock(ctx context.Context) ([]dto.LowStockItemDTO, error) {
	items, err := s.recordRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LowStockItemDTO{
			ProductID:      it.ProductID,
			SKU:            it.SKU,
			Name:           it.Name,
			QuantityOnHand: it.QuantityOnHand,
			ReorderLevel:   it.ReorderLevel,
		})
	}
	return out, nil
}

// AuditTrailFilter filtros del audit trail expuestos al caller.
type AuditTrailFilter struct {
	Reason string // receipt, sale, adjustment; vacío = todos
	Search string // substring, case-insensitive, contra nombre/SKU/ID de producto o razón
	Limit  int    // <=0 aplica DefaultAuditLimit
}

// AuditTrail devuelve los movimientos más recientes (created_at DESC, id DESC)
// con datos de producto. Un ledger ilegible propaga error, nunca se degrada a
// lista vacía que pueda confundirse con "sin movimientos".
func (s *QueryService) AuditTrail(ctx context.Context, filter AuditTrailFilter) ([]dto.MovementDTO, error) {
	if filter.Reason != "" && !entity.ValidReason(filter.Reason) {
		return nil, fmt.Errorf("%w: razón %q", domain.ErrInvalidInput, filter.Reason)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	movements, err := s.movRepo.ListFiltered(ctx, repository.MovementFilter{
		Reason: filter.Reason,
		Search: filter.Search,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("leer audit trail: %w", err)
	}
	out := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementDTO{
			ID:             m.ID,
			ProductID:      m.ProductID,
			ProductName:    m.ProductName,
			ProductSKU:     m.ProductSKU,
			QuantityChange: m.QuantityChange,
			Reason:         m.Reason,
			ReferenceType:  m.ReferenceType,
			ReferenceID:    m.ReferenceID,
			Actor:          m.Actor,
			CreatedAt:      m.CreatedAt,
		})
	}
	return out, nil
}

// ReconciliationCheck recalcula la suma de movimientos de un producto y la
// compara con su stock registrado. Solo para verificación de integridad, no
// está en ningún camino caliente. Un descuadre se registra en el log y se
// marca OK=false: indica un bug o una edición manual fuera de banda, nunca se
// corrige en silencio.
func (s *QueryService) ReconciliationCheck(ctx context.Context, productID string) (*dto.ReconciliationReportDTO, error) {
	record, err := s.GetStock(ctx, productID)
	if err != nil {
		return nil, err
	}
	sum, err := s.movRepo.SumByProduct(productID)
	if err != nil {
		return nil, fmt.Errorf("sumar movimientos: %w", err)
	}
	report := &dto.ReconciliationReportDTO{
		ProductID: productID,
		Recorded:  record.QuantityOnHand,
		LedgerSum: sum,
		OK:        record.QuantityOnHand == sum,
	}
	if !report.OK {
		s.log.Error().
			Str("product_id", productID).
			Int64("recorded", report.Recorded).
			Int64("ledger_sum", report.LedgerSum).
			Msg("descuadre entre stock registrado y ledger")
	}
	return report, nil
}

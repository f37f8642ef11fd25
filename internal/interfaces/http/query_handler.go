package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-stock/internal/application/dto"
	"github.com/tu-usuario/tienda-stock/internal/application/stock"
	"github.com/tu-usuario/tienda-stock/internal/domain"
)

// QueryHandler maneja las consultas de stock (solo lectura).
type QueryHandler struct {
	svc *stock.QueryService
}

// NewQueryHandler construye el handler.
func NewQueryHandler(svc *stock.QueryService) *QueryHandler {
	return &QueryHandler{svc: svc}
}

// GetStock godoc
// @Summary      Stock actual y nivel de reorden de un producto
// @Tags         stock
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{productId} [get]
func (h *QueryHandler) GetStock(c *fiber.Ctx) error {
	record, err := h.svc.GetStock(c.Context(), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockResponse{
		ProductID:      record.ProductID,
		QuantityOnHand: record.QuantityOnHand,
		ReorderLevel:   record.ReorderLevel,
		UpdatedAt:      record.UpdatedAt,
	})
}

// ListLowStock godoc
// @Summary      Productos en o bajo su nivel de reorden
// @Tags         stock
// @Produce      json
// @Success      200  {array}  dto.LowStockItemDTO
// @Router       /api/stock/low [get]
func (h *QueryHandler) ListLowStock(c *fiber.Ctx) error {
	items, err := h.svc.ListLowStock(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// AuditTrail godoc
// @Summary      Movimientos más recientes del ledger
// @Tags         stock
// @Produce      json
// @Param        reason  query  string  false  "receipt | sale | adjustment"
// @Param        search  query  string  false  "substring contra nombre/SKU/ID de producto o razón"
// @Param        limit   query  int     false  "máximo de filas (default 100)"
// @Success      200  {array}   dto.MovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *QueryHandler) AuditTrail(c *fiber.Ctx) error {
	movements, err := h.svc.AuditTrail(c.Context(), stock.AuditTrailFilter{
		Reason: c.Query("reason"),
		Search: c.Query("search"),
		Limit:  c.QueryInt("limit"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(movements), "movements": movements})
}

// ReconciliationCheck godoc
// @Summary      Verificación de cuadre stock vs ledger de un producto
// @Tags         stock
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ReconciliationReportDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/{productId}/reconciliation [get]
func (h *QueryHandler) ReconciliationCheck(c *fiber.Ctx) error {
	report, err := h.svc.ReconciliationCheck(c.Context(), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	// Un descuadre es fatal y no reintentable: se responde 500, no 200
	if !report.OK {
		return respondError(c, fmt.Errorf("%w: producto %q: registrado %d, suma del ledger %d",
			domain.ErrReconciliation, report.ProductID, report.Recorded, report.LedgerSum))
	}
	return c.JSON(report)
}

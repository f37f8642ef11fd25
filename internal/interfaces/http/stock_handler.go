package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-stock/internal/application/dto"
	"github.com/tu-usuario/tienda-stock/internal/application/stock"
	"github.com/tu-usuario/tienda-stock/internal/domain"
	"github.com/tu-usuario/tienda-stock/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP de mutación de stock.
type StockHandler struct {
	engine *stock.MutationEngine
}

// NewStockHandler construye el handler.
func NewStockHandler(engine *stock.MutationEngine) *StockHandler {
	return &StockHandler{engine: engine}
}

// respondError traduce errores de dominio al status y código HTTP.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrTransientStorage):
		// Nada quedó confirmado: el cliente puede reintentar la operación completa
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "TRANSIENT", Message: "almacenamiento no disponible, reintente"})
	case errors.Is(err, domain.ErrReconciliation):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "RECONCILIATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// ReceiveStock godoc
// @Summary      Registrar recepción de mercancía por lote
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveStockRequest  true  "items, received_by, idempotency_key (opcional)"
// @Success      201   {object}  dto.ReceiveStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock/receipts [post]
func (h *StockHandler) ReceiveStock(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]entity.ReceiptLine, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, entity.ReceiptLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	receiptID, err := h.engine.ReceiveStock(c.Context(), stock.ReceiveStockInput{
		Items:          items,
		ReceivedBy:     in.ReceivedBy,
		IdempotencyKey: in.IdempotencyKey,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReceiveStockResponse{ReceiptID: receiptID})
}

// RecordSale godoc
// @Summary      Registrar venta (descuento de stock)
// @Description  Una llamada por línea de la orden. Falla con 409 si la cantidad
//
//	pedida excede el stock; compensar líneas ya aplicadas es del checkout.
//
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordSaleRequest  true  "product_id, quantity, reference_id (orden), actor"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/sales [post]
func (h *StockHandler) RecordSale(c *fiber.Ctx) error {
	var in dto.RecordSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movementID, err := h.engine.RecordSale(c.Context(), stock.SaleInput{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		ReferenceID: in.ReferenceID,
		Actor:       in.Actor,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{MovementID: movementID})
}

// AdjustStock godoc
// @Summary      Registrar ajuste manual de stock
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, delta con signo, notes, actor"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movementID, err := h.engine.AdjustStock(c.Context(), stock.AdjustInput{
		ProductID: in.ProductID,
		Delta:     in.Delta,
		Notes:     in.Notes,
		Actor:     in.Actor,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{MovementID: movementID})
}

// PurgeProduct godoc
// @Summary      Purgar stock y movimientos de un producto (irreversible)
// @Description  Se rechaza con 409 mientras quede stock; primero registrar un
//
//	ajuste de baja para que la salida quede en el ledger.
//
// @Tags         stock
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/{productId} [delete]
func (h *StockHandler) PurgeProduct(c *fiber.Ctx) error {
	if err := h.engine.PurgeProduct(c.Context(), c.Params("productId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-stock/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine *stock.MutationEngine
	Query  *stock.QueryService
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	stockGroup := api.Group("/stock")
	stockHandler := NewStockHandler(deps.Engine)
	queryHandler := NewQueryHandler(deps.Query)

	// Mutaciones (motor de stock, único escritor)
	stockGroup.Post("/receipts", stockHandler.ReceiveStock)
	stockGroup.Post("/sales", stockHandler.RecordSale)
	stockGroup.Post("/adjustments", stockHandler.AdjustStock)

	// Consultas (las rutas fijas van antes del parámetro :productId)
	stockGroup.Get("/low", queryHandler.ListLowStock)
	stockGroup.Get("/movements", queryHandler.AuditTrail)
	stockGroup.Get("/:productId/reconciliation", queryHandler.ReconciliationCheck)
	stockGroup.Get("/:productId", queryHandler.GetStock)

	// Purga explícita (irreversible, fuera del flujo normal)
	stockGroup.Delete("/:productId", stockHandler.PurgeProduct)
}

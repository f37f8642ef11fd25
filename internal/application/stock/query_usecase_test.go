package stock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/tienda-stock/internal/application/stock"
	"github.com/tu-usuario/tienda-stock/internal/domain"
	"github.com/tu-usuario/tienda-stock/internal/domain/entity"
	"github.com/tu-usuario/tienda-stock/pkg/logger"
)

func newQueryService(store *memStore) *stock.QueryService {
	return stock.NewQueryService(
		&lockedRecordRepo{s: store},
		&lockedMovementRepo{s: store},
		logger.Nop(),
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// GetStock
// ──────────────────────────────────────────────────────────────────────────────

func TestGetStock(t *testing.T) {
	store := newMemStore()
	store.addProduct("P1", "SKU-P1", "Camiseta negra", 10, 5)
	svc := newQueryService(store)

	rec, err := svc.GetStock(context.Background(), "P1")
	require.NoError(t, err)
	assert.EqualValues(t, 10, rec.QuantityOnHand)
	assert.EqualValues(t, 5, rec.ReorderLevel)

	_, err = svc.GetStock(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetStock(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// ListLowStock
// ──────────────────────────────────────────────────────────────────────────────

// Con stock 27 y reorden 5 el producto no está bajo; al subir el reorden a 30
// aparece en la lista. quantity == reorder también cuenta como bajo.
func TestListLowStock_UmbralReorden(t *testing.T) {
	store := newMemStore()
	store.addProduct("P1", "SKU-P1", "Camiseta negra", 27, 5)
	store.addProduct("P2", "SKU-P2", "Gorra bordada", 8, 8)
	svc := newQueryService(store)
	ctx := context.Background()

	items, err := svc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1, "solo P2 (en su umbral exacto) está bajo")
	assert.Equal(t, "P2", items[0].ProductID)

	store.setReorderLevel("P1", 30)
	items, err = svc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	ids := []string{items[0].ProductID, items[1].ProductID}
	assert.ElementsMatch(t, []string{"P1", "P2"}, ids)
}

// ──────────────────────────────────────────────────────────────────────────────
// AuditTrail
// ──────────────────────────────────────────────────────────────────────────────

// Siembra movimientos a través del motor y filtra por razón + búsqueda.
func TestAuditTrail_FiltroYOrden(t *testing.T) {
	store := newMemStore()
	store.addProduct("P1", "SKU-P1", "Camiseta negra", 10, 5)
	store.addProduct("P2", "SKU-P2", "Gorra bordada", 10, 5)
	engine := newEngine(store)
	svc := newQueryService(store)
	ctx := context.Background()

	_, err := engine.RecordSale(ctx, stock.SaleInput{ProductID: "P1", Quantity: 3, ReferenceID: "order-7", Actor: "checkout"})
	require.NoError(t, err)
	_, err = engine.RecordSale(ctx, stock.SaleInput{ProductID: "P2", Quantity: 1, ReferenceID: "order-8", Actor: "checkout"})
	require.NoError(t, err)
	_, err = engine.AdjustStock(ctx, stock.AdjustInput{ProductID: "P1", Delta: 2, Notes: "conteo", Actor: "bodega"})
	require.NoError(t, err)

	// reason=sale + search=P1 → exactamente la venta de P1
	movs, err := svc.AuditTrail(ctx, stock.AuditTrailFilter{Reason: entity.ReasonSale, Search: "P1"})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "P1", movs[0].ProductID)
	assert.EqualValues(t, -3, movs[0].QuantityChange)
	assert.Equal(t, "order-7", movs[0].ReferenceID)

	// Sin filtros: todo, más reciente primero (empates por id descendente)
	movs, err = svc.AuditTrail(ctx, stock.AuditTrailFilter{})
	require.NoError(t, err)
	require.Len(t, movs, 3)
	for i := 1; i < len(movs); i++ {
		if movs[i-1].CreatedAt.Equal(movs[i].CreatedAt) {
			assert.Greater(t, movs[i-1].ID, movs[i].ID)
		} else {
			assert.True(t, movs[i-1].CreatedAt.After(movs[i].CreatedAt))
		}
	}

	// La búsqueda también matchea por nombre de producto, sin distinguir mayúsculas
	movs, err = svc.AuditTrail(ctx, stock.AuditTrailFilter{Search: "gorra"})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "P2", movs[0].ProductID)

	// Límite acotado
	movs, err = svc.AuditTrail(ctx, stock.AuditTrailFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, movs, 2)
}

func TestAuditTrail_RazonInvalida(t *testing.T) {
	store := newMemStore()
	svc := newQueryService(store)

	_, err := svc.AuditTrail(context.Background(), stock.AuditTrailFilter{Reason: "robo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// ReconciliationCheck
// ──────────────────────────────────────────────────────────────────────────────

func TestReconciliationCheck(t *testing.T) {
	store := newMemStore()
	store.addProduct("P1", "SKU-P1", "Camiseta negra", 0, 5)
	engine := newEngine(store)
	svc := newQueryService(store)
	ctx := context.Background()

	_, err := engine.ReceiveStock(ctx, stock.ReceiveStockInput{
		Items:      []entity.ReceiptLine{{ProductID: "P1", Quantity: 12}},
		ReceivedBy: "Mohamed",
	})
	require.NoError(t, err)
	_, err = engine.RecordSale(ctx, stock.SaleInput{ProductID: "P1", Quantity: 2, Actor: "checkout"})
	require.NoError(t, err)

	report, err := svc.ReconciliationCheck(ctx, "P1")
	require.NoError(t, err)
	assert.True(t, report.OK)
	assert.EqualValues(t, 10, report.Recorded)
	assert.EqualValues(t, 10, report.LedgerSum)
}

// Una edición manual fuera de banda produce descuadre: se reporta, nunca se
// corrige en silencio.
func TestReconciliationCheck_Descuadre(t *testing.T) {
	store := newMemStore()
	store.addProduct("P1", "SKU-P1", "Camiseta negra", 0, 5)
	engine := newEngine(store)
	svc := newQueryService(store)
	ctx := context.Background()

	_, err := engine.ReceiveStock(ctx, stock.ReceiveStockInput{
		Items:      []entity.ReceiptLine{{ProductID: "P1", Quantity: 12}},
		ReceivedBy: "Mohamed",
	})
	require.NoError(t, err)

	store.setQuantity("P1", 99) // edición fuera de banda

	report, err := svc.ReconciliationCheck(ctx, "P1")
	require.NoError(t, err)
	assert.False(t, report.OK)
	assert.EqualValues(t, 99, report.Recorded)
	assert.EqualValues(t, 12, report.LedgerSum)

	// El stock registrado no se "corrige"
	assert.EqualValues(t, 99, quantityOf(t, store, "P1"))
}

package dto

import "time"

// ReceiptLineRequest línea de una recepción de mercancía.
type ReceiptLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// ReceiveStockRequest body para POST /api/stock/receipts.
// IdempotencyKey es opcional: un reenvío con el mismo token devuelve el
// receipt_id original sin duplicar movimientos.
type ReceiveStockRequest struct {
	Items          []ReceiptLineRequest `json:"items"`
	ReceivedBy     string               `json:"received_by"`
	IdempotencyKey string               `json:"idempotency_key,omitempty"`
}

// ReceiveStockResponse respuesta de una recepción.
type ReceiveStockResponse struct {
	ReceiptID string `json:"receipt_id"`
}

// RecordSaleRequest body para POST /api/stock/sales.
type RecordSaleRequest struct {
	ProductID   string `json:"product_id"`
	Quantity    int64  `json:"quantity"`
	ReferenceID string `json:"reference_id,omitempty"` // ID de la orden
	Actor       string `json:"actor"`
}

// AdjustStockRequest body para POST /api/stock/adjustments.
// Delta con signo: positivo corrige hacia arriba, negativo da de baja.
type AdjustStockRequest struct {
	ProductID string `json:"product_id"`
	Delta     int64  `json:"delta"`
	Notes     string `json:"notes,omitempty"`
	Actor     string `json:"actor"`
}

// MovementResponse respuesta de una mutación unitaria.
type MovementResponse struct {
	MovementID int64 `json:"movement_id"`
}

// StockResponse respuesta de GET /api/stock/:productId.
type StockResponse struct {
	ProductID      string    `json:"product_id"`
	QuantityOnHand int64     `json:"quantity_on_hand"`
	ReorderLevel   int64     `json:"reorder_level"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// LowStockItemDTO producto en o bajo su nivel de reorden.
type LowStockItemDTO struct {
	ProductID      string `json:"product_id"`
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	QuantityOnHand int64  `json:"quantity_on_hand"`
	ReorderLevel   int64  `json:"reorder_level"`
}

// MovementDTO entrada del audit trail.
type MovementDTO struct {
	ID             int64     `json:"id"`
	ProductID      string    `json:"product_id"`
	ProductName    string    `json:"product_name"`
	ProductSKU     string    `json:"product_sku"`
	QuantityChange int64     `json:"quantity_change"`
	Reason         string    `json:"reason"`
	ReferenceType  string    `json:"reference_type,omitempty"`
	ReferenceID    string    `json:"reference_id,omitempty"`
	Actor          string    `json:"actor"`
	CreatedAt      time.Time `json:"created_at"`
}

// ReconciliationReportDTO resultado de la verificación de cuadre de un producto.
type ReconciliationReportDTO struct {
	ProductID string `json:"product_id"`
	Recorded  int64  `json:"recorded"`
	LedgerSum int64  `json:"ledger_sum"`
	OK        bool   `json:"ok"`
}

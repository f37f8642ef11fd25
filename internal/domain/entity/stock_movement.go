package entity

import "time"

// Razones de movimiento de stock (enumeración cerrada).
const (
	ReasonReceipt    = "receipt"    // entrada de mercancía
	ReasonSale       = "sale"       // venta
	ReasonAdjustment = "adjustment" // ajuste manual (conteo, merma)
)

// Tipos de referencia al evento que causó el movimiento.
const (
	ReferenceReceipt = "receipt"
	ReferenceOrder   = "order"
)

// ValidReason indica si la razón pertenece a la enumeración cerrada.
func ValidReason(reason string) bool {
	switch reason {
	case ReasonReceipt, ReasonSale, ReasonAdjustment:
		return true
	}
	return false
}

// StockMovement asiento inmutable del ledger: un cambio de cantidad con signo,
// su razón, el evento que lo causó y el actor atribuido. Nunca se actualiza ni
// se borra; las correcciones se registran como ajustes compensatorios.
// El ID BIGSERIAL da un orden total para desempates en el audit trail.
type StockMovement struct {
	ID             int64
	ProductID      string
	QuantityChange int64 // positivo entrada, negativo salida
	Reason         string
	ReferenceType  string
	ReferenceID    string
	Actor          string
	Notes          string
	CreatedAt      time.Time
}

// MovementWithProduct movimiento enriquecido con datos de catálogo para el audit trail.
type MovementWithProduct struct {
	StockMovement
	ProductName string
	ProductSKU  string
}

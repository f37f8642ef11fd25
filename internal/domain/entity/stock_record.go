package entity

import "time"

// StockRecord stock actual de un producto: una fila por producto.
// QuantityOnHand nunca es negativo; solo el motor de mutación lo modifica.
type StockRecord struct {
	ProductID      string
	QuantityOnHand int64
	ReorderLevel   int64
	UpdatedAt      time.Time
}

// IsLowStock indica si el producto está en o por debajo de su nivel de reorden.
func (s *StockRecord) IsLowStock() bool {
	return s.QuantityOnHand <= s.ReorderLevel
}

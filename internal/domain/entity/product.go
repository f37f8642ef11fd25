package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product datos de catálogo de un producto. El motor de stock lo trata como
// referencia opaca: nombre, SKU y precio viven aquí, el stock vive en StockRecord.
type Product struct {
	ID        string
	SKU       string
	Name      string
	Price     decimal.Decimal
	CreatedAt time.Time
}

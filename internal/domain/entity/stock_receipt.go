package entity

import "time"

// StockReceipt cabecera de una recepción de mercancía: una por lote.
// Los movimientos de sus líneas comparten ReferenceID = ID.
// IdempotencyKey (opcional, único) hace que un reenvío del mismo lote
// devuelva el recibo original en vez de duplicarlo.
type StockReceipt struct {
	ID             string
	IdempotencyKey string
	ReceivedBy     string
	CreatedAt      time.Time
}

// ReceiptLine línea de entrada de una recepción.
type ReceiptLine struct {
	ProductID string
	Quantity  int64
}

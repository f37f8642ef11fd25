package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/tienda-stock/internal/domain"
	"github.com/tu-usuario/tienda-stock/internal/domain/entity"
	"github.com/tu-usuario/tienda-stock/internal/domain/repository"
	"github.com/tu-usuario/tienda-stock/pkg/logger"
)

// MutationEngine es el único escritor del estado de stock. Cada operación sigue
// el protocolo leer → calcular → validar (≥0) → escribir stock + movimiento → commit
// como un paso indivisible, con bloqueo de fila (SELECT FOR UPDATE) por producto.
// El invariante de cuadre (stock registrado == suma de movimientos) se mantiene
// después de cada operación confirmada.
type MutationEngine struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewMutationEngine construye el motor de mutación de stock.
func NewMutationEngine(txRunner TxRunner, log *logger.Logger) *MutationEngine {
	return &MutationEngine{txRunner: txRunner, log: log}
}

// ReceiveStockInput entrada para una recepción de mercancía por lote.
type ReceiveStockInput struct {
	Items          []entity.ReceiptLine
	ReceivedBy     string
	IdempotencyKey string
}

// SaleInput entrada para registrar una venta.
type SaleInput struct {
	ProductID   string
	Quantity    int64
	ReferenceID string // ID de la orden del checkout (opcional)
	Actor       string
}

// AdjustInput entrada para un ajuste manual de stock.
type AdjustInput struct {
	ProductID string
	Delta     int64 // con signo; nunca cero
	Notes     string
	Actor     string
}

// ReceiveStock registra una recepción por lote como una sola transacción:
// por cada línea incrementa el stock y agrega un movimiento reason=receipt;
// todos los movimientos comparten el receipt_id del lote. O todas las líneas
// aplican, o ninguna (el error identifica la primera línea ofensiva).
// Un IdempotencyKey repetido es no-op y devuelve el receipt_id original.
func (e *MutationEngine) ReceiveStock(ctx context.Context, input ReceiveStockInput) (string, error) {
	if len(input.Items) == 0 {
		return "", fmt.Errorf("%w: recepción sin líneas", domain.ErrInvalidInput)
	}
	if input.ReceivedBy == "" {
		return "", fmt.Errorf("%w: falta el actor (received_by)", domain.ErrInvalidInput)
	}
	for i, line := range input.Items {
		if line.ProductID == "" || line.Quantity <= 0 {
			return "", fmt.Errorf("%w: línea %d (producto %q, cantidad %d)",
				domain.ErrInvalidInput, i+1, line.ProductID, line.Quantity)
		}
	}

	now := time.Now()
	var receiptID string

	err := e.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		recordRepo repository.StockRecordRepository,
		receiptRepo repository.StockReceiptRepository,
	) error {
		// Idempotencia: un token ya registrado devuelve el recibo original, sin escribir nada
		if input.IdempotencyKey != "" {
			prev, err := receiptRepo.GetByIdempotencyKey(input.IdempotencyKey)
			if err != nil {
				return err
			}
			if prev != nil {
				receiptID = prev.ID
				return nil
			}
		}

		receipt := &entity.StockReceipt{
			ID:             uuid.New().String(),
			IdempotencyKey: input.IdempotencyKey,
			ReceivedBy:     input.ReceivedBy,
			CreatedAt:      now,
		}
		if err := receiptRepo.Create(receipt); err != nil {
			return err
		}
		receiptID = receipt.ID

		for i, line := range input.Items {
			// Bloquea la fila del producto para toda la transacción
			record, err := recordRepo.GetForUpdate(line.ProductID)
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("%w: línea %d, producto %q", domain.ErrNotFound, i+1, line.ProductID)
			}
			if err := recordRepo.UpdateQuantity(line.ProductID, record.QuantityOnHand+line.Quantity); err != nil {
				return err
			}
			mov := &entity.StockMovement{
				ProductID:      line.ProductID,
				QuantityChange: line.Quantity,
				Reason:         entity.ReasonReceipt,
				ReferenceType:  entity.ReferenceReceipt,
				ReferenceID:    receipt.ID,
				Actor:          input.ReceivedBy,
				CreatedAt:      now,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
		}
		return nil
	})

	// Carrera por el token: otra transacción insertó el mismo IdempotencyKey
	// primero; la nuestra abortó sin escribir. Releer y devolver el recibo original.
	if errors.Is(err, domain.ErrDuplicate) && input.IdempotencyKey != "" {
		return e.findReceiptByKey(ctx, input.IdempotencyKey)
	}
	if err != nil {
		return "", err
	}

	e.log.Info().
		Str("receipt_id", receiptID).
		Int("lines", len(input.Items)).
		Str("received_by", input.ReceivedBy).
		Msg("recepción de stock registrada")
	return receiptID, nil
}

// findReceiptByKey relee la cabecera de recibo por token en una transacción nueva.
func (e *MutationEngine) findReceiptByKey(ctx context.Context, key string) (string, error) {
	var receiptID string
	err := e.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.StockRecordRepository,
		receiptRepo repository.StockReceiptRepository,
	) error {
		prev, err := receiptRepo.GetByIdempotencyKey(key)
		if err != nil {
			return err
		}
		if prev == nil {
			return fmt.Errorf("%w: recibo con token %q", domain.ErrNotFound, key)
		}
		receiptID = prev.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	return receiptID, nil
}

// RecordSale descuenta stock por una venta. Si la cantidad pedida excede el stock
// actual falla con ErrInsufficientStock sin escribir nada: este es el último
// guardián contra sobreventa bajo checkouts concurrentes. Cada llamada es
// independiente; compensar líneas de una orden parcialmente cumplida es
// responsabilidad del orquestador de checkout, no de este motor.
func (e *MutationEngine) RecordSale(ctx context.Context, input SaleInput) (int64, error) {
	if input.ProductID == "" || input.Actor == "" {
		return 0, fmt.Errorf("%w: faltan product_id o actor", domain.ErrInvalidInput)
	}
	if input.Quantity <= 0 {
		return 0, fmt.Errorf("%w: cantidad %d", domain.ErrInvalidInput, input.Quantity)
	}

	now := time.Now()
	var movementID int64

	err := e.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		recordRepo repository.StockRecordRepository,
		_ repository.StockReceiptRepository,
	) error {
		record, err := recordRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if record == nil {
			return fmt.Errorf("%w: producto %q", domain.ErrNotFound, input.ProductID)
		}
		if record.QuantityOnHand < input.Quantity {
			return domain.ErrInsufficientStock
		}
		if err := recordRepo.UpdateQuantity(input.ProductID, record.QuantityOnHand-input.Quantity); err != nil {
			return err
		}
		refType := ""
		if input.ReferenceID != "" {
			refType = entity.ReferenceOrder
		}
		mov := &entity.StockMovement{
			ProductID:      input.ProductID,
			QuantityChange: -input.Quantity,
			Reason:         entity.ReasonSale,
			ReferenceType:  refType,
			ReferenceID:    input.ReferenceID,
			Actor:          input.Actor,
			CreatedAt:      now,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		movementID = mov.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return movementID, nil
}

// AdjustStock registra un ajuste manual (corrección de conteo, merma).
// Delta positivo suma, negativo resta con el mismo guardián de no-negatividad
// que las ventas. Las correcciones de historial se hacen siempre así, como
// movimiento compensatorio: el ledger nunca se reescribe.
func (e *MutationEngine) AdjustStock(ctx context.Context, input AdjustInput) (int64, error) {
	if input.ProductID == "" || input.Actor == "" {
		return 0, fmt.Errorf("%w: faltan product_id o actor", domain.ErrInvalidInput)
	}
	if input.Delta == 0 {
		return 0, fmt.Errorf("%w: delta cero", domain.ErrInvalidInput)
	}

	now := time.Now()
	var movementID int64

	err := e.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		recordRepo repository.StockRecordRepository,
		_ repository.StockReceiptRepository,
	) error {
		record, err := recordRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if record == nil {
			return fmt.Errorf("%w: producto %q", domain.ErrNotFound, input.ProductID)
		}
		next := record.QuantityOnHand + input.Delta
		if next < 0 {
			return domain.ErrInsufficientStock
		}
		if err := recordRepo.UpdateQuantity(input.ProductID, next); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			ProductID:      input.ProductID,
			QuantityChange: input.Delta,
			Reason:         entity.ReasonAdjustment,
			Actor:          input.Actor,
			Notes:          input.Notes,
			CreatedAt:      now,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		movementID = mov.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	e.log.Info().
		Str("product_id", input.ProductID).
		Int64("delta", input.Delta).
		Str("actor", input.Actor).
		Msg("ajuste de stock registrado")
	return movementID, nil
}

// PurgeProduct elimina en cascada el registro de stock y todos sus movimientos.
// Operación explícita e irreversible, fuera del flujo normal: se rechaza con
// ErrConflict mientras quede stock, para que la baja pase primero por un ajuste
// auditable (write-off) y no por un borrado que rompa el cuadre del ledger.
func (e *MutationEngine) PurgeProduct(ctx context.Context, productID string) error {
	if productID == "" {
		return fmt.Errorf("%w: falta product_id", domain.ErrInvalidInput)
	}
	err := e.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		recordRepo repository.StockRecordRepository,
		_ repository.StockReceiptRepository,
	) error {
		record, err := recordRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if record == nil {
			return fmt.Errorf("%w: producto %q", domain.ErrNotFound, productID)
		}
		if record.QuantityOnHand != 0 {
			return fmt.Errorf("%w: quedan %d unidades, registre primero un ajuste de baja",
				domain.ErrConflict, record.QuantityOnHand)
		}
		if err := movRepo.DeleteByProduct(productID); err != nil {
			return err
		}
		return recordRepo.Delete(productID)
	})
	if err != nil {
		return err
	}
	e.log.Warn().Str("product_id", productID).Msg("stock y movimientos purgados")
	return nil
}

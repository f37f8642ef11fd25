package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrTransientStorage indica que el almacenamiento no estaba disponible o que
	// se excedió el tiempo de espera por un bloqueo de fila. Nada quedó confirmado:
	// el caller puede reintentar la operación completa.
	ErrTransientStorage = errors.New("almacenamiento no disponible, reintentar")

	// ErrReconciliation indica que la suma de movimientos del ledger no coincide
	// con el stock registrado. Condición fatal: requiere atención del operador,
	// nunca se corrige en silencio.
	ErrReconciliation = errors.New("descuadre entre stock registrado y movimientos")
)

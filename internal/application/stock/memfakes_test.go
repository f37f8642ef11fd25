package stock_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tu-usuario/tienda-stock/internal/application/stock"
	"github.com/tu-usuario/tienda-stock/internal/domain"
	"github.com/tu-usuario/tienda-stock/internal/domain/entity"
	"github.com/tu-usuario/tienda-stock/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memStore emula la base: registros de stock, ledger y recibos bajo un mutex.
// memTxRunner toma el lock durante toda la transacción y hace snapshot del
// estado; si fn falla restaura el snapshot (rollback). Eso reproduce la
// semántica todo-o-nada y la serialización por producto que en producción dan
// pgx y SELECT FOR UPDATE.
// ──────────────────────────────────────────────────────────────────────────────

// listAll filtro sin restricciones para inspeccionar el ledger en los tests.
func listAll() repository.MovementFilter {
	return repository.MovementFilter{Limit: 1000}
}

type memStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	records   map[string]*entity.StockRecord
	movements []entity.StockMovement
	receipts  map[string]*entity.StockReceipt // por id
	byKey     map[string]*entity.StockReceipt // por idempotency key
	nextMovID int64
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[string]*entity.Product),
		records:  make(map[string]*entity.StockRecord),
		receipts: make(map[string]*entity.StockReceipt),
		byKey:    make(map[string]*entity.StockReceipt),
	}
}

// addProduct alta de producto + registro de stock (camino de catálogo, fuera del motor).
func (s *memStore) addProduct(id, sku, name string, quantity, reorderLevel int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[id] = &entity.Product{ID: id, SKU: sku, Name: name}
	s.records[id] = &entity.StockRecord{ProductID: id, QuantityOnHand: quantity, ReorderLevel: reorderLevel}
}

// setQuantity edición fuera de banda (para provocar descuadres en tests).
func (s *memStore) setQuantity(productID string, quantity int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[productID].QuantityOnHand = quantity
}

func (s *memStore) setReorderLevel(productID string, level int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[productID].ReorderLevel = level
}

type memSnapshot struct {
	records   map[string]*entity.StockRecord
	movements []entity.StockMovement
	receipts  map[string]*entity.StockReceipt
	byKey     map[string]*entity.StockReceipt
	nextMovID int64
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		records:   make(map[string]*entity.StockRecord, len(s.records)),
		movements: append([]entity.StockMovement(nil), s.movements...),
		receipts:  make(map[string]*entity.StockReceipt, len(s.receipts)),
		byKey:     make(map[string]*entity.StockReceipt, len(s.byKey)),
		nextMovID: s.nextMovID,
	}
	for k, v := range s.records {
		cp := *v
		snap.records[k] = &cp
	}
	for k, v := range s.receipts {
		cp := *v
		snap.receipts[k] = &cp
	}
	for k, v := range s.byKey {
		cp := *v
		snap.byKey[k] = &cp
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.records = snap.records
	s.movements = snap.movements
	s.receipts = snap.receipts
	s.byKey = snap.byKey
	s.nextMovID = snap.nextMovID
}

// memTxRunner implementa stock.TxRunner sobre memStore.
type memTxRunner struct {
	store *memStore
	// failCommit simula una falla transitoria del almacenamiento
	failCommit bool
}

var _ stock.TxRunner = (*memTxRunner)(nil)

func (r *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	recordRepo repository.StockRecordRepository,
	receiptRepo repository.StockReceiptRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap := r.store.snapshot()
	err := fn(
		&memMovementRepo{s: r.store},
		&memRecordRepo{s: r.store},
		&memReceiptRepo{s: r.store},
	)
	if err != nil || r.failCommit {
		r.store.restore(snap)
		if err != nil {
			return err
		}
		return fmt.Errorf("%w: commit simulado fallido", domain.ErrTransientStorage)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos internos (sin lock: el tx runner ya lo tiene)
// ──────────────────────────────────────────────────────────────────────────────

type memRecordRepo struct{ s *memStore }

var _ repository.StockRecordRepository = (*memRecordRepo)(nil)

func (r *memRecordRepo) Get(productID string) (*entity.StockRecord, error) {
	rec, ok := r.s.records[productID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *memRecordRepo) GetForUpdate(productID string) (*entity.StockRecord, error) {
	return r.Get(productID)
}

func (r *memRecordRepo) Create(record *entity.StockRecord) error {
	cp := *record
	r.s.records[record.ProductID] = &cp
	return nil
}

func (r *memRecordRepo) UpdateQuantity(productID string, quantity int64) error {
	rec, ok := r.s.records[productID]
	if !ok {
		return fmt.Errorf("%w: producto %q", domain.ErrNotFound, productID)
	}
	rec.QuantityOnHand = quantity
	return nil
}

func (r *memRecordRepo) UpdateReorderLevel(productID string, level int64) error {
	rec, ok := r.s.records[productID]
	if !ok {
		return fmt.Errorf("%w: producto %q", domain.ErrNotFound, productID)
	}
	rec.ReorderLevel = level
	return nil
}

func (r *memRecordRepo) Delete(productID string) error {
	delete(r.s.records, productID)
	return nil
}

func (r *memRecordRepo) ListLowStock(ctx context.Context) ([]repository.LowStockItem, error) {
	var out []repository.LowStockItem
	for id, rec := range r.s.records {
		if rec.QuantityOnHand <= rec.ReorderLevel {
			p := r.s.products[id]
			out = append(out, repository.LowStockItem{
				ProductID:      id,
				SKU:            p.SKU,
				Name:           p.Name,
				QuantityOnHand: rec.QuantityOnHand,
				ReorderLevel:   rec.ReorderLevel,
			})
		}
	}
	return out, nil
}

type memMovementRepo struct{ s *memStore }

var _ repository.StockMovementRepository = (*memMovementRepo)(nil)

func (r *memMovementRepo) Create(movement *entity.StockMovement) error {
	r.s.nextMovID++
	movement.ID = r.s.nextMovID
	r.s.movements = append(r.s.movements, *movement)
	return nil
}

func (r *memMovementRepo) ListFiltered(ctx context.Context, filter repository.MovementFilter) ([]*entity.MovementWithProduct, error) {
	var out []*entity.MovementWithProduct
	for i := range r.s.movements {
		m := r.s.movements[i]
		if filter.Reason != "" && m.Reason != filter.Reason {
			continue
		}
		p := r.s.products[m.ProductID]
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.SKU), needle) &&
				!strings.Contains(strings.ToLower(m.ProductID), needle) &&
				!strings.Contains(strings.ToLower(m.Reason), needle) {
				continue
			}
		}
		out = append(out, &entity.MovementWithProduct{
			StockMovement: m,
			ProductName:   p.Name,
			ProductSKU:    p.SKU,
		})
	}
	// Más reciente primero: created_at DESC, id DESC
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *memMovementRepo) SumByProduct(productID string) (int64, error) {
	var sum int64
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			sum += m.QuantityChange
		}
	}
	return sum, nil
}

func (r *memMovementRepo) CountByReference(referenceType, referenceID string) (int, error) {
	n := 0
	for _, m := range r.s.movements {
		if m.ReferenceType == referenceType && m.ReferenceID == referenceID {
			n++
		}
	}
	return n, nil
}

func (r *memMovementRepo) DeleteByProduct(productID string) error {
	kept := r.s.movements[:0]
	for _, m := range r.s.movements {
		if m.ProductID != productID {
			kept = append(kept, m)
		}
	}
	r.s.movements = kept
	return nil
}

type memReceiptRepo struct{ s *memStore }

var _ repository.StockReceiptRepository = (*memReceiptRepo)(nil)

func (r *memReceiptRepo) Create(receipt *entity.StockReceipt) error {
	if receipt.IdempotencyKey != "" {
		if _, exists := r.s.byKey[receipt.IdempotencyKey]; exists {
			return fmt.Errorf("%w: idempotency key %q", domain.ErrDuplicate, receipt.IdempotencyKey)
		}
	}
	cp := *receipt
	r.s.receipts[receipt.ID] = &cp
	if receipt.IdempotencyKey != "" {
		r.s.byKey[receipt.IdempotencyKey] = &cp
	}
	return nil
}

func (r *memReceiptRepo) GetByIdempotencyKey(key string) (*entity.StockReceipt, error) {
	receipt, ok := r.s.byKey[key]
	if !ok {
		return nil, nil
	}
	cp := *receipt
	return &cp, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos externos (lado de consulta, fuera de transacción: toman el lock)
// ──────────────────────────────────────────────────────────────────────────────

type lockedRecordRepo struct{ s *memStore }

var _ repository.StockRecordRepository = (*lockedRecordRepo)(nil)

func (r *lockedRecordRepo) Get(productID string) (*entity.StockRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memRecordRepo{s: r.s}).Get(productID)
}

func (r *lockedRecordRepo) GetForUpdate(productID string) (*entity.StockRecord, error) {
	return r.Get(productID)
}

func (r *lockedRecordRepo) Create(record *entity.StockRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memRecordRepo{s: r.s}).Create(record)
}

func (r *lockedRecordRepo) UpdateQuantity(productID string, quantity int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memRecordRepo{s: r.s}).UpdateQuantity(productID, quantity)
}

func (r *lockedRecordRepo) UpdateReorderLevel(productID string, level int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memRecordRepo{s: r.s}).UpdateReorderLevel(productID, level)
}

func (r *lockedRecordRepo) Delete(productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memRecordRepo{s: r.s}).Delete(productID)
}

func (r *lockedRecordRepo) ListLowStock(ctx context.Context) ([]repository.LowStockItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memRecordRepo{s: r.s}).ListLowStock(ctx)
}

type lockedMovementRepo struct{ s *memStore }

var _ repository.StockMovementRepository = (*lockedMovementRepo)(nil)

func (r *lockedMovementRepo) Create(movement *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memMovementRepo{s: r.s}).Create(movement)
}

func (r *lockedMovementRepo) ListFiltered(ctx context.Context, filter repository.MovementFilter) ([]*entity.MovementWithProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memMovementRepo{s: r.s}).ListFiltered(ctx, filter)
}

func (r *lockedMovementRepo) SumByProduct(productID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memMovementRepo{s: r.s}).SumByProduct(productID)
}

func (r *lockedMovementRepo) CountByReference(referenceType, referenceID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memMovementRepo{s: r.s}).CountByReference(referenceType, referenceID)
}

func (r *lockedMovementRepo) DeleteByProduct(productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&memMovementRepo{s: r.s}).DeleteByProduct(productID)
}

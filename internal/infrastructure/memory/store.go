// Package memory implementa los puertos de persistencia en proceso. Sirve para tests y para
// levantar el servicio sin PostgreSQL (STORE_DRIVER=memory).
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store guarda el estado confirmado. Las escrituras se preparan en un tx y se publican
// de forma atómica en commit, validando las mismas restricciones que el esquema SQL.
type Store struct {
	mu        sync.RWMutex
	products  map[string]*entity.Product
	suppliers map[string]*entity.Supplier
	chains    map[string][]*entity.StockMovement // por producto, en orden de secuencia
	log       []*entity.StockMovement            // orden global de confirmación
	byMovID   map[string]*entity.StockMovement

	locksMu sync.Mutex
	locks   map[string]chan struct{}
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]*entity.Product),
		suppliers: make(map[string]*entity.Supplier),
		chains:    make(map[string][]*entity.StockMovement),
		byMovID:   make(map[string]*entity.StockMovement),
		locks:     make(map[string]chan struct{}),
	}
}

// Run ejecuta fn con repositorios atados a una transacción; confirma si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	supplierRepo repository.SupplierRepository,
) error) error {
	t := newTx()
	defer s.release(t)
	sess := &session{store: s, tx: t}
	if err := fn(&ProductRepo{sess: sess}, &MovementRepo{sess: sess}, &SupplierRepo{sess: sess}); err != nil {
		return err
	}
	return s.commit(t)
}

// tx cambios preparados y bloqueos tomados.
type tx struct {
	products         map[string]*entity.Product
	newProducts      map[string]bool
	expectedVersions map[string]int64
	suppliers        map[string]*entity.Supplier
	newSuppliers     map[string]bool
	movements        []*entity.StockMovement
	locked           []string
}

func newTx() *tx {
	return &tx{
		products:         make(map[string]*entity.Product),
		newProducts:      make(map[string]bool),
		expectedVersions: make(map[string]int64),
		suppliers:        make(map[string]*entity.Supplier),
		newSuppliers:     make(map[string]bool),
	}
}

func (t *tx) holds(id string) bool {
	for _, l := range t.locked {
		if l == id {
			return true
		}
	}
	return false
}

// lock toma el bloqueo exclusivo de un producto hasta el fin de la transacción.
func (s *Store) lock(ctx context.Context, t *tx, id string) error {
	if t.holds(id) {
		return nil
	}
	s.locksMu.Lock()
	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}
	s.locksMu.Unlock()

	select {
	case ch <- struct{}{}:
		t.locked = append(t.locked, id)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("bloquear producto %s: %w", id, ctx.Err())
	}
}

func (s *Store) release(t *tx) {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	for _, id := range t.locked {
		<-s.locks[id]
	}
	t.locked = nil
}

// commit valida restricciones contra el estado confirmado y publica los cambios.
func (s *Store) commit(t *tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range t.products {
		current, exists := s.products[id]
		if t.newProducts[id] && exists {
			return fmt.Errorf("producto %s ya existe", id)
		}
		if want, ok := t.expectedVersions[id]; ok && (!exists || current.StockVersion != want) {
			return domain.ErrConflict
		}
		if p.Active && s.skuTakenLocked(t, p.SKU, id) {
			return domain.ErrDuplicateSKU
		}
	}
	for id, sup := range t.suppliers {
		if _, exists := s.suppliers[id]; t.newSuppliers[id] && exists {
			return fmt.Errorf("proveedor %s ya existe", id)
		}
		if sup.Active && sup.BusinessID != nil && s.businessIDTakenLocked(t, *sup.BusinessID, id) {
			return domain.ErrDuplicateBusinessID
		}
	}
	seqs := make(map[string]map[int64]bool)
	for _, m := range t.movements {
		if _, ok := s.byMovID[m.ID]; ok {
			return fmt.Errorf("movimiento %s ya existe", m.ID)
		}
		if _, ok := s.products[m.ProductID]; !ok && t.products[m.ProductID] == nil {
			return fmt.Errorf("movimiento %s: producto %s inexistente", m.ID, m.ProductID)
		}
		if seqs[m.ProductID] == nil {
			seqs[m.ProductID] = make(map[int64]bool)
		}
		if seqs[m.ProductID][m.Sequence] || int64(len(s.chains[m.ProductID])) >= m.Sequence {
			return domain.ErrConflict
		}
		seqs[m.ProductID][m.Sequence] = true
	}

	for id, p := range t.products {
		s.products[id] = p
	}
	for id, sup := range t.suppliers {
		s.suppliers[id] = sup
	}
	for _, m := range t.movements {
		s.chains[m.ProductID] = append(s.chains[m.ProductID], m)
		s.log = append(s.log, m)
		s.byMovID[m.ID] = m
	}
	return nil
}

// skuTakenLocked indica si otro producto activo (confirmado o preparado en t) usa sku.
func (s *Store) skuTakenLocked(t *tx, sku, excludeID string) bool {
	for id, p := range t.products {
		if id != excludeID && p.Active && p.SKU == sku {
			return true
		}
	}
	for id, p := range s.products {
		if id == excludeID {
			continue
		}
		if staged, ok := t.products[id]; ok {
			p = staged
		}
		if p.Active && p.SKU == sku {
			return true
		}
	}
	return false
}

func (s *Store) businessIDTakenLocked(t *tx, businessID, excludeID string) bool {
	match := func(sup *entity.Supplier) bool {
		return sup.Active && sup.BusinessID != nil && *sup.BusinessID == businessID
	}
	for id, sup := range t.suppliers {
		if id != excludeID && match(sup) {
			return true
		}
	}
	for id, sup := range s.suppliers {
		if id == excludeID {
			continue
		}
		if staged, ok := t.suppliers[id]; ok {
			sup = staged
		}
		if match(sup) {
			return true
		}
	}
	return false
}

// session une los repositorios a una transacción; tx nil significa autocommit.
type session struct {
	store *Store
	tx    *tx
}

// write ejecuta fn sobre la transacción actual o, en autocommit, sobre una propia que confirma al final.
func (sess *session) write(fn func(t *tx) error) error {
	if sess.tx != nil {
		return fn(sess.tx)
	}
	t := newTx()
	if err := fn(t); err != nil {
		return err
	}
	return sess.store.commit(t)
}

func (sess *session) product(id string) *entity.Product {
	if sess.tx != nil {
		if p, ok := sess.tx.products[id]; ok {
			return p.Clone()
		}
	}
	sess.store.mu.RLock()
	defer sess.store.mu.RUnlock()
	return sess.store.products[id].Clone()
}

// products devuelve la vista combinada (confirmado + preparado) como copias.
func (sess *session) products() []*entity.Product {
	sess.store.mu.RLock()
	out := make([]*entity.Product, 0, len(sess.store.products))
	for id, p := range sess.store.products {
		if sess.tx != nil {
			if staged, ok := sess.tx.products[id]; ok {
				p = staged
			}
		}
		out = append(out, p.Clone())
	}
	sess.store.mu.RUnlock()
	if sess.tx != nil {
		for id := range sess.tx.newProducts {
			out = append(out, sess.tx.products[id].Clone())
		}
	}
	return out
}

func (sess *session) supplier(id string) *entity.Supplier {
	if sess.tx != nil {
		if s, ok := sess.tx.suppliers[id]; ok {
			return s.Clone()
		}
	}
	sess.store.mu.RLock()
	defer sess.store.mu.RUnlock()
	return sess.store.suppliers[id].Clone()
}

func (sess *session) suppliersView() []*entity.Supplier {
	sess.store.mu.RLock()
	out := make([]*entity.Supplier, 0, len(sess.store.suppliers))
	for id, s := range sess.store.suppliers {
		if sess.tx != nil {
			if staged, ok := sess.tx.suppliers[id]; ok {
				s = staged
			}
		}
		out = append(out, s.Clone())
	}
	sess.store.mu.RUnlock()
	if sess.tx != nil {
		for id := range sess.tx.newSuppliers {
			out = append(out, sess.tx.suppliers[id].Clone())
		}
	}
	return out
}

// movements devuelve el log global (más antiguo primero) incluyendo lo preparado en la transacción.
func (sess *session) movements() []*entity.StockMovement {
	sess.store.mu.RLock()
	out := make([]*entity.StockMovement, 0, len(sess.store.log))
	for _, m := range sess.store.log {
		c := *m
		out = append(out, &c)
	}
	sess.store.mu.RUnlock()
	if sess.tx != nil {
		for _, m := range sess.tx.movements {
			c := *m
			out = append(out, &c)
		}
	}
	return out
}

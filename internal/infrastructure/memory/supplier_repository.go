package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/domain/specification"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación en memoria de SupplierRepository.
type SupplierRepo struct {
	sess *session
}

// NewSupplierRepository repositorio en autocommit sobre store.
func NewSupplierRepository(store *Store) *SupplierRepo {
	return &SupplierRepo{sess: &session{store: store}}
}

func (r *SupplierRepo) Create(_ context.Context, supplier *entity.Supplier) error {
	return r.sess.write(func(t *tx) error {
		if r.sess.supplier(supplier.ID) != nil {
			return fmt.Errorf("proveedor %s ya existe", supplier.ID)
		}
		t.suppliers[supplier.ID] = supplier.Clone()
		t.newSuppliers[supplier.ID] = true
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	return r.sess.supplier(id), nil
}

func (r *SupplierRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Supplier, error) {
	out := make([]*entity.Supplier, 0, len(ids))
	for _, id := range ids {
		if s := r.sess.supplier(id); s != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *SupplierRepo) ExistsActiveBusinessID(_ context.Context, businessID, excludeID string) (bool, error) {
	businessID = strings.TrimSpace(businessID)
	for _, s := range r.sess.suppliersView() {
		if s.ID != excludeID && s.Active && s.BusinessID != nil && *s.BusinessID == businessID {
			return true, nil
		}
	}
	return false, nil
}

func (r *SupplierRepo) Update(_ context.Context, supplier *entity.Supplier) error {
	return r.put(supplier)
}

func (r *SupplierRepo) SoftDelete(_ context.Context, supplier *entity.Supplier) error {
	return r.put(supplier)
}

func (r *SupplierRepo) Search(_ context.Context, spec specification.Spec[*entity.Supplier], page repository.Page) ([]*entity.Supplier, int, error) {
	list := specification.Filter(r.sess.suppliersView(), spec)
	sort.SliceStable(list, func(i, j int) bool {
		if !strings.EqualFold(list[i].Name, list[j].Name) {
			return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
		}
		return list[i].ID < list[j].ID
	})
	return repository.Window(list, page), len(list), nil
}

func (r *SupplierRepo) put(supplier *entity.Supplier) error {
	return r.sess.write(func(t *tx) error {
		if r.sess.supplierIn(t, supplier.ID) == nil {
			return domain.ErrSupplierNotFound
		}
		t.suppliers[supplier.ID] = supplier.Clone()
		return nil
	})
}

func (sess *session) supplierIn(t *tx, id string) *entity.Supplier {
	if s, ok := t.suppliers[id]; ok {
		return s
	}
	sess.store.mu.RLock()
	defer sess.store.mu.RUnlock()
	return sess.store.suppliers[id]
}

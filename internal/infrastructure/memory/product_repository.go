package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/domain/specification"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	sess *session
}

// NewProductRepository repositorio en autocommit sobre store.
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{sess: &session{store: store}}
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.sess.write(func(t *tx) error {
		if _, ok := t.products[product.ID]; ok {
			return fmt.Errorf("producto %s ya existe", product.ID)
		}
		c := product.Clone()
		c.Suppliers = nil
		t.products[product.ID] = c
		t.newProducts[product.ID] = true
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.sess.product(id), nil
}

// GetForUpdate toma el bloqueo del producto. Fuera de una transacción equivale a GetByID.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	if r.sess.tx != nil {
		if err := r.sess.store.lock(ctx, r.sess.tx, id); err != nil {
			return nil, err
		}
	}
	return r.sess.product(id), nil
}

func (r *ProductRepo) GetActiveBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.sess.products() {
		if p.Active && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) ExistsActiveSKU(ctx context.Context, sku, excludeID string) (bool, error) {
	for _, p := range r.sess.products() {
		if p.Active && p.SKU == sku && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// Update copia los campos descriptivos sobre la versión visible; stock y estado no cambian.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.stage(product.ID, func(cur *entity.Product) {
		cur.Name = product.Name
		cur.Description = product.Description
		cur.SKU = product.SKU
		cur.Price = product.Price
		cur.MinStockLevel = product.MinStockLevel
		cur.Category = product.Category
		cur.UpdatedAt = product.UpdatedAt
	})
}

func (r *ProductRepo) UpdateStock(_ context.Context, product *entity.Product, expectedVersion int64) error {
	return r.sess.write(func(t *tx) error {
		cur := r.sess.productIn(t, product.ID)
		if cur == nil || cur.StockVersion != expectedVersion {
			return domain.ErrConflict
		}
		if _, ok := t.expectedVersions[product.ID]; !ok && !t.newProducts[product.ID] {
			t.expectedVersions[product.ID] = expectedVersion
		}
		cur.StockQuantity = product.StockQuantity
		cur.StockVersion = product.StockVersion
		cur.UpdatedAt = product.UpdatedAt
		t.products[product.ID] = cur
		return nil
	})
}

func (r *ProductRepo) ReplaceSuppliers(_ context.Context, productID string, supplierIDs []string) error {
	return r.stage(productID, func(cur *entity.Product) {
		cur.SupplierIDs = append([]string(nil), supplierIDs...)
	})
}

func (r *ProductRepo) SoftDelete(_ context.Context, product *entity.Product) error {
	return r.stage(product.ID, func(cur *entity.Product) {
		cur.SKU = product.SKU
		cur.OriginalSKU = product.OriginalSKU
		cur.Active = false
		cur.DeletedAt = product.DeletedAt
		cur.UpdatedAt = product.UpdatedAt
	})
}

// Search filtra con la especificación; orden: más recientes primero.
func (r *ProductRepo) Search(_ context.Context, spec specification.Spec[*entity.Product], page repository.Page) ([]*entity.Product, int, error) {
	list := specification.Filter(r.sess.products(), spec)
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return repository.Window(list, page), len(list), nil
}

// stage aplica fn sobre la versión visible del producto, fijando la versión esperada para commit.
func (r *ProductRepo) stage(id string, fn func(cur *entity.Product)) error {
	return r.sess.write(func(t *tx) error {
		cur := r.sess.productIn(t, id)
		if cur == nil {
			return domain.ErrProductNotFound
		}
		if _, ok := t.expectedVersions[id]; !ok && !t.newProducts[id] {
			t.expectedVersions[id] = cur.StockVersion
		}
		fn(cur)
		t.products[id] = cur
		return nil
	})
}

// productIn lee el producto visible para t (preparado o confirmado) como copia.
func (sess *session) productIn(t *tx, id string) *entity.Product {
	if p, ok := t.products[id]; ok {
		return p.Clone()
	}
	sess.store.mu.RLock()
	defer sess.store.mu.RUnlock()
	return sess.store.products[id].Clone()
}

package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/specification"
)

// SKUIndex responde si un producto activo usa un SKU.
type SKUIndex interface {
	ExistsActiveSKU(ctx context.Context, sku, excludeID string) (bool, error)
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los Get devuelven (nil, nil) cuando el registro no existe.
type ProductRepository interface {
	SKUIndex
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetActiveBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// Update persiste los datos descriptivos; nunca toca stock ni estado de borrado.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock fija el stock si la versión coincide; si no, ErrConflict.
	UpdateStock(ctx context.Context, product *entity.Product, expectedVersion int64) error
	ReplaceSuppliers(ctx context.Context, productID string, supplierIDs []string) error
	SoftDelete(ctx context.Context, product *entity.Product) error
	Search(ctx context.Context, spec specification.Spec[*entity.Product], page Page) ([]*entity.Product, int, error)
}

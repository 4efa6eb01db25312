package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/specification"
)

// BusinessIDIndex responde si un proveedor activo usa un identificador tributario.
type BusinessIDIndex interface {
	ExistsActiveBusinessID(ctx context.Context, businessID, excludeID string) (bool, error)
}

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	BusinessIDIndex
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	// GetByIDs devuelve los proveedores encontrados; los ids inexistentes se omiten.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	SoftDelete(ctx context.Context, supplier *entity.Supplier) error
	Search(ctx context.Context, spec specification.Spec[*entity.Supplier], page Page) ([]*entity.Supplier, int, error)
}

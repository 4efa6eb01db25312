package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementFilter criterios opcionales del listado de movimientos. Vacío = sin restricción.
type MovementFilter struct {
	ProductID string
	Type      string
	Reason    string
	CreatedBy string
	From      *time.Time
	To        *time.Time
}

// StockMovementRepository puerto del ledger. Solo admite inserciones.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// List devuelve la página más reciente primero y el total que cumple el filtro.
	List(ctx context.Context, filter MovementFilter, page Page) ([]*entity.StockMovement, int, error)
	// Chain devuelve todo el ledger del producto en orden de secuencia.
	Chain(ctx context.Context, productID string) ([]*entity.StockMovement, error)
}

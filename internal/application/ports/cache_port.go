package ports

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ProductCache puerto de caché de lectura para productos (cache-aside).
// Los fallos de caché no deben romper la operación; el llamador solo los registra.
type ProductCache interface {
	// Get devuelve (nil, nil) cuando la clave no está en caché.
	Get(ctx context.Context, id string) (*entity.Product, error)
	Set(ctx context.Context, product *entity.Product) error
	Invalidate(ctx context.Context, id string) error
}

// NopProductCache caché deshabilitada.
type NopProductCache struct{}

func (NopProductCache) Get(context.Context, string) (*entity.Product, error) { return nil, nil }
func (NopProductCache) Set(context.Context, *entity.Product) error           { return nil }
func (NopProductCache) Invalidate(context.Context, string) error             { return nil }

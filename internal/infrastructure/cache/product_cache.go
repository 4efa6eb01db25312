package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

var _ ports.ProductCache = (*ProductCache)(nil)

const productKeyPrefix = "product:"

// ProductCache guarda productos serializados en JSON con TTL fijo.
type ProductCache struct {
	client Client
	ttl    time.Duration
}

// NewProductCache ttl <= 0 usa 5 minutos.
func NewProductCache(client Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProductCache{client: client, ttl: ttl}
}

func productKey(id string) string { return productKeyPrefix + id }

func (c *ProductCache) Get(ctx context.Context, id string) (*entity.Product, error) {
	raw, err := c.client.Get(ctx, productKey(id))
	if errors.Is(err, ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", id, err)
	}
	var p entity.Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		// entrada corrupta: se descarta para que la próxima lectura vaya a la base
		_ = c.client.Delete(ctx, productKey(id))
		return nil, fmt.Errorf("cache decode %s: %w", id, err)
	}
	return &p, nil
}

func (c *ProductCache) Set(ctx context.Context, product *entity.Product) error {
	raw, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", product.ID, err)
	}
	return c.client.Set(ctx, productKey(product.ID), raw, c.ttl)
}

func (c *ProductCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Delete(ctx, productKey(id))
}

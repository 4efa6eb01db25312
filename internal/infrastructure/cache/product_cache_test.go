package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/cache"
)

type fakeClient struct {
	data map[string]string
	ttl  map[string]time.Duration
	err  error
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeClient) Get(_ context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (f *fakeClient) Set(_ context.Context, key string, value interface{}, exp time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttl[key] = exp
	return nil
}

func (f *fakeClient) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func TestProductCache_RoundTripAndInvalidate(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	c := cache.NewProductCache(client, time.Minute)

	miss, err := c.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, miss)

	p := &entity.Product{ID: "p1", Name: "Taladro", SKU: "TAL-1", Price: decimal.RequireFromString("99.90"), StockQuantity: 7, Active: true}
	require.NoError(t, c.Set(ctx, p))
	assert.Equal(t, time.Minute, client.ttl["product:p1"])

	got, err := c.Get(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "TAL-1", got.SKU)
	assert.True(t, p.Price.Equal(got.Price))
	assert.Equal(t, 7, got.StockQuantity)

	require.NoError(t, c.Invalidate(ctx, "p1"))
	got, err = c.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProductCache_CorruptEntryIsDropped(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	client.data["product:p1"] = "{no es json"
	c := cache.NewProductCache(client, 0)

	_, err := c.Get(ctx, "p1")
	assert.Error(t, err)
	_, ok := client.data["product:p1"]
	assert.False(t, ok)
}

func TestProductCache_ClientError(t *testing.T) {
	client := newFakeClient()
	client.err = errors.New("conexión rechazada")
	_, err := cache.NewProductCache(client, 0).Get(context.Background(), "p1")
	assert.ErrorIs(t, err, client.err)
}

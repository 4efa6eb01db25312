package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/domain/specification"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

func newProduct(id, sku string, stock int) *entity.Product {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &entity.Product{
		ID:            id,
		Name:          "Producto " + id,
		SKU:           sku,
		Price:         decimal.RequireFromString("10.50"),
		StockQuantity: stock,
		Active:        true,
		StockVersion:  1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ─── Transacciones ───────────────────────────────────────────────────────────

func TestStore_Run_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	boom := errors.New("falla")

	err := store.Run(ctx, func(pr repository.ProductRepository, mr repository.StockMovementRepository, _ repository.SupplierRepository) error {
		require.NoError(t, pr.Create(ctx, newProduct("p1", "SKU-1", 5)))
		require.NoError(t, mr.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "p1", Type: entity.MovementTypeIN, Quantity: 5, NewStock: 5, Sequence: 1}))
		// Dentro de la transacción lo preparado es visible.
		p, err := pr.GetByID(ctx, "p1")
		require.NoError(t, err)
		require.NotNil(t, p)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := memory.NewProductRepository(store).GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, p)
	chain, err := memory.NewStockMovementRepository(store).Chain(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, chain)
}

func TestStore_Run_CommitsProductAndMovementTogether(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	err := store.Run(ctx, func(pr repository.ProductRepository, mr repository.StockMovementRepository, _ repository.SupplierRepository) error {
		if err := pr.Create(ctx, newProduct("p1", "SKU-1", 5)); err != nil {
			return err
		}
		return mr.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "p1", Type: entity.MovementTypeIN, Quantity: 5, NewStock: 5, Reason: entity.ReasonInitialStock, Sequence: 1})
	})
	require.NoError(t, err)

	p, _ := memory.NewProductRepository(store).GetByID(ctx, "p1")
	require.NotNil(t, p)
	assert.Equal(t, 5, p.StockQuantity)
	chain, _ := memory.NewStockMovementRepository(store).Chain(ctx, "p1")
	require.Len(t, chain, 1)
	assert.Equal(t, int64(1), chain[0].Sequence)
}

func TestStore_UpdateStock_VersionMismatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := memory.NewProductRepository(store)
	require.NoError(t, repo.Create(ctx, newProduct("p1", "SKU-1", 5)))

	p, _ := repo.GetByID(ctx, "p1")
	p.StockQuantity = 8
	p.StockVersion = 2
	require.NoError(t, repo.UpdateStock(ctx, p, 1))

	// Una segunda escritura con la versión vieja pierde.
	p.StockQuantity = 1
	p.StockVersion = 2
	assert.ErrorIs(t, repo.UpdateStock(ctx, p, 1), domain.ErrConflict)

	got, _ := repo.GetByID(ctx, "p1")
	assert.Equal(t, 8, got.StockQuantity)
	assert.Equal(t, int64(2), got.StockVersion)
}

func TestStore_DuplicateSequenceRejected(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, memory.NewProductRepository(store).Create(ctx, newProduct("p1", "SKU-1", 0)))
	movs := memory.NewStockMovementRepository(store)

	require.NoError(t, movs.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "p1", Type: entity.MovementTypeIN, Quantity: 1, Sequence: 1}))
	err := movs.Create(ctx, &entity.StockMovement{ID: "m2", ProductID: "p1", Type: entity.MovementTypeIN, Quantity: 1, Sequence: 1})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestStore_GetForUpdate_SerializesTransactions(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, memory.NewProductRepository(store).Create(ctx, newProduct("p1", "SKU-1", 0)))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Run(ctx, func(pr repository.ProductRepository, _ repository.StockMovementRepository, _ repository.SupplierRepository) error {
				p, err := pr.GetForUpdate(ctx, "p1")
				if err != nil {
					return err
				}
				expected := p.StockVersion
				p.StockQuantity++
				p.StockVersion++
				return pr.UpdateStock(ctx, p, expected)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, _ := memory.NewProductRepository(store).GetByID(ctx, "p1")
	assert.Equal(t, 20, p.StockQuantity)
	assert.Equal(t, int64(21), p.StockVersion)
}

func TestStore_GetForUpdate_ContextCancelled(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, memory.NewProductRepository(store).Create(ctx, newProduct("p1", "SKU-1", 0)))

	held := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = store.Run(ctx, func(pr repository.ProductRepository, _ repository.StockMovementRepository, _ repository.SupplierRepository) error {
			_, err := pr.GetForUpdate(ctx, "p1")
			close(held)
			<-done
			return err
		})
	}()
	<-held

	cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := store.Run(cctx, func(pr repository.ProductRepository, _ repository.StockMovementRepository, _ repository.SupplierRepository) error {
		_, err := pr.GetForUpdate(cctx, "p1")
		return err
	})
	close(done)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// ─── Unicidad ────────────────────────────────────────────────────────────────

func TestStore_ActiveSKUUnique(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := memory.NewProductRepository(store)
	require.NoError(t, repo.Create(ctx, newProduct("p1", "SKU-1", 0)))

	assert.ErrorIs(t, repo.Create(ctx, newProduct("p2", "SKU-1", 0)), domain.ErrDuplicateSKU)

	exists, err := repo.ExistsActiveSKU(ctx, "SKU-1", "")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, _ = repo.ExistsActiveSKU(ctx, "SKU-1", "p1")
	assert.False(t, exists)

	// Tras retirar el producto el SKU queda libre.
	p, _ := repo.GetByID(ctx, "p1")
	now := time.Now().UTC()
	p.OriginalSKU = p.SKU
	p.SKU = "SKU-1~del~1"
	p.DeletedAt = &now
	require.NoError(t, repo.SoftDelete(ctx, p))
	require.NoError(t, repo.Create(ctx, newProduct("p2", "SKU-1", 0)))

	byID, _ := repo.GetByID(ctx, "p1")
	assert.False(t, byID.Active)
	assert.Equal(t, "SKU-1", byID.OriginalSKU)
	active, _ := repo.GetActiveBySKU(ctx, "SKU-1")
	require.NotNil(t, active)
	assert.Equal(t, "p2", active.ID)
}

func TestStore_BusinessIDUniqueAmongActive(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSupplierRepository(memory.NewStore())
	nit := "900123"
	require.NoError(t, repo.Create(ctx, &entity.Supplier{ID: "s1", Name: "Alfa", BusinessID: &nit, Active: true}))

	err := repo.Create(ctx, &entity.Supplier{ID: "s2", Name: "Beta", BusinessID: &nit, Active: true})
	assert.ErrorIs(t, err, domain.ErrDuplicateBusinessID)

	// Sin business id nunca hay colisión.
	require.NoError(t, repo.Create(ctx, &entity.Supplier{ID: "s3", Name: "Gamma", Active: true}))
	require.NoError(t, repo.Create(ctx, &entity.Supplier{ID: "s4", Name: "Delta", Active: true}))

	found, err := repo.GetByIDs(ctx, []string{"s4", "nope", "s1"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "s4", found[0].ID)
	assert.Equal(t, "s1", found[1].ID)
}

// ─── Consultas ───────────────────────────────────────────────────────────────

func TestProductRepo_Search(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProductRepository(memory.NewStore())
	for i, sku := range []string{"A-1", "A-2", "B-1"} {
		p := newProduct(sku, sku, i*10)
		p.CreatedAt = p.CreatedAt.Add(time.Duration(i) * time.Minute)
		p.Category = "herramientas"
		require.NoError(t, repo.Create(ctx, p))
	}

	spec := specification.ProductSpec(specification.ProductFilter{SKU: "a-"})
	list, total, err := repo.Search(ctx, spec, repository.Page{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 1)
	assert.Equal(t, "A-2", list[0].ID, "más reciente primero")
}

func TestMovementRepo_ListFilters(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, memory.NewProductRepository(store).Create(ctx, newProduct("p1", "SKU-1", 0)))
	require.NoError(t, memory.NewProductRepository(store).Create(ctx, newProduct("p2", "SKU-2", 0)))
	movs := memory.NewStockMovementRepository(store)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	seed := []*entity.StockMovement{
		{ID: "m1", ProductID: "p1", Type: entity.MovementTypeIN, Reason: entity.ReasonPurchase, Quantity: 5, Sequence: 1, CreatedAt: base},
		{ID: "m2", ProductID: "p2", Type: entity.MovementTypeIN, Reason: entity.ReasonPurchase, Quantity: 5, Sequence: 1, CreatedAt: base.Add(time.Hour)},
		{ID: "m3", ProductID: "p1", Type: entity.MovementTypeOUT, Reason: entity.ReasonSale, Quantity: 2, Sequence: 2, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, m := range seed {
		require.NoError(t, movs.Create(ctx, m))
	}

	all, total, err := movs.List(ctx, repository.MovementFilter{}, repository.Page{}.Normalize())
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"m3", "m2", "m1"}, ids(all))

	byProduct, _, _ := movs.List(ctx, repository.MovementFilter{ProductID: "p1"}, repository.Page{}.Normalize())
	assert.Equal(t, []string{"m3", "m1"}, ids(byProduct))

	from := base.Add(30 * time.Minute)
	to := base.Add(90 * time.Minute)
	window, _, _ := movs.List(ctx, repository.MovementFilter{From: &from, To: &to}, repository.Page{}.Normalize())
	assert.Equal(t, []string{"m2"}, ids(window))

	sales, _, _ := movs.List(ctx, repository.MovementFilter{Type: entity.MovementTypeOUT}, repository.Page{}.Normalize())
	assert.Equal(t, []string{"m3"}, ids(sales))

	got, err := movs.GetByID(ctx, "m2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "p2", got.ProductID)
}

func ids(list []*entity.StockMovement) []string {
	out := make([]string, 0, len(list))
	for _, m := range list {
		out = append(out, m.ID)
	}
	return out
}

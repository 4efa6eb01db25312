package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/domain/specification"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// ProductUseCase consultas de productos activos. Las mutaciones viven en inventory.LedgerUseCase.
type ProductUseCase struct {
	repo         repository.ProductRepository
	supplierRepo repository.SupplierRepository
	cache        ports.ProductCache
	log          *logger.Logger
}

// NewProductUseCase construye el caso de uso. cache y log pueden ser nil.
func NewProductUseCase(repo repository.ProductRepository, supplierRepo repository.SupplierRepository, cache ports.ProductCache, log *logger.Logger) *ProductUseCase {
	if cache == nil {
		cache = ports.NopProductCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{repo: repo, supplierRepo: supplierRepo, cache: cache, log: log}
}

// GetByID obtiene un producto activo con sus proveedores (cache-aside).
// La caché guarda solo la fila del producto; los proveedores se resuelven en cada lectura.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	cached, err := uc.cache.Get(ctx, id)
	if err != nil {
		uc.log.Warn().Err(err).Str("product_id", id).Msg("leer caché de producto")
	}
	if cached != nil && cached.Active {
		return uc.respond(ctx, cached.Clone())
	}

	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Active {
		return nil, domain.ErrProductNotFound
	}
	product, err = uc.fill(ctx, product)
	if err != nil {
		return nil, err
	}
	return uc.respond(ctx, product)
}

// fill escribe la fila en caché y la vuelve a leer. Si una mutación confirmó entre la
// lectura y el Set, su invalidación pudo llegar antes que el Set: se descarta la entrada.
func (uc *ProductUseCase) fill(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	row := product.Clone()
	row.Suppliers = nil
	if err := uc.cache.Set(ctx, row); err != nil {
		uc.log.Warn().Err(err).Str("product_id", product.ID).Msg("escribir caché de producto")
		return product, nil
	}

	current, err := uc.repo.GetByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	if current != nil && current.StockVersion == product.StockVersion && current.UpdatedAt.Equal(product.UpdatedAt) && current.Active {
		return product, nil
	}
	if err := uc.cache.Invalidate(ctx, product.ID); err != nil {
		uc.log.Warn().Err(err).Str("product_id", product.ID).Msg("invalidar caché de producto")
	}
	if current == nil || !current.Active {
		return nil, domain.ErrProductNotFound
	}
	return current, nil
}

func (uc *ProductUseCase) respond(ctx context.Context, product *entity.Product) (*dto.ProductResponse, error) {
	if err := uc.attachSuppliers(ctx, product); err != nil {
		return nil, err
	}
	out := dto.NewProductResponse(product)
	return &out, nil
}

// GetBySKU obtiene el producto activo con ese SKU.
func (uc *ProductUseCase) GetBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, domain.ErrProductNotFound
	}
	product, err := uc.repo.GetActiveBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if err := uc.attachSuppliers(ctx, product); err != nil {
		return nil, err
	}
	out := dto.NewProductResponse(product)
	return &out, nil
}

// Search lista productos activos que cumplen todos los criterios del filtro.
func (uc *ProductUseCase) Search(ctx context.Context, f specification.ProductFilter, page repository.Page) (*dto.ProductListResponse, error) {
	page = page.Normalize()
	list, total, err := uc.repo.Search(ctx, specification.ProductSpec(f), page)
	if err != nil {
		return nil, err
	}
	if err := uc.attachSuppliers(ctx, list...); err != nil {
		return nil, err
	}
	out := dto.NewProductListResponse(list, total, page.Limit, page.Offset)
	return &out, nil
}

// attachSuppliers resuelve los proveedores activos de todos los productos con una sola consulta.
func (uc *ProductUseCase) attachSuppliers(ctx context.Context, products ...*entity.Product) error {
	seen := make(map[string]struct{})
	var ids []string
	for _, p := range products {
		for _, id := range p.SupplierIDs {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		for _, p := range products {
			p.Suppliers = []*entity.Supplier{}
		}
		return nil
	}
	suppliers, err := uc.supplierRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]*entity.Supplier, len(suppliers))
	for _, s := range suppliers {
		// un proveedor eliminado deja de mostrarse aunque el vínculo persista
		if s.Active {
			byID[s.ID] = s
		}
	}
	for _, p := range products {
		p.Suppliers = make([]*entity.Supplier, 0, len(p.SupplierIDs))
		for _, id := range p.SupplierIDs {
			if s, ok := byID[id]; ok {
				p.Suppliers = append(p.Suppliers, s)
			}
		}
	}
	return nil
}

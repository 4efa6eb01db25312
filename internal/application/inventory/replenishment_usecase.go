package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/domain/specification"
)

// ReplenishmentUseCase genera la lista de reposición: productos activos en o bajo su stock mínimo.
type ReplenishmentUseCase struct {
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(productRepo repository.ProductRepository, supplierRepo repository.SupplierRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo, supplierRepo: supplierRepo}
}

// GenerateReplenishmentList devuelve la cantidad sugerida de pedido por producto, priorizando el mayor déficit.
// El stock ideal es 1.5 veces el mínimo, redondeado hacia arriba.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	low := true
	spec := specification.ProductSpec(specification.ProductFilter{LowStock: &low})

	// 1. Productos en o bajo el mínimo, página por página
	var items []*entity.Product
	page := repository.Page{Limit: 100}
	for {
		batch, total, err := uc.productRepo.Search(ctx, spec, page)
		if err != nil {
			return nil, err
		}
		items = append(items, batch...)
		page.Offset += len(batch)
		if len(batch) == 0 || page.Offset >= total {
			break
		}
	}

	// 2. Proveedores asociados (una sola consulta)
	suppliersByID, err := uc.loadSuppliers(ctx, items)
	if err != nil {
		return nil, err
	}

	// 3. Sugerencias
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(items))
	for _, p := range items {
		ideal := (p.MinStockLevel*3 + 1) / 2
		qty := ideal - p.StockQuantity
		if qty <= 0 {
			continue
		}
		s := dto.ReplenishmentSuggestionDTO{
			ProductID:         p.ID,
			SKU:               p.SKU,
			ProductName:       p.Name,
			CurrentStock:      p.StockQuantity,
			MinStockLevel:     p.MinStockLevel,
			IdealStock:        ideal,
			SuggestedOrderQty: qty,
			UnitPrice:         p.Price,
			EstimatedValue:    p.Price.Mul(decimal.NewFromInt(int64(qty))),
			Suppliers:         []dto.SupplierSummary{},
		}
		for _, id := range p.SupplierIDs {
			if sup, ok := suppliersByID[id]; ok && sup.Active {
				s.Suppliers = append(s.Suppliers, dto.SupplierSummary{ID: sup.ID, Name: sup.Name, BusinessID: sup.BusinessID})
			}
		}
		suggestions = append(suggestions, s)
	}

	// 4. Mayor déficit bajo el mínimo primero; luego mayor valor estimado; luego SKU.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		defA := a.MinStockLevel - a.CurrentStock
		defB := b.MinStockLevel - b.CurrentStock
		if defA != defB {
			return defA > defB
		}
		if !a.EstimatedValue.Equal(b.EstimatedValue) {
			return a.EstimatedValue.GreaterThan(b.EstimatedValue)
		}
		return a.SKU < b.SKU
	})

	// 5. Prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

func (uc *ReplenishmentUseCase) loadSuppliers(ctx context.Context, items []*entity.Product) (map[string]*entity.Supplier, error) {
	var ids []string
	for _, p := range items {
		ids = append(ids, p.SupplierIDs...)
	}
	ids = uniqueIDs(ids)
	out := make(map[string]*entity.Supplier, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := uc.supplierRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		out[s.ID] = s
	}
	return out, nil
}

package specification

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ProductFilter criterios opcionales de búsqueda de productos. Campos vacíos o nil no restringen.
type ProductFilter struct {
	Name        string
	SKU         string
	Description string
	Category    string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	MinStock    *int
	MaxStock    *int
	LowStock    *bool
}

// ProductSpec combina con AND todos los criterios del filtro más la condición de producto activo.
func ProductSpec(f ProductFilter) Spec[*entity.Product] {
	return And(
		ProductIsActive(),
		ProductNameContains(f.Name),
		ProductSKUContains(f.SKU),
		ProductDescriptionContains(f.Description),
		ProductCategoryIs(f.Category),
		ProductPriceBetween(f.MinPrice, f.MaxPrice),
		ProductStockBetween(f.MinStock, f.MaxStock),
		ProductLowStock(f.LowStock),
	)
}

func ProductIsActive() Spec[*entity.Product] {
	return Where(
		func(p *entity.Product) bool { return p.Active },
		func(*Args) string { return "active = TRUE" },
	)
}

func ProductNameContains(name string) Spec[*entity.Product] {
	name, ok := normalize(name)
	if !ok {
		return True[*entity.Product]()
	}
	return Where(
		func(p *entity.Product) bool { return containsFold(p.Name, name) },
		ilikeContains("name", name),
	)
}

func ProductSKUContains(sku string) Spec[*entity.Product] {
	sku, ok := normalize(sku)
	if !ok {
		return True[*entity.Product]()
	}
	return Where(
		func(p *entity.Product) bool { return containsFold(p.SKU, sku) },
		ilikeContains("sku", sku),
	)
}

func ProductDescriptionContains(text string) Spec[*entity.Product] {
	text, ok := normalize(text)
	if !ok {
		return True[*entity.Product]()
	}
	return Where(
		func(p *entity.Product) bool { return containsFold(p.Description, text) },
		ilikeContains("description", text),
	)
}

// ProductCategoryIs coincidencia exacta de la categoría.
func ProductCategoryIs(category string) Spec[*entity.Product] {
	category, ok := normalize(category)
	if !ok {
		return True[*entity.Product]()
	}
	return Where(
		func(p *entity.Product) bool { return p.Category == category },
		func(a *Args) string { return "category = " + a.Add(category) },
	)
}

// ProductPriceBetween aplica límites inclusivos; cualquiera puede omitirse.
func ProductPriceBetween(min, max *decimal.Decimal) Spec[*entity.Product] {
	var specs []Spec[*entity.Product]
	if min != nil {
		lo := *min
		specs = append(specs, Where(
			func(p *entity.Product) bool { return p.Price.GreaterThanOrEqual(lo) },
			func(a *Args) string { return "price >= " + a.Add(lo) },
		))
	}
	if max != nil {
		hi := *max
		specs = append(specs, Where(
			func(p *entity.Product) bool { return p.Price.LessThanOrEqual(hi) },
			func(a *Args) string { return "price <= " + a.Add(hi) },
		))
	}
	return And(specs...)
}

func ProductStockBetween(min, max *int) Spec[*entity.Product] {
	var specs []Spec[*entity.Product]
	if min != nil {
		lo := *min
		specs = append(specs, Where(
			func(p *entity.Product) bool { return p.StockQuantity >= lo },
			func(a *Args) string { return "stock_quantity >= " + a.Add(lo) },
		))
	}
	if max != nil {
		hi := *max
		specs = append(specs, Where(
			func(p *entity.Product) bool { return p.StockQuantity <= hi },
			func(a *Args) string { return "stock_quantity <= " + a.Add(hi) },
		))
	}
	return And(specs...)
}

// ProductLowStock restringe a stock en o bajo el mínimo solo cuando low es true; false o nil no filtran.
func ProductLowStock(low *bool) Spec[*entity.Product] {
	if low == nil || !*low {
		return True[*entity.Product]()
	}
	return Where(
		func(p *entity.Product) bool { return p.LowStock() },
		func(*Args) string { return "stock_quantity <= min_stock_level" },
	)
}

package specification_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/specification"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func product(name, sku, category string, stock, min int, active bool) *entity.Product {
	return &entity.Product{
		Name:          name,
		SKU:           sku,
		Category:      category,
		Price:         decimal.NewFromInt(10),
		StockQuantity: stock,
		MinStockLevel: min,
		Active:        active,
	}
}

func ptr[T any](v T) *T { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Composición
// ──────────────────────────────────────────────────────────────────────────────

func TestAnd_SinOperandosEsNeutra(t *testing.T) {
	s := specification.And[*entity.Product]()
	assert.True(t, specification.IsTrue(s))
	assert.True(t, s.IsSatisfiedBy(product("x", "X", "", 0, 0, false)))
	assert.Equal(t, "TRUE", s.SQL(specification.NewArgs()))
}

func TestOr_OperandoNeutroAbsorbe(t *testing.T) {
	s := specification.Or(specification.ProductNameContains("mesa"), specification.True[*entity.Product]())
	assert.True(t, specification.IsTrue(s))
}

func TestOr_Disyuncion(t *testing.T) {
	s := specification.Or(
		specification.ProductCategoryIs("muebles"),
		specification.ProductCategoryIs("oficina"),
	)
	assert.True(t, s.IsSatisfiedBy(product("Silla", "S-1", "oficina", 1, 0, true)))
	assert.True(t, s.IsSatisfiedBy(product("Mesa", "M-1", "muebles", 1, 0, true)))
	assert.False(t, s.IsSatisfiedBy(product("Lápiz", "L-1", "papelería", 1, 0, true)))

	args := specification.NewArgs()
	assert.Equal(t, "(category = $1 OR category = $2)", s.SQL(args))
	assert.Equal(t, []any{"muebles", "oficina"}, args.Values())
}

// ──────────────────────────────────────────────────────────────────────────────
// Filtros de producto
// ──────────────────────────────────────────────────────────────────────────────

func TestProductSpec_FiltroVacioSoloExigeActivo(t *testing.T) {
	s := specification.ProductSpec(specification.ProductFilter{Name: "   ", Category: ""})
	assert.True(t, s.IsSatisfiedBy(product("a", "A", "", 0, 0, true)))
	assert.False(t, s.IsSatisfiedBy(product("a", "A", "", 0, 0, false)))
	assert.Equal(t, "active = TRUE", s.SQL(specification.NewArgs()))
}

func TestProductSpec_CombinaConAnd(t *testing.T) {
	f := specification.ProductFilter{
		Name:     "TORNILLO",
		MinPrice: ptr(decimal.NewFromInt(5)),
		LowStock: ptr(true),
	}
	s := specification.ProductSpec(f)

	assert.True(t, s.IsSatisfiedBy(product("Tornillo 3/8", "T-38", "", 2, 5, true)))
	// Stock por encima del mínimo.
	assert.False(t, s.IsSatisfiedBy(product("Tornillo 3/8", "T-38", "", 9, 5, true)))
	// Nombre no coincide.
	assert.False(t, s.IsSatisfiedBy(product("Tuerca", "T-1", "", 2, 5, true)))

	args := specification.NewArgs()
	sql := s.SQL(args)
	assert.Equal(t, `(active = TRUE AND name ILIKE $1 ESCAPE '\' AND price >= $2 AND stock_quantity <= min_stock_level)`, sql)
	require.Len(t, args.Values(), 2)
	assert.Equal(t, "%TORNILLO%", args.Values()[0])
}

func TestProductNameContains_CaseFoldingUnicode(t *testing.T) {
	s := specification.ProductNameContains("ÑANDÚ")
	assert.True(t, s.IsSatisfiedBy(product("peluche ñandú", "P-1", "", 0, 0, true)))
}

func TestProductNameContains_EscapaComodines(t *testing.T) {
	args := specification.NewArgs("fijo")
	sql := specification.ProductNameContains("50%_off").SQL(args)
	assert.Equal(t, `name ILIKE $2 ESCAPE '\'`, sql)
	assert.Equal(t, `%50\%\_off%`, args.Values()[1])
}

func TestProductCategoryIs_CoincidenciaExacta(t *testing.T) {
	s := specification.ProductCategoryIs(" Electronics ")
	assert.True(t, s.IsSatisfiedBy(product("TV", "TV-1", "Electronics", 1, 0, true)))
	assert.False(t, s.IsSatisfiedBy(product("TV", "TV-1", "electronics", 1, 0, true)))

	args := specification.NewArgs()
	assert.Equal(t, "category = $1", s.SQL(args))
	assert.Equal(t, []any{"Electronics"}, args.Values())
}

func TestProductLowStock_FalseONilNoRestringen(t *testing.T) {
	bajo := product("a", "A", "", 2, 5, true)
	alto := product("b", "B", "", 10, 5, true)

	for name, low := range map[string]*bool{"nil": nil, "false": ptr(false)} {
		t.Run(name, func(t *testing.T) {
			s := specification.ProductSpec(specification.ProductFilter{LowStock: low})
			assert.True(t, s.IsSatisfiedBy(bajo))
			assert.True(t, s.IsSatisfiedBy(alto))
			assert.Equal(t, "active = TRUE", s.SQL(specification.NewArgs()))
		})
	}

	s := specification.ProductLowStock(ptr(true))
	assert.True(t, s.IsSatisfiedBy(bajo))
	assert.False(t, s.IsSatisfiedBy(alto))
}

// ──────────────────────────────────────────────────────────────────────────────
// Filtros de proveedor
// ──────────────────────────────────────────────────────────────────────────────

func TestSupplierSpec(t *testing.T) {
	nit := "900123456"
	rating := decimal.NewFromFloat(4.5)
	s := &entity.Supplier{
		Name:         "Ferretería Central",
		BusinessID:   &nit,
		Status:       entity.SupplierStatusActive,
		SupplierType: entity.SupplierTypeDomestic,
		Address:      entity.Address{City: "Bogotá", Country: "Colombia"},
		Rating:       &rating,
		Active:       true,
	}

	match := specification.SupplierSpec(specification.SupplierFilter{
		Name:      "central",
		Status:    "active",
		City:      "BOGOTÁ",
		MinRating: ptr(decimal.NewFromInt(4)),
	})
	assert.True(t, match.IsSatisfiedBy(s))

	noMatch := specification.SupplierSpec(specification.SupplierFilter{BusinessID: "800000000"})
	assert.False(t, noMatch.IsSatisfiedBy(s))

	// Proveedor sin calificación no cumple una calificación mínima.
	s.Rating = nil
	assert.False(t, match.IsSatisfiedBy(s))

	s.Rating = &rating
	s.Active = false
	assert.False(t, specification.SupplierSpec(specification.SupplierFilter{}).IsSatisfiedBy(s))
}

func TestFilter_ConservaOrden(t *testing.T) {
	items := []*entity.Product{
		product("a", "A", "", 1, 0, true),
		product("b", "B", "", 1, 0, false),
		product("c", "C", "", 1, 0, true),
	}
	out := specification.Filter(items, specification.ProductIsActive())
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Name)
	assert.Equal(t, "c", out[1].Name)
}

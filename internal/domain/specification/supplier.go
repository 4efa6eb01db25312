package specification

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// SupplierFilter criterios opcionales de búsqueda de proveedores.
type SupplierFilter struct {
	Name         string
	BusinessID   string
	Status       string
	SupplierType string
	City         string
	Country      string
	MinRating    *decimal.Decimal
}

// SupplierSpec combina con AND los criterios del filtro más la condición de proveedor activo.
func SupplierSpec(f SupplierFilter) Spec[*entity.Supplier] {
	return And(
		SupplierIsActive(),
		SupplierNameContains(f.Name),
		SupplierBusinessIDIs(f.BusinessID),
		SupplierStatusIs(f.Status),
		SupplierTypeIs(f.SupplierType),
		SupplierCityContains(f.City),
		SupplierCountryContains(f.Country),
		SupplierMinRating(f.MinRating),
	)
}

func SupplierIsActive() Spec[*entity.Supplier] {
	return Where(
		func(s *entity.Supplier) bool { return s.Active },
		func(*Args) string { return "active = TRUE" },
	)
}

func SupplierNameContains(name string) Spec[*entity.Supplier] {
	name, ok := normalize(name)
	if !ok {
		return True[*entity.Supplier]()
	}
	return Where(
		func(s *entity.Supplier) bool { return containsFold(s.Name, name) },
		ilikeContains("name", name),
	)
}

// SupplierBusinessIDIs coincidencia exacta del identificador tributario.
func SupplierBusinessIDIs(id string) Spec[*entity.Supplier] {
	id, ok := normalize(id)
	if !ok {
		return True[*entity.Supplier]()
	}
	return Where(
		func(s *entity.Supplier) bool { return s.BusinessID != nil && *s.BusinessID == id },
		func(a *Args) string { return "business_id = " + a.Add(id) },
	)
}

func SupplierStatusIs(status string) Spec[*entity.Supplier] {
	status, ok := normalize(status)
	if !ok {
		return True[*entity.Supplier]()
	}
	status = strings.ToUpper(status)
	return Where(
		func(s *entity.Supplier) bool { return s.Status == status },
		func(a *Args) string { return "status = " + a.Add(status) },
	)
}

func SupplierTypeIs(t string) Spec[*entity.Supplier] {
	t, ok := normalize(t)
	if !ok {
		return True[*entity.Supplier]()
	}
	t = strings.ToUpper(t)
	return Where(
		func(s *entity.Supplier) bool { return s.SupplierType == t },
		func(a *Args) string { return "supplier_type = " + a.Add(t) },
	)
}

func SupplierCityContains(city string) Spec[*entity.Supplier] {
	city, ok := normalize(city)
	if !ok {
		return True[*entity.Supplier]()
	}
	return Where(
		func(s *entity.Supplier) bool { return containsFold(s.Address.City, city) },
		ilikeContains("city", city),
	)
}

func SupplierCountryContains(country string) Spec[*entity.Supplier] {
	country, ok := normalize(country)
	if !ok {
		return True[*entity.Supplier]()
	}
	return Where(
		func(s *entity.Supplier) bool { return containsFold(s.Address.Country, country) },
		ilikeContains("country", country),
	)
}

// SupplierMinRating excluye proveedores sin calificación.
func SupplierMinRating(min *decimal.Decimal) Spec[*entity.Supplier] {
	if min == nil {
		return True[*entity.Supplier]()
	}
	lo := *min
	return Where(
		func(s *entity.Supplier) bool { return s.Rating != nil && s.Rating.GreaterThanOrEqual(lo) },
		func(a *Args) string { return "rating >= " + a.Add(lo) },
	)
}

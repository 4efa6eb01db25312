package inventory

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var skuPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.Invalid("name", "es requerido")
	}
	if utf8.RuneCountInString(name) > 200 {
		return domain.Invalid("name", "máximo 200 caracteres")
	}
	return nil
}

func validateSKU(sku string) error {
	if !skuPattern.MatchString(sku) {
		return domain.Invalid("sku", "solo letras, números, '.', '_' o '-' (máximo 64)")
	}
	return nil
}

// validatePrice exige precio positivo con a lo sumo dos decimales.
func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return domain.Invalid("price", "debe ser mayor que 0")
	}
	if !price.Equal(price.Truncate(2)) {
		return domain.Invalid("price", "máximo dos decimales")
	}
	return nil
}

func validateMinStock(min int) error {
	if min < 0 {
		return domain.Invalid("min_stock_level", "no puede ser negativo")
	}
	return nil
}

// uniqueIDs recorta y elimina duplicados conservando el orden.
func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// resolveSuppliers carga los proveedores en el orden de ids; cualquiera ausente o inactivo es ErrSupplierNotFound.
func resolveSuppliers(ctx context.Context, repo repository.SupplierRepository, ids []string) ([]*entity.Supplier, error) {
	if len(ids) == 0 {
		return []*entity.Supplier{}, nil
	}
	found, err := repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Supplier, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}
	out := make([]*entity.Supplier, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok || !s.Active {
			return nil, domain.ErrSupplierNotFound
		}
		out = append(out, s)
	}
	return out, nil
}

// Package lifecycle gestiona la unicidad de claves de negocio entre registros activos
// y la transición de borrado lógico de productos y proveedores.
package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// EnsureSKUAvailable devuelve ErrDuplicateSKU si otro producto activo (distinto de excludeID) usa sku.
func EnsureSKUAvailable(ctx context.Context, index repository.SKUIndex, sku, excludeID string) error {
	exists, err := index.ExistsActiveSKU(ctx, sku, excludeID)
	if err != nil {
		return fmt.Errorf("verificar sku: %w", err)
	}
	if exists {
		return domain.ErrDuplicateSKU
	}
	return nil
}

// EnsureBusinessIDAvailable igual que EnsureSKUAvailable para proveedores. Un id vacío nunca colisiona.
func EnsureBusinessIDAvailable(ctx context.Context, index repository.BusinessIDIndex, businessID *string, excludeID string) error {
	if businessID == nil || strings.TrimSpace(*businessID) == "" {
		return nil
	}
	exists, err := index.ExistsActiveBusinessID(ctx, *businessID, excludeID)
	if err != nil {
		return fmt.Errorf("verificar business id: %w", err)
	}
	if exists {
		return domain.ErrDuplicateBusinessID
	}
	return nil
}

// ArchivedSKU construye el SKU que ocupa un producto eliminado: conserva el original como prefijo
// y agrega la marca de tiempo y un sufijo aleatorio para que nunca choque con otro SKU.
func ArchivedSKU(sku string, at time.Time) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s~del~%d~%s", sku, at.UnixMilli(), token)
}

// RetireProduct aplica el borrado lógico. El llamador valida antes que el stock sea cero.
func RetireProduct(p *entity.Product, at time.Time) {
	if p.OriginalSKU == "" {
		p.OriginalSKU = p.SKU
	}
	p.SKU = ArchivedSKU(p.OriginalSKU, at)
	p.Active = false
	p.DeletedAt = &at
	p.UpdatedAt = at
}

// RetireSupplier aplica el borrado lógico; el business id queda fuera del ámbito de unicidad al desactivarse.
func RetireSupplier(s *entity.Supplier, at time.Time) {
	s.Active = false
	s.DeletedAt = &at
	s.UpdatedAt = at
}

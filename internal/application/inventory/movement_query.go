package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// MovementQueryUseCase consultas de solo lectura sobre el ledger.
type MovementQueryUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
}

// NewMovementQueryUseCase construye el caso de uso.
func NewMovementQueryUseCase(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) *MovementQueryUseCase {
	return &MovementQueryUseCase{productRepo: productRepo, movRepo: movRepo}
}

// ListMovements lista movimientos (más recientes primero) que cumplen el filtro.
func (uc *MovementQueryUseCase) ListMovements(ctx context.Context, f repository.MovementFilter, page repository.Page) ([]*entity.StockMovement, int, error) {
	f.Type = strings.ToUpper(strings.TrimSpace(f.Type))
	f.Reason = strings.ToUpper(strings.TrimSpace(f.Reason))
	f.ProductID = strings.TrimSpace(f.ProductID)
	f.CreatedBy = strings.TrimSpace(f.CreatedBy)
	if f.Type != "" && !entity.ValidMovementType(f.Type) {
		return nil, 0, domain.Invalid("type", "debe ser IN u OUT")
	}
	if f.Reason != "" && !entity.ValidReason(f.Reason) {
		return nil, 0, domain.Invalid("reason", "motivo desconocido")
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, 0, domain.Invalid("from", "debe ser anterior a to")
	}
	return uc.movRepo.List(ctx, f, page.Normalize())
}

// ListMovementsForProduct lista el historial de un producto, activo o eliminado.
func (uc *MovementQueryUseCase) ListMovementsForProduct(ctx context.Context, productID string, page repository.Page) ([]*entity.StockMovement, int, error) {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, 0, err
	}
	if p == nil {
		return nil, 0, domain.ErrProductNotFound
	}
	return uc.movRepo.List(ctx, repository.MovementFilter{ProductID: productID}, page.Normalize())
}

// LedgerReport resultado de auditar el ledger de un producto.
type LedgerReport struct {
	ProductID     string
	StockQuantity int
	Movements     int
	Consistent    bool
	Problem       string
}

// VerifyLedger recorre el ledger completo del producto y comprueba que encadene hasta el stock actual.
// Lee bajo bloqueo para que ningún movimiento concurrente quede a medias en la lectura.
func (uc *LedgerUseCase) VerifyLedger(ctx context.Context, productID string) (*LedgerReport, error) {
	var report *LedgerReport
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		_ repository.SupplierRepository,
	) error {
		p, err := productRepo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}
		chain, err := movRepo.Chain(ctx, productID)
		if err != nil {
			return err
		}
		report = &LedgerReport{
			ProductID:     p.ID,
			StockQuantity: p.StockQuantity,
			Movements:     len(chain),
			Consistent:    true,
		}
		if err := inventory.VerifyChain(chain, p.StockQuantity); err != nil {
			var chainErr *inventory.ChainError
			if !errors.As(err, &chainErr) {
				return err
			}
			report.Consistent = false
			report.Problem = chainErr.Error()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !report.Consistent {
		uc.log.Error().Str("product_id", productID).Str("problem", report.Problem).Msg("ledger inconsistente")
	}
	return report, nil
}

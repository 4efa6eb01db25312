package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/lifecycle"
	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// Options políticas del motor.
type Options struct {
	// RecordZeroInitialStock crea el movimiento INITIAL_STOCK también cuando el stock inicial es 0.
	RecordZeroInitialStock bool
	// MaxRetries reintentos ante ErrConflict (bloqueo, serialización o versión desactualizada).
	MaxRetries   int
	RetryBackoff time.Duration
	Clock        func() time.Time
}

// DefaultOptions valores usados por cmd/api cuando la configuración no indica otra cosa.
func DefaultOptions() Options {
	return Options{RecordZeroInitialStock: true, MaxRetries: 3, RetryBackoff: 10 * time.Millisecond}
}

// LedgerUseCase es la única vía para cambiar el stock de un producto. Cada mutación de stock
// y su movimiento se confirman en la misma transacción, con la fila del producto bloqueada.
type LedgerUseCase struct {
	txRunner TxRunner
	cache    ports.ProductCache
	log      *logger.Logger
	opts     Options
}

// NewLedgerUseCase construye el motor. cache y log pueden ser nil.
func NewLedgerUseCase(txRunner TxRunner, cache ports.ProductCache, log *logger.Logger, opts Options) *LedgerUseCase {
	if cache == nil {
		cache = ports.NopProductCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return time.Now().UTC() }
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &LedgerUseCase{txRunner: txRunner, cache: cache, log: log, opts: opts}
}

// CreateProductInput entrada de CreateProduct. InitialStock queda registrado como INITIAL_STOCK.
type CreateProductInput struct {
	Name          string
	Description   string
	SKU           string
	Price         decimal.Decimal
	InitialStock  int
	MinStockLevel int
	Category      string
	SupplierIDs   []string
	Actor         string
}

// CreateProduct valida, verifica unicidad del SKU y proveedores, y persiste el producto junto con
// su movimiento inicial. Ante cualquier error no queda nada persistido.
func (uc *LedgerUseCase) CreateProduct(ctx context.Context, in CreateProductInput) (*entity.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if err := validateSKU(in.SKU); err != nil {
		return nil, err
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	if in.InitialStock < 0 {
		return nil, domain.Invalid("stock_quantity", "no puede ser negativo")
	}
	if err := validateMinStock(in.MinStockLevel); err != nil {
		return nil, err
	}
	if in.InitialStock < in.MinStockLevel {
		return nil, domain.ErrInvalidStockLevel
	}

	now := uc.opts.Clock()
	supplierIDs := uniqueIDs(in.SupplierIDs)
	recordInitial := in.InitialStock > 0 || uc.opts.RecordZeroInitialStock

	var created *entity.Product
	err := uc.withRetry(ctx, "create_product", func() error {
		return uc.txRunner.Run(ctx, func(
			productRepo repository.ProductRepository,
			movRepo repository.StockMovementRepository,
			supplierRepo repository.SupplierRepository,
		) error {
			if err := lifecycle.EnsureSKUAvailable(ctx, productRepo, in.SKU, ""); err != nil {
				return err
			}
			suppliers, err := resolveSuppliers(ctx, supplierRepo, supplierIDs)
			if err != nil {
				return err
			}
			p := &entity.Product{
				ID:            uuid.New().String(),
				Name:          in.Name,
				Description:   in.Description,
				SKU:           in.SKU,
				Price:         in.Price,
				StockQuantity: in.InitialStock,
				MinStockLevel: in.MinStockLevel,
				Category:      strings.TrimSpace(in.Category),
				Active:        true,
				SupplierIDs:   supplierIDs,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if recordInitial {
				p.StockVersion = 1
			}
			if err := productRepo.Create(ctx, p); err != nil {
				return err
			}
			if recordInitial {
				if err := movRepo.Create(ctx, &entity.StockMovement{
					ID:            uuid.New().String(),
					ProductID:     p.ID,
					Type:          entity.MovementTypeIN,
					Quantity:      in.InitialStock,
					PreviousStock: 0,
					NewStock:      in.InitialStock,
					Reason:        entity.ReasonInitialStock,
					CreatedBy:     in.Actor,
					Sequence:      1,
					CreatedAt:     now,
				}); err != nil {
					return err
				}
			}
			p.Suppliers = suppliers
			created = p
			return nil
		})
	})
	if err != nil {
		uc.logRejection("create_product", err).Str("sku", in.SKU).Msg("creación de producto rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("product_id", created.ID).
		Str("sku", created.SKU).
		Int("initial_stock", created.StockQuantity).
		Msg("producto creado")
	return created, nil
}

// MovementInput entrada de ApplyMovement.
type MovementInput struct {
	ProductID string
	Type      string
	Quantity  int
	Reason    string
	Reference string
	Notes     string
	Actor     string
}

// ApplyMovement bloquea el producto, calcula el stock resultante y agrega el movimiento al ledger.
// Una salida mayor al stock disponible se rechaza con ErrInsufficientStock sin efectos.
func (uc *LedgerUseCase) ApplyMovement(ctx context.Context, in MovementInput) (*entity.StockMovement, error) {
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.Type = strings.ToUpper(strings.TrimSpace(in.Type))
	in.Reason = strings.ToUpper(strings.TrimSpace(in.Reason))
	switch {
	case in.ProductID == "":
		return nil, domain.Invalid("product_id", "es requerido")
	case !entity.ValidMovementType(in.Type):
		return nil, domain.Invalid("type", "debe ser IN u OUT")
	case in.Quantity <= 0:
		return nil, domain.Invalid("quantity", "debe ser mayor que 0")
	case !entity.ValidReason(in.Reason):
		return nil, domain.Invalid("reason", "motivo desconocido")
	case in.Reason == entity.ReasonInitialStock:
		return nil, domain.Invalid("reason", "INITIAL_STOCK solo se registra al crear el producto")
	}

	var applied *entity.StockMovement
	err := uc.withRetry(ctx, "apply_movement", func() error {
		return uc.txRunner.Run(ctx, func(
			productRepo repository.ProductRepository,
			movRepo repository.StockMovementRepository,
			_ repository.SupplierRepository,
		) error {
			// Bloquea la fila del producto antes de leer el stock previo
			p, err := productRepo.GetForUpdate(ctx, in.ProductID)
			if err != nil {
				return err
			}
			if p == nil || !p.Active {
				return domain.ErrProductNotFound
			}
			next, err := inventory.NextStock(p.StockQuantity, in.Type, in.Quantity)
			if err != nil {
				return err
			}
			now := uc.opts.Clock()
			expected := p.StockVersion
			mov := &entity.StockMovement{
				ID:            uuid.New().String(),
				ProductID:     p.ID,
				Type:          in.Type,
				Quantity:      in.Quantity,
				PreviousStock: p.StockQuantity,
				NewStock:      next,
				Reason:        in.Reason,
				Reference:     in.Reference,
				Notes:         in.Notes,
				CreatedBy:     in.Actor,
				Sequence:      expected + 1,
				CreatedAt:     now,
			}
			p.StockQuantity = next
			p.StockVersion = expected + 1
			p.UpdatedAt = now
			if err := productRepo.UpdateStock(ctx, p, expected); err != nil {
				return err
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
			applied = mov
			return nil
		})
	})
	if err != nil {
		uc.logRejection("apply_movement", err).
			Str("product_id", in.ProductID).
			Str("type", in.Type).
			Int("quantity", in.Quantity).
			Msg("movimiento rechazado")
		return nil, err
	}
	uc.invalidate(ctx, applied.ProductID)
	uc.log.Info().
		Str("product_id", applied.ProductID).
		Str("movement_id", applied.ID).
		Str("type", applied.Type).
		Int("previous_stock", applied.PreviousStock).
		Int("new_stock", applied.NewStock).
		Msg("movimiento aplicado")
	return applied, nil
}

// UpdateProductInput campos editables; nil conserva el valor actual. El stock nunca se edita aquí.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	SKU           *string
	Price         *decimal.Decimal
	MinStockLevel *int
	Category      *string
	SupplierIDs   *[]string
}

// normalize recorta y valida los campos presentes.
func (in *UpdateProductInput) normalize() error {
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if err := validateName(v); err != nil {
			return err
		}
		in.Name = &v
	}
	if in.SKU != nil {
		v := strings.TrimSpace(*in.SKU)
		if err := validateSKU(v); err != nil {
			return err
		}
		in.SKU = &v
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return err
		}
	}
	if in.MinStockLevel != nil {
		if err := validateMinStock(*in.MinStockLevel); err != nil {
			return err
		}
	}
	return nil
}

// UpdateProduct modifica los datos descriptivos del producto activo. La existencia se comprueba antes
// que los campos; el nuevo mínimo se compara con el stock actual leído bajo bloqueo.
func (uc *LedgerUseCase) UpdateProduct(ctx context.Context, id string, in UpdateProductInput) (*entity.Product, error) {
	var updated *entity.Product
	err := uc.withRetry(ctx, "update_product", func() error {
		return uc.txRunner.Run(ctx, func(
			productRepo repository.ProductRepository,
			_ repository.StockMovementRepository,
			supplierRepo repository.SupplierRepository,
		) error {
			p, err := productRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if p == nil || !p.Active {
				return domain.ErrProductNotFound
			}
			if err := in.normalize(); err != nil {
				return err
			}
			if in.SKU != nil && *in.SKU != p.SKU {
				if err := lifecycle.EnsureSKUAvailable(ctx, productRepo, *in.SKU, p.ID); err != nil {
					return err
				}
				p.SKU = *in.SKU
			}
			if in.Name != nil {
				p.Name = *in.Name
			}
			if in.Description != nil {
				p.Description = *in.Description
			}
			if in.Price != nil {
				p.Price = *in.Price
			}
			if in.Category != nil {
				p.Category = strings.TrimSpace(*in.Category)
			}
			if in.MinStockLevel != nil {
				p.MinStockLevel = *in.MinStockLevel
			}
			if p.StockQuantity < p.MinStockLevel {
				return domain.ErrInvalidStockLevel
			}
			if in.SupplierIDs != nil {
				ids := uniqueIDs(*in.SupplierIDs)
				if _, err := resolveSuppliers(ctx, supplierRepo, ids); err != nil {
					return err
				}
				if err := productRepo.ReplaceSuppliers(ctx, p.ID, ids); err != nil {
					return err
				}
				p.SupplierIDs = ids
			}
			p.UpdatedAt = uc.opts.Clock()
			if err := productRepo.Update(ctx, p); err != nil {
				return err
			}
			suppliers, err := supplierRepo.GetByIDs(ctx, p.SupplierIDs)
			if err != nil {
				return err
			}
			p.Suppliers = suppliers
			updated = p
			return nil
		})
	})
	if err != nil {
		uc.logRejection("update_product", err).Str("product_id", id).Msg("actualización de producto rechazada")
		return nil, err
	}
	uc.invalidate(ctx, id)
	uc.log.Info().Str("product_id", id).Msg("producto actualizado")
	return updated, nil
}

// DeleteProduct aplica borrado lógico a un producto activo sin stock. El SKU queda libre para reutilizarse
// y el original se conserva en OriginalSKU.
func (uc *LedgerUseCase) DeleteProduct(ctx context.Context, id string) error {
	err := uc.withRetry(ctx, "delete_product", func() error {
		return uc.txRunner.Run(ctx, func(
			productRepo repository.ProductRepository,
			_ repository.StockMovementRepository,
			_ repository.SupplierRepository,
		) error {
			p, err := productRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if p == nil || !p.Active {
				return domain.ErrProductNotFound
			}
			if p.StockQuantity != 0 {
				return domain.ErrProductHasStock
			}
			lifecycle.RetireProduct(p, uc.opts.Clock())
			return productRepo.SoftDelete(ctx, p)
		})
	})
	if err != nil {
		uc.logRejection("delete_product", err).Str("product_id", id).Msg("eliminación de producto rechazada")
		return err
	}
	uc.invalidate(ctx, id)
	uc.log.Info().Str("product_id", id).Msg("producto eliminado")
	return nil
}

// withRetry repite fn solo ante ErrConflict, con espera lineal entre intentos.
func (uc *LedgerUseCase) withRetry(ctx context.Context, op string, fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		if !errors.Is(err, domain.ErrConflict) || attempt >= uc.opts.MaxRetries {
			return err
		}
		uc.log.Warn().Str("op", op).Int("attempt", attempt+1).Msg("conflicto de concurrencia, reintentando")
		if uc.opts.RetryBackoff <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * uc.opts.RetryBackoff):
		}
	}
}

func (uc *LedgerUseCase) invalidate(ctx context.Context, productID string) {
	if err := uc.cache.Invalidate(ctx, productID); err != nil {
		uc.log.Warn().Err(err).Str("product_id", productID).Msg("invalidar caché de producto")
	}
}

// logRejection registra rechazos de negocio en debug y fallas de infraestructura en error.
func (uc *LedgerUseCase) logRejection(op string, err error) *zerolog.Event {
	ev := uc.log.Error()
	if domain.IsBusiness(err) {
		ev = uc.log.Debug()
	}
	return ev.Str("op", op).Err(err)
}

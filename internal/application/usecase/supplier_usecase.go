package usecase

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/lifecycle"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/domain/specification"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

var (
	minRating = decimal.NewFromInt(1)
	maxRating = decimal.NewFromInt(5)
)

// SupplierUseCase casos de uso para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewSupplierUseCase construye el caso de uso. log puede ser nil.
func NewSupplierUseCase(repo repository.SupplierRepository, log *logger.Logger) *SupplierUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SupplierUseCase{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Create crea un proveedor activo. El business id debe ser único entre proveedores activos.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	s := &entity.Supplier{ID: uuid.New().String(), Active: true}
	if err := applySupplierRequest(s, in); err != nil {
		return nil, err
	}
	if err := lifecycle.EnsureBusinessIDAvailable(ctx, uc.repo, s.BusinessID, ""); err != nil {
		return nil, err
	}
	now := uc.now()
	s.CreatedAt = now
	s.UpdatedAt = now
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.log.Info().Str("supplier_id", s.ID).Str("name", s.Name).Msg("proveedor creado")
	out := dto.NewSupplierResponse(s)
	return &out, nil
}

// GetByID obtiene un proveedor activo.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.active(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewSupplierResponse(s)
	return &out, nil
}

// Update reemplaza los datos de un proveedor activo.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.active(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applySupplierRequest(s, in); err != nil {
		return nil, err
	}
	if err := lifecycle.EnsureBusinessIDAvailable(ctx, uc.repo, s.BusinessID, s.ID); err != nil {
		return nil, err
	}
	s.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	out := dto.NewSupplierResponse(s)
	return &out, nil
}

// Delete borrado lógico. Las asociaciones con productos se conservan como historial.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	s, err := uc.active(ctx, id)
	if err != nil {
		return err
	}
	lifecycle.RetireSupplier(s, uc.now())
	if err := uc.repo.SoftDelete(ctx, s); err != nil {
		return err
	}
	uc.log.Info().Str("supplier_id", id).Msg("proveedor eliminado")
	return nil
}

// Search lista proveedores activos que cumplen el filtro.
func (uc *SupplierUseCase) Search(ctx context.Context, f specification.SupplierFilter, page repository.Page) (*dto.SupplierListResponse, error) {
	page = page.Normalize()
	list, total, err := uc.repo.Search(ctx, specification.SupplierSpec(f), page)
	if err != nil {
		return nil, err
	}
	out := dto.NewSupplierListResponse(list, total, page.Limit, page.Offset)
	return &out, nil
}

func (uc *SupplierUseCase) active(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil || !s.Active {
		return nil, domain.ErrSupplierNotFound
	}
	return s, nil
}

// applySupplierRequest valida y copia el request sobre s. Status y tipo tienen valores por defecto.
func applySupplierRequest(s *entity.Supplier, in dto.CreateSupplierRequest) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Invalid("name", "es requerido")
	}
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status == "" {
		status = entity.SupplierStatusActive
	}
	if !entity.ValidSupplierStatus(status) {
		return domain.Invalid("status", "estado desconocido")
	}
	supplierType := strings.ToUpper(strings.TrimSpace(in.SupplierType))
	if supplierType == "" {
		supplierType = entity.SupplierTypeDomestic
	}
	if !entity.ValidSupplierType(supplierType) {
		return domain.Invalid("supplier_type", "debe ser DOMESTIC o INTERNATIONAL")
	}
	email := strings.TrimSpace(in.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return domain.Invalid("email", "formato inválido")
		}
	}
	if in.Rating != nil && (in.Rating.LessThan(minRating) || in.Rating.GreaterThan(maxRating)) {
		return domain.Invalid("rating", "debe estar entre 1.0 y 5.0")
	}
	if in.AverageDeliveryDays != nil && *in.AverageDeliveryDays < 0 {
		return domain.Invalid("average_delivery_days", "no puede ser negativo")
	}
	var businessID *string
	if in.BusinessID != nil {
		if v := strings.TrimSpace(*in.BusinessID); v != "" {
			businessID = &v
		}
	}

	s.Name = name
	s.BusinessID = businessID
	s.Status = status
	s.SupplierType = supplierType
	s.Email = email
	s.Phone = strings.TrimSpace(in.Phone)
	s.ContactPerson = strings.TrimSpace(in.ContactPerson)
	s.Address = entity.Address(in.Address)
	s.PaymentTerms = in.PaymentTerms
	s.AverageDeliveryDays = in.AverageDeliveryDays
	s.Notes = in.Notes
	s.Rating = in.Rating
	return nil
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// AddressDTO dirección postal.
type AddressDTO struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Name                string           `json:"name" validate:"required,min=1,max=200"`
	BusinessID          *string          `json:"business_id"`
	Status              string           `json:"status"`
	Email               string           `json:"email"`
	Phone               string           `json:"phone"`
	ContactPerson       string           `json:"contact_person"`
	Address             AddressDTO       `json:"address"`
	PaymentTerms        string           `json:"payment_terms"`
	AverageDeliveryDays *int             `json:"average_delivery_days"`
	SupplierType        string           `json:"supplier_type"`
	Notes               string           `json:"notes"`
	Rating              *decimal.Decimal `json:"rating"`
}

// UpdateSupplierRequest reemplaza los datos del proveedor (mismos campos que la creación).
type UpdateSupplierRequest = CreateSupplierRequest

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	BusinessID          *string          `json:"business_id,omitempty"`
	Status              string           `json:"status"`
	Email               string           `json:"email,omitempty"`
	Phone               string           `json:"phone,omitempty"`
	ContactPerson       string           `json:"contact_person,omitempty"`
	Address             AddressDTO       `json:"address"`
	PaymentTerms        string           `json:"payment_terms,omitempty"`
	AverageDeliveryDays *int             `json:"average_delivery_days,omitempty"`
	SupplierType        string           `json:"supplier_type"`
	Notes               string           `json:"notes,omitempty"`
	Rating              *decimal.Decimal `json:"rating,omitempty"`
	Active              bool             `json:"active"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	DeletedAt           *time.Time       `json:"deleted_at,omitempty"`
}

// SupplierListResponse lista paginada de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// NewSupplierResponse mapea la entidad.
func NewSupplierResponse(s *entity.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:                  s.ID,
		Name:                s.Name,
		BusinessID:          s.BusinessID,
		Status:              s.Status,
		Email:               s.Email,
		Phone:               s.Phone,
		ContactPerson:       s.ContactPerson,
		Address:             AddressDTO(s.Address),
		PaymentTerms:        s.PaymentTerms,
		AverageDeliveryDays: s.AverageDeliveryDays,
		SupplierType:        s.SupplierType,
		Notes:               s.Notes,
		Rating:              s.Rating,
		Active:              s.Active,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
		DeletedAt:           s.DeletedAt,
	}
}

// NewSupplierListResponse arma la página de proveedores.
func NewSupplierListResponse(items []*entity.Supplier, total, limit, offset int) SupplierListResponse {
	out := SupplierListResponse{
		Items: make([]SupplierResponse, 0, len(items)),
		Page:  PageResponse{Limit: limit, Offset: offset, Total: total},
	}
	for _, s := range items {
		out.Items = append(out.Items, NewSupplierResponse(s))
	}
	return out
}

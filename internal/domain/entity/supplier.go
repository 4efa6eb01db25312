package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de proveedor.
const (
	SupplierStatusActive          = "ACTIVE"
	SupplierStatusInactive        = "INACTIVE"
	SupplierStatusBlocked         = "BLOCKED"
	SupplierStatusPendingApproval = "PENDING_APPROVAL"
)

// Tipos de proveedor.
const (
	SupplierTypeDomestic      = "DOMESTIC"
	SupplierTypeInternational = "INTERNATIONAL"
)

// ValidSupplierStatus indica si s es un estado conocido.
func ValidSupplierStatus(s string) bool {
	switch s {
	case SupplierStatusActive, SupplierStatusInactive, SupplierStatusBlocked, SupplierStatusPendingApproval:
		return true
	}
	return false
}

// ValidSupplierType indica si t es un tipo conocido.
func ValidSupplierType(t string) bool {
	return t == SupplierTypeDomestic || t == SupplierTypeInternational
}

// Address dirección postal; todos los campos son opcionales.
type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Supplier proveedor de productos. BusinessID (NIT/RUT) es único entre proveedores activos cuando está presente.
type Supplier struct {
	ID                  string
	Name                string
	BusinessID          *string
	Status              string
	Email               string
	Phone               string
	ContactPerson       string
	Address             Address
	PaymentTerms        string
	AverageDeliveryDays *int
	SupplierType        string
	Notes               string
	Rating              *decimal.Decimal // 1.0 a 5.0
	Active              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           *time.Time
}

// Clone copia el proveedor incluyendo los punteros opcionales.
func (s *Supplier) Clone() *Supplier {
	if s == nil {
		return nil
	}
	c := *s
	if s.BusinessID != nil {
		v := *s.BusinessID
		c.BusinessID = &v
	}
	if s.AverageDeliveryDays != nil {
		v := *s.AverageDeliveryDays
		c.AverageDeliveryDays = &v
	}
	if s.Rating != nil {
		v := *s.Rating
		c.Rating = &v
	}
	if s.DeletedAt != nil {
		v := *s.DeletedAt
		c.DeletedAt = &v
	}
	return &c
}

package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrProductNotFound     = errors.New("producto no encontrado")
	ErrSupplierNotFound    = errors.New("proveedor no encontrado")
	ErrDuplicateSKU        = errors.New("ya existe un producto activo con ese SKU")
	ErrDuplicateBusinessID = errors.New("ya existe un proveedor activo con ese identificador tributario")
	ErrInvalidStockLevel   = errors.New("el stock no puede ser menor al stock mínimo")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrProductHasStock     = errors.New("no se puede eliminar un producto con stock")
	ErrValidation          = errors.New("entrada inválida")
	// ErrConflict indica contención de bloqueo o versión desactualizada; el motor lo reintenta.
	ErrConflict = errors.New("conflicto con el estado actual")
)

// ValidationError detalla el campo rechazado. errors.Is(err, ErrValidation) es true.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid construye un ValidationError.
func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

var business = []error{
	ErrProductNotFound, ErrSupplierNotFound, ErrDuplicateSKU, ErrDuplicateBusinessID,
	ErrInvalidStockLevel, ErrInsufficientStock, ErrProductHasStock, ErrValidation,
}

// IsBusiness indica si err es un rechazo de regla de negocio (no una falla de infraestructura).
func IsBusiness(err error) bool {
	for _, target := range business {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

package entity

import "time"

// Tipos de movimiento.
const (
	MovementTypeIN  = "IN"  // entrada
	MovementTypeOUT = "OUT" // salida
)

// Motivos de movimiento.
const (
	ReasonPurchase     = "PURCHASE"
	ReasonSale         = "SALE"
	ReasonAdjustment   = "ADJUSTMENT"
	ReasonReturn       = "RETURN"
	ReasonInitialStock = "INITIAL_STOCK" // solo lo genera la creación del producto
)

// ValidMovementType indica si t es IN u OUT.
func ValidMovementType(t string) bool {
	return t == MovementTypeIN || t == MovementTypeOUT
}

// ValidReason indica si r es un motivo conocido.
func ValidReason(r string) bool {
	switch r {
	case ReasonPurchase, ReasonSale, ReasonAdjustment, ReasonReturn, ReasonInitialStock:
		return true
	}
	return false
}

// StockMovement es una entrada inmutable del ledger de un producto.
// Sequence es la posición 1-based dentro del ledger del producto.
type StockMovement struct {
	ID            string
	ProductID     string
	Type          string
	Quantity      int
	PreviousStock int
	NewStock      int
	Reason        string
	Reference     string
	Notes         string
	CreatedBy     string
	Sequence      int64
	CreatedAt     time.Time
}

package inventory

import (
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// NextStock calcula el stock resultante de aplicar un movimiento (servicio de dominio).
// IN suma, OUT resta; una salida mayor al stock previo devuelve ErrInsufficientStock.
func NextStock(previous int, movementType string, quantity int) (int, error) {
	switch movementType {
	case entity.MovementTypeIN:
		return previous + quantity, nil
	case entity.MovementTypeOUT:
		if quantity > previous {
			return previous, domain.ErrInsufficientStock
		}
		return previous - quantity, nil
	}
	return previous, domain.Invalid("type", "debe ser IN u OUT")
}

// ChainError describe la primera ruptura encontrada al verificar un ledger.
type ChainError struct {
	Sequence int64
	Msg      string
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("ledger inconsistente en movimiento %d: %s", e.Sequence, e.Msg)
}

// VerifyChain comprueba que los movimientos (en orden ascendente de Sequence) formen una cadena:
// el primero parte de 0, cada previousStock es el newStock anterior, newStock = previousStock ± quantity,
// ningún newStock es negativo y el último coincide con currentStock.
// Un ledger vacío solo es consistente con stock 0.
func VerifyChain(movements []*entity.StockMovement, currentStock int) error {
	last := 0
	for i, m := range movements {
		want := int64(i + 1)
		if m.Sequence != want {
			return &ChainError{Sequence: m.Sequence, Msg: fmt.Sprintf("secuencia esperada %d", want)}
		}
		if m.PreviousStock != last {
			return &ChainError{Sequence: m.Sequence, Msg: fmt.Sprintf("previousStock %d, esperado %d", m.PreviousStock, last)}
		}
		if m.Quantity < 0 || (m.Quantity == 0 && m.Reason != entity.ReasonInitialStock) {
			return &ChainError{Sequence: m.Sequence, Msg: "cantidad no positiva"}
		}
		next, err := NextStock(m.PreviousStock, m.Type, m.Quantity)
		if err != nil {
			return &ChainError{Sequence: m.Sequence, Msg: err.Error()}
		}
		if next != m.NewStock {
			return &ChainError{Sequence: m.Sequence, Msg: fmt.Sprintf("newStock %d, esperado %d", m.NewStock, next)}
		}
		last = m.NewStock
	}
	if last != currentStock {
		return &ChainError{Sequence: int64(len(movements)), Msg: fmt.Sprintf("stock actual %d, ledger termina en %d", currentStock, last)}
	}
	return nil
}

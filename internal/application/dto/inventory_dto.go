package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
type RegisterMovementRequest struct {
	ProductID string `json:"product_id"`
	Type      string `json:"type"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
	Reference string `json:"reference,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	Reason        string    `json:"reason"`
	Reference     string    `json:"reference,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedBy     string    `json:"created_by,omitempty"`
	Sequence      int64     `json:"sequence"`
	CreatedAt     time.Time `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// NewMovementResponse mapea la entidad.
func NewMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Reason:        m.Reason,
		Reference:     m.Reference,
		Notes:         m.Notes,
		CreatedBy:     m.CreatedBy,
		Sequence:      m.Sequence,
		CreatedAt:     m.CreatedAt,
	}
}

// NewMovementListResponse arma la página de movimientos.
func NewMovementListResponse(items []*entity.StockMovement, total, limit, offset int) MovementListResponse {
	out := MovementListResponse{
		Items: make([]MovementResponse, 0, len(items)),
		Page:  PageResponse{Limit: limit, Offset: offset, Total: total},
	}
	for _, m := range items {
		out.Items = append(out.Items, NewMovementResponse(m))
	}
	return out
}

// LedgerReportResponse resultado de la auditoría del ledger de un producto.
type LedgerReportResponse struct {
	ProductID     string `json:"product_id"`
	StockQuantity int    `json:"stock_quantity"`
	Movements     int    `json:"movements"`
	Consistent    bool   `json:"consistent"`
	Problem       string `json:"problem,omitempty"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en o bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID         string            `json:"product_id"`
	SKU               string            `json:"sku"`
	ProductName       string            `json:"product_name"`
	CurrentStock      int               `json:"current_stock"`
	MinStockLevel     int               `json:"min_stock_level"`
	IdealStock        int               `json:"ideal_stock"`         // ceil(MinStockLevel * 1.5)
	SuggestedOrderQty int               `json:"suggested_order_qty"` // IdealStock - CurrentStock
	UnitPrice         decimal.Decimal   `json:"unit_price"`
	EstimatedValue    decimal.Decimal   `json:"estimated_value"` // SuggestedOrderQty * UnitPrice
	Suppliers         []SupplierSummary `json:"suppliers"`
	Priority          int               `json:"priority"` // 1 = más urgente
}

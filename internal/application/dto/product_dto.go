package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto. StockQuantity es el stock inicial.
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Description   string          `json:"description"`
	SKU           string          `json:"sku" validate:"required,min=1,max=64"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity" validate:"min=0"`
	MinStockLevel int             `json:"min_stock_level" validate:"min=0"`
	Category      string          `json:"category"`
	SupplierIDs   []string        `json:"supplier_ids"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock). Campos nil no cambian.
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description"`
	SKU           *string          `json:"sku"`
	Price         *decimal.Decimal `json:"price"`
	MinStockLevel *int             `json:"min_stock_level"`
	Category      *string          `json:"category"`
	SupplierIDs   *[]string        `json:"supplier_ids"`
}

// SupplierSummary proveedor asociado dentro de ProductResponse.
type SupplierSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	BusinessID *string `json:"business_id,omitempty"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	SKU           string            `json:"sku"`
	OriginalSKU   string            `json:"original_sku,omitempty"`
	Price         decimal.Decimal   `json:"price"`
	StockQuantity int               `json:"stock_quantity"`
	MinStockLevel int               `json:"min_stock_level"`
	LowStock      bool              `json:"low_stock"`
	Category      string            `json:"category"`
	Active        bool              `json:"active"`
	Suppliers     []SupplierSummary `json:"suppliers"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     *time.Time        `json:"deleted_at,omitempty"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// NewProductResponse mapea la entidad a su representación de salida.
func NewProductResponse(p *entity.Product) ProductResponse {
	out := ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		SKU:           p.SKU,
		OriginalSKU:   p.OriginalSKU,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		LowStock:      p.LowStock(),
		Category:      p.Category,
		Active:        p.Active,
		Suppliers:     make([]SupplierSummary, 0, len(p.Suppliers)),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		DeletedAt:     p.DeletedAt,
	}
	for _, s := range p.Suppliers {
		out.Suppliers = append(out.Suppliers, SupplierSummary{ID: s.ID, Name: s.Name, BusinessID: s.BusinessID})
	}
	return out
}

// NewProductListResponse arma la página de productos.
func NewProductListResponse(items []*entity.Product, total, limit, offset int) ProductListResponse {
	out := ProductListResponse{
		Items: make([]ProductResponse, 0, len(items)),
		Page:  PageResponse{Limit: limit, Offset: offset, Total: total},
	}
	for _, p := range items {
		out.Items = append(out.Items, NewProductResponse(p))
	}
	return out
}

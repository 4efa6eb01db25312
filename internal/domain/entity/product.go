package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo con su stock actual.
// StockQuantity solo cambia a través del motor de ledger; StockVersion cuenta los movimientos aplicados.
type Product struct {
	ID            string
	Name          string
	Description   string
	SKU           string // único entre productos activos
	OriginalSKU   string // se fija al eliminar; vacío mientras está activo
	Price         decimal.Decimal
	StockQuantity int
	MinStockLevel int
	Category      string
	Active        bool
	StockVersion  int64
	SupplierIDs   []string
	Suppliers     []*Supplier
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// LowStock indica si el stock está en o por debajo del mínimo. No se persiste.
func (p *Product) LowStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}

// DisplaySKU devuelve el SKU con el que se creó el producto, aun después de eliminado.
func (p *Product) DisplaySKU() string {
	if p.OriginalSKU != "" {
		return p.OriginalSKU
	}
	return p.SKU
}

// Clone copia el producto, incluidos los slices, para que el llamador pueda mutarlo.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	if p.SupplierIDs != nil {
		c.SupplierIDs = append([]string(nil), p.SupplierIDs...)
	}
	if p.Suppliers != nil {
		c.Suppliers = make([]*Supplier, len(p.Suppliers))
		for i, s := range p.Suppliers {
			c.Suppliers[i] = s.Clone()
		}
	}
	if p.DeletedAt != nil {
		t := *p.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

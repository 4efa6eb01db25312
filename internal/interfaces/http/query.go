package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/domain/specification"
)

func pageFromQuery(c *fiber.Ctx) repository.Page {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return repository.Page{Limit: p.Limit, Offset: p.Offset}
}

func queryDecimal(c *fiber.Ctx, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, domain.Invalid(key, "debe ser numérico")
	}
	return &d, nil
}

func queryIntPtr(c *fiber.Ctx, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.Invalid(key, "debe ser entero")
	}
	return &n, nil
}

func queryBoolPtr(c *fiber.Ctx, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.Invalid(key, "debe ser true o false")
	}
	return &b, nil
}

func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.Invalid(key, "formato RFC3339 requerido")
	}
	return &t, nil
}

// productFilterFromQuery lee los criterios de búsqueda de productos.
func productFilterFromQuery(c *fiber.Ctx) (specification.ProductFilter, error) {
	f := specification.ProductFilter{
		Name:        c.Query("name"),
		SKU:         c.Query("sku"),
		Description: c.Query("description"),
		Category:    c.Query("category"),
	}
	var err error
	if f.MinPrice, err = queryDecimal(c, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = queryDecimal(c, "max_price"); err != nil {
		return f, err
	}
	if f.MinStock, err = queryIntPtr(c, "min_stock"); err != nil {
		return f, err
	}
	if f.MaxStock, err = queryIntPtr(c, "max_stock"); err != nil {
		return f, err
	}
	if f.LowStock, err = queryBoolPtr(c, "low_stock"); err != nil {
		return f, err
	}
	return f, nil
}

func supplierFilterFromQuery(c *fiber.Ctx) (specification.SupplierFilter, error) {
	f := specification.SupplierFilter{
		Name:         c.Query("name"),
		BusinessID:   c.Query("business_id"),
		Status:       c.Query("status"),
		SupplierType: c.Query("supplier_type"),
		City:         c.Query("city"),
		Country:      c.Query("country"),
	}
	var err error
	f.MinRating, err = queryDecimal(c, "min_rating")
	return f, err
}

func movementFilterFromQuery(c *fiber.Ctx) (repository.MovementFilter, error) {
	f := repository.MovementFilter{
		ProductID: c.Query("product_id"),
		Type:      c.Query("type"),
		Reason:    c.Query("reason"),
		CreatedBy: c.Query("created_by"),
	}
	var err error
	if f.From, err = queryTime(c, "from"); err != nil {
		return f, err
	}
	f.To, err = queryTime(c, "to")
	return f, err
}

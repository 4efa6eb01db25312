package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildAPI arma el router completo sobre el store en memoria.
func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	movements := memory.NewStockMovementRepository(store)
	suppliers := memory.NewSupplierRepository(store)

	opts := inventory.DefaultOptions()
	opts.RetryBackoff = 0

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:        inventory.NewLedgerUseCase(store, nil, nil, opts),
		Movements:     inventory.NewMovementQueryUseCase(products, movements),
		Replenishment: inventory.NewReplenishmentUseCase(products, suppliers),
		ProductUC:     usecase.NewProductUseCase(products, suppliers, nil, nil),
		SupplierUC:    usecase.NewSupplierUseCase(suppliers, nil),
		JWTSecret:     testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role string, body any) *http.Response {
	t.Helper()
	return send(t, app, method, path, tokenForRole(t, role), body)
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createProduct(t *testing.T, app *fiber.App, sku string, stock, min int) dto.ProductResponse {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/products", apphttp.RoleBodeguero, map[string]any{
		"name": "Producto " + sku, "sku": sku, "price": "12.50", "stock_quantity": stock, "min_stock_level": min,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var out dto.ProductResponse
	decode(t, resp, &out)
	return out
}

func movement(productID, typ string, qty int) map[string]any {
	reason := "PURCHASE"
	if typ == "OUT" {
		reason = "SALE"
	}
	return map[string]any{"product_id": productID, "type": typ, "quantity": qty, "reason": reason}
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var e dto.ErrorResponse
	decode(t, resp, &e)
	return e.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo de movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_FlujoDeMovimientos(t *testing.T) {
	app := buildAPI(t)
	p := createProduct(t, app, "API-1", 10, 0)
	assert.Equal(t, 10, p.StockQuantity)

	resp := call(t, app, http.MethodPost, "/api/inventory/movements", apphttp.RoleVendedor, movement(p.ID, "IN", 25))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var m dto.MovementResponse
	decode(t, resp, &m)
	assert.Equal(t, 10, m.PreviousStock)
	assert.Equal(t, 35, m.NewStock)

	resp = call(t, app, http.MethodPost, "/api/inventory/movements", apphttp.RoleVendedor, movement(p.ID, "OUT", 20))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/inventory/movements", apphttp.RoleVendedor, movement(p.ID, "OUT", 30))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, resp))

	resp = call(t, app, http.MethodGet, "/api/products/"+p.ID, apphttp.RoleVendedor, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var got dto.ProductResponse
	decode(t, resp, &got)
	assert.Equal(t, 15, got.StockQuantity)

	resp = call(t, app, http.MethodGet, "/api/products/"+p.ID+"/movements", apphttp.RoleVendedor, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var hist dto.MovementListResponse
	decode(t, resp, &hist)
	assert.Equal(t, 3, hist.Page.Total, "INITIAL_STOCK + IN + OUT")

	resp = call(t, app, http.MethodGet, "/api/products/"+p.ID+"/ledger", apphttp.RoleAdmin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var report dto.LedgerReportResponse
	decode(t, resp, &report)
	assert.True(t, report.Consistent)
	assert.Equal(t, 3, report.Movements)
}

func TestAPI_StockBajoMinimo_Retorna422(t *testing.T) {
	app := buildAPI(t)

	resp := call(t, app, http.MethodPost, "/api/products", apphttp.RoleAdmin, map[string]any{
		"name": "Bajo", "sku": "API-3", "price": "1.00", "stock_quantity": 5, "min_stock_level": 10,
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INVALID_STOCK_LEVEL", errorCode(t, resp))

	// Nada quedó persistido: el mismo SKU se puede crear después.
	p := createProduct(t, app, "API-3", 10, 10)

	// Un movimiento sí puede dejar el stock bajo el mínimo.
	resp = call(t, app, http.MethodPost, "/api/inventory/movements", apphttp.RoleBodeguero, movement(p.ID, "OUT", 7))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPut, "/api/products/"+p.ID, apphttp.RoleAdmin, map[string]any{"min_stock_level": 4})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INVALID_STOCK_LEVEL", errorCode(t, resp))

	resp = call(t, app, http.MethodPut, "/api/products/"+p.ID, apphttp.RoleAdmin, map[string]any{"min_stock_level": 3})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var updated dto.ProductResponse
	decode(t, resp, &updated)
	assert.Equal(t, 3, updated.MinStockLevel)
	assert.Equal(t, 3, updated.StockQuantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_CrearProducto_Errores(t *testing.T) {
	app := buildAPI(t)
	createProduct(t, app, "DUP-1", 0, 0)

	resp := call(t, app, http.MethodPost, "/api/products", apphttp.RoleAdmin, map[string]any{
		"name": "Otro", "sku": "DUP-1", "price": "3.00",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_SKU", errorCode(t, resp))

	resp = call(t, app, http.MethodPost, "/api/products", apphttp.RoleAdmin, map[string]any{
		"name": "", "sku": "NUEVO", "price": "3.00",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))

	resp = call(t, app, http.MethodPost, "/api/products", apphttp.RoleVendedor, map[string]any{
		"name": "x", "sku": "VEND", "price": "3.00",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_EliminarProducto(t *testing.T) {
	app := buildAPI(t)
	p := createProduct(t, app, "DEL-1", 4, 0)

	resp := call(t, app, http.MethodDelete, "/api/products/"+p.ID, apphttp.RoleAdmin, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "PRODUCT_HAS_STOCK", errorCode(t, resp))

	resp = call(t, app, http.MethodPost, "/api/inventory/movements", apphttp.RoleAdmin, movement(p.ID, "OUT", 4))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodDelete, "/api/products/"+p.ID, apphttp.RoleAdmin, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/products/"+p.ID, apphttp.RoleAdmin, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "PRODUCT_NOT_FOUND", errorCode(t, resp))

	// El SKU queda libre para un producto nuevo.
	again := createProduct(t, app, "DEL-1", 1, 0)
	assert.NotEqual(t, p.ID, again.ID)

	resp = call(t, app, http.MethodGet, "/api/products/sku/DEL-1", apphttp.RoleVendedor, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var bySKU dto.ProductResponse
	decode(t, resp, &bySKU)
	assert.Equal(t, again.ID, bySKU.ID)
}

func TestAPI_ListarProductos(t *testing.T) {
	app := buildAPI(t)
	createProduct(t, app, "LIST-1", 5, 5)
	createProduct(t, app, "LIST-2", 20, 5)
	otro := createProduct(t, app, "OTRO-1", 6, 5)
	resp := call(t, app, http.MethodPost, "/api/inventory/movements", apphttp.RoleVendedor, movement(otro.ID, "OUT", 3))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/products?sku=list&low_stock=true", apphttp.RoleVendedor, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list dto.ProductListResponse
	decode(t, resp, &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "LIST-1", list.Items[0].SKU)
	assert.Equal(t, 1, list.Page.Total)
	assert.Equal(t, 20, list.Page.Limit)

	resp = call(t, app, http.MethodGet, "/api/products/replenishment", apphttp.RoleVendedor, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var sugg []dto.ReplenishmentSuggestionDTO
	decode(t, resp, &sugg)
	assert.Len(t, sugg, 2)
}

func TestAPI_LedgerSoloAdmin(t *testing.T) {
	app := buildAPI(t)
	p := createProduct(t, app, "AUD-1", 1, 0)

	resp := call(t, app, http.MethodGet, "/api/products/"+p.ID+"/ledger", apphttp.RoleBodeguero, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// Proveedores
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_Proveedores(t *testing.T) {
	app := buildAPI(t)

	resp := call(t, app, http.MethodPost, "/api/suppliers", apphttp.RoleAdmin, map[string]any{
		"name": "Acme", "business_id": "900", "rating": "4.5",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var s dto.SupplierResponse
	decode(t, resp, &s)

	resp = call(t, app, http.MethodPost, "/api/suppliers", apphttp.RoleAdmin, map[string]any{
		"name": "Otra", "business_id": "900",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_BUSINESS_ID", errorCode(t, resp))

	// Un producto con un proveedor inexistente falla con 404.
	resp = call(t, app, http.MethodPost, "/api/products", apphttp.RoleAdmin, map[string]any{
		"name": "x", "sku": "SUP-1", "price": "1.00", "supplier_ids": []string{"no-existe"},
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "SUPPLIER_NOT_FOUND", errorCode(t, resp))

	resp = call(t, app, http.MethodPost, "/api/products", apphttp.RoleAdmin, map[string]any{
		"name": "x", "sku": "SUP-1", "price": "1.00", "supplier_ids": []string{s.ID},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var p dto.ProductResponse
	decode(t, resp, &p)
	require.Len(t, p.Suppliers, 1)
	assert.Equal(t, "Acme", p.Suppliers[0].Name)

	resp = call(t, app, http.MethodDelete, "/api/suppliers/"+s.ID, apphttp.RoleBodeguero, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/suppliers", apphttp.RoleVendedor, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list dto.SupplierListResponse
	decode(t, resp, &list)
	assert.Empty(t, list.Items)
}

package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	apphttp "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inventario-ledger/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "inventario-ledger-test"
	testExpMin    = 60
)

func bearer(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// tokenForRole genera un JWT del operador de prueba con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	return bearer(t, testUserID, role)
}

// send es call con el header Authorization tal cual; vacío no lo envía.
func send(t *testing.T, app *fiber.App, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_TokenAusenteOInvalido(t *testing.T) {
	app := buildAPI(t)

	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, apphttp.RoleAdmin, testIssuer, -1)
	require.NoError(t, err)
	foreign, err := pkgjwt.Generate("otro-secreto", testUserID, apphttp.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	cases := map[string]struct {
		header string
		code   string
	}{
		"sin header":    {"", "MISSING_TOKEN"},
		"esquema basic": {"Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		"malformado":    {"Bearer token.invalido.aqui", "INVALID_TOKEN"},
		"expirado":      {"Bearer " + expired, "INVALID_TOKEN"},
		"otro secreto":  {"Bearer " + foreign, "INVALID_TOKEN"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp := send(t, app, http.MethodGet, "/api/products", tc.header, nil)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, errorCode(t, resp))
		})
	}
}

// Un token sin claim de rol no puede registrar movimientos.
func TestAuth_TokenSinRol_Retorna401(t *testing.T) {
	app := buildAPI(t)
	p := createProduct(t, app, "ROL-0", 5, 0)

	resp := send(t, app, http.MethodPost, "/api/inventory/movements", bearer(t, testUserID, ""), movement(p.ID, "IN", 1))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", errorCode(t, resp))

	resp = call(t, app, http.MethodGet, "/api/products/"+p.ID, apphttp.RoleAdmin, nil)
	var got dto.ProductResponse
	decode(t, resp, &got)
	assert.Equal(t, 5, got.StockQuantity, "el movimiento rechazado no se aplicó")
}

// ──────────────────────────────────────────────────────────────────────────────
// Permisos por ruta
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_MatrizDeRoles(t *testing.T) {
	app := buildAPI(t)
	p := createProduct(t, app, "ROL-1", 50, 0)
	productPath := "/api/products/" + p.ID

	cases := []struct {
		name   string
		method string
		path   string
		role   string
		body   any
		status int
	}{
		{"vendedor registra entrada", http.MethodPost, "/api/inventory/movements", apphttp.RoleVendedor, movement(p.ID, "IN", 1), fiber.StatusCreated},
		{"vendedor registra salida", http.MethodPost, "/api/inventory/movements", apphttp.RoleVendedor, movement(p.ID, "OUT", 1), fiber.StatusCreated},
		{"bodeguero registra entrada", http.MethodPost, "/api/inventory/movements", apphttp.RoleBodeguero, movement(p.ID, "IN", 1), fiber.StatusCreated},
		{"vendedor no crea productos", http.MethodPost, "/api/products", apphttp.RoleVendedor,
			map[string]any{"name": "X", "sku": "ROL-X", "price": "1.00"}, fiber.StatusForbidden},
		{"vendedor no edita productos", http.MethodPut, productPath, apphttp.RoleVendedor, map[string]any{"name": "X"}, fiber.StatusForbidden},
		{"vendedor no elimina productos", http.MethodDelete, productPath, apphttp.RoleVendedor, nil, fiber.StatusForbidden},
		{"vendedor no crea proveedores", http.MethodPost, "/api/suppliers", apphttp.RoleVendedor, map[string]any{"name": "X"}, fiber.StatusForbidden},
		{"bodeguero edita productos", http.MethodPut, productPath, apphttp.RoleBodeguero, map[string]any{"name": "Renombrado"}, fiber.StatusOK},
		{"bodeguero no audita", http.MethodGet, productPath + "/ledger", apphttp.RoleBodeguero, nil, fiber.StatusForbidden},
		{"vendedor no audita", http.MethodGet, productPath + "/ledger", apphttp.RoleVendedor, nil, fiber.StatusForbidden},
		{"admin audita", http.MethodGet, productPath + "/ledger", apphttp.RoleAdmin, nil, fiber.StatusOK},
		{"vendedor consulta", http.MethodGet, productPath, apphttp.RoleVendedor, nil, fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := call(t, app, tc.method, tc.path, tc.role, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.status == fiber.StatusForbidden {
				assert.Equal(t, "FORBIDDEN", errorCode(t, resp))
				return
			}
			resp.Body.Close()
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Autoría de movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_SujetoDelTokenFirmaElMovimiento(t *testing.T) {
	app := buildAPI(t)
	p := createProduct(t, app, "ROL-2", 10, 0)

	resp := send(t, app, http.MethodPost, "/api/inventory/movements", bearer(t, "operador-7", apphttp.RoleVendedor), movement(p.ID, "OUT", 3))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var m dto.MovementResponse
	decode(t, resp, &m)
	assert.Equal(t, "operador-7", m.CreatedBy)
	assert.Equal(t, 7, m.NewStock)

	resp = call(t, app, http.MethodPost, "/api/inventory/movements", apphttp.RoleBodeguero, movement(p.ID, "IN", 1))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	decode(t, resp, &m)
	assert.Equal(t, testUserID, m.CreatedBy)
}

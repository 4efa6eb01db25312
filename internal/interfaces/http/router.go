package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger        *inventory.LedgerUseCase
	Movements     *inventory.MovementQueryUseCase
	Replenishment *inventory.ReplenishmentUseCase
	ProductUC     *usecase.ProductUseCase
	SupplierUC    *usecase.SupplierUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	writers := RequireRole(RoleAdmin, RoleBodeguero)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.Ledger, deps.ProductUC, deps.Movements, deps.Replenishment)
	products.Get("/", productHandler.List)
	products.Post("/", writers, productHandler.Create)
	// rutas fijas antes de /:id
	products.Get("/replenishment", productHandler.Replenishment)
	products.Get("/sku/:sku", productHandler.GetBySKU)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", writers, productHandler.Update)
	products.Delete("/:id", writers, productHandler.Delete)
	products.Get("/:id/movements", productHandler.Movements)
	products.Get("/:id/ledger", RequireRole(RoleAdmin), productHandler.Ledger)

	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Movements)
	invGroup.Post("/movements", RequireRole(RoleAdmin, RoleBodeguero, RoleVendedor), inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)

	suppliers := api.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", writers, supplierHandler.Create)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", writers, supplierHandler.Update)
	suppliers.Delete("/:id", writers, supplierHandler.Delete)
}

package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// respondError traduce errores de dominio a status y código HTTP. Lo desconocido es 500.
func respondError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrValidation):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrProductNotFound):
		status, code = fiber.StatusNotFound, "PRODUCT_NOT_FOUND"
	case errors.Is(err, domain.ErrSupplierNotFound):
		status, code = fiber.StatusNotFound, "SUPPLIER_NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicateSKU):
		status, code = fiber.StatusConflict, "DUPLICATE_SKU"
	case errors.Is(err, domain.ErrDuplicateBusinessID):
		status, code = fiber.StatusConflict, "DUPLICATE_BUSINESS_ID"
	case errors.Is(err, domain.ErrInvalidStockLevel):
		status, code = fiber.StatusUnprocessableEntity, "INVALID_STOCK_LEVEL"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrProductHasStock):
		status, code = fiber.StatusConflict, "PRODUCT_HAS_STOCK"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	}
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

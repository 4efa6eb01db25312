package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// ApplyMovementFromRequest adapta el request HTTP a ApplyMovement; actor es el usuario autenticado.
func (uc *LedgerUseCase) ApplyMovementFromRequest(ctx context.Context, actor string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	mov, err := uc.ApplyMovement(ctx, MovementInput{
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		Reference: in.Reference,
		Notes:     in.Notes,
		Actor:     actor,
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewMovementResponse(mov)
	return &out, nil
}

// CreateProductFromRequest adapta el request HTTP a CreateProduct.
func (uc *LedgerUseCase) CreateProductFromRequest(ctx context.Context, actor string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.CreateProduct(ctx, CreateProductInput{
		Name:          in.Name,
		Description:   in.Description,
		SKU:           in.SKU,
		Price:         in.Price,
		InitialStock:  in.StockQuantity,
		MinStockLevel: in.MinStockLevel,
		Category:      in.Category,
		SupplierIDs:   in.SupplierIDs,
		Actor:         actor,
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewProductResponse(p)
	return &out, nil
}

// UpdateProductFromRequest adapta el request HTTP a UpdateProduct.
func (uc *LedgerUseCase) UpdateProductFromRequest(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.UpdateProduct(ctx, id, UpdateProductInput{
		Name:          in.Name,
		Description:   in.Description,
		SKU:           in.SKU,
		Price:         in.Price,
		MinStockLevel: in.MinStockLevel,
		Category:      in.Category,
		SupplierIDs:   in.SupplierIDs,
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewProductResponse(p)
	return &out, nil
}

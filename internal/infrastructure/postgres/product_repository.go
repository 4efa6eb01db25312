package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/domain/specification"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, description, sku, COALESCE(original_sku, ''), price, stock_quantity,
	min_stock_level, category, active, stock_version, created_at, updated_at, deleted_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto con sus proveedores.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, description, sku, price, stock_quantity, min_stock_level, category, active, stock_version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.SKU, product.Price,
		product.StockQuantity, product.MinStockLevel, product.Category, product.Active,
		product.StockVersion, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateSKU
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return r.insertSuppliers(ctx, product.ID, product.SupplierIDs)
}

// GetByID obtiene un producto por ID, activo o eliminado.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

// GetActiveBySKU obtiene el producto activo con ese SKU.
func (r *ProductRepo) GetActiveBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE active AND sku = $1`, sku)
}

func (r *ProductRepo) ExistsActiveSKU(ctx context.Context, sku, excludeID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE active AND sku = $1 AND id::text <> $2)`,
		sku, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists sku: %w", err)
	}
	return exists, nil
}

// Update actualiza los datos descriptivos. Stock y versión solo cambian vía UpdateStock.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, sku = $4, price = $5, min_stock_level = $6, category = $7, updated_at = $8
		WHERE id = $1 AND active`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.SKU, product.Price,
		product.MinStockLevel, product.Category, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateSKU
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// UpdateStock escribe el nuevo stock solo si la versión sigue siendo expectedVersion.
func (r *ProductRepo) UpdateStock(ctx context.Context, product *entity.Product, expectedVersion int64) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET stock_quantity = $2, stock_version = $3, updated_at = $4 WHERE id = $1 AND stock_version = $5`,
		product.ID, product.StockQuantity, product.StockVersion, product.UpdatedAt, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// ReplaceSuppliers reemplaza la lista de proveedores conservando el orden recibido.
func (r *ProductRepo) ReplaceSuppliers(ctx context.Context, productID string, supplierIDs []string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_suppliers WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete product suppliers: %w", err)
	}
	return r.insertSuppliers(ctx, productID, supplierIDs)
}

// SoftDelete marca el producto como inactivo con el SKU ya archivado.
func (r *ProductRepo) SoftDelete(ctx context.Context, product *entity.Product) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET sku = $2, original_sku = $3, active = FALSE, deleted_at = $4, updated_at = $5 WHERE id = $1 AND active`,
		product.ID, product.SKU, product.OriginalSKU, product.DeletedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Search traduce la especificación a WHERE y devuelve la página más reciente primero junto con el total.
func (r *ProductRepo) Search(ctx context.Context, spec specification.Spec[*entity.Product], page repository.Page) ([]*entity.Product, int, error) {
	args := specification.NewArgs()
	where := spec.SQL(args)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+where, args.Values()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	limit := args.Add(page.Limit)
	offset := args.Add(page.Offset)
	query := `SELECT ` + productColumns + ` FROM products WHERE ` + where +
		` ORDER BY created_at DESC, id LIMIT ` + limit + ` OFFSET ` + offset
	rows, err := r.q.Query(ctx, query, args.Values()...)
	if err != nil {
		return nil, 0, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0, page.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.loadSupplierIDs(ctx, list...); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *ProductRepo) getOne(ctx context.Context, query, arg string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.loadSupplierIDs(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepo) insertSuppliers(ctx context.Context, productID string, supplierIDs []string) error {
	if len(supplierIDs) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_suppliers (product_id, supplier_id, position)
		SELECT $1, s.id::uuid, s.ord FROM unnest($2::text[]) WITH ORDINALITY AS s(id, ord)`,
		productID, supplierIDs,
	)
	if err != nil {
		return fmt.Errorf("insert product suppliers: %w", err)
	}
	return nil
}

// loadSupplierIDs completa SupplierIDs de todos los productos con una sola consulta.
func (r *ProductRepo) loadSupplierIDs(ctx context.Context, products ...*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Product, len(products))
	ids := make([]string, 0, len(products))
	for _, p := range products {
		p.SupplierIDs = []string{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	rows, err := r.q.Query(ctx,
		`SELECT product_id::text, supplier_id::text FROM product_suppliers WHERE product_id::text = ANY($1) ORDER BY product_id, position`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("load product suppliers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var productID, supplierID string
		if err := rows.Scan(&productID, &supplierID); err != nil {
			return err
		}
		if p, ok := byID[productID]; ok {
			p.SupplierIDs = append(p.SupplierIDs, supplierID)
		}
	}
	return rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.SKU, &p.OriginalSKU, &p.Price, &p.StockQuantity,
		&p.MinStockLevel, &p.Category, &p.Active, &p.StockVersion, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

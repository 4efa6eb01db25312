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

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

const supplierColumns = `id, name, business_id, status, email, phone, contact_person, street, city, state, postal_code,
	country, payment_terms, average_delivery_days, supplier_type, notes, rating, active, created_at, updated_at, deleted_at`

// SupplierRepo implementación de SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (` + supplierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.BusinessID, s.Status, s.Email, s.Phone, s.ContactPerson,
		s.Address.Street, s.Address.City, s.Address.State, s.Address.PostalCode, s.Address.Country,
		s.PaymentTerms, s.AverageDeliveryDays, s.SupplierType, s.Notes, s.Rating, s.Active,
		s.CreatedAt, s.UpdatedAt, s.DeletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBusinessID
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

// GetByIDs devuelve los proveedores en el orden de ids; los inexistentes se omiten.
func (r *SupplierRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Supplier, error) {
	if len(ids) == 0 {
		return []*entity.Supplier{}, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id::text = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get suppliers: %w", err)
	}
	found, err := collectSuppliers(rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Supplier, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}
	out := make([]*entity.Supplier, 0, len(found))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *SupplierRepo) ExistsActiveBusinessID(ctx context.Context, businessID, excludeID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM suppliers WHERE active AND business_id = $1 AND id::text <> $2)`,
		businessID, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists business id: %w", err)
	}
	return exists, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	query := `
		UPDATE suppliers SET name = $2, business_id = $3, status = $4, email = $5, phone = $6, contact_person = $7,
			street = $8, city = $9, state = $10, postal_code = $11, country = $12, payment_terms = $13,
			average_delivery_days = $14, supplier_type = $15, notes = $16, rating = $17, updated_at = $18
		WHERE id = $1 AND active`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.BusinessID, s.Status, s.Email, s.Phone, s.ContactPerson,
		s.Address.Street, s.Address.City, s.Address.State, s.Address.PostalCode, s.Address.Country,
		s.PaymentTerms, s.AverageDeliveryDays, s.SupplierType, s.Notes, s.Rating, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBusinessID
		}
		return fmt.Errorf("update supplier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSupplierNotFound
	}
	return nil
}

func (r *SupplierRepo) SoftDelete(ctx context.Context, s *entity.Supplier) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE suppliers SET active = FALSE, deleted_at = $2, updated_at = $3 WHERE id = $1 AND active`,
		s.ID, s.DeletedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("soft delete supplier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSupplierNotFound
	}
	return nil
}

// Search ordena por nombre; el total ignora la paginación.
func (r *SupplierRepo) Search(ctx context.Context, spec specification.Spec[*entity.Supplier], page repository.Page) ([]*entity.Supplier, int, error) {
	args := specification.NewArgs()
	where := spec.SQL(args)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers WHERE `+where, args.Values()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count suppliers: %w", err)
	}
	limit := args.Add(page.Limit)
	offset := args.Add(page.Offset)
	rows, err := r.q.Query(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE `+where+` ORDER BY lower(name), id LIMIT `+limit+` OFFSET `+offset,
		args.Values()...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search suppliers: %w", err)
	}
	list, err := collectSuppliers(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func collectSuppliers(rows pgx.Rows) ([]*entity.Supplier, error) {
	defer rows.Close()
	list := []*entity.Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(
		&s.ID, &s.Name, &s.BusinessID, &s.Status, &s.Email, &s.Phone, &s.ContactPerson,
		&s.Address.Street, &s.Address.City, &s.Address.State, &s.Address.PostalCode, &s.Address.Country,
		&s.PaymentTerms, &s.AverageDeliveryDays, &s.SupplierType, &s.Notes, &s.Rating, &s.Active,
		&s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

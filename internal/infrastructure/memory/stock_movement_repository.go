package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger en memoria; solo inserciones.
type MovementRepo struct {
	sess *session
}

// NewStockMovementRepository repositorio en autocommit sobre store.
func NewStockMovementRepository(store *Store) *MovementRepo {
	return &MovementRepo{sess: &session{store: store}}
}

func (r *MovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	if movement.Sequence <= 0 {
		return fmt.Errorf("movimiento %s sin secuencia", movement.ID)
	}
	return r.sess.write(func(t *tx) error {
		c := *movement
		t.movements = append(t.movements, &c)
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	for _, m := range r.sess.movements() {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

// List aplica el filtro sobre el log global y devuelve lo más reciente primero.
func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter, page repository.Page) ([]*entity.StockMovement, int, error) {
	all := r.sess.movements()
	out := make([]*entity.StockMovement, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if matchMovement(all[i], f) {
			out = append(out, all[i])
		}
	}
	// el orden de confirmación ya es cronológico; CreatedAt desempata relojes desfasados
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return repository.Window(out, page), len(out), nil
}

func (r *MovementRepo) Chain(_ context.Context, productID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.sess.movements() {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func matchMovement(m *entity.StockMovement, f repository.MovementFilter) bool {
	switch {
	case f.ProductID != "" && m.ProductID != f.ProductID:
		return false
	case f.Type != "" && m.Type != f.Type:
		return false
	case f.Reason != "" && m.Reason != f.Reason:
		return false
	case f.CreatedBy != "" && m.CreatedBy != f.CreatedBy:
		return false
	case f.From != nil && m.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && m.CreatedAt.After(*f.To):
		return false
	}
	return true
}

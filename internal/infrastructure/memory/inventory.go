package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/inventory"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var (
	_ repository.BatchRepository    = (*batchRepo)(nil)
	_ repository.MovementRepository = (*movementRepo)(nil)
)

type batchRepo struct{ s *Store }

func (r *batchRepo) Create(_ context.Context, b *entity.ProductBatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.batches[b.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.d.batches[b.ID] = *b
	return nil
}

func (r *batchRepo) GetByID(_ context.Context, companyID, id string) (*entity.ProductBatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.d.batches[id]
	if !ok || b.CompanyID != companyID || b.DelFlag {
		return nil, nil
	}
	return &b, nil
}

func (r *batchRepo) byProduct(companyID, productID string, openOnly bool) []entity.ProductBatch {
	var list []entity.ProductBatch
	for _, b := range r.s.d.batches {
		if b.CompanyID != companyID || b.ProductID != productID || b.DelFlag {
			continue
		}
		if openOnly && !b.IsOpen() {
			continue
		}
		list = append(list, b)
	}
	inventory.SortFIFO(list)
	return list
}

func (r *batchRepo) ListByProduct(_ context.Context, companyID, productID string, openOnly bool) ([]entity.ProductBatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.byProduct(companyID, productID, openOnly), nil
}

func (r *batchRepo) LockOpenByProduct(_ context.Context, companyID, productID string) ([]entity.ProductBatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.byProduct(companyID, productID, true), nil
}

func (r *batchRepo) LockByIDs(_ context.Context, companyID string, ids []string) ([]entity.ProductBatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]entity.ProductBatch, 0, len(ids))
	for _, id := range ids {
		if b, ok := r.s.d.batches[id]; ok && b.CompanyID == companyID {
			list = append(list, b)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *batchRepo) UpdateRemaining(_ context.Context, b *entity.ProductBatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.batches[b.ID]
	if !ok || prev.CompanyID != b.CompanyID {
		return domain.ErrNotFound
	}
	prev.QuantityRemaining = b.QuantityRemaining
	prev.ModFlag++
	prev.UpdatedAt = b.UpdatedAt
	r.s.d.batches[b.ID] = prev
	b.ModFlag = prev.ModFlag
	return nil
}

func (r *batchRepo) ListExpiring(_ context.Context, companyID string, before time.Time) ([]entity.ProductBatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []entity.ProductBatch
	for _, b := range r.s.d.batches {
		if b.CompanyID != companyID || !b.IsOpen() || b.ExpiresAt == nil || b.ExpiresAt.After(before) {
			continue
		}
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].ExpiresAt.Equal(*list[j].ExpiresAt) {
			return list[i].ExpiresAt.Before(*list[j].ExpiresAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.movements = append(r.s.d.movements, *m)
	return nil
}

func (r *movementRepo) ListByProduct(_ context.Context, companyID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.StockMovement
	for i := len(r.s.d.movements) - 1; i >= 0; i-- {
		m := r.s.d.movements[i]
		if m.CompanyID == companyID && m.ProductID == productID {
			list = append(list, &m)
		}
	}
	return page(list, limit, offset), nil
}

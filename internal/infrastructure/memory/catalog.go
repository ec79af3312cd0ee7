package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*categoryRepo)(nil)
	_ repository.BrandRepository    = (*brandRepo)(nil)
	_ repository.UnitRepository     = (*unitRepo)(nil)
	_ repository.ProductRepository  = (*productRepo)(nil)
)

type categoryRepo struct{ s *Store }

func (r *categoryRepo) codeTaken(c *entity.Category) bool {
	if c.Code == "" {
		return false
	}
	for _, existing := range r.s.d.categories {
		if existing.ID != c.ID && existing.CompanyID == c.CompanyID && existing.Code == c.Code && !existing.DelFlag {
			return true
		}
	}
	return false
}

func (r *categoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.codeTaken(c) {
		return domain.ErrDuplicate
	}
	r.s.d.categories[c.ID] = *c
	return nil
}

func (r *categoryRepo) GetByID(_ context.Context, companyID, id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.d.categories[id]
	if !ok || c.CompanyID != companyID || c.DelFlag {
		return nil, nil
	}
	return &c, nil
}

func (r *categoryRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Category
	for _, c := range r.s.d.categories {
		if c.CompanyID == companyID && !c.DelFlag {
			c := c
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

func (r *categoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.categories[c.ID]
	if err := checkMod(ok && prev.CompanyID == c.CompanyID, prev.DelFlag, prev.ModFlag, c.ModFlag); err != nil {
		return err
	}
	if r.codeTaken(c) {
		return domain.ErrDuplicate
	}
	c.ModFlag++
	r.s.d.categories[c.ID] = *c
	return nil
}

func (r *categoryRepo) Delete(_ context.Context, companyID, id string, modFlag int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.categories[id]
	if err := checkMod(ok && prev.CompanyID == companyID, prev.DelFlag, prev.ModFlag, modFlag); err != nil {
		return err
	}
	prev.DelFlag, prev.ModFlag, prev.UpdatedAt = true, prev.ModFlag+1, time.Now()
	r.s.d.categories[id] = prev
	return nil
}

type brandRepo struct{ s *Store }

func (r *brandRepo) Create(_ context.Context, b *entity.Brand) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.brands[b.ID] = *b
	return nil
}

func (r *brandRepo) GetByID(_ context.Context, companyID, id string) (*entity.Brand, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.d.brands[id]
	if !ok || b.CompanyID != companyID || b.DelFlag {
		return nil, nil
	}
	return &b, nil
}

func (r *brandRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Brand, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Brand
	for _, b := range r.s.d.brands {
		if b.CompanyID == companyID && !b.DelFlag {
			b := b
			list = append(list, &b)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

func (r *brandRepo) Update(_ context.Context, b *entity.Brand) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.brands[b.ID]
	if err := checkMod(ok && prev.CompanyID == b.CompanyID, prev.DelFlag, prev.ModFlag, b.ModFlag); err != nil {
		return err
	}
	b.ModFlag++
	r.s.d.brands[b.ID] = *b
	return nil
}

func (r *brandRepo) Delete(_ context.Context, companyID, id string, modFlag int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.brands[id]
	if err := checkMod(ok && prev.CompanyID == companyID, prev.DelFlag, prev.ModFlag, modFlag); err != nil {
		return err
	}
	prev.DelFlag, prev.ModFlag, prev.UpdatedAt = true, prev.ModFlag+1, time.Now()
	r.s.d.brands[id] = prev
	return nil
}

type unitRepo struct{ s *Store }

func (r *unitRepo) Create(_ context.Context, u *entity.Unit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.units[u.ID] = *u
	return nil
}

func (r *unitRepo) GetByID(_ context.Context, companyID, id string) (*entity.Unit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.d.units[id]
	if !ok || u.CompanyID != companyID || u.DelFlag {
		return nil, nil
	}
	return &u, nil
}

func (r *unitRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Unit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Unit
	for _, u := range r.s.d.units {
		if u.CompanyID == companyID && !u.DelFlag {
			u := u
			list = append(list, &u)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

func (r *unitRepo) Update(_ context.Context, u *entity.Unit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.units[u.ID]
	if err := checkMod(ok && prev.CompanyID == u.CompanyID, prev.DelFlag, prev.ModFlag, u.ModFlag); err != nil {
		return err
	}
	u.ModFlag++
	r.s.d.units[u.ID] = *u
	return nil
}

func (r *unitRepo) Delete(_ context.Context, companyID, id string, modFlag int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.units[id]
	if err := checkMod(ok && prev.CompanyID == companyID, prev.DelFlag, prev.ModFlag, modFlag); err != nil {
		return err
	}
	prev.DelFlag, prev.ModFlag, prev.UpdatedAt = true, prev.ModFlag+1, time.Now()
	r.s.d.units[id] = prev
	return nil
}

type productRepo struct{ s *Store }

func (r *productRepo) skuTaken(p *entity.Product) bool {
	for _, existing := range r.s.d.products {
		if existing.ID != p.ID && existing.CompanyID == p.CompanyID && existing.SKU == p.SKU && !existing.DelFlag {
			return true
		}
	}
	return false
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.skuTaken(p) {
		return domain.ErrDuplicate
	}
	r.s.d.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(_ context.Context, companyID, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.d.products[id]
	if !ok || p.CompanyID != companyID || p.DelFlag {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetBySKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.d.products {
		if p.CompanyID == companyID && p.SKU == sku && !p.DelFlag {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *productRepo) List(_ context.Context, f entity.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Product
	for _, p := range r.s.d.products {
		if p.CompanyID != f.CompanyID || p.DelFlag {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.BrandID != "" && p.BrandID != f.BrandID {
			continue
		}
		if f.Search != "" && !containsFold(p.Name, f.Search) && !containsFold(p.SKU, f.Search) && !containsFold(p.Barcode, f.Search) {
			continue
		}
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, f.Limit, f.Offset), nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.products[p.ID]
	if err := checkMod(ok && prev.CompanyID == p.CompanyID, prev.DelFlag, prev.ModFlag, p.ModFlag); err != nil {
		return err
	}
	if r.skuTaken(p) {
		return domain.ErrDuplicate
	}
	p.ModFlag++
	r.s.d.products[p.ID] = *p
	return nil
}

func (r *productRepo) Delete(_ context.Context, companyID, id string, modFlag int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.products[id]
	if err := checkMod(ok && prev.CompanyID == companyID, prev.DelFlag, prev.ModFlag, modFlag); err != nil {
		return err
	}
	prev.DelFlag, prev.ModFlag, prev.UpdatedAt = true, prev.ModFlag+1, time.Now()
	r.s.d.products[id] = prev
	return nil
}

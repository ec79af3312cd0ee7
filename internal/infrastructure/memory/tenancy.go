package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository = (*companyRepo)(nil)
	_ repository.ModuleRepository  = (*moduleRepo)(nil)
	_ repository.UserRepository    = (*userRepo)(nil)
	_ repository.RoleRepository    = (*roleRepo)(nil)
)

type companyRepo struct{ s *Store }

func (r *companyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.d.companies {
		if c.TaxID != "" && existing.TaxID == c.TaxID {
			return domain.ErrDuplicate
		}
	}
	r.s.d.companies[c.ID] = *c
	return nil
}

func (r *companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.d.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *companyRepo) GetByTaxID(_ context.Context, taxID string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.d.companies {
		if c.TaxID == taxID {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *companyRepo) Update(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.companies[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.d.companies[c.ID] = *c
	return nil
}

func (r *companyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Company, 0, len(r.s.d.companies))
	for _, c := range r.s.d.companies {
		c := c
		list = append(list, &c)
	}
	newestFirst(list, func(c *entity.Company) time.Time { return c.CreatedAt }, func(c *entity.Company) string { return c.ID })
	return page(list, limit, offset), nil
}

type moduleRepo struct{ s *Store }

func moduleKey(companyID, name string) string { return companyID + "/" + name }

func (r *moduleRepo) Upsert(_ context.Context, m *entity.CompanyModule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := moduleKey(m.CompanyID, m.ModuleName)
	if prev, ok := r.s.d.modules[key]; ok {
		m.ID = prev.ID
		m.CreatedAt = prev.CreatedAt
	}
	r.s.d.modules[key] = *m
	return nil
}

func (r *moduleRepo) Get(_ context.Context, companyID, name string) (*entity.CompanyModule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.d.modules[moduleKey(companyID, name)]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *moduleRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.CompanyModule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.CompanyModule
	for _, m := range r.s.d.modules {
		if m.CompanyID == companyID {
			m := m
			list = append(list, &m)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ModuleName < list[j].ModuleName })
	return list, nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.d.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.d.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(_ context.Context, companyID, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.d.users[id]
	if !ok || u.CompanyID != companyID {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.d.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.users[u.ID]
	if !ok || prev.CompanyID != u.CompanyID {
		return domain.ErrNotFound
	}
	r.s.d.users[u.ID] = *u
	return nil
}

func (r *userRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.User
	for _, u := range r.s.d.users {
		if u.CompanyID == companyID {
			u := u
			list = append(list, &u)
		}
	}
	newestFirst(list, func(u *entity.User) time.Time { return u.CreatedAt }, func(u *entity.User) string { return u.ID })
	return page(list, limit, offset), nil
}

type roleRepo struct{ s *Store }

func (r *roleRepo) Create(_ context.Context, role *entity.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.d.roles {
		if existing.CompanyID == role.CompanyID && existing.Name == role.Name && !existing.DelFlag {
			return domain.ErrDuplicate
		}
	}
	r.s.d.roles[role.ID] = *role
	return nil
}

func (r *roleRepo) GetByID(_ context.Context, companyID, id string) (*entity.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	role, ok := r.s.d.roles[id]
	if !ok || role.CompanyID != companyID || role.DelFlag {
		return nil, nil
	}
	return &role, nil
}

func (r *roleRepo) GetByName(_ context.Context, companyID, name string) (*entity.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, role := range r.s.d.roles {
		if role.CompanyID == companyID && role.Name == name && !role.DelFlag {
			role := role
			return &role, nil
		}
	}
	return nil, nil
}

func (r *roleRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Role
	for _, role := range r.s.d.roles {
		if role.CompanyID == companyID && !role.DelFlag {
			role := role
			list = append(list, &role)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *roleRepo) Update(_ context.Context, role *entity.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.roles[role.ID]
	if err := checkMod(ok && prev.CompanyID == role.CompanyID, prev.DelFlag, prev.ModFlag, role.ModFlag); err != nil {
		return err
	}
	for _, existing := range r.s.d.roles {
		if existing.ID != role.ID && existing.CompanyID == role.CompanyID && existing.Name == role.Name && !existing.DelFlag {
			return domain.ErrDuplicate
		}
	}
	role.ModFlag++
	r.s.d.roles[role.ID] = *role
	return nil
}

func (r *roleRepo) Delete(_ context.Context, companyID, id string, modFlag int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.roles[id]
	if err := checkMod(ok && prev.CompanyID == companyID, prev.DelFlag, prev.ModFlag, modFlag); err != nil {
		return err
	}
	prev.DelFlag = true
	prev.ModFlag++
	prev.UpdatedAt = time.Now()
	r.s.d.roles[id] = prev
	return nil
}

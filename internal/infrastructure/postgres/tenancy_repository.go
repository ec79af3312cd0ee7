package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository = (*CompanyRepo)(nil)
	_ repository.ModuleRepository  = (*ModuleRepo)(nil)
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.RoleRepository    = (*RoleRepo)(nil)
)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

const companyColumns = `id, name, tax_id, address, phone, email, currency, status, created_at, updated_at`

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(&c.ID, &c.Name, &c.TaxID, &c.Address, &c.Phone, &c.Email, &c.Currency, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una nueva empresa. NIT repetido → domain.ErrDuplicate.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	_, err := r.q.Exec(ctx, `INSERT INTO companies (`+companyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.Name, c.TaxID, c.Address, c.Phone, c.Email, c.Currency, c.Status, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *CompanyRepo) get(ctx context.Context, where string, arg string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE `+where, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.get(ctx, "id = $1", id)
}

// GetByTaxID obtiene una empresa por NIT.
func (r *CompanyRepo) GetByTaxID(ctx context.Context, taxID string) (*entity.Company, error) {
	return r.get(ctx, "tax_id = $1", taxID)
}

func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	tag, err := r.q.Exec(ctx, `UPDATE companies
		SET name = $2, address = $3, phone = $4, email = $5, currency = $6, status = $7, updated_at = $8
		WHERE id = $1`,
		c.ID, c.Name, c.Address, c.Phone, c.Email, c.Currency, c.Status, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista empresas, las más recientes primero.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	rows, err := r.q.Query(ctx, `SELECT `+companyColumns+` FROM companies
		ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return scanAll(rows, func(rows pgx.Rows) (*entity.Company, error) { return scanCompany(rows) })
}

// ModuleRepo activación de módulos por empresa.
type ModuleRepo struct {
	q Querier
}

const moduleColumns = `id, company_id, module_name, is_active, activated_at, expires_at, created_at, updated_at`

func scanModule(row pgx.Row) (*entity.CompanyModule, error) {
	var m entity.CompanyModule
	if err := row.Scan(&m.ID, &m.CompanyID, &m.ModuleName, &m.IsActive, &m.ActivatedAt, &m.ExpiresAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Upsert crea o reemplaza la activación; conserva id y created_at de la fila existente.
func (r *ModuleRepo) Upsert(ctx context.Context, m *entity.CompanyModule) error {
	err := r.q.QueryRow(ctx, `INSERT INTO company_modules (`+moduleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (company_id, module_name) DO UPDATE
		SET is_active = EXCLUDED.is_active, activated_at = EXCLUDED.activated_at,
		    expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`,
		m.ID, m.CompanyID, m.ModuleName, m.IsActive, m.ActivatedAt, m.ExpiresAt, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert company module: %w", err)
	}
	return nil
}

func (r *ModuleRepo) Get(ctx context.Context, companyID, moduleName string) (*entity.CompanyModule, error) {
	m, err := scanModule(r.q.QueryRow(ctx, `SELECT `+moduleColumns+` FROM company_modules
		WHERE company_id = $1 AND module_name = $2`, companyID, moduleName))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company module: %w", err)
	}
	return m, nil
}

func (r *ModuleRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.CompanyModule, error) {
	rows, err := r.q.Query(ctx, `SELECT `+moduleColumns+` FROM company_modules
		WHERE company_id = $1 ORDER BY module_name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list company modules: %w", err)
	}
	return scanAll(rows, func(rows pgx.Rows) (*entity.CompanyModule, error) { return scanModule(rows) })
}

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

const userColumns = `id, company_id, email, password_hash, name, role, status, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.CompanyID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persiste un usuario. Email repetido (sin distinguir mayúsculas) → domain.ErrEmailAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := r.q.Exec(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.CompanyID, u.Email, u.PasswordHash, u.Name, u.Role, u.Status, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, companyID, id string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND company_id = $2`, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET name = $3, role = $4, status = $5, password_hash = $6, updated_at = $7
		WHERE id = $1 AND company_id = $2`,
		u.ID, u.CompanyID, u.Name, u.Role, u.Status, u.PasswordHash, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE company_id = $1
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`, companyID, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return scanAll(rows, func(rows pgx.Rows) (*entity.User, error) { return scanUser(rows) })
}

// RoleRepo roles con sus permisos en una columna JSONB.
type RoleRepo struct {
	q Querier
}

const roleColumns = `id, company_id, name, permissions, is_system, mod_flag, del_flag, created_at, updated_at`

func scanRole(row pgx.Row) (*entity.Role, error) {
	var r entity.Role
	if err := row.Scan(&r.ID, &r.CompanyID, &r.Name, &r.Permissions, &r.IsSystem, &r.ModFlag, &r.DelFlag, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *RoleRepo) Create(ctx context.Context, role *entity.Role) error {
	_, err := r.q.Exec(ctx, `INSERT INTO roles (`+roleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		role.ID, role.CompanyID, role.Name, role.Permissions, role.IsSystem, role.ModFlag, role.DelFlag, role.CreatedAt, role.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

func (r *RoleRepo) getOne(ctx context.Context, where string, args ...any) (*entity.Role, error) {
	role, err := scanRole(r.q.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE NOT del_flag AND `+where, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return role, nil
}

func (r *RoleRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Role, error) {
	return r.getOne(ctx, "company_id = $1 AND id = $2", companyID, id)
}

func (r *RoleRepo) GetByName(ctx context.Context, companyID, name string) (*entity.Role, error) {
	return r.getOne(ctx, "company_id = $1 AND name = $2", companyID, name)
}

func (r *RoleRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Role, error) {
	rows, err := r.q.Query(ctx, `SELECT `+roleColumns+` FROM roles WHERE company_id = $1 AND NOT del_flag ORDER BY name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return scanAll(rows, func(rows pgx.Rows) (*entity.Role, error) { return scanRole(rows) })
}

func (r *RoleRepo) Update(ctx context.Context, role *entity.Role) error {
	tag, err := r.q.Exec(ctx, `UPDATE roles SET name = $4, permissions = $5, mod_flag = mod_flag + 1, updated_at = $6
		WHERE id = $1 AND company_id = $2 AND mod_flag = $3 AND NOT del_flag`,
		role.ID, role.CompanyID, role.ModFlag, role.Name, role.Permissions, role.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update role: %w", err)
	}
	if err := modResult(ctx, r.q, tag, "roles", role.CompanyID, role.ID); err != nil {
		return err
	}
	role.ModFlag++
	return nil
}

func (r *RoleRepo) Delete(ctx context.Context, companyID, id string, modFlag int) error {
	return softDelete(ctx, r.q, "roles", companyID, id, modFlag)
}

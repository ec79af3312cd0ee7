package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// CustomerRepo implementación de CustomerRepository.
type CustomerRepo struct {
	q Querier
}

const customerColumns = `id, company_id, name, tax_id, email, phone, mod_flag, del_flag, created_at, updated_at`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	if err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &c.TaxID, &c.Email, &c.Phone, &c.ModFlag, &c.DelFlag, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	_, err := r.q.Exec(ctx, `INSERT INTO customers (`+customerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.CompanyID, c.Name, c.TaxID, c.Email, c.Phone, c.ModFlag, c.DelFlag, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers
		WHERE company_id = $1 AND id = $2 AND NOT del_flag`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Customer, error) {
	rows, err := r.q.Query(ctx, `SELECT `+customerColumns+` FROM customers
		WHERE company_id = $1 AND NOT del_flag ORDER BY name, id LIMIT $2 OFFSET $3`, companyID, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return scanAll(rows, func(rows pgx.Rows) (*entity.Customer, error) { return scanCustomer(rows) })
}

func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	tag, err := r.q.Exec(ctx, `UPDATE customers SET name = $4, tax_id = $5, email = $6, phone = $7,
		mod_flag = mod_flag + 1, updated_at = $8
		WHERE id = $1 AND company_id = $2 AND mod_flag = $3 AND NOT del_flag`,
		c.ID, c.CompanyID, c.ModFlag, c.Name, c.TaxID, c.Email, c.Phone, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if err := modResult(ctx, r.q, tag, "customers", c.CompanyID, c.ID); err != nil {
		return err
	}
	c.ModFlag++
	return nil
}

func (r *CustomerRepo) Delete(ctx context.Context, companyID, id string, modFlag int) error {
	return softDelete(ctx, r.q, "customers", companyID, id, modFlag)
}

// SupplierRepo implementación de SupplierRepository.
type SupplierRepo struct {
	q Querier
}

const supplierColumns = `id, company_id, name, tax_id, email, phone, address, mod_flag, del_flag, created_at, updated_at`

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	if err := row.Scan(&s.ID, &s.CompanyID, &s.Name, &s.TaxID, &s.Email, &s.Phone, &s.Address, &s.ModFlag, &s.DelFlag, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `INSERT INTO suppliers (`+supplierColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.CompanyID, s.Name, s.TaxID, s.Email, s.Phone, s.Address, s.ModFlag, s.DelFlag, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers
		WHERE company_id = $1 AND id = $2 AND NOT del_flag`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

func (r *SupplierRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers
		WHERE company_id = $1 AND NOT del_flag ORDER BY name, id LIMIT $2 OFFSET $3`, companyID, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return scanAll(rows, func(rows pgx.Rows) (*entity.Supplier, error) { return scanSupplier(rows) })
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	tag, err := r.q.Exec(ctx, `UPDATE suppliers SET name = $4, tax_id = $5, email = $6, phone = $7, address = $8,
		mod_flag = mod_flag + 1, updated_at = $9
		WHERE id = $1 AND company_id = $2 AND mod_flag = $3 AND NOT del_flag`,
		s.ID, s.CompanyID, s.ModFlag, s.Name, s.TaxID, s.Email, s.Phone, s.Address, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if err := modResult(ctx, r.q, tag, "suppliers", s.CompanyID, s.ID); err != nil {
		return err
	}
	s.ModFlag++
	return nil
}

func (r *SupplierRepo) Delete(ctx context.Context, companyID, id string, modFlag int) error {
	return softDelete(ctx, r.q, "suppliers", companyID, id, modFlag)
}

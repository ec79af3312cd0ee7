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
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.BrandRepository    = (*BrandRepo)(nil)
	_ repository.UnitRepository     = (*UnitRepo)(nil)
	_ repository.ProductRepository  = (*ProductRepo)(nil)
)

// CategoryRepo categorías de producto.
type CategoryRepo struct {
	q Querier
}

const categoryColumns = `id, company_id, parent_id, name, code, mod_flag, del_flag, created_at, updated_at`

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.CompanyID, &c.ParentID, &c.Name, &c.Code, &c.ModFlag, &c.DelFlag, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `INSERT INTO categories (`+categoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.CompanyID, c.ParentID, c.Name, c.Code, c.ModFlag, c.DelFlag, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories
		WHERE company_id = $1 AND id = $2 AND NOT del_flag`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM categories
		WHERE company_id = $1 AND NOT del_flag ORDER BY name, id LIMIT $2 OFFSET $3`, companyID, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return scanAll(rows, func(rows pgx.Rows) (*entity.Category, error) { return scanCategory(rows) })
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	tag, err := r.q.Exec(ctx, `UPDATE categories SET parent_id = $4, name = $5, code = $6, mod_flag = mod_flag + 1, updated_at = $7
		WHERE id = $1 AND company_id = $2 AND mod_flag = $3 AND NOT del_flag`,
		c.ID, c.CompanyID, c.ModFlag, c.ParentID, c.Name, c.Code, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	if err := modResult(ctx, r.q, tag, "categories", c.CompanyID, c.ID); err != nil {
		return err
	}
	c.ModFlag++
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, companyID, id string, modFlag int) error {
	return softDelete(ctx, r.q, "categories", companyID, id, modFlag)
}

// BrandRepo marcas.
type BrandRepo struct {
	q Querier
}

const brandColumns = `id, company_id, name, mod_flag, del_flag, created_at, updated_at`

func scanBrand(row pgx.Row) (*entity.Brand, error) {
	var b entity.Brand
	if err := row.Scan(&b.ID, &b.CompanyID, &b.Name, &b.ModFlag, &b.DelFlag, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BrandRepo) Create(ctx context.Context, b *entity.Brand) error {
	_, err := r.q.Exec(ctx, `INSERT INTO brands (`+brandColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.CompanyID, b.Name, b.ModFlag, b.DelFlag, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert brand: %w", err)
	}
	return nil
}

func (r *BrandRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Brand, error) {
	b, err := scanBrand(r.q.QueryRow(ctx, `SELECT `+brandColumns+` FROM brands
		WHERE company_id = $1 AND id = $2 AND NOT del_flag`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get brand: %w", err)
	}
	return b, nil
}

func (r *BrandRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Brand, error) {
	rows, err := r.q.Query(ctx, `SELECT `+brandColumns+` FROM brands
		WHERE company_id = $1 AND NOT del_flag ORDER BY name, id LIMIT $2 OFFSET $3`, companyID, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	return scanAll(rows, func(rows pgx.Rows) (*entity.Brand, error) { return scanBrand(rows) })
}

func (r *BrandRepo) Update(ctx context.Context, b *entity.Brand) error {
	tag, err := r.q.Exec(ctx, `UPDATE brands SET name = $4, mod_flag = mod_flag + 1, updated_at = $5
		WHERE id = $1 AND company_id = $2 AND mod_flag = $3 AND NOT del_flag`,
		b.ID, b.CompanyID, b.ModFlag, b.Name, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update brand: %w", err)
	}
	if err := modResult(ctx, r.q, tag, "brands", b.CompanyID, b.ID); err != nil {
		return err
	}
	b.ModFlag++
	return nil
}

func (r *BrandRepo) Delete(ctx context.Context, companyID, id string, modFlag int) error {
	return softDelete(ctx, r.q, "brands", companyID, id, modFlag)
}

// UnitRepo unidades de medida.
type UnitRepo struct {
	q Querier
}

const unitColumns = `id, company_id, name, abbreviation, mod_flag, del_flag, created_at, updated_at`

func scanUnit(row pgx.Row) (*entity.Unit, error) {
	var u entity.Unit
	if err := row.Scan(&u.ID, &u.CompanyID, &u.Name, &u.Abbreviation, &u.ModFlag, &u.DelFlag, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UnitRepo) Create(ctx context.Context, u *entity.Unit) error {
	_, err := r.q.Exec(ctx, `INSERT INTO units (`+unitColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.CompanyID, u.Name, u.Abbreviation, u.ModFlag, u.DelFlag, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert unit: %w", err)
	}
	return nil
}

func (r *UnitRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Unit, error) {
	u, err := scanUnit(r.q.QueryRow(ctx, `SELECT `+unitColumns+` FROM units
		WHERE company_id = $1 AND id = $2 AND NOT del_flag`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return u, nil
}

func (r *UnitRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Unit, error) {
	rows, err := r.q.Query(ctx, `SELECT `+unitColumns+` FROM units
		WHERE company_id = $1 AND NOT del_flag ORDER BY name, id LIMIT $2 OFFSET $3`, companyID, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return scanAll(rows, func(rows pgx.Rows) (*entity.Unit, error) { return scanUnit(rows) })
}

func (r *UnitRepo) Update(ctx context.Context, u *entity.Unit) error {
	tag, err := r.q.Exec(ctx, `UPDATE units SET name = $4, abbreviation = $5, mod_flag = mod_flag + 1, updated_at = $6
		WHERE id = $1 AND company_id = $2 AND mod_flag = $3 AND NOT del_flag`,
		u.ID, u.CompanyID, u.ModFlag, u.Name, u.Abbreviation, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update unit: %w", err)
	}
	if err := modResult(ctx, r.q, tag, "units", u.CompanyID, u.ID); err != nil {
		return err
	}
	u.ModFlag++
	return nil
}

func (r *UnitRepo) Delete(ctx context.Context, companyID, id string, modFlag int) error {
	return softDelete(ctx, r.q, "units", companyID, id, modFlag)
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

const productColumns = `id, company_id, sku, barcode, name, description, category_id, brand_id, unit_id,
	price, tax_rate, reorder_point, mod_flag, del_flag, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.CompanyID, &p.SKU, &p.Barcode, &p.Name, &p.Description, &p.CategoryID, &p.BrandID, &p.UnitID,
		&p.Price, &p.TaxRate, &p.ReorderPoint, &p.ModFlag, &p.DelFlag, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto. SKU repetido en la empresa → domain.ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.CompanyID, p.SKU, p.Barcode, p.Name, p.Description, p.CategoryID, p.BrandID, p.UnitID,
		p.Price, p.TaxRate, p.ReorderPoint, p.ModFlag, p.DelFlag, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, companyID, column, value string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products
		WHERE company_id = $1 AND `+column+` = $2 AND NOT del_flag`, companyID, value))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID dentro de la empresa.
func (r *ProductRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.getOne(ctx, companyID, "id", id)
}

// GetBySKU obtiene un producto por empresa y SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, companyID, sku string) (*entity.Product, error) {
	return r.getOne(ctx, companyID, "sku", sku)
}

// List filtra por categoría, marca y texto (nombre, SKU o código de barras, sin distinguir mayúsculas).
func (r *ProductRepo) List(ctx context.Context, f entity.ProductFilter) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products
		WHERE company_id = $1 AND NOT del_flag
		  AND ($2 = '' OR category_id = $2)
		  AND ($3 = '' OR brand_id = $3)
		  AND ($4 = '' OR name ILIKE '%' || $4 || '%' OR sku ILIKE '%' || $4 || '%' OR barcode ILIKE '%' || $4 || '%')
		ORDER BY name, id LIMIT $5 OFFSET $6`,
		f.CompanyID, f.CategoryID, f.BrandID, f.Search, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return scanAll(rows, func(rows pgx.Rows) (*entity.Product, error) { return scanProduct(rows) })
}

// Update actualiza los datos de catálogo. El stock no se toca: vive en los lotes.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	tag, err := r.q.Exec(ctx, `UPDATE products
		SET sku = $4, barcode = $5, name = $6, description = $7, category_id = $8, brand_id = $9, unit_id = $10,
		    price = $11, tax_rate = $12, reorder_point = $13, mod_flag = mod_flag + 1, updated_at = $14
		WHERE id = $1 AND company_id = $2 AND mod_flag = $3 AND NOT del_flag`,
		p.ID, p.CompanyID, p.ModFlag, p.SKU, p.Barcode, p.Name, p.Description, p.CategoryID, p.BrandID, p.UnitID,
		p.Price, p.TaxRate, p.ReorderPoint, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if err := modResult(ctx, r.q, tag, "products", p.CompanyID, p.ID); err != nil {
		return err
	}
	p.ModFlag++
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, companyID, id string, modFlag int) error {
	return softDelete(ctx, r.q, "products", companyID, id, modFlag)
}

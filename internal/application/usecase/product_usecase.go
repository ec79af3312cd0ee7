package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var maxTaxRate = decimal.NewFromInt(100)

// ProductUseCase casos de uso CRUD para productos. Costo y stock viven en los lotes.
type ProductUseCase struct {
	repos ports.Repos
	audit ports.AuditLogger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repos ports.Repos, audit ports.AuditLogger) *ProductUseCase {
	return &ProductUseCase{repos: repos, audit: audit}
}

// checkRefs valida que categoría, marca y unidad referenciadas pertenezcan a la empresa.
func (uc *ProductUseCase) checkRefs(ctx context.Context, p *entity.Product) error {
	if p.CategoryID != "" {
		c, err := uc.repos.Categories.GetByID(ctx, p.CompanyID, p.CategoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("%w: categoría inexistente", domain.ErrInvalidInput)
		}
	}
	if p.BrandID != "" {
		b, err := uc.repos.Brands.GetByID(ctx, p.CompanyID, p.BrandID)
		if err != nil {
			return err
		}
		if b == nil {
			return fmt.Errorf("%w: marca inexistente", domain.ErrInvalidInput)
		}
	}
	if p.UnitID != "" {
		u, err := uc.repos.Units.GetByID(ctx, p.CompanyID, p.UnitID)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("%w: unidad inexistente", domain.ErrInvalidInput)
		}
	}
	return nil
}

func validateAmounts(p *entity.Product) error {
	if p.Price.IsNegative() || p.ReorderPoint.IsNegative() {
		return fmt.Errorf("%w: precio y punto de reorden no pueden ser negativos", domain.ErrInvalidInput)
	}
	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(maxTaxRate) {
		return fmt.Errorf("%w: tax_rate debe estar entre 0 y 100", domain.ErrInvalidInput)
	}
	return nil
}

// Create crea un nuevo producto. Devuelve domain.ErrDuplicate si el SKU ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		SKU:          in.SKU,
		Barcode:      in.Barcode,
		Name:         in.Name,
		Description:  in.Description,
		CategoryID:   in.CategoryID,
		BrandID:      in.BrandID,
		UnitID:       in.UnitID,
		Price:        in.Price,
		TaxRate:      in.TaxRate,
		ReorderPoint: in.ReorderPoint,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := validateAmounts(product); err != nil {
		return nil, err
	}
	if err := uc.checkRefs(ctx, product); err != nil {
		return nil, err
	}
	existing, err := uc.repos.Products.GetBySKU(ctx, companyID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repos.Products.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: companyID, UserID: userID, Entity: "product", EntityID: product.ID,
		Action: entity.AuditCreate, Details: map[string]string{"sku": product.SKU},
	})
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto; nil si no existe en la empresa.
func (uc *ProductUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repos.Products.GetByID(ctx, companyID, id)
	if err != nil || product == nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// Update actualiza un producto comparando mod_flag.
func (uc *ProductUseCase) Update(ctx context.Context, companyID, userID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repos.Products.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.SKU != nil && *in.SKU != product.SKU {
		other, err := uc.repos.Products.GetBySKU(ctx, companyID, *in.SKU)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
		product.SKU = *in.SKU
	}
	if in.Barcode != nil {
		product.Barcode = *in.Barcode
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.BrandID != nil {
		product.BrandID = *in.BrandID
	}
	if in.UnitID != nil {
		product.UnitID = *in.UnitID
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.TaxRate != nil {
		product.TaxRate = *in.TaxRate
	}
	if in.ReorderPoint != nil {
		product.ReorderPoint = *in.ReorderPoint
	}
	if err := validateAmounts(product); err != nil {
		return nil, err
	}
	if err := uc.checkRefs(ctx, product); err != nil {
		return nil, err
	}
	product.ModFlag = in.ModFlag
	product.UpdatedAt = time.Now()
	if err := uc.repos.Products.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: companyID, UserID: userID, Entity: "product", EntityID: id,
		Action: entity.AuditUpdate, ModFlag: product.ModFlag,
	})
	return ToProductResponse(product), nil
}

// List lista productos por empresa con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	q.DefaultPage()
	list, err := uc.repos.Products.List(ctx, entity.ProductFilter{
		CompanyID:  companyID,
		CategoryID: q.CategoryID,
		BrandID:    q.BrandID,
		Search:     q.Search,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// Delete borrado lógico de un producto.
func (uc *ProductUseCase) Delete(ctx context.Context, companyID, userID, id string, modFlag int) error {
	if err := uc.repos.Products.Delete(ctx, companyID, id, modFlag); err != nil {
		return err
	}
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: companyID, UserID: userID, Entity: "product", EntityID: id,
		Action: entity.AuditDelete, ModFlag: modFlag + 1,
	})
	return nil
}

// ToProductResponse convierte el producto en su DTO.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		CompanyID:    p.CompanyID,
		SKU:          p.SKU,
		Barcode:      p.Barcode,
		Name:         p.Name,
		Description:  p.Description,
		CategoryID:   p.CategoryID,
		BrandID:      p.BrandID,
		UnitID:       p.UnitID,
		Price:        p.Price,
		TaxRate:      p.TaxRate,
		ReorderPoint: p.ReorderPoint,
		ModFlag:      p.ModFlag,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// CatalogUseCase CRUD de categorías, marcas y unidades de medida.
type CatalogUseCase struct {
	repos ports.Repos
	audit ports.AuditLogger
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repos ports.Repos, audit ports.AuditLogger) *CatalogUseCase {
	return &CatalogUseCase{repos: repos, audit: audit}
}

func (uc *CatalogUseCase) record(ctx context.Context, companyID, userID, kind, id, action string, modFlag int) {
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: companyID, UserID: userID, Entity: kind, EntityID: id, Action: action, ModFlag: modFlag,
	})
}

// ── categorías ───────────────────────────────────────────────────────────────

func (uc *CatalogUseCase) checkParent(ctx context.Context, companyID, id, parentID string) error {
	if parentID == "" {
		return nil
	}
	if parentID == id {
		return domain.ErrInvalidInput
	}
	parent, err := uc.repos.Categories.GetByID(ctx, companyID, parentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return domain.ErrInvalidInput
	}
	return nil
}

// CreateCategory crea una categoría; el padre, si viene, debe ser de la misma empresa.
func (uc *CatalogUseCase) CreateCategory(ctx context.Context, companyID, userID string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if err := uc.checkParent(ctx, companyID, "", in.ParentID); err != nil {
		return nil, err
	}
	now := time.Now()
	c := &entity.Category{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		ParentID:  in.ParentID,
		Name:      in.Name,
		Code:      in.Code,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repos.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.record(ctx, companyID, userID, "category", c.ID, entity.AuditCreate, c.ModFlag)
	return toCategoryResponse(c), nil
}

// ListCategories lista las categorías de la empresa.
func (uc *CatalogUseCase) ListCategories(ctx context.Context, companyID string, page dto.PageRequest) ([]dto.CategoryResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Categories.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// GetCategory obtiene una categoría; nil si no existe en la empresa.
func (uc *CatalogUseCase) GetCategory(ctx context.Context, companyID, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repos.Categories.GetByID(ctx, companyID, id)
	if err != nil || c == nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// UpdateCategory modifica una categoría comparando mod_flag.
func (uc *CatalogUseCase) UpdateCategory(ctx context.Context, companyID, userID, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.repos.Categories.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if in.ParentID != nil {
		if err := uc.checkParent(ctx, companyID, id, *in.ParentID); err != nil {
			return nil, err
		}
		c.ParentID = *in.ParentID
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Code != nil {
		c.Code = *in.Code
	}
	c.ModFlag = in.ModFlag
	c.UpdatedAt = time.Now()
	if err := uc.repos.Categories.Update(ctx, c); err != nil {
		return nil, err
	}
	uc.record(ctx, companyID, userID, "category", c.ID, entity.AuditUpdate, c.ModFlag)
	return toCategoryResponse(c), nil
}

// DeleteCategory borrado lógico.
func (uc *CatalogUseCase) DeleteCategory(ctx context.Context, companyID, userID, id string, modFlag int) error {
	if err := uc.repos.Categories.Delete(ctx, companyID, id, modFlag); err != nil {
		return err
	}
	uc.record(ctx, companyID, userID, "category", id, entity.AuditDelete, modFlag+1)
	return nil
}

// ── marcas ───────────────────────────────────────────────────────────────────

// CreateBrand crea una marca.
func (uc *CatalogUseCase) CreateBrand(ctx context.Context, companyID, userID string, in dto.BrandRequest) (*dto.BrandResponse, error) {
	now := time.Now()
	b := &entity.Brand{ID: uuid.New().String(), CompanyID: companyID, Name: in.Name, CreatedAt: now, UpdatedAt: now}
	if err := uc.repos.Brands.Create(ctx, b); err != nil {
		return nil, err
	}
	uc.record(ctx, companyID, userID, "brand", b.ID, entity.AuditCreate, b.ModFlag)
	return toBrandResponse(b), nil
}

// ListBrands lista las marcas de la empresa.
func (uc *CatalogUseCase) ListBrands(ctx context.Context, companyID string, page dto.PageRequest) ([]dto.BrandResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Brands.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BrandResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBrandResponse(b))
	}
	return out, nil
}

// UpdateBrand renombra una marca comparando mod_flag.
func (uc *CatalogUseCase) UpdateBrand(ctx context.Context, companyID, userID, id string, in dto.BrandRequest) (*dto.BrandResponse, error) {
	b, err := uc.repos.Brands.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	b.Name, b.ModFlag, b.UpdatedAt = in.Name, in.ModFlag, time.Now()
	if err := uc.repos.Brands.Update(ctx, b); err != nil {
		return nil, err
	}
	uc.record(ctx, companyID, userID, "brand", b.ID, entity.AuditUpdate, b.ModFlag)
	return toBrandResponse(b), nil
}

// DeleteBrand borrado lógico.
func (uc *CatalogUseCase) DeleteBrand(ctx context.Context, companyID, userID, id string, modFlag int) error {
	if err := uc.repos.Brands.Delete(ctx, companyID, id, modFlag); err != nil {
		return err
	}
	uc.record(ctx, companyID, userID, "brand", id, entity.AuditDelete, modFlag+1)
	return nil
}

// ── unidades ─────────────────────────────────────────────────────────────────

// CreateUnit crea una unidad de medida.
func (uc *CatalogUseCase) CreateUnit(ctx context.Context, companyID, userID string, in dto.UnitRequest) (*dto.UnitResponse, error) {
	now := time.Now()
	u := &entity.Unit{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Name:         in.Name,
		Abbreviation: in.Abbreviation,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repos.Units.Create(ctx, u); err != nil {
		return nil, err
	}
	uc.record(ctx, companyID, userID, "unit", u.ID, entity.AuditCreate, u.ModFlag)
	return toUnitResponse(u), nil
}

// ListUnits lista las unidades de la empresa.
func (uc *CatalogUseCase) ListUnits(ctx context.Context, companyID string, page dto.PageRequest) ([]dto.UnitResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Units.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *toUnitResponse(u))
	}
	return out, nil
}

// UpdateUnit modifica una unidad comparando mod_flag.
func (uc *CatalogUseCase) UpdateUnit(ctx context.Context, companyID, userID, id string, in dto.UnitRequest) (*dto.UnitResponse, error) {
	u, err := uc.repos.Units.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	u.Name, u.Abbreviation, u.ModFlag, u.UpdatedAt = in.Name, in.Abbreviation, in.ModFlag, time.Now()
	if err := uc.repos.Units.Update(ctx, u); err != nil {
		return nil, err
	}
	uc.record(ctx, companyID, userID, "unit", u.ID, entity.AuditUpdate, u.ModFlag)
	return toUnitResponse(u), nil
}

// DeleteUnit borrado lógico.
func (uc *CatalogUseCase) DeleteUnit(ctx context.Context, companyID, userID, id string, modFlag int) error {
	if err := uc.repos.Units.Delete(ctx, companyID, id, modFlag); err != nil {
		return err
	}
	uc.record(ctx, companyID, userID, "unit", id, entity.AuditDelete, modFlag+1)
	return nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, ParentID: c.ParentID, Name: c.Name, Code: c.Code, ModFlag: c.ModFlag, UpdatedAt: c.UpdatedAt}
}

func toBrandResponse(b *entity.Brand) *dto.BrandResponse {
	return &dto.BrandResponse{ID: b.ID, Name: b.Name, ModFlag: b.ModFlag, UpdatedAt: b.UpdatedAt}
}

func toUnitResponse(u *entity.Unit) *dto.UnitResponse {
	return &dto.UnitResponse{ID: u.ID, Name: u.Name, Abbreviation: u.Abbreviation, ModFlag: u.ModFlag, UpdatedAt: u.UpdatedAt}
}

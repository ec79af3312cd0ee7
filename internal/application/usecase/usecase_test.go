package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/application/usecase"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokens struct{}

func (fakeTokens) IssueToken(u *entity.User) (string, error) { return "token-" + u.ID, nil }

func newCompany(t *testing.T, store *memory.Store, taxID, email string) *dto.CreateCompanyResponse {
	t.Helper()
	uc := usecase.NewCompanyUseCase(store, store.Repos(), fakeTokens{}, ports.NopAudit{})
	out, err := uc.Create(context.Background(), dto.CreateCompanyRequest{
		Name: "Tienda " + taxID, TaxID: taxID,
		AdminName: "Admin", AdminEmail: email, AdminPassword: "secreto123",
	})
	require.NoError(t, err)
	return out
}

func TestCompanyUseCase_CreateSiembraRolesModulosYAdmin(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	out := newCompany(t, store, "900123", "Admin@Tienda.co")

	assert.Equal(t, "COP", out.Company.Currency)
	assert.Equal(t, entity.RoleAdmin, out.Admin.Role)
	assert.Equal(t, "admin@tienda.co", out.Admin.Email)
	assert.Equal(t, "token-"+out.Admin.ID, out.Token)

	roles, err := store.Repos().Roles.ListByCompany(ctx, out.Company.ID)
	require.NoError(t, err)
	assert.Len(t, roles, len(entity.DefaultRoles()))
	for _, r := range roles {
		assert.True(t, r.IsSystem)
	}

	modules := usecase.NewModuleService(store.Repos(), ports.NopAudit{})
	active, err := modules.ActiveModules(ctx, out.Company.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, entity.AllModules, active)
}

func TestCompanyUseCase_CreateDuplicados(t *testing.T) {
	store := memory.New()
	uc := usecase.NewCompanyUseCase(store, store.Repos(), fakeTokens{}, ports.NopAudit{})
	newCompany(t, store, "900123", "a@x.co")
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateCompanyRequest{
		Name: "Otra", TaxID: "900123", AdminName: "B", AdminEmail: "b@x.co", AdminPassword: "secreto123",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateCompanyRequest{
		Name: "Otra", TaxID: "900999", AdminName: "B", AdminEmail: "A@x.co", AdminPassword: "secreto123",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	c, err := store.Repos().Companies.GetByTaxID(ctx, "900999")
	require.NoError(t, err)
	assert.Nil(t, c, "la transacción fallida no debe dejar la empresa creada")
}

func TestModuleService_ActivarYDesactivar(t *testing.T) {
	store := memory.New()
	out := newCompany(t, store, "900123", "a@x.co")
	ctx := context.Background()
	svc := usecase.NewModuleService(store.Repos(), ports.NopAudit{})

	off := false
	_, err := svc.ActivateModule(ctx, out.Company.ID, out.Admin.ID, entity.ModuleHR, dto.ActivateModuleRequest{Active: &off})
	require.NoError(t, err)

	ok, err := svc.HasActiveModule(ctx, out.Company.ID, entity.ModuleHR)
	require.NoError(t, err)
	assert.False(t, ok)

	on := true
	future := time.Now().Add(time.Hour)
	_, err = svc.ActivateModule(ctx, out.Company.ID, out.Admin.ID, entity.ModuleHR, dto.ActivateModuleRequest{Active: &on, ExpiresAt: &future})
	require.NoError(t, err)
	ok, err = svc.HasActiveModule(ctx, out.Company.ID, entity.ModuleHR)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.ActivateModule(ctx, out.Company.ID, out.Admin.ID, "billing", dto.ActivateModuleRequest{Active: &on})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	past := time.Now().Add(-time.Hour)
	_, err = svc.ActivateModule(ctx, out.Company.ID, out.Admin.ID, entity.ModuleHR, dto.ActivateModuleRequest{Active: &on, ExpiresAt: &past})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestModuleService_SinModuloContratado(t *testing.T) {
	store := memory.New()
	svc := usecase.NewModuleService(store.Repos(), ports.NopAudit{})

	ok, err := svc.HasActiveModule(context.Background(), "empresa-x", entity.ModulePOS)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.HasActiveModule(context.Background(), "", entity.ModulePOS)
	assert.Error(t, err)
}

func TestProductUseCase_CRUD(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	a := newCompany(t, store, "1", "a@x.co")
	b := newCompany(t, store, "2", "b@x.co")
	catalog := usecase.NewCatalogUseCase(store.Repos(), ports.NopAudit{})
	products := usecase.NewProductUseCase(store.Repos(), ports.NopAudit{})

	catA, err := catalog.CreateCategory(ctx, a.Company.ID, a.Admin.ID, dto.CategoryRequest{Name: "Bebidas"})
	require.NoError(t, err)
	catB, err := catalog.CreateCategory(ctx, b.Company.ID, b.Admin.ID, dto.CategoryRequest{Name: "Ajena"})
	require.NoError(t, err)

	p, err := products.Create(ctx, a.Company.ID, a.Admin.ID, dto.CreateProductRequest{
		SKU: "GAS-001", Name: "Gaseosa", CategoryID: catA.ID,
		Price: decimal.NewFromInt(2500), TaxRate: decimal.NewFromInt(19), ReorderPoint: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, p.ModFlag)

	t.Run("sku duplicado", func(t *testing.T) {
		_, err := products.Create(ctx, a.Company.ID, a.Admin.ID, dto.CreateProductRequest{SKU: "GAS-001", Name: "Otra"})
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})

	t.Run("el mismo sku en otra empresa es válido", func(t *testing.T) {
		_, err := products.Create(ctx, b.Company.ID, b.Admin.ID, dto.CreateProductRequest{SKU: "GAS-001", Name: "Gaseosa B"})
		assert.NoError(t, err)
	})

	t.Run("categoría de otra empresa", func(t *testing.T) {
		_, err := products.Create(ctx, a.Company.ID, a.Admin.ID, dto.CreateProductRequest{SKU: "X", Name: "X", CategoryID: catB.ID})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("tax_rate fuera de rango", func(t *testing.T) {
		_, err := products.Create(ctx, a.Company.ID, a.Admin.ID, dto.CreateProductRequest{SKU: "Y", Name: "Y", TaxRate: decimal.NewFromInt(101)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("no visible para otra empresa", func(t *testing.T) {
		got, err := products.GetByID(ctx, b.Company.ID, p.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	name := "Gaseosa 400ml"
	updated, err := products.Update(ctx, a.Company.ID, a.Admin.ID, p.ID, dto.UpdateProductRequest{Name: &name, ModFlag: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ModFlag)
	assert.Equal(t, name, updated.Name)

	_, err = products.Update(ctx, a.Company.ID, a.Admin.ID, p.ID, dto.UpdateProductRequest{Name: &name, ModFlag: 0})
	assert.ErrorIs(t, err, domain.ErrConflict, "mod_flag desactualizado")

	assert.ErrorIs(t, products.Delete(ctx, a.Company.ID, a.Admin.ID, p.ID, 0), domain.ErrConflict)
	require.NoError(t, products.Delete(ctx, a.Company.ID, a.Admin.ID, p.ID, 1))

	got, err := products.GetByID(ctx, a.Company.ID, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "los productos eliminados no se listan")

	list, err := products.List(ctx, a.Company.ID, dto.ProductListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Equal(t, 20, list.Page.Limit)
}

func TestCatalogUseCase_CategoriaPadre(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	a := newCompany(t, store, "1", "a@x.co")
	catalog := usecase.NewCatalogUseCase(store.Repos(), ports.NopAudit{})

	root, err := catalog.CreateCategory(ctx, a.Company.ID, a.Admin.ID, dto.CategoryRequest{Name: "Raíz", Code: "R"})
	require.NoError(t, err)

	_, err = catalog.CreateCategory(ctx, a.Company.ID, a.Admin.ID, dto.CategoryRequest{Name: "Hija", ParentID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = catalog.CreateCategory(ctx, a.Company.ID, a.Admin.ID, dto.CategoryRequest{Name: "Otra", Code: "R"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	self := root.ID
	_, err = catalog.UpdateCategory(ctx, a.Company.ID, a.Admin.ID, root.ID, dto.UpdateCategoryRequest{ParentID: &self})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPartnerUseCase_ClienteModFlag(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	a := newCompany(t, store, "1", "a@x.co")
	uc := usecase.NewPartnerUseCase(store.Repos(), ports.NopAudit{})

	c, err := uc.CreateCustomer(ctx, a.Company.ID, a.Admin.ID, dto.CustomerRequest{Name: "Ana"})
	require.NoError(t, err)

	up, err := uc.UpdateCustomer(ctx, a.Company.ID, a.Admin.ID, c.ID, dto.CustomerRequest{Name: "Ana María", ModFlag: c.ModFlag})
	require.NoError(t, err)
	assert.Equal(t, c.ModFlag+1, up.ModFlag)

	_, err = uc.UpdateCustomer(ctx, a.Company.ID, a.Admin.ID, c.ID, dto.CustomerRequest{Name: "X", ModFlag: c.ModFlag})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.UpdateCustomer(ctx, "otra", a.Admin.ID, c.ID, dto.CustomerRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

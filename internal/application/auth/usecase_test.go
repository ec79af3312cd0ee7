package auth_test

import (
	"context"
	"testing"

	"github.com/jhoicas/Comercio-api/internal/application/auth"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/application/usecase"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/memory"
	"github.com/jhoicas/Comercio-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

type fixture struct {
	store   *memory.Store
	auth    *auth.AuthUseCase
	company *dto.CreateCompanyResponse
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := memory.New()
	modules := usecase.NewModuleService(store.Repos(), ports.NopAudit{})
	authUC := auth.NewAuthUseCase(store.Repos(), modules, ports.NopAudit{}, auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "test"})
	companies := usecase.NewCompanyUseCase(store, store.Repos(), authUC, ports.NopAudit{})
	out, err := companies.Create(context.Background(), dto.CreateCompanyRequest{
		Name: "Tienda", TaxID: "900", AdminName: "Admin", AdminEmail: "admin@tienda.co", AdminPassword: "secreto123",
	})
	require.NoError(t, err)
	return fixture{store: store, auth: authUC, company: out}
}

func TestCreateCompany_TokenValido(t *testing.T) {
	f := setup(t)

	id, err := jwt.Parse(secret, f.company.Token)
	require.NoError(t, err)
	assert.Equal(t, f.company.Admin.ID, id.UserID)
	assert.Equal(t, f.company.Company.ID, id.CompanyID)
	assert.Equal(t, entity.RoleAdmin, id.Role)
}

func TestLogin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	out, err := f.auth.Login(ctx, dto.LoginRequest{Email: "ADMIN@tienda.co", Password: "secreto123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, f.company.Admin.ID, out.User.ID)

	_, err = f.auth.Login(ctx, dto.LoginRequest{Email: "admin@tienda.co", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.auth.Login(ctx, dto.LoginRequest{Email: "nadie@tienda.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	cid, admin := f.company.Company.ID, f.company.Admin.ID

	u, err := f.auth.RegisterUser(ctx, cid, admin, dto.RegisterUserRequest{Email: "caja@tienda.co", Password: "secreto123", Role: entity.RoleCashier})
	require.NoError(t, err)
	inactive := entity.UserStatusInactive
	_, err = f.auth.UpdateUser(ctx, cid, admin, u.ID, dto.UpdateUserRequest{Status: &inactive})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, dto.LoginRequest{Email: "caja@tienda.co", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.auth.UpdateUser(ctx, cid, admin, admin, dto.UpdateUserRequest{Status: &inactive})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el admin no puede desactivarse a sí mismo")
}

func TestRegisterUser(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	cid, admin := f.company.Company.ID, f.company.Admin.ID

	u, err := f.auth.RegisterUser(ctx, cid, admin, dto.RegisterUserRequest{Email: "Caja@Tienda.co", Password: "secreto123", Role: entity.RoleCashier})
	require.NoError(t, err)
	assert.Equal(t, "caja@tienda.co", u.Email)
	assert.Equal(t, "caja@tienda.co", u.Name, "sin nombre se usa el email")

	_, err = f.auth.RegisterUser(ctx, cid, admin, dto.RegisterUserRequest{Email: "caja@tienda.co", Password: "secreto123", Role: entity.RoleCashier})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = f.auth.RegisterUser(ctx, cid, admin, dto.RegisterUserRequest{Email: "x@tienda.co", Password: "secreto123", Role: "gerente"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResolvePermissions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	cid := f.company.Company.ID

	tests := []struct {
		role string
		perm string
		want bool
	}{
		{entity.RoleAdmin, entity.PermVoidSales, true},
		{entity.RoleCashier, entity.PermMakeSales, true},
		{entity.RoleCashier, entity.PermVoidSales, false},
		{entity.RoleStorekeeper, entity.PermManageInventory, true},
		{entity.RoleStorekeeper, entity.PermViewReports, false},
		{entity.RoleAccountant, entity.PermRunPayroll, true},
		{"inexistente", entity.PermMakeSales, false},
		{entity.RoleAdmin, "permiso_desconocido", false},
	}
	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.perm, func(t *testing.T) {
			ok, err := f.auth.HasPermission(ctx, cid, tt.role, tt.perm)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestRoles_CrearActualizarEliminar(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	cid, admin := f.company.Company.ID, f.company.Admin.ID

	role, err := f.auth.CreateRole(ctx, cid, admin, dto.CreateRoleRequest{Name: "supervisor", Permissions: entity.Permissions{VoidSales: true}})
	require.NoError(t, err)
	assert.False(t, role.IsSystem)

	_, err = f.auth.CreateRole(ctx, cid, admin, dto.CreateRoleRequest{Name: "supervisor"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	perms := entity.Permissions{VoidSales: true, MakeSales: true}
	up, err := f.auth.UpdateRole(ctx, cid, admin, role.ID, dto.UpdateRoleRequest{Permissions: &perms, ModFlag: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, up.ModFlag)
	assert.True(t, up.Permissions.MakeSales)

	_, err = f.auth.UpdateRole(ctx, cid, admin, role.ID, dto.UpdateRoleRequest{Permissions: &perms, ModFlag: 0})
	assert.ErrorIs(t, err, domain.ErrConflict)

	ok, err := f.auth.HasPermission(ctx, cid, "supervisor", entity.PermMakeSales)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, f.auth.DeleteRole(ctx, cid, admin, role.ID, 1))
	ok, err = f.auth.HasPermission(ctx, cid, "supervisor", entity.PermMakeSales)
	require.NoError(t, err)
	assert.False(t, ok, "un rol eliminado no autoriza")
}

func TestRoles_SistemaProtegidos(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	cid, admin := f.company.Company.ID, f.company.Admin.ID

	roles, err := f.auth.ListRoles(ctx, cid)
	require.NoError(t, err)
	byName := map[string]dto.RoleResponse{}
	for _, r := range roles {
		byName[r.Name] = r
	}

	adminRole := byName[entity.RoleAdmin]
	_, err = f.auth.UpdateRole(ctx, cid, admin, adminRole.ID, dto.UpdateRoleRequest{ModFlag: adminRole.ModFlag})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	cashier := byName[entity.RoleCashier]
	rename := "vendedor"
	_, err = f.auth.UpdateRole(ctx, cid, admin, cashier.ID, dto.UpdateRoleRequest{Name: &rename, ModFlag: cashier.ModFlag})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.ErrorIs(t, f.auth.DeleteRole(ctx, cid, admin, cashier.ID, cashier.ModFlag), domain.ErrForbidden)
}

func TestMe(t *testing.T) {
	f := setup(t)

	me, err := f.auth.Me(context.Background(), f.company.Company.ID, f.company.Admin.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AllPermissions(), me.Permissions)
	assert.Len(t, me.Modules, len(entity.AllModules))

	_, err = f.auth.Me(context.Background(), "otra", f.company.Admin.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

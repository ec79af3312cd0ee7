package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Comercio-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Comercio-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "comercio-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con AuthMiddleware, los
// middlewares indicados y un handler dummy que devuelve 200.
func buildTestApp(middlewares ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{apphttp.AuthMiddleware(testJWTSecret)}, middlewares...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"ok":   true,
			"role": apphttp.GetRole(c),
		})
	})
	app.Get("/protected", handlers...)
	return app
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Identity{UserID: testUserID, CompanyID: testCompanyID, Role: role}, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(apphttp.RequireRole("admin"))
	resp := doRequest(t, app, tokenForRole(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"admin debe poder acceder a ruta restringida a admin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRole_BodegueroAccedeRutaAdminOBodeguero(t *testing.T) {
	app := buildTestApp(apphttp.RequireRole("admin", "storekeeper"))
	resp := doRequest(t, app, tokenForRole(t, "storekeeper"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_CajeroBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(apphttp.RequireRole("admin"))
	resp := doRequest(t, app, tokenForRole(t, "cashier"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"cashier no debe poder acceder a ruta restringida a admin")
	assert.Contains(t, bodyString(t, resp), "FORBIDDEN")
}

// Token sin claim de rol (token legacy) → 401 MISSING_ROLE.
func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(apphttp.RequireRole("admin"))
	resp := doRequest(t, app, tokenForRole(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "MISSING_ROLE")
}

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "INVALID_TOKEN")
}

func TestAuthMiddleware_SecretDistinto_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secret", pkgjwt.Identity{UserID: testUserID, CompanyID: testCompanyID, Role: "admin"}, testIssuer, testExpMin)
	require.NoError(t, err)

	app := buildTestApp()
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExtractaClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, "admin", body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequirePermission y RequireModule con verificadores falsos
// ──────────────────────────────────────────────────────────────────────────────

type fakePermissions struct {
	granted map[string][]string // rol → permisos
	err     error
}

func (f fakePermissions) HasPermission(_ context.Context, _, role, permission string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, p := range f.granted[role] {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}

type fakeModules struct {
	active map[string]bool
	err    error
}

func (f fakeModules) HasActiveModule(_ context.Context, _, module string) (bool, error) {
	return f.active[module], f.err
}

func TestRequirePermission(t *testing.T) {
	checker := fakePermissions{granted: map[string][]string{"cashier": {"make_sales"}}}

	cases := []struct {
		name   string
		perm   string
		role   string
		status int
		code   string
	}{
		{"rol con permiso", "make_sales", "cashier", http.StatusOK, ""},
		{"rol sin permiso", "void_sales", "cashier", http.StatusForbidden, "FORBIDDEN"},
		{"rol desconocido", "make_sales", "visitor", http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", "make_sales", "", http.StatusUnauthorized, "MISSING_ROLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := buildTestApp(apphttp.RequirePermission(tc.perm, checker))
			resp := doRequest(t, app, tokenForRole(t, tc.role))
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.code != "" {
				assert.Contains(t, bodyString(t, resp), tc.code)
			}
		})
	}
}

func TestRequirePermission_FalloInfraestructura_Retorna503(t *testing.T) {
	app := buildTestApp(apphttp.RequirePermission("make_sales", fakePermissions{err: errors.New("db caída")}))
	resp := doRequest(t, app, tokenForRole(t, "cashier"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "PERMISSION_CHECK_FAILED")
}

func TestRequireModule(t *testing.T) {
	checker := fakeModules{active: map[string]bool{"pos": true}}

	t.Run("módulo activo", func(t *testing.T) {
		resp := doRequest(t, buildTestApp(apphttp.RequireModule("pos", checker)), tokenForRole(t, "cashier"))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("módulo inactivo", func(t *testing.T) {
		resp := doRequest(t, buildTestApp(apphttp.RequireModule("hr", checker)), tokenForRole(t, "admin"))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Contains(t, bodyString(t, resp), "MODULE_DISABLED")
	})

	t.Run("fallo al consultar", func(t *testing.T) {
		failing := fakeModules{err: errors.New("timeout")}
		resp := doRequest(t, buildTestApp(apphttp.RequireModule("pos", failing)), tokenForRole(t, "admin"))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Contains(t, bodyString(t, resp), "MODULE_CHECK_FAILED")
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests PlatformKeyMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestPlatformKeyMiddleware(t *testing.T) {
	newApp := func(key string) *fiber.App {
		app := fiber.New()
		app.Get("/platform", apphttp.PlatformKeyMiddleware(key), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
		return app
	}
	call := func(app *fiber.App, header string) int {
		req := httptest.NewRequest(http.MethodGet, "/platform", nil)
		if header != "" {
			req.Header.Set("X-Platform-Key", header)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusNotFound, call(newApp(""), "cualquiera"), "sin clave configurada la ruta no existe")
	assert.Equal(t, http.StatusUnauthorized, call(newApp("s3cret"), ""))
	assert.Equal(t, http.StatusUnauthorized, call(newApp("s3cret"), "otra"))
	assert.Equal(t, http.StatusOK, call(newApp("s3cret"), "s3cret"))
}

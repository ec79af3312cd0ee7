package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercio-api/internal/application/accounting"
	"github.com/jhoicas/Comercio-api/internal/application/audit"
	"github.com/jhoicas/Comercio-api/internal/application/auth"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/hr"
	"github.com/jhoicas/Comercio-api/internal/application/inventory"
	"github.com/jhoicas/Comercio-api/internal/application/pos"
	"github.com/jhoicas/Comercio-api/internal/application/purchasing"
	"github.com/jhoicas/Comercio-api/internal/application/reports"
	"github.com/jhoicas/Comercio-api/internal/application/transport"
	"github.com/jhoicas/Comercio-api/internal/application/usecase"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/cache"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/excel"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/memory"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Comercio-api/internal/interfaces/http"
	"github.com/jhoicas/Comercio-api/pkg/logger"
)

const platformKey = "platform-test-key"

// newAPI arma el router completo sobre el almacén en memoria.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.New()
	repos := store.Repos()
	auditSvc := audit.NewService(store.Audit(), logger.Nop())
	renderer := pdf.NewMarotoRenderer()
	modules := usecase.NewModuleService(repos, auditSvc)
	authUC := auth.NewAuthUseCase(repos, modules, auditSvc, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})

	app := fiber.New()
	app.Use(apphttp.RequestID())
	app.Use(apphttp.RequestLogger(logger.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		CompanyUC:    usecase.NewCompanyUseCase(store, repos, authUC, auditSvc),
		Modules:      modules,
		AuthUC:       authUC,
		CatalogUC:    usecase.NewCatalogUseCase(repos, auditSvc),
		ProductUC:    usecase.NewProductUseCase(repos, auditSvc),
		PartnerUC:    usecase.NewPartnerUseCase(repos, auditSvc),
		InventoryUC:  inventory.NewUseCase(store, repos, auditSvc),
		PurchasingUC: purchasing.NewUseCase(store, repos, auditSvc),
		POSUC:        pos.NewUseCase(store, repos, auditSvc, renderer),
		TransportUC:  transport.NewUseCase(store, repos, auditSvc),
		HRUC:         hr.NewUseCase(store, repos, memory.NewLocker(), auditSvc, renderer),
		LedgerUC:     accounting.NewLedgerUseCase(repos, auditSvc),
		ReportsUC:    reports.NewUseCase(repos, cache.Noop{}, excel.Exporter{}, logger.Nop(), time.Minute),
		Audit:        auditSvc,
		JWTSecret:    testJWTSecret,
		PlatformKey:  platformKey,
	})
	return app
}

// call envía body como JSON y decodifica la respuesta en out (si no es nil).
func call(t *testing.T, app *fiber.App, method, path, token string, body, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// signup crea una empresa y devuelve el token de su administrador.
func signup(t *testing.T, app *fiber.App, taxID, email string) string {
	t.Helper()
	var out dto.CreateCompanyResponse
	status := call(t, app, http.MethodPost, "/api/companies", "", map[string]any{
		"name":           "Tienda " + taxID,
		"tax_id":         taxID,
		"admin_name":     "Admin",
		"admin_email":    email,
		"admin_password": "secreto123",
	}, &out)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func createProduct(t *testing.T, app *fiber.App, token, sku string, price int64) dto.ProductResponse {
	t.Helper()
	var p dto.ProductResponse
	status := call(t, app, http.MethodPost, "/api/products", token, map[string]any{
		"sku":   sku,
		"name":  "Producto " + sku,
		"price": decimal.NewFromInt(price),
	}, &p)
	require.Equal(t, http.StatusCreated, status)
	return p
}

func TestFlujo_AltaLoginProductoLoteVenta(t *testing.T) {
	app := newAPI(t)
	signup(t, app, "900100200", "admin@tienda.co")

	var login dto.LoginResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "admin@tienda.co", "password": "secreto123",
	}, &login))
	token := login.Token

	p := createProduct(t, app, token, "ARZ-1", 5000)

	status := call(t, app, http.MethodPost, "/api/inventory/batches", token, map[string]any{
		"product_id": p.ID,
		"quantity":   decimal.NewFromInt(10),
		"unit_cost":  decimal.NewFromInt(3000),
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	checkout := map[string]any{
		"idempotency_key": "caja1-000001",
		"payment_method":  "cash",
		"paid_amount":     decimal.NewFromInt(20000),
		"items":           []map[string]any{{"product_id": p.ID, "quantity": decimal.NewFromInt(2)}},
	}
	var sale dto.SaleResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/sales", token, checkout, &sale))
	assert.True(t, decimal.NewFromInt(10000).Equal(sale.Total), "total = 2 × 5000")
	assert.True(t, decimal.NewFromInt(6000).Equal(sale.COGSTotal), "costo = 2 × 3000")
	assert.True(t, decimal.NewFromInt(10000).Equal(sale.Change))
	assert.False(t, sale.Replayed)

	// Reintento con la misma llave: misma venta, sin descontar de nuevo.
	var replay dto.SaleResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/sales", token, checkout, &replay))
	assert.Equal(t, sale.ID, replay.ID)
	assert.True(t, replay.Replayed)

	var stock dto.StockSummaryResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/products/"+p.ID+"/stock", token, nil, &stock))
	assert.True(t, decimal.NewFromInt(8).Equal(stock.Quantity))

	var errResp dto.ErrorResponse
	status = call(t, app, http.MethodPost, "/api/sales", token, map[string]any{
		"idempotency_key": "caja1-000002",
		"payment_method":  "cash",
		"paid_amount":     decimal.NewFromInt(100000),
		"items":           []map[string]any{{"product_id": p.ID, "quantity": decimal.NewFromInt(9)}},
	}, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)
}

func TestValidacion_CamposFaltantes_Retorna400ConCampos(t *testing.T) {
	app := newAPI(t)
	token := signup(t, app, "900100201", "admin@val.co")

	var errResp dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/products", token, map[string]any{"price": "10"}, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errResp.Code)

	fields := make([]string, 0, len(errResp.Fields))
	for _, f := range errResp.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"sku", "name"}, fields)
}

func TestIDInvalido_Retorna400(t *testing.T) {
	app := newAPI(t)
	token := signup(t, app, "900100202", "admin@id.co")

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/products/no-es-uuid", token, nil, &errResp))
	assert.Equal(t, "INVALID_ID", errResp.Code)
}

func TestAislamientoEntreEmpresas(t *testing.T) {
	app := newAPI(t)
	tokenA := signup(t, app, "900100203", "admin@a.co")
	tokenB := signup(t, app, "900100204", "admin@b.co")

	p := createProduct(t, app, tokenA, "SKU-A", 1000)

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/products/"+p.ID, tokenB, nil, &errResp))
	assert.Equal(t, "NOT_FOUND", errResp.Code)
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/products/"+p.ID, tokenA, nil, nil))
}

func TestCajero_SinPermisoDeProductos(t *testing.T) {
	app := newAPI(t)
	admin := signup(t, app, "900100205", "admin@caja.co")

	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/users", admin, map[string]string{
		"email": "cajero@caja.co", "password": "cajero1234", "role": "cashier",
	}, nil))
	var login dto.LoginResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "cajero@caja.co", "password": "cajero1234",
	}, &login))

	var errResp dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/products", login.Token, map[string]any{"sku": "X", "name": "X"}, &errResp)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errResp.Code)

	// Las lecturas del catálogo siguen abiertas.
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/products", login.Token, nil, nil))
	// La bitácora es solo para administradores.
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/api/audit", login.Token, nil, nil))
}

func TestModuloDesactivado_BloqueaRutas(t *testing.T) {
	app := newAPI(t)
	token := signup(t, app, "900100206", "admin@mod.co")

	require.Equal(t, http.StatusOK, call(t, app, http.MethodPut, "/api/company/modules/pos", token, map[string]any{"active": false}, nil))

	var errResp dto.ErrorResponse
	status := call(t, app, http.MethodGet, "/api/sales", token, nil, &errResp)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "MODULE_DISABLED", errResp.Code)

	// Otros módulos siguen disponibles.
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/inventory/low-stock", token, nil, nil))
}

func TestListadoDeEmpresas_RequiereClaveDePlataforma(t *testing.T) {
	app := newAPI(t)
	signup(t, app, "900100207", "admin@plat.co")

	req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	req.Header.Set("X-Platform-Key", platformKey)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list dto.CompanyListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list.Items, 1)
}

func TestAltaDeEmpresa_NITDuplicado_Retorna409(t *testing.T) {
	app := newAPI(t)
	signup(t, app, "900100208", "admin@dup.co")

	var errResp dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/companies", "", map[string]any{
		"name": "Otra", "tax_id": "900100208", "admin_name": "B",
		"admin_email": "otro@dup.co", "admin_password": "secreto123",
	}, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", errResp.Code)
}

func TestReciboDeVenta_PDF(t *testing.T) {
	app := newAPI(t)
	token := signup(t, app, "900100209", "admin@pdf.co")
	p := createProduct(t, app, token, "PDF-1", 2500)
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/inventory/batches", token, map[string]any{
		"product_id": p.ID, "quantity": decimal.NewFromInt(1), "unit_cost": decimal.NewFromInt(1000),
	}, nil))
	var sale dto.SaleResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/sales", token, map[string]any{
		"idempotency_key": "pdf-000001",
		"payment_method":  "card",
		"paid_amount":     decimal.NewFromInt(2500),
		"items":           []map[string]any{{"product_id": p.ID, "quantity": decimal.NewFromInt(1)}},
	}, &sale))

	req := httptest.NewRequest(http.MethodGet, "/api/sales/"+sale.ID+"/receipt", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

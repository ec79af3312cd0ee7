package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/accounting"
	"github.com/jhoicas/Comercio-api/internal/application/audit"
	"github.com/jhoicas/Comercio-api/internal/application/auth"
	"github.com/jhoicas/Comercio-api/internal/application/hr"
	"github.com/jhoicas/Comercio-api/internal/application/inventory"
	"github.com/jhoicas/Comercio-api/internal/application/pos"
	"github.com/jhoicas/Comercio-api/internal/application/purchasing"
	"github.com/jhoicas/Comercio-api/internal/application/reports"
	"github.com/jhoicas/Comercio-api/internal/application/transport"
	"github.com/jhoicas/Comercio-api/internal/application/usecase"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC    *usecase.CompanyUseCase
	Modules      *usecase.ModuleService
	AuthUC       *auth.AuthUseCase
	CatalogUC    *usecase.CatalogUseCase
	ProductUC    *usecase.ProductUseCase
	PartnerUC    *usecase.PartnerUseCase
	InventoryUC  *inventory.UseCase
	PurchasingUC *purchasing.UseCase
	POSUC        *pos.UseCase
	TransportUC  *transport.UseCase
	HRUC         *hr.UseCase
	LedgerUC     *accounting.LedgerUseCase
	ReportsUC    *reports.UseCase
	Audit        *audit.Service
	JWTSecret    string
	PlatformKey  string
}

// Router registra las rutas de la API.
// Lecturas del catálogo abiertas a cualquier usuario de la empresa; escrituras por permiso.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	perm := func(p string) fiber.Handler { return RequirePermission(p, deps.AuthUC) }
	module := func(m string) fiber.Handler { return RequireModule(m, deps.Modules) }

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Companies: alta pública; listado global solo para el operador de la plataforma
	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.Modules)
	api.Post("/companies", companyHandler.Create)
	api.Get("/companies", PlatformKeyMiddleware(deps.PlatformKey), companyHandler.List)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	company := protected.Group("/company")
	company.Get("/", companyHandler.Get)
	company.Put("/", RequireRole(entity.RoleAdmin), companyHandler.Update)
	company.Get("/modules", companyHandler.ListModules)
	company.Put("/modules/:module", RequireRole(entity.RoleAdmin), companyHandler.ActivateModule)

	users := protected.Group("/users", perm(entity.PermManageUsers))
	users.Post("/", authHandler.RegisterUser)
	users.Get("/", authHandler.ListUsers)
	users.Put("/:id", authHandler.UpdateUser)

	roles := protected.Group("/roles", perm(entity.PermManageUsers))
	roles.Post("/", authHandler.CreateRole)
	roles.Get("/", authHandler.ListRoles)
	roles.Put("/:id", authHandler.UpdateRole)
	roles.Delete("/:id", authHandler.DeleteRole)

	// Catálogo
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	manageProducts := perm(entity.PermManageProducts)
	categories := protected.Group("/categories")
	categories.Post("/", manageProducts, catalogHandler.CreateCategory)
	categories.Get("/", catalogHandler.ListCategories)
	categories.Get("/:id", catalogHandler.GetCategory)
	categories.Put("/:id", manageProducts, catalogHandler.UpdateCategory)
	categories.Delete("/:id", manageProducts, catalogHandler.DeleteCategory)

	brands := protected.Group("/brands")
	brands.Post("/", manageProducts, catalogHandler.CreateBrand)
	brands.Get("/", catalogHandler.ListBrands)
	brands.Put("/:id", manageProducts, catalogHandler.UpdateBrand)
	brands.Delete("/:id", manageProducts, catalogHandler.DeleteBrand)

	units := protected.Group("/units")
	units.Post("/", manageProducts, catalogHandler.CreateUnit)
	units.Get("/", catalogHandler.ListUnits)
	units.Put("/:id", manageProducts, catalogHandler.UpdateUnit)
	units.Delete("/:id", manageProducts, catalogHandler.DeleteUnit)

	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	products := protected.Group("/products")
	products.Post("/", manageProducts, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", manageProducts, productHandler.Update)
	products.Delete("/:id", manageProducts, productHandler.Delete)
	products.Get("/:id/batches", module(entity.ModuleInventory), inventoryHandler.ListBatches)
	products.Get("/:id/stock", module(entity.ModuleInventory), inventoryHandler.StockSummary)
	products.Get("/:id/movements", module(entity.ModuleInventory), inventoryHandler.ListMovements)

	// Inventario
	manageInventory := perm(entity.PermManageInventory)
	inv := protected.Group("/inventory", module(entity.ModuleInventory))
	inv.Post("/batches", manageInventory, inventoryHandler.ReceiveBatch)
	inv.Post("/adjustments", manageInventory, inventoryHandler.AdjustStock)
	inv.Get("/low-stock", inventoryHandler.LowStock)
	inv.Get("/expiring", inventoryHandler.ExpiringBatches)

	// Compras
	partnerHandler := NewPartnerHandler(deps.PartnerUC)
	managePurchases := perm(entity.PermManagePurchases)
	suppliers := protected.Group("/suppliers", module(entity.ModulePurchasing))
	suppliers.Post("/", managePurchases, partnerHandler.CreateSupplier)
	suppliers.Get("/", partnerHandler.ListSuppliers)
	suppliers.Get("/:id", partnerHandler.GetSupplier)
	suppliers.Put("/:id", managePurchases, partnerHandler.UpdateSupplier)
	suppliers.Delete("/:id", managePurchases, partnerHandler.DeleteSupplier)

	purchaseHandler := NewPurchaseHandler(deps.PurchasingUC)
	orders := protected.Group("/purchase-orders", module(entity.ModulePurchasing))
	orders.Post("/", managePurchases, purchaseHandler.Create)
	orders.Get("/", purchaseHandler.List)
	orders.Get("/:id", purchaseHandler.Get)
	orders.Post("/:id/order", managePurchases, purchaseHandler.MarkOrdered)
	orders.Post("/:id/receive", managePurchases, purchaseHandler.Receive)
	orders.Post("/:id/cancel", managePurchases, purchaseHandler.Cancel)
	orders.Post("/:id/payments", managePurchases, purchaseHandler.RegisterPayment)
	orders.Get("/:id/payments", purchaseHandler.ListPayments)

	// Punto de venta
	makeSales := perm(entity.PermMakeSales)
	customers := protected.Group("/customers", module(entity.ModulePOS))
	customers.Post("/", makeSales, partnerHandler.CreateCustomer)
	customers.Get("/", partnerHandler.ListCustomers)
	customers.Get("/:id", partnerHandler.GetCustomer)
	customers.Put("/:id", makeSales, partnerHandler.UpdateCustomer)
	customers.Delete("/:id", makeSales, partnerHandler.DeleteCustomer)

	saleHandler := NewSaleHandler(deps.POSUC)
	sales := protected.Group("/sales", module(entity.ModulePOS))
	sales.Post("/", makeSales, saleHandler.Checkout)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.Get)
	sales.Get("/:id/receipt", saleHandler.Receipt)
	sales.Post("/:id/void", perm(entity.PermVoidSales), saleHandler.Void)

	// Transporte
	shipmentHandler := NewShipmentHandler(deps.TransportUC)
	shipments := protected.Group("/shipments", module(entity.ModuleTransport))
	shipments.Post("/", perm(entity.PermManageShipments), shipmentHandler.Create)
	shipments.Get("/", shipmentHandler.List)
	shipments.Get("/:id", shipmentHandler.Get)
	shipments.Put("/:id/status", perm(entity.PermManageShipments), shipmentHandler.UpdateStatus)

	// Talento humano: salarios visibles solo con permiso
	hrHandler := NewHRHandler(deps.HRUC)
	employees := protected.Group("/employees", module(entity.ModuleHR), perm(entity.PermManageEmployees))
	employees.Post("/", hrHandler.CreateEmployee)
	employees.Get("/", hrHandler.ListEmployees)
	employees.Get("/:id", hrHandler.GetEmployee)
	employees.Put("/:id", hrHandler.UpdateEmployee)
	employees.Delete("/:id", hrHandler.DeleteEmployee)

	payroll := protected.Group("/payroll", module(entity.ModuleHR), perm(entity.PermRunPayroll))
	payroll.Post("/", hrHandler.RunPayroll)
	payroll.Get("/", hrHandler.ListPayrollRuns)
	payroll.Get("/:id", hrHandler.GetPayrollRun)
	payroll.Get("/:id/payslips", hrHandler.Payslips)

	// Contabilidad
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	accountingMW := []fiber.Handler{module(entity.ModuleAccounting), perm(entity.PermManageAccounting)}
	expenses := protected.Group("/expenses", accountingMW...)
	expenses.Post("/", ledgerHandler.CreateExpense)
	expenses.Get("/", ledgerHandler.ListExpenses)
	expenses.Put("/:id", ledgerHandler.UpdateExpense)
	expenses.Delete("/:id", ledgerHandler.DeleteExpense)

	incomes := protected.Group("/incomes", accountingMW...)
	incomes.Post("/", ledgerHandler.CreateIncome)
	incomes.Get("/", ledgerHandler.ListIncomes)
	incomes.Put("/:id", ledgerHandler.UpdateIncome)
	incomes.Delete("/:id", ledgerHandler.DeleteIncome)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportsUC)
	viewReports := perm(entity.PermViewReports)
	rep := protected.Group("/reports", module(entity.ModuleReports), viewReports)
	rep.Get("/profit-and-loss", reportHandler.ProfitAndLoss)
	rep.Get("/balance-sheet", reportHandler.BalanceSheet)
	rep.Get("/sales-by-product", reportHandler.SalesByProduct)
	rep.Get("/stock-valuation", reportHandler.StockValuation)
	rep.Delete("/cache", reportHandler.Invalidate)

	dashboardHandler := NewDashboardHandler(deps.ReportsUC)
	protected.Get("/dashboard/summary", module(entity.ModuleReports), viewReports, dashboardHandler.GetSummary)

	// Bitácora
	auditHandler := NewAuditHandler(deps.Audit)
	protected.Get("/audit", RequireRole(entity.RoleAdmin), auditHandler.List)
}

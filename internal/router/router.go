package router

import (
	"time"

	"github.com/thiamyoussouph/sasstock-sub000/internal/config"
	"github.com/thiamyoussouph/sasstock-sub000/internal/handler"
	"github.com/thiamyoussouph/sasstock-sub000/internal/infra"
	"github.com/thiamyoussouph/sasstock-sub000/internal/middleware"
	"github.com/thiamyoussouph/sasstock-sub000/internal/model"
	"github.com/thiamyoussouph/sasstock-sub000/internal/repository"
	"github.com/thiamyoussouph/sasstock-sub000/internal/service"
	"github.com/thiamyoussouph/sasstock-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailerCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, companyRepo, cfg)
	stockSvc := service.NewStockService(productRepo, movementRepo)
	productSvc := service.NewProductService(productRepo, companyRepo, rdb)
	saleSvc := service.NewSaleService(saleRepo, productRepo, companyRepo, stockSvc, dispatcher)
	paymentSvc := service.NewPaymentService(saleRepo)
	movementSvc := service.NewMovementService(movementRepo, productRepo, stockSvc)
	subscriptionSvc := service.NewSubscriptionService(companyRepo, userRepo, cfg.InvoicePrefix)
	categorySvc := service.NewCategoryService(categoryRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	supplierSvc := service.NewSupplierService(supplierRepo)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, dispatcher, cfg.PDFStoragePath)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	salesH := handler.NewSalesHandler(saleSvc, paymentSvc)
	movementsH := handler.NewMovementsHandler(movementSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	companiesH := handler.NewCompaniesHandler(subscriptionSvc)
	invoicesH := handler.NewInvoicesHandler(invoiceSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)

	v1.GET("/auth/me", authH.Me)

	// Superadmin back office — no subscription check (these routes MANAGE
	// subscriptions, a lapsed tenant must still be reachable here)
	companies := v1.Group("/companies", middleware.RequireRole(model.RoleSuperadmin))
	{
		companies.POST("", companiesH.CreateCompany)
		companies.GET("", companiesH.ListCompanies)
		companies.GET("/:id", companiesH.GetCompany)
		companies.PUT("/:id", companiesH.UpdateCompany)
		companies.DELETE("/:id", companiesH.DeactivateCompany)
		companies.POST("/:id/subscriptions", companiesH.Subscribe)
		companies.GET("/:id/subscriptions", companiesH.ListSubscriptions)
	}

	plans := v1.Group("/plans", middleware.RequireRole(model.RoleSuperadmin))
	{
		plans.POST("", companiesH.CreatePlan)
		plans.GET("", companiesH.ListPlans)
		plans.PUT("/:id", companiesH.UpdatePlan)
	}

	// Tenant routes — writes require an active subscription
	subMW := middleware.RequireActiveSubscription(subscriptionSvc)
	anyStaff := middleware.RequireRole(model.RoleCaissier, model.RoleGestionnaire, model.RoleAdmin)
	managers := middleware.RequireRole(model.RoleGestionnaire, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	// Sales & payments — caissiers sell, gestionnaires correct, admins too
	v1.POST("/sales", anyStaff, subMW, salesH.Create)
	v1.GET("/sales", anyStaff, salesH.List)
	v1.GET("/sales/:id", anyStaff, salesH.Get)
	v1.PUT("/sales/:id", managers, subMW, salesH.Update)
	v1.DELETE("/sales/:id", managers, subMW, salesH.Cancel)
	v1.POST("/sales/:id/payments", anyStaff, subMW, salesH.RecordPayment)
	v1.GET("/sales/:id/balance", anyStaff, salesH.GetBalance)

	// Invoices hang off their sale
	v1.GET("/sales/:id/invoice", anyStaff, invoicesH.GetBySale)
	v1.GET("/sales/:id/invoice/pdf", anyStaff, invoicesH.DownloadPDF)
	v1.POST("/sales/:id/invoice/email", managers, subMW, invoicesH.Email)

	// Products — all staff read, admin writes
	v1.GET("/products", anyStaff, productsH.List)
	v1.GET("/products/low-stock", anyStaff, productsH.ListLowStock)
	v1.GET("/products/price/:reference", anyStaff, productsH.CheckPrice)
	v1.GET("/products/:id", anyStaff, productsH.Get)
	prods := v1.Group("/products", adminOnly, subMW)
	{
		prods.POST("", productsH.Create)
		prods.PUT("/:id", productsH.Update)
		prods.DELETE("/:id", productsH.Deactivate)
		prods.PATCH("/:id/reactivate", productsH.Reactivate)
	}

	// Stock movements — gestionnaire and admin
	stock := v1.Group("/stock", managers)
	{
		stock.POST("/movements", subMW, movementsH.Create)
		stock.GET("/movements", movementsH.List)
		stock.GET("/movements/:id", movementsH.Get)
		stock.PUT("/movements/:id", subMW, movementsH.Update)
		stock.GET("/entries", movementsH.ListEntries)
	}

	// Categories — all staff read, admin writes
	v1.GET("/categories", anyStaff, categoriesH.List)
	cats := v1.Group("/categories", adminOnly, subMW)
	{
		cats.POST("", categoriesH.Create)
		cats.PUT("/:id", categoriesH.Update)
		cats.DELETE("/:id", categoriesH.Delete)
	}

	// Customers — caissiers may register a walk-in customer mid-sale
	v1.GET("/customers", anyStaff, customersH.List)
	v1.GET("/customers/:id", anyStaff, customersH.Get)
	v1.POST("/customers", anyStaff, subMW, customersH.Create)
	v1.PUT("/customers/:id", managers, subMW, customersH.Update)
	v1.DELETE("/customers/:id", managers, subMW, customersH.Deactivate)

	// Suppliers — admin only
	suppliers := v1.Group("/suppliers", adminOnly)
	{
		suppliers.POST("", subMW, suppliersH.Create)
		suppliers.GET("", suppliersH.List)
		suppliers.GET("/:id", suppliersH.Get)
		suppliers.PUT("/:id", subMW, suppliersH.Update)
		suppliers.DELETE("/:id", subMW, suppliersH.Deactivate)
	}

	// Users — admin manages their company's staff
	users := v1.Group("/users", adminOnly)
	{
		users.POST("", subMW, authH.CreateUser)
		users.GET("", authH.ListUsers)
		users.PUT("/:id", authH.UpdateUser)
		users.DELETE("/:id", authH.DeactivateUser)
		users.PATCH("/:id/reactivate", subMW, authH.ReactivateUser)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

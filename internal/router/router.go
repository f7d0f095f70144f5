package router

import (
	"time"

	"tiendapos/internal/config"
	"tiendapos/internal/handler"
	"tiendapos/internal/infra"
	"tiendapos/internal/middleware"
	"tiendapos/internal/repository"
	"tiendapos/internal/service"
	"tiendapos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← Postgres/Mongo/Redis
func New(cfg *config.Config, db *gorm.DB, mdb *mongo.Database, rdb *redis.Client, carrierCB *infra.CircuitBreaker, images *infra.ImageStore) *gin.Engine {
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
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	carrierClient := infra.NewCarrierClient(cfg.CarrierURL)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(mdb)
	ventaRepo := repository.NewVentaRepository(db)
	corteRepo := repository.NewCorteRepository(db)
	promocionRepo := repository.NewPromocionRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)
	paqueteRepo := repository.NewPaqueteRepository(db)
	favoritoRepo := repository.NewFavoritoRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	catalogoSvc := service.NewCatalogoService(productoRepo, movimientoStockRepo, dispatcher)
	promocionSvc := service.NewPromocionService(promocionRepo, productoRepo)
	corteSvc := service.NewCorteService(corteRepo, ventaRepo)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, promocionRepo, corteRepo, paqueteRepo, movimientoStockRepo, dispatcher)
	reporteSvc := service.NewReporteService(ventaRepo, productoRepo, promocionRepo, corteRepo, usuarioRepo, cfg.PDFStoragePath)
	clienteSvc := service.NewClienteService(paqueteRepo, favoritoRepo, ventaRepo, productoRepo, carrierClient, carrierCB)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(catalogoSvc, images)
	stockH := handler.NewStockHandler(catalogoSvc)
	promocionesH := handler.NewPromocionesHandler(promocionSvc)
	cajaH := handler.NewCajaHandler(corteSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, mdb, rdb, carrierCB))
	r.Static("/static/images", images.Dir())

	r.POST("/api/login", middleware.LoginRateLimiter(), authH.Login)
	r.POST("/api/refresh", authH.Refresh)
	r.POST("/api/register", authH.Register)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	api := r.Group("/api", jwtMW)
	{
		// Catalog: everyone authenticated can browse; writes are admin/inventario
		api.GET("/products", productosH.Listar)
		// Declared before /products/:id so "lowstock" never matches as an id
		api.GET("/products/lowstock", middleware.RequireRole("admin", "inventario"), productosH.LowStock)
		api.GET("/products/:id", productosH.ObtenerPorID)
		prods := api.Group("/products", middleware.RequireRole("admin", "inventario"))
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Eliminar)
		}

		stock := api.Group("/stock", middleware.RequireRole("admin", "inventario"))
		{
			stock.POST("/adjust", stockH.Ajustar)
			stock.GET("/movimientos", stockH.Movimientos)
		}

		promos := api.Group("/promociones")
		{
			promos.GET("", promocionesH.Listar)
			promos.GET("/:id", promocionesH.ObtenerPorID)
			admin := promos.Group("", middleware.RequireRole("admin"))
			{
				admin.POST("", promocionesH.Crear)
				admin.PUT("/:id", promocionesH.Actualizar)
				admin.DELETE("/:id", promocionesH.Eliminar)
			}
		}

		caja := api.Group("/caja", middleware.RequireRole("cajero", "admin"))
		{
			caja.POST("/abrir", cajaH.Abrir)
			caja.POST("/cerrar", cajaH.Cerrar)
			caja.GET("/activa", cajaH.Activa)
		}

		api.POST("/ventas", middleware.RequireRole("cajero", "admin", "cliente"), ventasH.Registrar)
		api.GET("/ventas/:id", middleware.RequireRole("cajero", "admin"), ventasH.ObtenerPorID)
		api.DELETE("/ventas/:id", middleware.RequireRole("admin"), ventasH.Anular)

		api.GET("/stats/full", middleware.RequireRole("admin"), reportesH.StatsFull)
		reports := api.Group("/reports", middleware.RequireRole("admin"))
		{
			reports.GET("/sales", reportesH.ReporteVentas)
			reports.GET("/sales/pdf", reportesH.ReporteVentasPDF)
		}

		usuarios := api.Group("/users", middleware.RequireRole("admin"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}

		// Storefront account
		api.GET("/paquetes/seguimiento/:pedidoId", clientesH.Seguimiento)
		api.POST("/paquetes/seguimiento/:pedidoId/eventos", middleware.RequireRole("admin"), clientesH.AgregarEvento)
		api.GET("/favorites", clientesH.ListarFavoritos)
		api.POST("/favorites", clientesH.AgregarFavorito)
		api.DELETE("/favorites/:productId", clientesH.QuitarFavorito)
		api.GET("/historial_compras", clientesH.HistorialCompras)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

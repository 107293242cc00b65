package router

import (
	"time"

	"github.com/DanielPOG/AgroShpV1-sub000/internal/config"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/handler"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/middleware"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/repository"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/service"
	"github.com/DanielPOG/AgroShpV1-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services groups the wired business services so main can hand them to the
// worker pool and cron without re-wiring.
type Services struct {
	Alertas service.AlertaService
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, *Services) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	loteRepo := repository.NewLoteRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	turnoRepo := repository.NewTurnoRepository(db)
	retiroRepo := repository.NewRetiroRepository(db)
	gastoRepo := repository.NewGastoRepository(db)
	alertaRepo := repository.NewAlertaRepository(db)
	metodoPagoRepo := repository.NewMetodoPagoRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	metodoPagoSvc := service.NewMetodoPagoService(metodoPagoRepo)
	resolvedor := service.NewResolvedorCategorias(metodoPagoRepo)
	productoSvc := service.NewProductoService(productoRepo)
	inventarioSvc := service.NewInventarioService(productoRepo, loteRepo, movimientoStockRepo)
	cajaSvc := service.NewCajaService(cajaRepo, retiroRepo, gastoRepo, turnoRepo, resolvedor, cfg)
	turnoSvc := service.NewTurnoService(turnoRepo, cajaRepo, retiroRepo, gastoRepo, cajaSvc)
	retiroSvc := service.NewRetiroService(retiroRepo, gastoRepo, cajaRepo, turnoRepo, cajaSvc, resolvedor, cfg)
	alertaSvc := service.NewAlertaService(alertaRepo, productoRepo, loteRepo, cfg)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	ventaSvc := service.NewVentaService(ventaRepo, inventarioSvc, cajaSvc, cajaRepo,
		productoRepo, turnoRepo, movimientoStockRepo, resolvedor, dispatcher, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductoHandler(productoSvc)
	lotesH := handler.NewLoteHandler(inventarioSvc)
	ventasH := handler.NewVentaHandler(ventaSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	turnosH := handler.NewTurnoHandler(turnoSvc)
	retirosH := handler.NewRetiroHandler(retiroSvc)
	alertasH := handler.NewAlertaHandler(alertaSvc)
	metodosH := handler.NewMetodoPagoHandler(metodoPagoSvc)
	consultaH := handler.NewConsultaHandler(productoRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price/stock check — no auth required
	r.GET("/v1/consulta/:codigo", consultaH.GetPorCodigo)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	vendedores := middleware.RequireRole("cajero", "supervisor", "administrador")
	supervisores := middleware.RequireRole("supervisor", "administrador")
	admins := middleware.RequireRole("administrador")

	v1 := r.Group("/v1", jwtMW)
	{
		v1.POST("/ventas", vendedores, ventasH.Registrar)
		v1.GET("/ventas", vendedores, ventasH.List)
		v1.POST("/ventas/:id/anular", supervisores, ventasH.Anular)

		v1.GET("/productos", vendedores, productosH.List)
		v1.GET("/productos/:id/lotes", vendedores, lotesH.ListPorProducto)
		prods := v1.Group("/productos", admins)
		{
			prods.POST("", productosH.Crear)
			prods.PATCH("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.POST("/:id/reactivar", productosH.Reactivar)
		}

		lotes := v1.Group("/lotes", supervisores)
		{
			lotes.POST("", lotesH.Crear)
			lotes.POST("/:id/retirar", lotesH.Retirar)
			lotes.POST("/:id/reactivar", lotesH.Reactivar)
		}

		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", vendedores, cajaH.Abrir)
			caja.POST("/:id/cerrar", vendedores, cajaH.Cerrar)
			caja.GET("/:id/efectivo", vendedores, cajaH.EfectivoDisponible)
			caja.GET("/:id/reporte", vendedores, cajaH.ObtenerReporte)
		caja.GET("/:id/movimientos", supervisores, cajaH.ListarMovimientos)
			caja.POST("/movimientos", vendedores, cajaH.RegistrarMovimiento)
			caja.GET("/:id/turnos", vendedores, turnosH.ListPorSesion)
			caja.GET("/:id/retiros", supervisores, retirosH.ListPorSesion)
		}

		turnos := v1.Group("/turnos", vendedores)
		{
			turnos.POST("", turnosH.Iniciar)
			turnos.POST("/:id/finalizar", turnosH.Finalizar)
			turnos.POST("/:id/suspender", turnosH.Suspender)
			turnos.POST("/:id/reanudar", turnosH.Reanudar)
		}

		retiros := v1.Group("/retiros")
		{
			retiros.POST("", vendedores, retirosH.Solicitar)
			retiros.POST("/:id/autorizar", supervisores, retirosH.Autorizar)
			retiros.POST("/:id/completar", vendedores, retirosH.Completar)
		}

		v1.POST("/gastos", vendedores, retirosH.RegistrarGasto)

		alertas := v1.Group("/alertas", supervisores)
		{
			alertas.GET("", alertasH.List)
			alertas.POST("/:id/leida", alertasH.MarcarLeida)
			alertas.POST("/barrido", alertasH.EjecutarBarrido)
		}

		metodos := v1.Group("/metodos-pago")
		{
			metodos.GET("", vendedores, metodosH.Listar)
			metodos.POST("", admins, metodosH.Crear)
			metodos.DELETE("/:id", admins, metodosH.Desactivar)
		}

		usuarios := v1.Group("/usuarios", admins)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PATCH("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.POST("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	return r, &Services{Alertas: alertaSvc}
}

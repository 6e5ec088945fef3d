package api

import (
	"context"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/cosechaencope/marketplace/docs"
	"github.com/cosechaencope/marketplace/internal/api/handler"
	"github.com/cosechaencope/marketplace/internal/api/middleware"
	"github.com/cosechaencope/marketplace/internal/core/domain"
	"github.com/cosechaencope/marketplace/internal/core/service"
	mongodb "github.com/cosechaencope/marketplace/internal/infrastructure/db/mongo"
	redisdb "github.com/cosechaencope/marketplace/internal/infrastructure/db/redis"
	"github.com/cosechaencope/marketplace/internal/infrastructure/queue"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit dispatcher's workers run until ctx is cancelled.
func NewRouter(ctx context.Context, db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("cosechaencope"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	articleRepo := mongodb.NewArticleRepository(db)
	categoryRepo := mongodb.NewCategoryRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)

	images, err := mongodb.NewImageStore(db)
	if err != nil {
		return nil, err
	}

	denylist := redisdb.NewDenylist(rdb)

	auditService := service.NewAuditService(auditRepo, log)
	dispatcher := queue.NewDispatcher(0, auditService, log)
	dispatcher.Start(ctx)

	authService := service.NewAuthService(userRepo, denylist, jwtSecret, 24*time.Hour)
	articleService := service.NewArticleService(articleRepo, categoryRepo, images, dispatcher, log)
	categoryService := service.NewCategoryService(categoryRepo, dispatcher, log)

	authHandler := handler.NewAuthHandler(authService)
	articleHandler := handler.NewArticleHandler(articleService, images)
	categoryHandler := handler.NewCategoryHandler(categoryService, articleService)

	authRequired := middleware.Auth(jwtSecret, denylist)
	producerOnly := middleware.RBAC(domain.RoleProducer, domain.RoleAdmin)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Routes ---
	base := e.Group("/cosechaencope")

	auth := base.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/login/productores", authHandler.LoginProducer)
	auth.POST("/registro/clientes", authHandler.RegisterClient)
	auth.POST("/registro/productores", authHandler.RegisterProducer)
	auth.POST("/logout", authHandler.Logout, authRequired)

	articles := base.Group("/articulos")
	articles.GET("", articleHandler.List)
	articles.GET("/:id", articleHandler.Get)
	articles.GET("/:id/imagen", articleHandler.GetImage)
	articles.POST("", articleHandler.Create, authRequired, producerOnly)
	articles.PUT("/:id", articleHandler.Update, authRequired, producerOnly)
	articles.DELETE("/:id", articleHandler.Delete, authRequired, producerOnly)
	articles.POST("/:id/imagen", articleHandler.UploadImage, authRequired, producerOnly)

	categories := base.Group("/categorias")
	categories.GET("", categoryHandler.List)
	categories.GET("/:id", categoryHandler.Get)
	categories.GET("/:id/articulos", categoryHandler.ListArticles)
	categories.POST("", categoryHandler.Create, authRequired, adminOnly)
	categories.PUT("/:id", categoryHandler.Update, authRequired, adminOnly)
	categories.DELETE("/:id", categoryHandler.Delete, authRequired, adminOnly)

	producers := base.Group("/usuarios/productores", authRequired)
	producers.GET("/:idProductor/articulos", articleHandler.ListByProducer, producerOnly)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e, nil
}

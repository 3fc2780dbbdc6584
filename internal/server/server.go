package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hotelpms/internal/config"
	"hotelpms/internal/domain/availability"
	"hotelpms/internal/domain/calendar"
	"hotelpms/internal/domain/curve"
	"hotelpms/internal/domain/dynamicpricing"
	"hotelpms/internal/domain/events"
	"hotelpms/internal/domain/inventory"
	"hotelpms/internal/domain/season"
	"hotelpms/internal/domain/tariff"
	"hotelpms/internal/middleware"
	"hotelpms/internal/pkg/cache"
	"hotelpms/internal/pkg/jwt"
	"hotelpms/internal/pkg/logger"
	"hotelpms/internal/pkg/response"
)

const tokenTTL = 12 * time.Hour

type Server struct {
	Router *gin.Engine
	Hub    *events.Hub
	JWT    *jwt.Service
}

// New wires repositories, services and handlers into one gin engine under /api/v1.
func New(cfg *config.Config, db *gorm.DB, configCache cache.Cache, log *zap.Logger) *Server {
	log = logger.OrNop(log)

	hub := events.NewHub(log)
	jwtService := jwt.New(cfg.JWTSecret, tokenTTL)

	invRepo := inventory.NewRepository(db)
	calendarService := calendar.NewService(calendar.NewRepository(db), hub)
	curveService := curve.NewService(curve.NewRepository(db), hub)
	seasonService := season.NewService(season.NewRepository(db), invRepo, hub, log)

	configs := dynamicpricing.NewCachedConfigRepository(
		dynamicpricing.NewConfigRepository(db), configCache, cfg.CacheTTL(), log)
	indices := dynamicpricing.NewIndexRepository(db)
	engine := dynamicpricing.NewScoreEngine(invRepo, calendarService, indices, cfg.Location())
	pricingService := dynamicpricing.NewService(configs, indices, engine, hub, cfg.MinimumNightlyRate)

	calculator := tariff.NewCalculator(tariff.Dependencies{
		Overrides: calendarService,
		Seasons:   seasonService,
		Curves:    curveService,
		Catalog:   invRepo,
		MealRules: tariff.NewMealRuleRepository(db),
		Dynamic:   pricingService,
	})
	resolver := availability.NewResolver(invRepo, calendarService, calculator, availability.Options{
		MaxCombinationSize: cfg.CombinationMaxSize,
		CombinationLimit:   cfg.CombinationLimit,
		SearchTimeout:      cfg.SearchTimeout(),
	}, log)

	inventoryHandler := inventory.NewHandler(invRepo)
	calendarHandler := calendar.NewHandler(calendarService)
	curveHandler := curve.NewHandler(curveService)
	seasonHandler := season.NewHandler(seasonService)
	pricingHandler := dynamicpricing.NewHandler(pricingService)
	tariffHandler := tariff.NewHandler(calculator)
	availabilityHandler := availability.NewHandler(resolver)
	eventsHandler := events.NewHandler(hub, cfg.AllowedOrigins())

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(log),
		middleware.CORS(cfg.AllowedOrigins()),
		middleware.RateLimit(cfg.RateLimitPerMinute, log),
	)
	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.Use(middleware.HotelScope(cfg.HotelID))

	// public reads
	{
		inventory.RegisterRoutes(v1, inventoryHandler)
		availability.RegisterRoutes(v1, availabilityHandler)
		tariff.RegisterRoutes(v1, tariffHandler)
		calendar.RegisterPublicRoutes(v1, calendarHandler)
		curve.RegisterPublicRoutes(v1, curveHandler)
		season.RegisterPublicRoutes(v1, seasonHandler)
		dynamicpricing.RegisterPublicRoutes(v1, pricingHandler)
	}

	manager := v1.Group("")
	manager.Use(middleware.JWTAuth(jwtService), middleware.ManagerOnly())
	{
		calendar.RegisterManagerRoutes(manager, calendarHandler)
		curve.RegisterManagerRoutes(manager, curveHandler)
		season.RegisterManagerRoutes(manager, seasonHandler)
		dynamicpricing.RegisterManagerRoutes(manager, pricingHandler)
		events.RegisterRoutes(manager, eventsHandler)
	}

	ingest := v1.Group("")
	ingest.Use(middleware.IngestToken(cfg.IndicesIngestToken, log))
	dynamicpricing.RegisterIngestRoutes(ingest, pricingHandler)

	return &Server{Router: r, Hub: hub, JWT: jwtService}
}

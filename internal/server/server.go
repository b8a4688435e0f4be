package server

import (
	"context"
	"net/http"
	"time"

	"fightclub/internal/athlete"
	"fightclub/internal/attendance"
	"fightclub/internal/clock"
	"fightclub/internal/coach"
	"fightclub/internal/config"
	"fightclub/internal/entitlement"
	"fightclub/internal/membership"
	"fightclub/internal/schedule"
	"fightclub/internal/subscription"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// RouteRegistrar is implemented by every feature handler.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New wires repositories, services and handlers over db and mounts them
// under /api. mailer may be nil, in which case no notifications are sent.
func New(db *sqlx.DB, cfg *config.Config, mailer subscription.Mailer) *Server {
	loc := cfg.Location
	clk := clock.System{Location: loc}

	athleteRepo := athlete.NewRepository(db)
	planRepo := membership.NewRepository(db)

	athleteService := athlete.NewService(athleteRepo)
	coachService := coach.NewService(coach.NewRepository(db))
	planService := membership.NewService(planRepo)
	scheduleService := schedule.NewService(schedule.NewRepository(db), coachService)

	subscriptionRepo := subscription.NewRepository(db)
	subscriptionService := subscription.NewService(subscriptionRepo, athleteRepo, planRepo, clk, loc, mailer)

	attendanceRepo := attendance.NewRepository(db)
	attendanceService := attendance.NewService(attendanceRepo, athleteRepo, scheduleService, planRepo, clk, loc)
	entitlementService := entitlement.NewService(athleteRepo, planRepo, subscriptionRepo, attendanceRepo, loc)

	router := NewRouter(cfg, db,
		athlete.NewHandler(athleteService),
		coach.NewHandler(coachService),
		membership.NewHandler(planService),
		subscription.NewHandler(subscriptionService),
		entitlement.NewHandler(entitlementService, clk),
		schedule.NewHandler(scheduleService, loc),
		attendance.NewHandler(attendanceService, clk, loc),
	)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// NewRouter builds the engine with the shared middleware stack, the system
// endpoints and every feature handler under /api.
func NewRouter(cfg *config.Config, db Pinger, handlers ...RouteRegistrar) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware(cfg.CORSOrigins))

	router.GET("/health", Health(db))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	apiGroup := router.Group("/api")
	apiGroup.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
	for _, h := range handlers {
		h.RegisterRoutes(apiGroup)
	}

	return router
}

func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

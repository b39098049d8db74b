package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	adminauthdomain "github.com/stepsciences/scanportal/internal/adminauth/domain"
	"github.com/stepsciences/scanportal/internal/authorization"
	companydomain "github.com/stepsciences/scanportal/internal/company/domain"
	"github.com/stepsciences/scanportal/internal/config"
	"github.com/stepsciences/scanportal/internal/observability"
	obsmiddleware "github.com/stepsciences/scanportal/internal/observability/logger"
	obsmetrics "github.com/stepsciences/scanportal/internal/observability/metrics"
	obstracing "github.com/stepsciences/scanportal/internal/observability/tracing"
	"github.com/stepsciences/scanportal/internal/ratelimit"
	"github.com/stepsciences/scanportal/internal/resolver"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node

	companySvc   companydomain.Service
	companyStore companydomain.Store
	adminAuthSvc adminauthdomain.Service
	authzSvc     authorization.Service
	resolver     *resolver.Resolver
	limiter      *ratelimit.ConfigLookupLimiter
	obsMetrics   *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	CompanySvc   companydomain.Service
	CompanyStore companydomain.Store
	AdminAuthSvc adminauthdomain.Service
	AuthzSvc     authorization.Service
	Resolver     *resolver.Resolver
	Limiter      *ratelimit.ConfigLookupLimiter `optional:"true"`
	ObsMetrics   *obsmetrics.Metrics            `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		log:          p.Log.Named("server"),
		genID:        p.GenID,
		companySvc:   p.CompanySvc,
		companyStore: p.CompanyStore,
		adminAuthSvc: p.AdminAuthSvc,
		authzSvc:     p.AuthzSvc,
		resolver:     p.Resolver,
		limiter:      p.Limiter,
		obsMetrics:   p.ObsMetrics,
	}

	svc.registerPublicRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerPublicRoutes() {
	api := s.engine.Group("/api")

	api.GET("/config/:domain", s.ConfigLookupRateLimit(), s.LookupConfig)
	api.GET("/companies", s.ListCompanies)
	api.GET("/companies/:id", s.GetCompanyByID)
	api.GET("/logos", s.ListLogos)

	s.engine.Static("/logos", s.cfg.LogoDir)
}

func (s *Server) registerAdminRoutes() {
	api := s.engine.Group("/api")

	api.POST("/admin/login", s.Login)
	api.POST("/admin/logout", s.Logout)

	admin := api.Group("/admin", s.AuthRequired())
	admin.GET("/me", s.Me)

	admin.GET("/companies", s.RequireAction(authorization.ObjectCompany, authorization.ActionCompanyView), s.AdminListCompanies)
	admin.POST("/companies", s.RequireAction(authorization.ObjectCompany, authorization.ActionCompanyCreate), s.CreateCompany)
	admin.GET("/companies/:id", s.RequireAction(authorization.ObjectCompany, authorization.ActionCompanyView), s.AdminGetCompany)
	admin.PUT("/companies/:id", s.RequireAction(authorization.ObjectCompany, authorization.ActionCompanyUpdate), s.UpdateCompany)
	admin.DELETE("/companies/:id", s.RequireAction(authorization.ObjectCompany, authorization.ActionCompanyDelete), s.DeleteCompany)

	api.POST("/upload-logo", s.AuthRequired(), s.RequireAction(authorization.ObjectLogo, authorization.ActionLogoUpload), s.UploadLogo)
}

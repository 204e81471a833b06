package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/stokra/internal/catalog"
	catalogdomain "github.com/smallbiznis/stokra/internal/catalog/domain"
	"github.com/smallbiznis/stokra/internal/config"
	"github.com/smallbiznis/stokra/internal/finance"
	financedomain "github.com/smallbiznis/stokra/internal/finance/domain"
	"github.com/smallbiznis/stokra/internal/inventory"
	inventorydomain "github.com/smallbiznis/stokra/internal/inventory/domain"
	"github.com/smallbiznis/stokra/internal/location"
	locationdomain "github.com/smallbiznis/stokra/internal/location/domain"
	"github.com/smallbiznis/stokra/internal/order"
	orderdomain "github.com/smallbiznis/stokra/internal/order/domain"
	"github.com/smallbiznis/stokra/internal/pipeline"
	pipelinedomain "github.com/smallbiznis/stokra/internal/pipeline/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	catalog.Module,
	location.Module,
	inventory.Module,
	pipeline.Module,
	order.Module,
	finance.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin() *gin.Engine {
	return NewEngine()
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", srv.Addr))
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
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	genID        *snowflake.Node
	catalogSvc   catalogdomain.Service
	inventorySvc inventorydomain.Service
	orderSvc     orderdomain.Service
	pipelineSvc  pipelinedomain.Service
	financeSvc   financedomain.Service
	locationSvc  locationdomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	CatalogSvc   catalogdomain.Service
	InventorySvc inventorydomain.Service
	OrderSvc     orderdomain.Service
	PipelineSvc  pipelinedomain.Service
	FinanceSvc   financedomain.Service
	LocationSvc  locationdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		catalogSvc:   p.CatalogSvc,
		inventorySvc: p.InventorySvc,
		orderSvc:     p.OrderSvc,
		pipelineSvc:  p.PipelineSvc,
		financeSvc:   p.FinanceSvc,
		locationSvc:  p.LocationSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.Use(s.TenantRequired())

	// -------- Catalog --------
	api.GET("/items", s.ListItems)
	api.POST("/items", s.CreateItem)
	api.GET("/items/:id", s.GetItemByID)
	api.GET("/items/:id/composition", s.GetComposition)
	api.POST("/items/:id/composition", s.AddComposition)
	api.DELETE("/items/:id/composition/:childId", s.RemoveComposition)

	api.GET("/categories", s.ListCategories)
	api.POST("/categories", s.CreateCategory)
	api.GET("/units", s.ListUnits)
	api.POST("/units", s.CreateUnit)

	// -------- Inventory --------
	api.GET("/inventory/levels", s.ListLevels)
	api.GET("/inventory/movements", s.ListMovements)
	api.POST("/inventory/add", s.AddStock)
	api.POST("/inventory/sell", s.SellItem)
	api.POST("/inventory/reserve", s.ReserveStock)

	// -------- Locations --------
	api.GET("/locations", s.ListLocations)
	api.POST("/locations", s.CreateLocation)

	// -------- Pipelines --------
	api.GET("/pipelines", s.ListPipelines)
	api.POST("/pipelines", s.CreatePipeline)
	api.GET("/pipelines/:id/stages", s.ListStages)
	api.POST("/pipelines/:id/stages", s.AddStage)

	// -------- Orders --------
	api.GET("/orders", s.ListOrders)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrderByID)
	api.POST("/orders/:id/items", s.AddOrderItem)
	api.POST("/orders/:id/transition", s.TransitionOrder)

	// -------- Finance --------
	api.GET("/financial-titles", s.ListFinancialTitles)
}

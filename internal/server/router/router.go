package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kuttybrothers/fleetdesk/internal/server/handlers"
	"github.com/kuttybrothers/fleetdesk/internal/service/reporting"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Stock     *handlers.StockHandler
	Customers *handlers.CustomerHandler
	Reports   *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	stock := api.Group("/stock")
	stock.GET("/report", h.Stock.Report)
	stock.GET("/records", h.Stock.Records)
	stock.POST("", h.Stock.Create)
	stock.GET("/brands", h.Stock.Summary(reporting.DimensionBrand))
	stock.GET("/main-types", h.Stock.Summary(reporting.DimensionMainType))
	stock.GET("/sub-types", h.Stock.Summary(reporting.DimensionSubType))
	stock.GET("/attributes", h.Stock.Attributes)

	customers := api.Group("/customers")
	customers.GET("", h.Customers.List)
	customers.POST("", h.Customers.Create)
	customers.PUT("/:id", h.Customers.Update)
	customers.DELETE("/:id", h.Customers.Delete)

	reports := api.Group("/reports")
	reports.GET("/latest", h.Reports.Latest)
	reports.POST("/run", h.Reports.Run)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

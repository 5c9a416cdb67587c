package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kuttybrothers/fleetdesk/internal/domain/models"
	"github.com/kuttybrothers/fleetdesk/internal/service/inventory"
	"github.com/kuttybrothers/fleetdesk/internal/service/reporting"
)

// StockService is the inventory behaviour the stock endpoints need.
type StockService interface {
	AddStock(ctx context.Context, input models.NewStock) (models.InventoryRecord, error)
	Records(ctx context.Context) ([]models.InventoryRecord, error)
	Report(ctx context.Context, opts inventory.ReportOptions) (models.StockReport, error)
	Summary(ctx context.Context, dim reporting.Dimension) ([]models.DimensionTotal, error)
	Attributes(ctx context.Context) (models.AttributeStats, error)
}

// StockHandler serves the stock dashboard endpoints.
type StockHandler struct {
	svc    StockService
	logger *zap.Logger
}

// NewStockHandler constructs the HTTP handler adapter.
func NewStockHandler(svc StockService, logger *zap.Logger) *StockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockHandler{svc: svc, logger: logger}
}

// Report returns the grouped stock table with its totals.
func (h *StockHandler) Report(c *gin.Context) {
	order, err := reporting.ParseOrder(c.Query("order"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.svc.Report(c.Request.Context(), inventory.ReportOptions{
		Query: c.Query("q"),
		Order: order,
	})
	if err != nil {
		h.logger.Error("failed building stock report", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load stock"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// Records lists raw ledger entries, oldest first.
func (h *StockHandler) Records(c *gin.Context) {
	records, err := h.svc.Records(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading stock records", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load stock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

// Create registers a new stock record.
func (h *StockHandler) Create(c *gin.Context) {
	var req models.NewStock
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid stock payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := h.svc.AddStock(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, inventory.ErrInvalidStock) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed adding stock", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to save stock"})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// Summary returns a handler that totals stock along dim.
func (h *StockHandler) Summary(dim reporting.Dimension) gin.HandlerFunc {
	return func(c *gin.Context) {
		totals, err := h.svc.Summary(c.Request.Context(), dim)
		if err != nil {
			h.logger.Error("failed summarizing stock", zap.String("dimension", string(dim)), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load stock"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"dimension": dim, "items": totals})
	}
}

// Attributes returns how many distinct classification values are in use.
func (h *StockHandler) Attributes(c *gin.Context) {
	stats, err := h.svc.Attributes(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading attributes", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load stock"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

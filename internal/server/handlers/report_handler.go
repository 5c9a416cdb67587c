package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kuttybrothers/fleetdesk/internal/domain/models"
	"github.com/kuttybrothers/fleetdesk/internal/repository/mongodb"
)

// ReportArchive looks up archived stock reports.
type ReportArchive interface {
	LatestStockSnapshot(ctx context.Context, path string) (models.StockReportSnapshot, error)
}

// ReportRunner triggers the daily report job outside its schedule.
type ReportRunner interface {
	RunDailyReport(ctx context.Context) error
}

// ReportHandler serves archived reports and manual report runs.
type ReportHandler struct {
	archive ReportArchive
	runner  ReportRunner
	path    string
	logger  *zap.Logger
}

// NewReportHandler constructs the handler. archive may be nil when archiving
// is disabled.
func NewReportHandler(archive ReportArchive, runner ReportRunner, path string, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{archive: archive, runner: runner, path: path, logger: logger}
}

// Latest returns the most recently archived stock report.
func (h *ReportHandler) Latest(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report archive disabled"})
		return
	}

	snapshot, err := h.archive.LatestStockSnapshot(c.Request.Context(), h.path)
	if err != nil {
		if errors.Is(err, mongodb.ErrNoSnapshot) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no report archived yet"})
			return
		}
		h.logger.Error("failed loading archived report", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load report"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// Run builds and distributes the daily report immediately.
func (h *ReportHandler) Run(c *gin.Context) {
	if err := h.runner.RunDailyReport(c.Request.Context()); err != nil {
		h.logger.Error("manual report run failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to build report"})
		return
	}

	c.Status(http.StatusAccepted)
}

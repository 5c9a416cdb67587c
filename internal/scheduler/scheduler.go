package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kuttybrothers/fleetdesk/internal/config"
	"github.com/kuttybrothers/fleetdesk/internal/domain/models"
	"github.com/kuttybrothers/fleetdesk/internal/service/inventory"
	"github.com/kuttybrothers/fleetdesk/internal/service/reporting"
)

// ReportSource builds the stock report the job distributes.
type ReportSource interface {
	Report(ctx context.Context, opts inventory.ReportOptions) (models.StockReport, error)
}

// Archive stores generated reports.
type Archive interface {
	SaveStockSnapshot(ctx context.Context, snapshot models.StockReportSnapshot) error
}

// SheetExporter appends report rows to a spreadsheet.
type SheetExporter interface {
	AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error
}

// Notifier delivers the text digest.
type Notifier interface {
	Notify(ctx context.Context, notification models.Notification) error
}

// Sinks are the optional destinations of the daily report. Nil sinks are skipped.
type Sinks struct {
	Archive  Archive
	Sheet    SheetExporter
	Notifier Notifier
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron    *cron.Cron
	reports ReportSource
	sinks   Sinks
	cfg     config.Config
	logger  *zap.Logger
}

// NewScheduler creates a new scheduler running in the configured timezone.
func NewScheduler(cfg config.Config, reports ReportSource, sinks Sinks, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Reporting.Timezone, err)
	}

	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		reports: reports,
		sinks:   sinks,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// Start registers the daily report job and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.sendDailyReport); err != nil {
		return fmt.Errorf("schedule daily report %q: %w", s.cfg.Reporting.CronSchedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Reporting.CronSchedule), zap.String("timezone", s.cfg.Reporting.Timezone))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendDailyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.RunDailyReport(ctx); err != nil {
		s.logger.Error("daily report failed", zap.Error(err))
	}
}

// RunDailyReport builds the stock report and hands it to every configured
// sink. A failing sink is logged and does not stop the others; only a failure
// to build the report is returned.
func (s *Scheduler) RunDailyReport(ctx context.Context) error {
	s.logger.Info("generating daily stock report")

	report, err := s.reports.Report(ctx, inventory.ReportOptions{})
	if err != nil {
		return fmt.Errorf("build stock report: %w", err)
	}

	if s.sinks.Archive != nil {
		snapshot := models.StockReportSnapshot{
			GeneratedAt: report.GeneratedAt,
			Path:        s.cfg.Store.StockPath,
			Totals:      report.Totals,
			Rows:        report.Rows,
			Warnings:    report.Warnings,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.sinks.Archive.SaveStockSnapshot(ctx, snapshot); err != nil {
			s.logger.Error("failed to archive stock report", zap.Error(err))
		} else {
			s.logger.Info("stock report archived", zap.Int("rows", len(report.Rows)))
		}
	}

	if s.sinks.Sheet != nil {
		if err := s.sinks.Sheet.AppendRows(ctx, s.cfg.Sheets.ReportRange, reporting.SheetRows(report)); err != nil {
			s.logger.Error("failed to export stock report to sheet", zap.Error(err))
		} else {
			s.logger.Info("stock report exported to sheet", zap.String("range", s.cfg.Sheets.ReportRange))
		}
	}

	if s.sinks.Notifier != nil {
		notification := models.Notification{
			To:      s.cfg.WhatsApp.ReportRecipient,
			Message: reporting.FormatDigest(report, s.cfg.Reporting.DigestRows),
		}
		if err := s.sinks.Notifier.Notify(ctx, notification); err != nil {
			s.logger.Error("failed to send stock digest", zap.Error(err))
		} else {
			s.logger.Info("stock digest sent successfully")
		}
	}

	return nil
}

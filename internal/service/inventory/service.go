package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kuttybrothers/fleetdesk/internal/domain/models"
	"github.com/kuttybrothers/fleetdesk/internal/repository/cache"
	"github.com/kuttybrothers/fleetdesk/internal/repository/store"
	"github.com/kuttybrothers/fleetdesk/internal/service/reporting"
)

// ErrInvalidStock indicates the stock payload failed validation.
var ErrInvalidStock = errors.New("invalid stock record")

const (
	reasonMalformed  = "malformed record"
	reasonUnreadable = "unreadable fields: "
)

// ReportOptions narrows and orders a stock report.
type ReportOptions struct {
	Query string
	Order reporting.Order
}

// liveView is the decoded form of the latest snapshot the watcher received.
type liveView struct {
	records  []models.InventoryRecord
	warnings []models.RecordWarning
}

// Service manages the inventory ledger and derives reports from it.
type Service struct {
	store  store.Store
	cache  cache.SnapshotCache
	path   string
	logger *zap.Logger
	now    func() time.Time
	live   atomic.Pointer[liveView]
}

// NewService wires an inventory service over the records under path. cache
// may be nil.
func NewService(st store.Store, snapshotCache cache.SnapshotCache, path string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  st,
		cache:  snapshotCache,
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

// AddStock validates input and appends a new ledger record.
func (s *Service) AddStock(ctx context.Context, input models.NewStock) (models.InventoryRecord, error) {
	record, err := s.buildRecord(input)
	if err != nil {
		return models.InventoryRecord{}, err
	}

	id, err := s.store.Append(ctx, s.path, record)
	if err != nil {
		return models.InventoryRecord{}, fmt.Errorf("append stock record: %w", err)
	}
	record.ID = id

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, s.path); err != nil {
			s.logger.Warn("failed to invalidate snapshot cache", zap.Error(err))
		}
	}
	s.refreshLiveView(ctx)

	s.logger.Info("stock record added",
		zap.String("id", id),
		zap.String("item", record.ItemName),
		zap.String("status", string(record.Status)),
		zap.Int("count", int(record.Count)))
	return record, nil
}

// Records returns every inventory record, oldest first. While Watch runs,
// writes made outside this service show up after the next subscription update.
func (s *Service) Records(ctx context.Context) ([]models.InventoryRecord, error) {
	view, err := s.view(ctx)
	if err != nil {
		return nil, err
	}
	return view.records, nil
}

func (s *Service) view(ctx context.Context) (*liveView, error) {
	if view := s.live.Load(); view != nil {
		return view, nil
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.decode(snap), nil
}

// refreshLiveView re-reads the store after a write so the writer sees its own
// record without waiting for the next subscription update.
func (s *Service) refreshLiveView(ctx context.Context) {
	if s.live.Load() == nil {
		return
	}
	snap, err := s.store.Get(ctx, s.path)
	if err != nil {
		s.logger.Warn("failed to refresh inventory view", zap.Error(err))
		return
	}
	s.live.Store(s.decode(snap))
}

// Report aggregates the current records. Totals always cover the whole
// inventory; the query only narrows the returned rows.
func (s *Service) Report(ctx context.Context, opts ReportOptions) (models.StockReport, error) {
	view, err := s.view(ctx)
	if err != nil {
		return models.StockReport{}, err
	}

	result := reporting.Aggregate(view.records, opts.Order)
	for _, w := range result.Warnings {
		s.logger.Warn("stock record skipped",
			zap.String("id", w.RecordID),
			zap.String("status", w.Status),
			zap.String("reason", w.Reason))
	}

	warnings := make([]models.RecordWarning, 0, len(view.warnings)+len(result.Warnings))
	warnings = append(warnings, view.warnings...)
	warnings = append(warnings, result.Warnings...)

	return models.StockReport{
		GeneratedAt: s.now().UTC(),
		Totals:      reporting.Totals(result.Rows),
		Rows:        reporting.Filter(result.Rows, opts.Query),
		Warnings:    warnings,
	}, nil
}

// Summary totals the inventory along one classification dimension.
func (s *Service) Summary(ctx context.Context, dim reporting.Dimension) ([]models.DimensionTotal, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	return reporting.SummarizeBy(records, dim)
}

// Brands totals the inventory per brand.
func (s *Service) Brands(ctx context.Context) ([]models.DimensionTotal, error) {
	return s.Summary(ctx, reporting.DimensionBrand)
}

// MainTypes totals the inventory per main type.
func (s *Service) MainTypes(ctx context.Context) ([]models.DimensionTotal, error) {
	return s.Summary(ctx, reporting.DimensionMainType)
}

// SubTypes totals the inventory per sub type.
func (s *Service) SubTypes(ctx context.Context) ([]models.DimensionTotal, error) {
	return s.Summary(ctx, reporting.DimensionSubType)
}

// Attributes counts the classification values in use.
func (s *Service) Attributes(ctx context.Context) (models.AttributeStats, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return models.AttributeStats{}, err
	}
	return reporting.Attributes(records), nil
}

// Watch follows the store subscription until ctx is done, replacing the live
// view with every snapshot delivered. Intermediate snapshots are never merged.
func (s *Service) Watch(ctx context.Context) error {
	updates, err := s.store.Subscribe(ctx, s.path)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", s.path, err)
	}

	s.logger.Info("watching inventory", zap.String("path", s.path))
	defer s.live.Store(nil)

	for snap := range updates {
		view := s.decode(snap)
		s.live.Store(view)
		s.logger.Debug("inventory snapshot applied", zap.Int("records", len(view.records)))
	}

	return ctx.Err()
}

func (s *Service) loadSnapshot(ctx context.Context) (store.Snapshot, error) {
	if s.cache != nil {
		snap, err := s.cache.Load(ctx, s.path)
		if err == nil {
			return snap, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("snapshot cache read failed", zap.Error(err))
		}
	}

	snap, err := s.store.Get(ctx, s.path)
	if err != nil {
		return nil, fmt.Errorf("load inventory snapshot: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, s.path, snap); err != nil {
			s.logger.Warn("snapshot cache write failed", zap.Error(err))
		}
	}
	return snap, nil
}

// decode turns a snapshot into records sorted by creation time. Entries that
// are not JSON objects are skipped, and they and records with unreadable
// fields are reported as warnings.
func (s *Service) decode(snap store.Snapshot) *liveView {
	records := make([]models.InventoryRecord, 0, len(snap))
	var malformed []models.RecordWarning
	for id, raw := range snap {
		var record models.InventoryRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			s.logger.Warn("skip malformed stock record", zap.String("id", id), zap.Error(err))
			malformed = append(malformed, models.RecordWarning{RecordID: id, Reason: reasonMalformed})
			continue
		}
		record.ID = id
		records = append(records, record)
	}
	models.SortByCreatedAt(records)
	sort.Slice(malformed, func(i, j int) bool { return malformed[i].RecordID < malformed[j].RecordID })

	warnings := malformed
	for _, record := range records {
		if len(record.Unreadable) == 0 {
			continue
		}
		s.logger.Warn("stock record has unreadable fields",
			zap.String("id", record.ID),
			zap.Strings("fields", record.Unreadable))
		warnings = append(warnings, models.RecordWarning{
			RecordID: record.ID,
			Key:      record.Key().String(),
			Status:   string(record.Status),
			Reason:   reasonUnreadable + strings.Join(record.Unreadable, ", "),
		})
	}

	return &liveView{records: records, warnings: warnings}
}

func (s *Service) buildRecord(input models.NewStock) (models.InventoryRecord, error) {
	record := models.InventoryRecord{
		ItemName:    strings.TrimSpace(input.ItemName),
		Brand:       strings.TrimSpace(input.Brand),
		MainType:    strings.TrimSpace(input.MainType),
		SubType:     strings.TrimSpace(input.SubType),
		MainCode:    strings.TrimSpace(input.MainCode),
		SubCode:     strings.TrimSpace(input.SubCode),
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   s.now().UnixMilli(),
	}

	if record.ItemName == "" || record.Brand == "" || record.MainCode == "" {
		return models.InventoryRecord{}, fmt.Errorf("%w: item name, brand and main code are required", ErrInvalidStock)
	}

	switch {
	case input.Count == nil:
		record.Count = 1
	case *input.Count < 0:
		return models.InventoryRecord{}, fmt.Errorf("%w: count must not be negative", ErrInvalidStock)
	default:
		record.Count = models.Quantity(*input.Count)
	}

	record.Status = models.StatusAvailable
	if strings.TrimSpace(input.Status) != "" {
		status, ok := models.ParseStockStatus(input.Status)
		if !ok {
			return models.InventoryRecord{}, fmt.Errorf("%w: unknown status %q", ErrInvalidStock, input.Status)
		}
		record.Status = status
	}

	return record, nil
}

package reporting

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuttybrothers/fleetdesk/internal/domain/models"
)

func TestTotals(t *testing.T) {
	records := []models.InventoryRecord{
		record("1", "Drill", "Bosch", "M1", "S1", models.StatusAvailable, 4),
		record("2", "Drill", "Bosch", "M1", "S1", models.StatusRepairing, 2),
		record("3", "Saw", "Makita", "M2", "S1", models.StatusDamaged, 1),
		record("4", "Saw", "Makita", "M2", "S1", models.StatusExpired, 3),
		record("5", "Saw", "Makita", "M2", "S1", models.StatusRented, 5),
	}

	totals := Totals(Aggregate(records, OrderNewestFirst).Rows)

	assert.Equal(t, models.StockTotals{
		FleetCapacity:    15,
		ReadyToDeploy:    4,
		UnderMaintenance: 2,
		OperationalRisk:  4,
	}, totals)
}

func TestFilter(t *testing.T) {
	rows := Aggregate(scenarioRecords(), OrderFirstSeen).Rows

	assert.Len(t, Filter(rows, ""), 2)
	assert.Len(t, Filter(rows, "   "), 2)
	assert.Len(t, Filter(rows, "bosch"), 2)

	byName := Filter(rows, "MIX")
	require.Len(t, byName, 1)
	assert.Equal(t, "Mixer", byName[0].ItemName)

	byCode := Filter(rows, "m1")
	require.Len(t, byCode, 1)
	assert.Equal(t, "Drill", byCode[0].ItemName)

	assert.Empty(t, Filter(rows, "S1"), "sub code is not searched")
}

func TestSummarizeBy(t *testing.T) {
	records := []models.InventoryRecord{
		{Brand: "Bosch", MainType: "Power Tools", Count: 3},
		{Brand: "Makita", MainType: "Power Tools", Count: 10},
		{Brand: "Bosch", SubType: "Cordless", Count: 4},
		{Brand: "", Count: 2},
	}

	brands, err := SummarizeBy(records, DimensionBrand)
	require.NoError(t, err)
	assert.Equal(t, []models.DimensionTotal{
		{Name: "Makita", ItemCount: 1, TotalQuantity: 10},
		{Name: "Bosch", ItemCount: 2, TotalQuantity: 7},
		{Name: UnknownLabel, ItemCount: 1, TotalQuantity: 2},
	}, brands)

	mainTypes, err := SummarizeBy(records, DimensionMainType)
	require.NoError(t, err)
	assert.Equal(t, []models.DimensionTotal{
		{Name: "Power Tools", ItemCount: 2, TotalQuantity: 13},
		{Name: UncategorizedLabel, ItemCount: 2, TotalQuantity: 6},
	}, mainTypes)

	subTypes, err := SummarizeBy(records, DimensionSubType)
	require.NoError(t, err)
	assert.Equal(t, NoSubTypeLabel, subTypes[0].Name)
	assert.Equal(t, 15, subTypes[0].TotalQuantity)

	_, err = SummarizeBy(records, Dimension("colour"))
	assert.Error(t, err)
}

func TestSummarizeBy_TiesOrderedByName(t *testing.T) {
	records := []models.InventoryRecord{
		{Brand: "Zeta", Count: 1},
		{Brand: "Alpha", Count: 1},
	}

	brands, err := SummarizeBy(records, DimensionBrand)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", brands[0].Name)
	assert.Equal(t, "Zeta", brands[1].Name)
}

func TestAttributes(t *testing.T) {
	records := []models.InventoryRecord{
		{Brand: "Bosch", MainType: "Power Tools", SubType: "Corded", Count: 3},
		{Brand: "Bosch", MainType: "Lifting", SubType: "", Count: 2},
		{Brand: "", MainType: "Lifting", SubType: "Chain", Count: 1},
	}

	assert.Equal(t, models.AttributeStats{
		Brands:     1,
		MainTypes:  2,
		SubTypes:   2,
		TotalItems: 6,
	}, Attributes(records))
}

func TestFormatDigest(t *testing.T) {
	records := append(scenarioRecords(), record("x", "Drill", "Bosch", "M1", "S1", "Lost", 1))
	result := Aggregate(records, OrderNewestFirst)
	report := models.StockReport{
		GeneratedAt: time.Date(2026, 3, 4, 20, 0, 0, 0, time.UTC),
		Totals:      Totals(result.Rows),
		Rows:        result.Rows,
		Warnings:    result.Warnings,
	}

	digest := FormatDigest(report, 1)

	assert.True(t, strings.HasPrefix(digest, "Stock report 2026-03-04"))
	assert.Contains(t, digest, "Fleet capacity: 10")
	assert.Contains(t, digest, "- Mixer (Bosch M2): 5 total, 5 available, 0 rented")
	assert.Contains(t, digest, "...and 1 more")
	assert.Contains(t, digest, "1 record(s) skipped")

	empty := FormatDigest(models.StockReport{GeneratedAt: report.GeneratedAt}, 5)
	assert.Contains(t, empty, "No stock registered yet.")
}

func TestSheetRows(t *testing.T) {
	result := Aggregate(scenarioRecords(), OrderFirstSeen)
	report := models.StockReport{
		GeneratedAt: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		Rows:        result.Rows,
	}

	rows := SheetRows(report)

	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 7+len(models.StockStatuses)+1)
	assert.Equal(t, "2026-03-04", rows[0][0])
	assert.Equal(t, "Drill", rows[0][1])
	assert.Equal(t, 3, rows[0][7])
	assert.Equal(t, 2, rows[0][8])
	assert.Equal(t, 5, rows[0][len(rows[0])-1])
}

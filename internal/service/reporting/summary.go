package reporting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kuttybrothers/fleetdesk/internal/domain/models"
)

const dateLayout = "2006-01-02"

// Dimension is a single classification field stock can be summarized by.
type Dimension string

const (
	DimensionBrand    Dimension = "brand"
	DimensionMainType Dimension = "mainType"
	DimensionSubType  Dimension = "subType"
)

// Totals computes the headline figures for a set of grouped rows.
func Totals(rows []models.GroupedStockRow) models.StockTotals {
	var totals models.StockTotals
	for _, row := range rows {
		totals.FleetCapacity += row.TotalSum
		totals.ReadyToDeploy += row.Counts[models.StatusAvailable]
		totals.UnderMaintenance += row.Counts[models.StatusRepairing]
		totals.OperationalRisk += row.Counts[models.StatusDamaged] + row.Counts[models.StatusExpired]
	}
	return totals
}

// Filter keeps rows whose item name, brand or main code contains query,
// ignoring case. A blank query returns rows unchanged.
func Filter(rows []models.GroupedStockRow, query string) []models.GroupedStockRow {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return rows
	}

	filtered := make([]models.GroupedStockRow, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.ItemName), needle) ||
			strings.Contains(strings.ToLower(row.Brand), needle) ||
			strings.Contains(strings.ToLower(row.MainCode), needle) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// SummarizeBy totals records per value of the given dimension, largest first.
// Empty values are counted under the dimension's placeholder label.
func SummarizeBy(records []models.InventoryRecord, dim Dimension) ([]models.DimensionTotal, error) {
	label, err := dimensionLabel(dim)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	totals := make([]models.DimensionTotal, 0)
	for _, record := range records {
		name := label(record)
		pos, ok := index[name]
		if !ok {
			pos = len(totals)
			index[name] = pos
			totals = append(totals, models.DimensionTotal{Name: name})
		}
		totals[pos].ItemCount++
		totals[pos].TotalQuantity += int(record.Count)
	}

	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].TotalQuantity != totals[j].TotalQuantity {
			return totals[i].TotalQuantity > totals[j].TotalQuantity
		}
		return totals[i].Name < totals[j].Name
	})
	return totals, nil
}

func dimensionLabel(dim Dimension) (func(models.InventoryRecord) string, error) {
	switch dim {
	case DimensionBrand:
		return func(r models.InventoryRecord) string { return labelOr(r.Brand, UnknownLabel) }, nil
	case DimensionMainType:
		return func(r models.InventoryRecord) string { return labelOr(r.MainType, UncategorizedLabel) }, nil
	case DimensionSubType:
		return func(r models.InventoryRecord) string { return labelOr(r.SubType, NoSubTypeLabel) }, nil
	}
	return nil, fmt.Errorf("unsupported dimension %q", dim)
}

// Attributes counts distinct non-empty brands, main types and sub types.
func Attributes(records []models.InventoryRecord) models.AttributeStats {
	brands := make(map[string]struct{})
	mainTypes := make(map[string]struct{})
	subTypes := make(map[string]struct{})

	var stats models.AttributeStats
	for _, record := range records {
		if record.Brand != "" {
			brands[record.Brand] = struct{}{}
		}
		if record.MainType != "" {
			mainTypes[record.MainType] = struct{}{}
		}
		if record.SubType != "" {
			subTypes[record.SubType] = struct{}{}
		}
		stats.TotalItems += int(record.Count)
	}

	stats.Brands = len(brands)
	stats.MainTypes = len(mainTypes)
	stats.SubTypes = len(subTypes)
	return stats
}

// FormatDigest renders a short text summary of a report for messaging.
func FormatDigest(report models.StockReport, limit int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Stock report %s\n", report.GeneratedAt.Format(dateLayout))
	fmt.Fprintf(&b, "Fleet capacity: %d\n", report.Totals.FleetCapacity)
	fmt.Fprintf(&b, "Ready to deploy: %d\n", report.Totals.ReadyToDeploy)
	fmt.Fprintf(&b, "Under maintenance: %d\n", report.Totals.UnderMaintenance)
	fmt.Fprintf(&b, "Operational risk: %d", report.Totals.OperationalRisk)

	if len(report.Rows) == 0 {
		b.WriteString("\nNo stock registered yet.")
		return b.String()
	}

	shown := report.Rows
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, row := range shown {
		fmt.Fprintf(&b, "\n- %s (%s %s): %d total, %d available, %d rented",
			row.ItemName, row.Brand, row.MainCode, row.TotalSum,
			row.Counts[models.StatusAvailable], row.Counts[models.StatusRented])
	}
	if rest := len(report.Rows) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "\n...and %d more", rest)
	}
	if len(report.Warnings) > 0 {
		fmt.Fprintf(&b, "\n%d record(s) skipped for unknown status.", len(report.Warnings))
	}
	return b.String()
}

// SheetRows flattens a report into spreadsheet rows, one per grouped row,
// prefixed with the report date.
func SheetRows(report models.StockReport) [][]interface{} {
	date := report.GeneratedAt.Format(dateLayout)
	rows := make([][]interface{}, 0, len(report.Rows))
	for _, row := range report.Rows {
		values := []interface{}{
			date, row.ItemName, row.Brand, row.MainType, row.SubType, row.MainCode, row.SubCode,
		}
		for _, status := range models.StockStatuses {
			values = append(values, row.Counts[status])
		}
		values = append(values, row.TotalSum)
		rows = append(rows, values)
	}
	return rows
}

func labelOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

package reporting

import (
	"fmt"

	"github.com/kuttybrothers/fleetdesk/internal/domain/models"
)

// Placeholder labels used when a descriptive field is empty.
const (
	UnknownLabel       = "Unknown"
	UncategorizedLabel = "Uncategorized"
	NoSubTypeLabel     = "No Sub-type"
)

// Order selects the order in which grouped rows are emitted.
type Order string

const (
	// OrderNewestFirst emits the most recently introduced group first.
	OrderNewestFirst Order = "newest"
	// OrderFirstSeen emits groups in the order their first record appeared.
	OrderFirstSeen Order = "first-seen"
)

// ParseOrder maps a query value onto an Order, defaulting to OrderNewestFirst.
func ParseOrder(value string) (Order, error) {
	switch Order(value) {
	case "", OrderNewestFirst:
		return OrderNewestFirst, nil
	case OrderFirstSeen:
		return OrderFirstSeen, nil
	}
	return "", fmt.Errorf("unsupported order %q", value)
}

// Result is the outcome of one aggregation pass.
type Result struct {
	Rows     []models.GroupedStockRow
	Warnings []models.RecordWarning
}

// Aggregate groups inventory records by (item name, brand, main code, sub
// code) and sums their counts per status. Records with an unrecognized status
// are left out entirely and reported in Result.Warnings. Aggregate holds no
// state between calls.
func Aggregate(records []models.InventoryRecord, order Order) Result {
	index := make(map[models.StockKey]int, len(records))
	rows := make([]models.GroupedStockRow, 0)
	var warnings []models.RecordWarning

	for _, record := range records {
		key := record.Key()

		status, ok := models.ParseStockStatus(string(record.Status))
		if !ok {
			warnings = append(warnings, models.RecordWarning{
				RecordID: record.ID,
				Key:      key.String(),
				Status:   string(record.Status),
				Reason:   "unknown status",
			})
			continue
		}

		pos, exists := index[key]
		if !exists {
			pos = len(rows)
			index[key] = pos
			rows = append(rows, newRow(key, record))
		}

		count := int(record.Count)
		row := &rows[pos]
		row.Counts[status] += count
		row.TotalSum += count
		row.Records++
	}

	if order != OrderFirstSeen {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}

	return Result{Rows: rows, Warnings: warnings}
}

func newRow(key models.StockKey, seed models.InventoryRecord) models.GroupedStockRow {
	return models.GroupedStockRow{
		Key:         key.String(),
		ItemName:    labelOr(seed.ItemName, UnknownLabel),
		Brand:       labelOr(seed.Brand, UnknownLabel),
		MainType:    labelOr(seed.MainType, UncategorizedLabel),
		SubType:     labelOr(seed.SubType, NoSubTypeLabel),
		MainCode:    seed.MainCode,
		SubCode:     seed.SubCode,
		Description: seed.Description,
		Counts:      models.NewStatusCounts(),
		FirstSeenAt: seed.CreatedAt,
	}
}

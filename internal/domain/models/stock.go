package models

import (
	"sort"
	"strings"
	"time"
)

// StockStatus is the state a unit of inventory is currently in.
type StockStatus string

const (
	StatusAvailable StockStatus = "Available"
	StatusRented    StockStatus = "Rented"
	StatusDamaged   StockStatus = "Damaged"
	StatusRepairing StockStatus = "Repairing"
	StatusExpired   StockStatus = "Expired"
	StatusBlocked   StockStatus = "Blocked"
	StatusReserved  StockStatus = "Reserved"
	StatusPending   StockStatus = "Pending"
)

// StockStatuses lists every status bucket in report column order.
var StockStatuses = []StockStatus{
	StatusAvailable,
	StatusRented,
	StatusDamaged,
	StatusRepairing,
	StatusExpired,
	StatusBlocked,
	StatusReserved,
	StatusPending,
}

// ParseStockStatus maps free-form input onto a known status. Matching ignores
// case and surrounding whitespace.
func ParseStockStatus(value string) (StockStatus, bool) {
	normalized := strings.TrimSpace(value)
	for _, status := range StockStatuses {
		if strings.EqualFold(normalized, string(status)) {
			return status, true
		}
	}
	return "", false
}

// InventoryRecord is one physical-asset ledger entry as persisted under the
// stock path. ID is the store-assigned key.
type InventoryRecord struct {
	ID          string      `json:"id,omitempty"`
	ItemName    string      `json:"itemName"`
	Brand       string      `json:"brand"`
	MainType    string      `json:"mainType"`
	SubType     string      `json:"subType"`
	MainCode    string      `json:"mainCode"`
	SubCode     string      `json:"subCode"`
	Description string      `json:"description"`
	Count       Quantity    `json:"count"`
	Status      StockStatus `json:"status"`
	CreatedAt   int64       `json:"createdAt"` // unix millis

	// Unreadable lists stored fields whose value could not be interpreted and
	// was replaced by the zero value while decoding.
	Unreadable []string `json:"-"`
}

// CreatedTime converts the stored millisecond timestamp to a time.Time.
func (r InventoryRecord) CreatedTime() time.Time {
	return time.UnixMilli(r.CreatedAt).UTC()
}

// Key returns the grouping tuple of the record.
func (r InventoryRecord) Key() StockKey {
	return StockKey{
		ItemName: r.ItemName,
		Brand:    r.Brand,
		MainCode: r.MainCode,
		SubCode:  r.SubCode,
	}
}

// SortByCreatedAt orders records oldest first. Records sharing a timestamp
// are ordered by id so the result does not depend on store iteration order.
func SortByCreatedAt(records []InventoryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].CreatedAt != records[j].CreatedAt {
			return records[i].CreatedAt < records[j].CreatedAt
		}
		return records[i].ID < records[j].ID
	})
}

// StockKey identifies one stock-keeping unit across status buckets.
type StockKey struct {
	ItemName string
	Brand    string
	MainCode string
	SubCode  string
}

var keyEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`)

// String renders the key with each field escaped, so distinct tuples never
// render to the same string.
func (k StockKey) String() string {
	return strings.Join([]string{
		keyEscaper.Replace(k.ItemName),
		keyEscaper.Replace(k.Brand),
		keyEscaper.Replace(k.MainCode),
		keyEscaper.Replace(k.SubCode),
	}, "|")
}

// StatusCounts holds per-status unit counts for a grouped row.
type StatusCounts map[StockStatus]int

// NewStatusCounts returns counts with every status present and zeroed.
func NewStatusCounts() StatusCounts {
	counts := make(StatusCounts, len(StockStatuses))
	for _, status := range StockStatuses {
		counts[status] = 0
	}
	return counts
}

// Sum adds up every bucket.
func (c StatusCounts) Sum() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// GroupedStockRow is one line of the stock report.
type GroupedStockRow struct {
	Key         string       `json:"key" bson:"key"`
	ItemName    string       `json:"itemName" bson:"item_name"`
	Brand       string       `json:"brand" bson:"brand"`
	MainType    string       `json:"mainType" bson:"main_type"`
	SubType     string       `json:"subType" bson:"sub_type"`
	MainCode    string       `json:"mainCode" bson:"main_code"`
	SubCode     string       `json:"subCode" bson:"sub_code"`
	Description string       `json:"description" bson:"description"`
	Counts      StatusCounts `json:"counts" bson:"counts"`
	TotalSum    int          `json:"totalSum" bson:"total_sum"`
	Records     int          `json:"records" bson:"records"`
	FirstSeenAt int64        `json:"firstSeenAt" bson:"first_seen_at"`
}

// RecordWarning flags a record that was left out of the aggregation, or that
// was counted with some of its stored fields unreadable.
type RecordWarning struct {
	RecordID string `json:"recordId" bson:"record_id"`
	Key      string `json:"key" bson:"key"`
	Status   string `json:"status" bson:"status"`
	Reason   string `json:"reason" bson:"reason"`
}

// StockTotals are the headline figures shown above the stock table.
type StockTotals struct {
	FleetCapacity    int `json:"fleetCapacity" bson:"fleet_capacity"`
	ReadyToDeploy    int `json:"readyToDeploy" bson:"ready_to_deploy"`
	UnderMaintenance int `json:"underMaintenance" bson:"under_maintenance"`
	OperationalRisk  int `json:"operationalRisk" bson:"operational_risk"`
}

// DimensionTotal summarizes stock under one brand, main type or sub type.
type DimensionTotal struct {
	Name          string `json:"name"`
	ItemCount     int    `json:"itemCount"`
	TotalQuantity int    `json:"totalQuantity"`
}

// AttributeStats counts the distinct classification values in use.
type AttributeStats struct {
	Brands     int `json:"brands"`
	MainTypes  int `json:"mainTypes"`
	SubTypes   int `json:"subTypes"`
	TotalItems int `json:"totalItems"`
}

// NewStock is the payload accepted when registering stock.
type NewStock struct {
	ItemName    string `json:"itemName"`
	Brand       string `json:"brand"`
	MainType    string `json:"mainType"`
	SubType     string `json:"subType"`
	MainCode    string `json:"mainCode"`
	SubCode     string `json:"subCode"`
	Description string `json:"description"`
	Count       *int   `json:"count"` // nil means 1
	Status      string `json:"status"`
}

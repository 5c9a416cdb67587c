package models

import "time"

// StockReport is the aggregated view served to the dashboard.
type StockReport struct {
	GeneratedAt time.Time         `json:"generatedAt"`
	Totals      StockTotals       `json:"totals"`
	Rows        []GroupedStockRow `json:"rows"`
	Warnings    []RecordWarning   `json:"warnings"`
}

// StockReportSnapshot is the archived copy of a report stored in MongoDB.
type StockReportSnapshot struct {
	GeneratedAt time.Time         `bson:"generated_at" json:"generated_at"`
	Path        string            `bson:"path" json:"path"`
	Totals      StockTotals       `bson:"totals" json:"totals"`
	Rows        []GroupedStockRow `bson:"rows" json:"rows"`
	Warnings    []RecordWarning   `bson:"warnings" json:"warnings"`
	CreatedAt   time.Time         `bson:"created_at" json:"created_at"`
}

package models

import (
	"math"

	"github.com/goccy/go-json"
)

// Metric names the quantity measured for a format in a given year.
type Metric string

const (
	MetricUnits Metric = "Units"
	MetricValue Metric = "Value"
)

// Fixed allow-lists of the formats the dashboard plots.
var (
	PhysicalFormats = []string{"LP/EP", "Cassette", "CD", "Vinyl Single"}
	DigitalFormats  = []string{"Download Album", "Download Single", "Paid Subscription", "On-Demand Streaming"}
)

// SalesRecord is one (Year, Format, Metric) measurement.
// Value is millions of units for MetricUnits and millions of USD for MetricValue.
type SalesRecord struct {
	Year   int     `json:"year"`
	Format string  `json:"format"`
	Metric Metric  `json:"metric"`
	Value  float64 `json:"value"`
}

// HasValue reports whether the record carries a measurement. Records read
// from an empty or NaN cell hold NaN.
func (r SalesRecord) HasValue() bool {
	return !math.IsNaN(r.Value)
}

// MarshalJSON writes a missing value as null.
func (r SalesRecord) MarshalJSON() ([]byte, error) {
	var value *float64
	if r.HasValue() {
		value = &r.Value
	}
	return json.Marshal(struct {
		Year   int      `json:"year"`
		Format string   `json:"format"`
		Metric Metric   `json:"metric"`
		Value  *float64 `json:"value"`
	}{r.Year, r.Format, r.Metric, value})
}

// Point is a single year on a format's line.
type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Series is one line of a chart.
type Series struct {
	Format string  `json:"format"`
	Points []Point `json:"points"`
}

type RecordPage struct {
	Data   []SalesRecord `json:"data"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

type ChartData struct {
	Name   string   `json:"name"`
	Title  string   `json:"title"`
	YLabel string   `json:"y_label"`
	Legend string   `json:"legend"`
	Series []Series `json:"series"`
}

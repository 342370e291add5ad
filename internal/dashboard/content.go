package dashboard

import (
	"musicsales/internal/charts"
	"musicsales/internal/engine"
)

// Chart names used in URLs.
const (
	ChartUnits   = "units"
	ChartRevenue = "revenue"
	ChartDigital = "digital"
)

// Tab ids used in the tab query parameter.
const (
	TabUnits   = "units"
	TabRevenue = "revenue"
)

const (
	unitsLabel   = "Units Sold (Millions)"
	revenueLabel = "Revenue Generated (Millions USD)"
)

type chartSpec struct {
	def  charts.Definition
	view func(engine.Views) *engine.Table
}

var chartSpecs = map[string]chartSpec{
	ChartUnits: {
		def:  charts.Definition{Name: ChartUnits, YLabel: unitsLabel, Legend: "Music Format", Dashed: true},
		view: func(v engine.Views) *engine.Table { return v.Units },
	},
	ChartRevenue: {
		def:  charts.Definition{Name: ChartRevenue, YLabel: revenueLabel, Legend: "Music Format", Dashed: true},
		view: func(v engine.Views) *engine.Table { return v.Value },
	},
	ChartDigital: {
		def: charts.Definition{
			Name:   ChartDigital,
			Title:  "The Rise of Digital Formats (Revenue)",
			YLabel: revenueLabel,
			Legend: "Digital Format",
		},
		view: func(v engine.Views) *engine.Table { return v.DigitalValue },
	},
}

// HasChart reports whether name is a known chart.
func HasChart(name string) bool {
	_, ok := chartSpecs[name]
	return ok
}

// ChartNames lists the charts in page order.
var ChartNames = []string{ChartUnits, ChartRevenue, ChartDigital}

const (
	pageTitle  = "Music Industry Trends in Sales by Format and Year (1973 - 2019)"
	sourceName = "kaggle"
	sourceURL  = "https://www.kaggle.com/datasets/thedevastator/music-sales-by-format-and-year"
	curatedBy  = "Charlie Hutcheson"
	subheader  = "In this section we are going to explore trends in the music industry over the last four decades, " +
		"focusing on the resurgence of vinyl records, the decline of CDs, and the rise of digital formats such as downloads and streaming."
)

type tabContent struct {
	ID          string
	Label       string
	Header      string
	Description string
	Chart       string
}

var tabs = []tabContent{
	{
		ID:     TabUnits,
		Label:  "Units Sold",
		Header: "Trend of Music Sales by Format Over Time (Units Sold)",
		Description: "This visualization shows the number of units sold over time for different physical and digital formats. " +
			"You can observe the decline in physical formats like CDs and the corresponding rise in digital formats, particularly streaming.",
		Chart: ChartUnits,
	},
	{
		ID:     TabRevenue,
		Label:  "Revenue",
		Header: "Trend of Music Sales by Format Over Time (Revenue)",
		Description: "This visualization tracks the revenue generated by different formats over time. " +
			"It highlights the dramatic growth in revenue from streaming services, which has largely replaced the revenue from physical formats like CDs.",
		Chart: ChartRevenue,
	},
}

type Bullet struct {
	Term string
	Text string
}

var metricExplainer = []Bullet{
	{"Units Sold", "This measures the number of physical or digital items sold, such as individual records, CDs, downloads, or subscriptions. " +
		"It reflects consumer activity in purchasing or subscribing to music services."},
	{"Revenue", "This reflects the total income generated from sales of these units. " +
		"It includes the price per unit and other factors like the cost of a streaming subscription, which may not directly correlate to the number of units sold."},
}

const (
	digitalHeader      = "The Rise of Digital Formats (Downloads and Streaming)"
	digitalDescription = "This visualization focuses on the rise of digital formats, including downloads and streaming, and their relationship with physical formats. " +
		"As digital formats grew, particularly streaming, there was a significant decline in physical formats, especially CDs."
)

var keyInsights = []Bullet{
	{"Streaming's Dominance", "Streaming has become the dominant revenue stream in the music industry, surpassing all other formats, including physical and digital downloads."},
	{"Impact on Physical Formats", "The rise of streaming, especially after 2010, coincides with the sharp decline in physical formats, particularly CDs."},
	{"Transition from Downloads", "Digital downloads, which were popular in the early 2000s, have also seen a decline as streaming services became more prevalent."},
}

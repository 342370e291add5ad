package dashboard

import (
	"net/url"
	"strconv"

	"github.com/dustin/go-humanize"
)

// PageRequest holds the page's view switches.
type PageRequest struct {
	Tab string `query:"tab" validate:"omitempty,oneof=units revenue"`
	Raw bool   `query:"raw"`
}

type Page struct {
	Title      string
	SourceName string
	SourceURL  string
	CuratedBy  string
	Subheader  string

	ShowRaw    bool
	RawToggle  string
	RawColumns []string
	RawRows    []RawRow

	Tabs   []TabView
	Active TabView

	MetricExplainer []Bullet

	DigitalHeader      string
	DigitalDescription string
	DigitalChart       ChartView

	KeyInsights []Bullet
}

type TabView struct {
	ID          string
	Label       string
	Header      string
	Description string
	Link        string
	Active      bool
	Chart       ChartView
}

type ChartView struct {
	Name   string
	URL    string
	Legend string
	Alt    string
}

type RawRow struct {
	Year   string
	Format string
	Metric string
	Value  string
}

// BuildPage assembles the page for one request. An empty Tab means the first tab.
func BuildPage(d *Dashboard, req PageRequest) Page {
	active := req.Tab
	if active == "" {
		active = TabUnits
	}

	p := Page{
		Title:              pageTitle,
		SourceName:         sourceName,
		SourceURL:          sourceURL,
		CuratedBy:          curatedBy,
		Subheader:          subheader,
		ShowRaw:            req.Raw,
		RawToggle:          pageLink(active, !req.Raw),
		MetricExplainer:    metricExplainer,
		DigitalHeader:      digitalHeader,
		DigitalDescription: digitalDescription,
		DigitalChart:       chartView(ChartDigital),
		KeyInsights:        keyInsights,
	}

	for _, tc := range tabs {
		tv := TabView{
			ID:          tc.ID,
			Label:       tc.Label,
			Header:      tc.Header,
			Description: tc.Description,
			Link:        pageLink(tc.ID, req.Raw),
			Active:      tc.ID == active,
			Chart:       chartView(tc.Chart),
		}
		if tv.Active {
			p.Active = tv
		}
		p.Tabs = append(p.Tabs, tv)
	}

	if req.Raw {
		p.RawColumns = []string{"Year", "Format", "Metric", "Value (Actual)"}
		p.RawRows = make([]RawRow, 0, d.Raw.Len())
		for _, r := range d.Raw.Records() {
			row := RawRow{
				Year:   strconv.Itoa(r.Year),
				Format: r.Format,
				Metric: string(r.Metric),
			}
			if r.HasValue() {
				row.Value = humanize.Commaf(r.Value)
			}
			p.RawRows = append(p.RawRows, row)
		}
	}
	return p
}

func chartView(name string) ChartView {
	spec := chartSpecs[name]
	alt := spec.def.Title
	if alt == "" {
		alt = spec.def.YLabel + " by format"
	}
	return ChartView{
		Name:   name,
		URL:    "/charts/" + name + ".svg",
		Legend: spec.def.Legend,
		Alt:    alt,
	}
}

func pageLink(tab string, raw bool) string {
	q := url.Values{}
	q.Set("tab", tab)
	if raw {
		q.Set("raw", "true")
	}
	return "/?" + q.Encode()
}

package charts

import (
	"fmt"
	"html"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"musicsales/internal/models"
)

type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// ParseFormat maps a file extension (without dot) to a Format.
func ParseFormat(ext string) (Format, bool) {
	switch Format(ext) {
	case SVG:
		return SVG, true
	case PNG:
		return PNG, true
	}
	return "", false
}

// Definition describes one line chart.
type Definition struct {
	Name   string
	Title  string
	YLabel string
	Legend string
	// Dashed gives every line its own dash pattern.
	Dashed bool
	Width  int
	Height int
}

const noDataText = "No data for this view"

var dashPatterns = [][]float64{
	nil,
	{8, 4},
	{2, 3},
	{10, 3, 2, 3},
	{4, 4},
	{12, 6},
	{2, 6},
	{6, 3, 2, 3, 2, 3},
}

// Render draws series as a line chart, one line per format, x = year.
// An empty series list draws a placeholder instead of failing.
func Render(w io.Writer, def Definition, series []models.Series, f Format) error {
	if !hasPoints(series) {
		return renderEmpty(w, def, f)
	}

	xmin, xmax, ymax := bounds(series)
	if xmin == xmax {
		xmin, xmax = xmin-1, xmax+1
	}
	if ymax <= 0 {
		ymax = 1
	}

	lines := make([]chart.Series, 0, len(series))
	for i, s := range series {
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for j, p := range s.Points {
			xs[j] = float64(p.Year)
			ys[j] = p.Value
		}
		style := chart.Style{
			StrokeColor: chart.GetDefaultColor(i),
			StrokeWidth: 2,
		}
		if def.Dashed {
			style.StrokeDashArray = dashPatterns[i%len(dashPatterns)]
		}
		lines = append(lines, chart.ContinuousSeries{
			Name:    s.Format,
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
	}

	ch := chart.Chart{
		Title:      def.Title,
		Width:      def.Width,
		Height:     def.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: xmin, Max: xmax},
			Ticks: yearTicks(int(xmin), int(xmax)),
		},
		YAxis: chart.YAxis{
			Name:           def.YLabel,
			Range:          &chart.ContinuousRange{Min: 0, Max: ymax * 1.05},
			ValueFormatter: millions,
		},
		Series: lines,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	provider := chart.SVG
	if f == PNG {
		provider = chart.PNG
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("render %s chart: %w", def.Name, err)
	}
	return nil
}

func hasPoints(series []models.Series) bool {
	for _, s := range series {
		if len(s.Points) > 0 {
			return true
		}
	}
	return false
}

func bounds(series []models.Series) (xmin, xmax, ymax float64) {
	xmin, xmax = math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, p := range s.Points {
			x := float64(p.Year)
			xmin = math.Min(xmin, x)
			xmax = math.Max(xmax, x)
			ymax = math.Max(ymax, p.Value)
		}
	}
	return xmin, xmax, ymax
}

// yearTicks labels whole years, every 5 years on long spans.
func yearTicks(from, to int) []chart.Tick {
	step := 1
	if to-from > 20 {
		step = 5
	} else if to-from > 10 {
		step = 2
	}
	var ticks []chart.Tick
	for y := from; y <= to; y += step {
		ticks = append(ticks, chart.Tick{Value: float64(y), Label: strconv.Itoa(y)})
	}
	return ticks
}

func millions(v interface{}) string {
	if f, ok := v.(float64); ok {
		return humanize.Comma(int64(math.Round(f)))
	}
	return ""
}

func renderEmpty(w io.Writer, def Definition, f Format) error {
	if f == PNG {
		return png.Encode(w, blank(def.Width, def.Height, noDataText))
	}
	_, err := fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
		`<rect width="100%%" height="100%%" fill="#ffffff"/>`+
		`<text x="50%%" y="24" text-anchor="middle" font-family="sans-serif" font-size="16">%s</text>`+
		`<text x="50%%" y="50%%" text-anchor="middle" font-family="sans-serif" font-size="14" fill="#888888">%s</text>`+
		`</svg>`,
		def.Width, def.Height, def.Width, def.Height, html.EscapeString(def.Title), noDataText)
	return err
}

func blank(w, h int, text string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: img, Src: image.NewUniform(color.Gray{Y: 0x88}), Face: face}
	tw := dr.MeasureString(text).Ceil()
	dr.Dot = fixed.Point26_6{X: fixed.I((w - tw) / 2), Y: fixed.I(h / 2)}
	dr.DrawString(text)
	return img
}

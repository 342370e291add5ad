package charts

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musicsales/internal/models"
)

var testDef = Definition{
	Name:   "units",
	Title:  "Units",
	YLabel: "Units Sold (Millions)",
	Dashed: true,
	Width:  800,
	Height: 400,
}

func TestRender_SVG(t *testing.T) {
	series := []models.Series{
		{Format: "CD", Points: []models.Point{{Year: 1985, Value: 22.6}, {Year: 1990, Value: 286.5}, {Year: 2000, Value: 942.5}}},
		{Format: "Cassette", Points: []models.Point{{Year: 1985, Value: 339.1}, {Year: 1990, Value: 442.2}}},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, testDef, series, SVG))

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Cassette")
	assert.Contains(t, out, "1985")
}

func TestRender_SinglePoint(t *testing.T) {
	series := []models.Series{
		{Format: "On-Demand Streaming", Points: []models.Point{{Year: 2015, Value: 1000}}},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, testDef, series, PNG))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
}

func TestRender_EmptyDrawsPlaceholder(t *testing.T) {
	var svg bytes.Buffer
	require.NoError(t, Render(&svg, testDef, nil, SVG))
	assert.Contains(t, svg.String(), noDataText)

	var pngBuf bytes.Buffer
	require.NoError(t, Render(&pngBuf, testDef, []models.Series{}, PNG))
	img, err := png.Decode(&pngBuf)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("png")
	assert.True(t, ok)
	assert.Equal(t, "image/png", f.ContentType())

	_, ok = ParseFormat("gif")
	assert.False(t, ok)
}

func TestYearTicks(t *testing.T) {
	ticks := yearTicks(1973, 2019)

	require.NotEmpty(t, ticks)
	assert.Equal(t, "1973", ticks[0].Label)
	assert.Equal(t, "1978", ticks[1].Label)
}

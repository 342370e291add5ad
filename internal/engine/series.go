package engine

import (
	"math"
	"sort"

	"musicsales/internal/models"
)

// BuildSeries groups a view into one line per format. Formats appear in order
// of first occurrence; points are sorted by year. Missing years and rows
// without a value produce no point.
func BuildSeries(t *Table) []models.Series {
	if t.Len() == 0 {
		return []models.Series{}
	}

	// Format ID -> position in output (-1 = unseen)
	slot := make([]int, len(t.FormatDict))
	for i := range slot {
		slot[i] = -1
	}

	series := make([]models.Series, 0, len(t.FormatDict))
	for i := 0; i < t.Len(); i++ {
		if math.IsNaN(t.Values[i]) {
			continue
		}
		fid := t.FormatIDs[i]
		if slot[fid] < 0 {
			slot[fid] = len(series)
			series = append(series, models.Series{Format: t.FormatDict[fid]})
		}
		s := &series[slot[fid]]
		s.Points = append(s.Points, models.Point{Year: int(t.Years[i]), Value: t.Values[i]})
	}

	for i := range series {
		pts := series[i].Points
		sort.SliceStable(pts, func(a, b int) bool { return pts[a].Year < pts[b].Year })
	}
	return series
}

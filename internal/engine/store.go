package engine

import "musicsales/internal/models"

// Table holds sales records in Struct-of-Arrays format.
// A Table is never mutated after construction; filters build new tables
// that share the dictionaries of their source.
type Table struct {
	// Data Columns (Flat Arrays)
	Years  []int32
	Values []float64

	// Dictionary Encoded IDs (0..N)
	FormatIDs []int32
	MetricIDs []int32

	// Dictionaries (ID -> String)
	FormatDict []string
	MetricDict []string
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Years)
}

func (t *Table) Row(i int) models.SalesRecord {
	return models.SalesRecord{
		Year:   int(t.Years[i]),
		Format: t.FormatDict[t.FormatIDs[i]],
		Metric: models.Metric(t.MetricDict[t.MetricIDs[i]]),
		Value:  t.Values[i],
	}
}

// Records materializes the table in row order.
func (t *Table) Records() []models.SalesRecord {
	out := make([]models.SalesRecord, t.Len())
	for i := range out {
		out[i] = t.Row(i)
	}
	return out
}

// dictMask marks the dictionary ids whose string is in names.
func dictMask(dict []string, names []string) []bool {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	mask := make([]bool, len(dict))
	for id, s := range dict {
		_, mask[id] = want[s]
	}
	return mask
}

// selectRows copies the rows for which keep returns true, preserving order.
func (t *Table) selectRows(keep func(i int) bool) *Table {
	out := &Table{
		Years:      make([]int32, 0, t.Len()),
		Values:     make([]float64, 0, t.Len()),
		FormatIDs:  make([]int32, 0, t.Len()),
		MetricIDs:  make([]int32, 0, t.Len()),
		FormatDict: t.FormatDict,
		MetricDict: t.MetricDict,
	}
	for i := 0; i < t.Len(); i++ {
		if !keep(i) {
			continue
		}
		out.Years = append(out.Years, t.Years[i])
		out.Values = append(out.Values, t.Values[i])
		out.FormatIDs = append(out.FormatIDs, t.FormatIDs[i])
		out.MetricIDs = append(out.MetricIDs, t.MetricIDs[i])
	}
	return out
}

// NewTable builds a table from typed rows. A repeated (Year, Format, Metric)
// key keeps its first occurrence.
func NewTable(records []models.SalesRecord) *Table {
	b := newBuilder(len(records))
	for _, r := range records {
		b.append(int32(r.Year), r.Format, string(r.Metric), r.Value)
	}
	return b.table
}

type builder struct {
	table   *Table
	fMap    map[string]int32
	mMap    map[string]int32
	seenKey map[rowKey]struct{}
}

type rowKey struct {
	year   int32
	format int32
	metric int32
}

func newBuilder(capacity int) *builder {
	return &builder{
		table: &Table{
			Years:     make([]int32, 0, capacity),
			Values:    make([]float64, 0, capacity),
			FormatIDs: make([]int32, 0, capacity),
			MetricIDs: make([]int32, 0, capacity),
		},
		fMap:    make(map[string]int32),
		mMap:    make(map[string]int32),
		seenKey: make(map[rowKey]struct{}, capacity),
	}
}

func intern(dict *[]string, m map[string]int32, s string) int32 {
	if id, ok := m[s]; ok {
		return id
	}
	id := int32(len(*dict))
	*dict = append(*dict, s)
	m[s] = id
	return id
}

// append adds a row and reports false if (year, format, metric) was already present.
func (b *builder) append(year int32, format, metric string, value float64) bool {
	t := b.table
	fid := intern(&t.FormatDict, b.fMap, format)
	mid := intern(&t.MetricDict, b.mMap, metric)
	key := rowKey{year, fid, mid}
	if _, dup := b.seenKey[key]; dup {
		return false
	}
	b.seenKey[key] = struct{}{}
	t.Years = append(t.Years, year)
	t.Values = append(t.Values, value)
	t.FormatIDs = append(t.FormatIDs, fid)
	t.MetricIDs = append(t.MetricIDs, mid)
	return true
}

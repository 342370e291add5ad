package engine

import "musicsales/internal/models"

// Vocabulary is the fixed allow-list of formats the dashboard plots.
type Vocabulary struct {
	Physical []string
	Digital  []string
}

// DefaultVocabulary returns the physical and digital formats tracked by the dashboard.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{Physical: models.PhysicalFormats, Digital: models.DigitalFormats}
}

func (v Vocabulary) all() []string {
	out := make([]string, 0, len(v.Physical)+len(v.Digital))
	out = append(out, v.Physical...)
	return append(out, v.Digital...)
}

// Views are the derived subsets one render pass needs.
type Views struct {
	Filtered     *Table
	Units        *Table
	Value        *Table
	Digital      *Table
	DigitalValue *Table
}

// Filter keeps rows whose format is in either vocabulary and whose metric is
// Units or Value. Unknown formats are dropped silently.
func Filter(t *Table, vocab Vocabulary) *Table {
	fmask := dictMask(t.FormatDict, vocab.all())
	mmask := dictMask(t.MetricDict, []string{string(models.MetricUnits), string(models.MetricValue)})
	return t.selectRows(func(i int) bool {
		return fmask[t.FormatIDs[i]] && mmask[t.MetricIDs[i]]
	})
}

// SplitByMetric partitions t into its Units rows and its Value rows.
// Rows with any other metric belong to neither.
func SplitByMetric(t *Table) (units, value *Table) {
	return byMetric(t, models.MetricUnits), byMetric(t, models.MetricValue)
}

func byMetric(t *Table, m models.Metric) *Table {
	mask := dictMask(t.MetricDict, []string{string(m)})
	return t.selectRows(func(i int) bool { return mask[t.MetricIDs[i]] })
}

// Digital restricts t to the digital vocabulary.
func Digital(t *Table, vocab Vocabulary) *Table {
	mask := dictMask(t.FormatDict, vocab.Digital)
	return t.selectRows(func(i int) bool { return mask[t.FormatIDs[i]] })
}

// Run applies the full filter/reshape pipeline to a loaded table.
func Run(t *Table, vocab Vocabulary) Views {
	filtered := Filter(t, vocab)
	units, value := SplitByMetric(filtered)
	digital := Digital(filtered, vocab)
	_, digitalValue := SplitByMetric(digital)
	return Views{
		Filtered:     filtered,
		Units:        units,
		Value:        value,
		Digital:      digital,
		DigitalValue: digitalValue,
	}
}

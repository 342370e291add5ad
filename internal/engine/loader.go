package engine

import (
	"bytes"
	"context"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/csv"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"go.uber.org/zap"
)

// Column names expected in the source header.
const (
	ColYear   = "Year"
	ColFormat = "Format"
	ColMetric = "Metric"
	ColValue  = "Value (Actual)"
)

var requiredColumns = []string{ColYear, ColFormat, ColMetric, ColValue}

var columnTypes = map[string]arrow.DataType{
	ColYear:   arrow.PrimitiveTypes.Int64,
	ColFormat: arrow.BinaryTypes.String,
	ColMetric: arrow.BinaryTypes.String,
	ColValue:  arrow.PrimitiveTypes.Float64,
}

// headerSchema types the required columns and reads every other column as a
// string. Field names are the raw header cells; pos maps each required column
// (trimmed name) to its index in the file.
func headerSchema(header []string) (schema *arrow.Schema, pos map[string]int) {
	fields := make([]arrow.Field, len(header))
	pos = make(map[string]int, len(requiredColumns))
	for i, h := range header {
		name := strings.TrimSpace(h)
		typ, ok := columnTypes[name]
		if !ok {
			typ = arrow.BinaryTypes.String
		} else if _, seen := pos[name]; !seen {
			pos[name] = i
		}
		fields[i] = arrow.Field{Name: h, Type: typ, Nullable: true}
	}
	return arrow.NewSchema(fields, nil), pos
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const defaultChunkSize = 512

// Loader reads the sales CSV into a Table.
type Loader struct {
	log       *zap.Logger
	mem       memory.Allocator
	chunkSize int
}

func NewLoader(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log, mem: memory.NewGoAllocator(), chunkSize: defaultChunkSize}
}

// Load reads the full record set at path. Every failure is a
// *DataUnavailableError except context cancellation. An empty or NaN value
// is kept as NaN (see models.SalesRecord.HasValue).
func (l *Loader) Load(ctx context.Context, path string) (*Table, error) {
	start := time.Now()

	// A. Read File
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, unavailable(path, "read file", err)
	}
	content = bytes.TrimPrefix(content, utf8BOM)

	// B. Validate Header
	header, err := stdcsv.NewReader(bytes.NewReader(content)).Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, unavailable(path, "empty file", nil)
		}
		return nil, unavailable(path, "read header", err)
	}
	schema, pos := headerSchema(header)
	for _, col := range requiredColumns {
		if _, ok := pos[col]; !ok {
			return nil, unavailable(path, "missing column "+col, nil)
		}
	}

	// C. Typed Decode
	rdr := csv.NewReader(bytes.NewReader(content), schema,
		csv.WithHeader(true),
		csv.WithChunk(l.chunkSize),
		csv.WithAllocator(l.mem),
		csv.WithNullReader(true, "", "NA", "NaN", "nan"),
	)
	defer rdr.Release()

	b := newBuilder(l.chunkSize)
	line := 1 // header
	missing := 0
	for rdr.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec := rdr.Record()
		years := rec.Column(pos[ColYear]).(*array.Int64)
		formats := rec.Column(pos[ColFormat]).(*array.String)
		metrics := rec.Column(pos[ColMetric]).(*array.String)
		values := rec.Column(pos[ColValue]).(*array.Float64)

		for i := 0; i < int(rec.NumRows()); i++ {
			line++
			if years.IsNull(i) || formats.IsNull(i) || metrics.IsNull(i) {
				return nil, unavailable(path, "null key cell", &rowError{line: line})
			}
			value := math.NaN()
			if values.IsNull(i) || math.IsNaN(values.Value(i)) {
				missing++
			} else {
				value = values.Value(i)
			}
			format := strings.TrimSpace(formats.Value(i))
			metric := strings.TrimSpace(metrics.Value(i))
			if !b.append(int32(years.Value(i)), format, metric, value) {
				return nil, unavailable(path, "duplicate (Year, Format, Metric)", &rowError{line: line})
			}
		}
	}
	if err := rdr.Err(); err != nil {
		return nil, unavailable(path, "parse", err)
	}

	if missing > 0 {
		l.log.Debug("rows without a value",
			zap.String("path", path),
			zap.Int("rows", missing))
	}
	l.log.Info("sales data loaded",
		zap.String("path", path),
		zap.Int("rows", b.table.Len()),
		zap.Int("formats", len(b.table.FormatDict)),
		zap.Duration("took", time.Since(start)))
	return b.table, nil
}

type rowError struct {
	line int
}

func (e *rowError) Error() string {
	return fmt.Sprintf("line %d", e.line)
}

package dashboard

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"musicsales/internal/charts"
	"musicsales/internal/engine"
	"musicsales/internal/export"
	"musicsales/internal/metrics"
	"musicsales/internal/models"
)

// Dashboard is the result of one render pass. It is built per request and
// never shared between requests.
type Dashboard struct {
	Raw   *engine.Table
	Views engine.Views
}

// Service runs render passes over the configured dataset.
type Service struct {
	loader  *engine.Loader
	path    string
	vocab   engine.Vocabulary
	width   int
	height  int
	metrics *metrics.Metrics
	log     *zap.Logger

	ready atomic.Bool
}

type Options struct {
	DataPath    string
	ChartWidth  int
	ChartHeight int
}

func NewService(opts Options, m *metrics.Metrics, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		loader:  engine.NewLoader(log.Named("loader")),
		path:    opts.DataPath,
		vocab:   engine.DefaultVocabulary(),
		width:   opts.ChartWidth,
		height:  opts.ChartHeight,
		metrics: m,
		log:     log,
	}
}

// Render loads the dataset from disk and derives every view. A load failure
// aborts the whole pass. Every pass updates Ready.
func (s *Service) Render(ctx context.Context) (*Dashboard, error) {
	start := time.Now()
	raw, err := s.loader.Load(ctx, s.path)
	s.ready.Store(err == nil)
	if s.metrics != nil {
		s.metrics.ObserveLoad(time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}

	views := engine.Run(raw, s.vocab)
	if s.metrics != nil {
		s.metrics.SetViewRows("raw", raw.Len())
		s.metrics.SetViewRows("filtered", views.Filtered.Len())
		s.metrics.SetViewRows("units", views.Units.Len())
		s.metrics.SetViewRows("value", views.Value.Len())
		s.metrics.SetViewRows("digital", views.Digital.Len())
	}
	return &Dashboard{Raw: raw, Views: views}, nil
}

// Warmup does one preflight render so a missing dataset shows up in the logs
// and in the health check before the first visitor arrives.
func (s *Service) Warmup(ctx context.Context) {
	s.log.Info("warmup: loading sales data", zap.String("path", s.path))
	t0 := time.Now()
	d, err := s.Render(ctx)
	if err != nil {
		s.log.Error("warmup: sales data unavailable", zap.Error(err))
		return
	}
	s.log.Info("warmup complete",
		zap.Int("rows", d.Raw.Len()),
		zap.Int("filtered_rows", d.Views.Filtered.Len()),
		zap.Duration("took", time.Since(t0)))
}

// Ready reports whether the most recent render pass loaded the dataset.
func (s *Service) Ready() bool {
	return s.ready.Load()
}

// View returns a named derived table: filtered, units, value or digital.
func (d *Dashboard) View(name string) (*engine.Table, bool) {
	switch name {
	case "filtered":
		return d.Views.Filtered, true
	case "units":
		return d.Views.Units, true
	case "value":
		return d.Views.Value, true
	case "digital":
		return d.Views.Digital, true
	}
	return nil, false
}

// Chart returns the definition and series of a named chart.
func (s *Service) Chart(d *Dashboard, name string) (charts.Definition, []models.Series, bool) {
	spec, ok := chartSpecs[name]
	if !ok {
		return charts.Definition{}, nil, false
	}
	def := spec.def
	def.Width, def.Height = s.width, s.height
	return def, engine.BuildSeries(spec.view(d.Views)), true
}

// ChartData is the JSON form of a named chart.
func (s *Service) ChartData(d *Dashboard, name string) (models.ChartData, bool) {
	def, series, ok := s.Chart(d, name)
	if !ok {
		return models.ChartData{}, false
	}
	return models.ChartData{
		Name:   def.Name,
		Title:  def.Title,
		YLabel: def.YLabel,
		Legend: def.Legend,
		Series: series,
	}, true
}

// ExportSheets lists the workbook sheets for a render pass.
func ExportSheets(d *Dashboard) []export.Sheet {
	return []export.Sheet{
		{Name: "Raw", Records: d.Raw.Records()},
		{Name: "Filtered", Records: d.Views.Filtered.Records()},
		{Name: "Units", Records: d.Views.Units.Records()},
		{Name: "Value", Records: d.Views.Value.Records()},
		{Name: "Digital", Records: d.Views.Digital.Records()},
	}
}

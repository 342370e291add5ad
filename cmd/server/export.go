package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"musicsales/internal/charts"
	"musicsales/internal/dashboard"
	"musicsales/internal/export"
	"musicsales/internal/logger"
	"musicsales/internal/metrics"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the three charts and an .xlsx workbook to a directory",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().String("out", "out", "output directory")
	exportCmd.Flags().String("format", string(charts.SVG), "chart image format (svg or png)")
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	outDir, _ := cmd.Flags().GetString("out")
	formatFlag, _ := cmd.Flags().GetString("format")
	format, ok := charts.ParseFormat(formatFlag)
	if !ok {
		return fmt.Errorf("unknown chart format %q", formatFlag)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	svc := dashboard.NewService(dashboard.Options{
		DataPath:    cfg.Data.Path,
		ChartWidth:  cfg.Charts.Width,
		ChartHeight: cfg.Charts.Height,
	}, metrics.New(), log.Named("dashboard"))

	d, err := svc.Render(cmd.Context())
	if err != nil {
		return err
	}

	// Each file is independent of the others.
	g, _ := errgroup.WithContext(cmd.Context())
	for _, name := range dashboard.ChartNames {
		def, series, _ := svc.Chart(d, name)
		path := filepath.Join(outDir, name+"."+string(format))
		g.Go(func() error {
			return writeFile(path, func(w *bufio.Writer) error {
				return charts.Render(w, def, series, format)
			})
		})
	}
	xlsxPath := filepath.Join(outDir, "music_sales.xlsx")
	g.Go(func() error {
		return writeFile(xlsxPath, func(w *bufio.Writer) error {
			return export.WriteXLSX(w, dashboard.ExportSheets(d)...)
		})
	})
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("export complete", zap.String("dir", outDir), zap.Int("charts", len(dashboard.ChartNames)))
	return nil
}

func writeFile(path string, fill func(w *bufio.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := fill(w); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "dev"

	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "musicsales",
		Short: "Music industry sales by format dashboard",
		Long: `musicsales serves an interactive dashboard of music industry sales
(1973 - 2019) by format, comparing units sold with revenue and tracking the
rise of digital formats. The dataset is re-read on every render.`,
		Version:      Version,
		SilenceUsage: true,
		RunE:         runServe,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ./config/config.yaml)")
	rootCmd.PersistentFlags().String("data", "", "override data.path")

	rootCmd.Flags().Int("port", 0, "override server.port")

	rootCmd.AddCommand(serveCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

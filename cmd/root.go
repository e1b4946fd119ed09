package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/cluster-cli/internal/config"
)

var cfg *config.Config

var (
	businessesPath string
	spacesPath     string
	taxonomyPath   string
	outputFormat   string
	outputPath     string
)

var rootCmd = &cobra.Command{
	Use:   "cluster-cli",
	Short: "Business clustering and compatibility engine",
	Long:  "Groups businesses into industry clusters, scores partner compatibility, ranks businesses by network centrality, and recommends clusters for shared workspaces.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if businessesPath != "" {
			cfg.Data.Businesses = businessesPath
			cfg.Data.Source = "files"
		}
		if spacesPath != "" {
			cfg.Data.Spaces = spacesPath
			cfg.Data.Source = "files"
		}
		if taxonomyPath != "" {
			cfg.Taxonomy.Path = taxonomyPath
		}
		if outputFormat != "table" && outputFormat != "json" {
			return fmt.Errorf("unknown output format %q (want table or json)", outputFormat)
		}

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&businessesPath, "businesses", "", "business fixture (.yaml, .json, .csv, .xlsx); overrides data.businesses")
	pf.StringVar(&spacesPath, "spaces", "", "space fixture (.yaml, .json, .csv, .xlsx); overrides data.spaces")
	pf.StringVar(&taxonomyPath, "taxonomy", "", "taxonomy YAML; defaults to the built-in clusters")
	pf.StringVar(&outputFormat, "format", "table", "output format: table or json")
	pf.StringVarP(&outputPath, "output", "o", "", "write output to a file instead of stdout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

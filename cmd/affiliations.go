package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/cluster-cli/internal/cluster"
	"github.com/sells-group/cluster-cli/internal/model"
)

var (
	affThreshold float64
	affScores    bool
)

type affiliationRow struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Affiliations []string           `json:"affiliations"`
	Scores       map[string]float64 `json:"scores,omitempty"`
}

var affiliationsCmd = &cobra.Command{
	Use:   "affiliations",
	Short: "Assign businesses to clusters from their interests",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		engine, err := newEngine()
		if err != nil {
			return err
		}
		businesses, err := loadBusinesses(ctx)
		if err != nil {
			return err
		}

		threshold := cfg.Engine.AffiliationThreshold
		if cmd.Flags().Changed("threshold") {
			threshold = affThreshold
		}

		rows := affiliationRows(engine, businesses, threshold, affScores)
		zap.L().Info("affiliations computed",
			zap.String("command", "affiliations"),
			zap.Int("businesses", len(rows)),
			zap.Float64("threshold", threshold),
		)
		return render(cmd, rows, func(w io.Writer) { formatAffiliations(w, engine, rows) })
	},
}

func affiliationRows(engine *cluster.Engine, businesses []model.BusinessProfile, threshold float64, withScores bool) []affiliationRow {
	rows := make([]affiliationRow, len(businesses))
	for i, b := range businesses {
		rows[i] = affiliationRow{
			ID:           b.ID,
			Name:         b.Name,
			Affiliations: engine.Affiliations(b, threshold),
		}
		if withScores {
			rows[i].Scores = engine.ScoreAffiliations(b)
		}
	}
	return rows
}

func formatAffiliations(w io.Writer, engine *cluster.Engine, rows []affiliationRow) {
	clusters := engine.Taxonomy().Clusters()

	header := []string{"ID", "NAME", "CLUSTERS"}
	if len(rows) > 0 && rows[0].Scores != nil {
		for _, c := range clusters {
			header = append(header, strings.ToUpper(c.ID))
		}
	}
	_, _ = fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, r := range rows {
		names := make([]string, len(r.Affiliations))
		for i, id := range r.Affiliations {
			names[i] = engine.Taxonomy().Name(id)
		}
		cols := []string{r.ID, r.Name, orDash(strings.Join(names, ", "))}
		if r.Scores != nil {
			for _, c := range clusters {
				cols = append(cols, fmt.Sprintf("%.2f", r.Scores[c.ID]))
			}
		}
		_, _ = fmt.Fprintln(w, strings.Join(cols, "\t"))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	affiliationsCmd.Flags().Float64Var(&affThreshold, "threshold", 0, "affinity threshold (default from engine.affiliation_threshold)")
	affiliationsCmd.Flags().BoolVar(&affScores, "scores", false, "include the affinity score for every cluster")
	rootCmd.AddCommand(affiliationsCmd)
}

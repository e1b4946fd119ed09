package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/cluster-cli/internal/model"
	"github.com/sells-group/cluster-cli/internal/snapshot"
)

var (
	spacesSave    bool
	spacesCluster string
)

var spacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "Recommend the best-fitting clusters for each space",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		engine, err := newEngine()
		if err != nil {
			return err
		}
		businesses, spaces, err := loadData(ctx)
		if err != nil {
			return err
		}

		recs, err := engine.OptimalSpaceClusters(engine.Affiliate(businesses), spaces)
		if err != nil {
			return eris.Wrap(err, "spaces")
		}

		if spacesSave {
			key, err := snapshot.KeyFor(engine.Taxonomy(), businesses, spaces)
			if err != nil {
				return err
			}
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			run := &model.Run{
				TaxonomyVersion: key.Taxonomy,
				BusinessHash:    key.Businesses,
				SpaceHash:       key.Spaces,
				Businesses:      len(businesses),
				Spaces:          len(spaces),
				Recommendations: recs,
			}
			if err := st.SaveRun(ctx, run); err != nil {
				return eris.Wrap(err, "spaces: save run")
			}
			zap.L().Info("run saved", zap.String("command", "spaces"), zap.String("run_id", run.ID))
		}

		if spacesCluster != "" {
			recs = filterRecommendations(recs, spacesCluster)
		}
		return render(cmd, recs, func(w io.Writer) { formatRecommendations(w, recs) })
	},
}

// filterRecommendations keeps the spaces that recommend clusterID.
func filterRecommendations(recs []model.SpaceRecommendation, clusterID string) []model.SpaceRecommendation {
	out := []model.SpaceRecommendation{}
	for _, r := range recs {
		if r.ClusterData().Recommends(clusterID) {
			out = append(out, r)
		}
	}
	return out
}

func formatRecommendations(w io.Writer, recs []model.SpaceRecommendation) {
	_, _ = fmt.Fprintln(w, "SPACE\tNAME\tCOMPATIBILITY\tRECOMMENDED")
	for _, r := range recs {
		parts := make([]string, len(r.RecommendedClusters))
		for i, rc := range r.RecommendedClusters {
			parts[i] = fmt.Sprintf("%s (%.2f, %d)", rc.ClusterName, rc.Score, rc.Businesses)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.3f\t%s\n", r.SpaceID, r.SpaceName, r.Compatibility, orDash(strings.Join(parts, "; ")))
	}
}

func init() {
	spacesCmd.Flags().BoolVar(&spacesSave, "save", false, "record the result as a run in the store")
	spacesCmd.Flags().StringVar(&spacesCluster, "cluster", "", "only show spaces recommending this cluster id")
	rootCmd.AddCommand(spacesCmd)
}

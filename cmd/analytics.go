package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sells-group/cluster-cli/internal/model"
)

var analyticsBusiness string

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Summarize cluster demand across all spaces",
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

		affiliated := engine.Affiliate(businesses)
		recs, err := engine.OptimalSpaceClusters(affiliated, spaces)
		if err != nil {
			return err
		}

		var user *model.BusinessProfile
		if analyticsBusiness != "" {
			b, err := findBusiness(affiliated, analyticsBusiness)
			if err != nil {
				return err
			}
			user = &b
		}

		a := engine.Analyze(recs, user)
		return render(cmd, a, func(w io.Writer) { formatAnalytics(w, a) })
	},
}

func formatAnalytics(w io.Writer, a model.ClusterAnalytics) {
	_, _ = fmt.Fprintln(w, "CLUSTER\tSPACES\tAVG SCORE")
	for _, st := range a.ClusterCounts {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%.3f\n", st.Name, st.Count, st.AvgScore)
	}
	_, _ = fmt.Fprintln(w)

	for i, st := range a.TopClusters {
		_, _ = fmt.Fprintf(w, "Top %d:\t%s\t%.3f\n", i+1, st.Name, st.AvgScore)
	}
	if a.UserClusterMatch != nil {
		_, _ = fmt.Fprintf(w, "Your cluster:\t%s\t%.3f\n", a.UserClusterMatch.Name, a.UserClusterMatch.AvgScore)
	}
	_, _ = fmt.Fprintf(w, "Business opportunities:\t%d\n", a.BusinessOpportunities)
}

func init() {
	analyticsCmd.Flags().StringVar(&analyticsBusiness, "business", "", "business id to report a best-matching cluster for")
	rootCmd.AddCommand(analyticsCmd)
}

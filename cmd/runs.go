package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/cluster-cli/internal/model"
	"github.com/sells-group/cluster-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect saved optimizer runs",
	Long:  "Commands for listing and viewing runs recorded by `spaces --save`.",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		since, _ := cmd.Flags().GetDuration("since")
		limit, _ := cmd.Flags().GetInt("limit")

		filter := store.RunFilter{Limit: limit}
		if since > 0 {
			filter.CreatedAfter = time.Now().Add(-since)
		}

		runs, err := st.ListRuns(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "runs list")
		}
		if len(runs) == 0 && outputFormat == "table" {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No runs found.")
			return nil
		}
		return render(cmd, runs, func(w io.Writer) { formatRunsList(w, runs) })
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the recommendations of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}
		return render(cmd, run, func(w io.Writer) {
			_, _ = fmt.Fprintf(w, "Run:\t%s\n", run.ID)
			_, _ = fmt.Fprintf(w, "Created:\t%s\n", run.CreatedAt.Format(time.RFC3339))
			_, _ = fmt.Fprintf(w, "Taxonomy:\t%s\n\n", run.TaxonomyVersion)
			formatRecommendations(w, run.Recommendations)
		})
	},
}

func init() {
	runsListCmd.Flags().Duration("since", 0, "only runs newer than this (e.g. 24h)")
	runsListCmd.Flags().Int("limit", 50, "max number of runs to display")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

// formatRunsList writes a tabular list of runs to w.
func formatRunsList(w io.Writer, runs []model.Run) {
	_, _ = fmt.Fprintln(w, "ID\tCREATED\tTAXONOMY\tBUSINESSES\tSPACES\tBEST")
	_, _ = fmt.Fprintln(w, "--\t-------\t--------\t----------\t------\t----")

	for _, r := range runs {
		best := 0.0
		for _, rec := range r.Recommendations {
			best = max(best, rec.Compatibility)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.3f\n",
			truncateID(r.ID),
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.TaxonomyVersion,
			r.Businesses,
			r.Spaces,
			best,
		)
	}
}

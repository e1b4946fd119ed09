package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sells-group/cluster-cli/internal/cluster"
	"github.com/sells-group/cluster-cli/internal/model"
)

var matchCmd = &cobra.Command{
	Use:   "match <business-id> [space-id]",
	Short: "Score a business against one space, or list its compatible spaces",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		b, err := findBusiness(affiliated, args[0])
		if err != nil {
			return err
		}
		recs, err := engine.OptimalSpaceClusters(affiliated, spaces)
		if err != nil {
			return err
		}
		spaces = cluster.AttachClusterData(spaces, recs)

		if len(args) == 2 {
			s, err := findSpace(spaces, args[1])
			if err != nil {
				return err
			}
			res, err := engine.BusinessSpaceCompatibility(b, &s)
			if err != nil {
				return err
			}
			match := model.SpaceMatch{Space: s, Compatibility: res}
			return render(cmd, match, func(w io.Writer) { formatSpaceMatches(w, []model.SpaceMatch{match}) })
		}

		matches, err := engine.CompatibleSpaces(b, spaces)
		if err != nil {
			return err
		}
		return render(cmd, matches, func(w io.Writer) { formatSpaceMatches(w, matches) })
	},
}

func formatSpaceMatches(w io.Writer, matches []model.SpaceMatch) {
	_, _ = fmt.Fprintln(w, "SPACE\tNAME\tSCORE\tCLUSTER")
	for _, m := range matches {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.3f\t%s\n", m.Space.ID, m.Space.Name, m.Compatibility.Score, orDash(m.Compatibility.ClusterName))
	}
}

func init() {
	rootCmd.AddCommand(matchCmd)
}

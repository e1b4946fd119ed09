package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sells-group/cluster-cli/internal/model"
)

type compatOutput struct {
	A             string                    `json:"a"`
	B             string                    `json:"b"`
	Compatibility model.CompatibilityResult `json:"compatibility"`
}

var compatCmd = &cobra.Command{
	Use:   "compat <business-id> <business-id>",
	Short: "Score the partnership compatibility of two businesses",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		engine, err := newEngine()
		if err != nil {
			return err
		}
		businesses, err := loadBusinesses(ctx)
		if err != nil {
			return err
		}
		a, err := findBusiness(businesses, args[0])
		if err != nil {
			return err
		}
		b, err := findBusiness(businesses, args[1])
		if err != nil {
			return err
		}

		pair := engine.Affiliate([]model.BusinessProfile{a, b})
		out := compatOutput{A: a.ID, B: b.ID, Compatibility: engine.PairCompatibility(pair[0], pair[1])}

		return render(cmd, out, func(w io.Writer) {
			_, _ = fmt.Fprintf(w, "Businesses:\t%s, %s\n", out.A, out.B)
			_, _ = fmt.Fprintf(w, "Score:\t%.3f\n", out.Compatibility.Score)
			_, _ = fmt.Fprintf(w, "Cluster:\t%s\n", orDash(out.Compatibility.ClusterName))
		})
	},
}

func init() {
	rootCmd.AddCommand(compatCmd)
}

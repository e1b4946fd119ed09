package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var recommendLimit int

var recommendCmd = &cobra.Command{
	Use:   "recommend <business-id>",
	Short: "List the most compatible partner businesses",
	Args:  cobra.ExactArgs(1),
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

		affiliated := engine.Affiliate(businesses)
		b, err := findBusiness(affiliated, args[0])
		if err != nil {
			return err
		}

		peers := engine.Recommendations(b, affiliated, recommendLimit)
		return render(cmd, peers, func(w io.Writer) {
			_, _ = fmt.Fprintln(w, "RANK\tID\tNAME\tSCORE")
			for i, p := range peers {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%.3f\n", i+1, p.Business.ID, p.Business.Name, p.Score)
			}
		})
	},
}

func init() {
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", 0, "number of partners (default from engine.recommendation_limit)")
	rootCmd.AddCommand(recommendCmd)
}

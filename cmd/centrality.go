package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/cluster-cli/internal/model"
)

var centralityTop int

var centralityCmd = &cobra.Command{
	Use:   "centrality",
	Short: "Rank businesses by how connected they are within their clusters",
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

		ranked := rankByCentrality(engine.ComputeCentrality(engine.Affiliate(businesses)))
		if centralityTop > 0 && len(ranked) > centralityTop {
			ranked = ranked[:centralityTop]
		}

		zap.L().Info("centrality computed",
			zap.String("command", "centrality"),
			zap.Int("businesses", len(businesses)),
			zap.Int("workers", cfg.Engine.Workers),
		)
		return render(cmd, ranked, func(w io.Writer) { formatCentrality(w, ranked) })
	},
}

// rankByCentrality sorts by descending centrality, keeping input order on ties.
func rankByCentrality(businesses []model.BusinessProfile) []model.BusinessProfile {
	out := append([]model.BusinessProfile(nil), businesses...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Centrality() > out[j].Centrality()
	})
	return out
}

func formatCentrality(w io.Writer, businesses []model.BusinessProfile) {
	_, _ = fmt.Fprintln(w, "RANK\tID\tNAME\tCENTRALITY\tCLUSTERS")
	for i, b := range businesses {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%.3f\t%s\n",
			i+1, b.ID, b.Name, b.Centrality(), orDash(strings.Join(b.ClusterAffiliations, ", ")))
	}
}

func init() {
	centralityCmd.Flags().IntVar(&centralityTop, "top", 0, "show only the N most central businesses")
	rootCmd.AddCommand(centralityCmd)
}

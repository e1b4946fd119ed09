package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/cluster-cli/internal/taxonomy"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Show the cluster taxonomy",
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		tax := engine.Taxonomy()
		clusters := tax.Clusters()

		return render(cmd, clusters, func(w io.Writer) {
			_, _ = fmt.Fprintf(w, "Version:\t%s\n\n", tax.Version())
			_, _ = fmt.Fprintln(w, "ID\tNAME\tCATEGORIES\tCOMPATIBLE")
			for _, c := range clusters {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					c.ID, c.Name, strings.Join(c.Categories, ", "), orDash(strings.Join(c.CompatibleClusters, ", ")))
			}
		})
	},
}

var taxonomyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the taxonomy as YAML, suitable for --taxonomy",
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		data, err := marshalTaxonomy(engine.Taxonomy())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func marshalTaxonomy(tax *taxonomy.Taxonomy) ([]byte, error) {
	doc := struct {
		Clusters []taxonomy.Cluster `yaml:"clusters"`
	}{Clusters: tax.Clusters()}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, eris.Wrap(err, "taxonomy export")
	}
	return data, nil
}

func init() {
	taxonomyCmd.AddCommand(taxonomyExportCmd)
	rootCmd.AddCommand(taxonomyCmd)
}

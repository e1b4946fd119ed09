package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/cluster-cli/internal/cluster"
	"github.com/sells-group/cluster-cli/internal/model"
	"github.com/sells-group/cluster-cli/internal/registry"
	"github.com/sells-group/cluster-cli/internal/store"
	"github.com/sells-group/cluster-cli/internal/taxonomy"
)

// newEngine builds an engine over the configured taxonomy.
func newEngine(opts ...cluster.Option) (*cluster.Engine, error) {
	tax := taxonomy.Default()
	if cfg.Taxonomy.Path != "" {
		t, err := taxonomy.Load(cfg.Taxonomy.Path)
		if err != nil {
			return nil, err
		}
		tax = t
	}
	return cluster.New(tax, cfg.Engine, opts...)
}

// initStore opens and migrates the configured store.
func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	return store.Open(ctx, cfg.Store)
}

// dataSource returns the configured reference-data source and a closer for
// any store it opened.
func dataSource(ctx context.Context) (registry.Source, func(), error) {
	if cfg.Data.Source == "store" {
		st, err := initStore(ctx)
		if err != nil {
			return nil, nil, err
		}
		src, err := registry.NewSource(cfg.Data, st)
		if err != nil {
			st.Close() //nolint:errcheck
			return nil, nil, err
		}
		return src, func() { _ = st.Close() }, nil
	}

	if err := cfg.Validate("files"); err != nil {
		return nil, nil, err
	}
	src, err := registry.NewSource(cfg.Data, nil)
	if err != nil {
		return nil, nil, err
	}
	return src, func() {}, nil
}

// loadData reads businesses and spaces from the configured source.
func loadData(ctx context.Context) ([]model.BusinessProfile, []model.Space, error) {
	src, closeFn, err := dataSource(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer closeFn()
	return registry.LoadAll(ctx, src)
}

// loadBusinesses reads only the businesses from the configured source.
func loadBusinesses(ctx context.Context) ([]model.BusinessProfile, error) {
	src, closeFn, err := dataSource(ctx)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return src.Businesses(ctx)
}

func findBusiness(businesses []model.BusinessProfile, id string) (model.BusinessProfile, error) {
	for _, b := range businesses {
		if b.ID == id {
			return b, nil
		}
	}
	return model.BusinessProfile{}, eris.Errorf("business %q not found", id)
}

func findSpace(spaces []model.Space, id string) (model.Space, error) {
	for _, s := range spaces {
		if s.ID == id {
			return s, nil
		}
	}
	return model.Space{}, eris.Errorf("space %q not found", id)
}

// render writes v as indented JSON or through table, to --output or the
// command's stdout.
func render(cmd *cobra.Command, v any, table func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "create output %s", outputPath)
		}
		defer f.Close() //nolint:errcheck
		out = f
	}

	if outputFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	table(w)
	return w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

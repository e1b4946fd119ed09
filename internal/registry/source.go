package registry

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cluster-cli/internal/config"
	"github.com/sells-group/cluster-cli/internal/model"
	"github.com/sells-group/cluster-cli/internal/store"
)

// Source supplies the current reference data.
type Source interface {
	Businesses(ctx context.Context) ([]model.BusinessProfile, error)
	Spaces(ctx context.Context) ([]model.Space, error)
}

// FileSource reads fixtures from disk on every call.
type FileSource struct {
	BusinessesPath string
	SpacesPath     string
}

// Businesses implements Source.
func (f FileSource) Businesses(context.Context) ([]model.BusinessProfile, error) {
	return LoadBusinesses(f.BusinessesPath)
}

// Spaces implements Source.
func (f FileSource) Spaces(context.Context) ([]model.Space, error) {
	return LoadSpaces(f.SpacesPath)
}

// StoreSource reads reference data from a Store.
type StoreSource struct {
	Store store.Store
}

// Businesses implements Source.
func (s StoreSource) Businesses(ctx context.Context) ([]model.BusinessProfile, error) {
	return s.Store.ListBusinesses(ctx)
}

// Spaces implements Source.
func (s StoreSource) Spaces(ctx context.Context) ([]model.Space, error) {
	return s.Store.ListSpaces(ctx)
}

// NewSource picks the source named by cfg.Source. st is required for "store".
func NewSource(cfg config.DataConfig, st store.Store) (Source, error) {
	switch cfg.Source {
	case "", "files":
		return FileSource{BusinessesPath: cfg.Businesses, SpacesPath: cfg.Spaces}, nil
	case "store":
		if st == nil {
			return nil, eris.New("registry: store source requires an open store")
		}
		return StoreSource{Store: st}, nil
	default:
		return nil, eris.Errorf("registry: unknown data source %q", cfg.Source)
	}
}

// LoadAll reads both collections from src.
func LoadAll(ctx context.Context, src Source) ([]model.BusinessProfile, []model.Space, error) {
	businesses, err := src.Businesses(ctx)
	if err != nil {
		return nil, nil, eris.Wrap(err, "registry: load businesses")
	}
	spaces, err := src.Spaces(ctx)
	if err != nil {
		return nil, nil, eris.Wrap(err, "registry: load spaces")
	}
	return businesses, spaces, nil
}

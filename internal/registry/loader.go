// Package registry loads business and space reference data from fixture
// files. The format is chosen by file extension: .yaml, .yml, .json, .csv
// or .xlsx.
package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/cluster-cli/internal/model"
)

// ErrUnsupportedFormat is returned for a file extension no loader handles.
var ErrUnsupportedFormat = eris.New("registry: unsupported file format")

// ListSeparator splits list cells (interests, amenities) in CSV and XLSX files.
const ListSeparator = ";"

// LoadBusinesses reads and validates business profiles from path.
func LoadBusinesses(path string) ([]model.BusinessProfile, error) {
	var out []model.BusinessProfile
	switch ext(path) {
	case ".yaml", ".yml":
		if err := decodeYAML(path, "businesses", &out); err != nil {
			return nil, err
		}
	case ".json":
		if err := decodeJSON(path, "businesses", &out); err != nil {
			return nil, err
		}
	case ".csv", ".xlsx":
		rows, err := readTable(path)
		if err != nil {
			return nil, err
		}
		out, err = businessesFromRows(rows)
		if err != nil {
			return nil, eris.Wrapf(err, "registry: parse %s", path)
		}
	default:
		return nil, eris.Wrapf(ErrUnsupportedFormat, "%s", path)
	}

	for i := range out {
		if err := model.Validate(out[i]); err != nil {
			return nil, eris.Wrapf(err, "registry: business %d in %s", i, path)
		}
	}
	zap.L().Debug("registry: loaded businesses", zap.String("path", path), zap.Int("count", len(out)))
	return out, nil
}

// LoadSpaces reads and validates spaces from path.
func LoadSpaces(path string) ([]model.Space, error) {
	var out []model.Space
	switch ext(path) {
	case ".yaml", ".yml":
		if err := decodeYAML(path, "spaces", &out); err != nil {
			return nil, err
		}
	case ".json":
		if err := decodeJSON(path, "spaces", &out); err != nil {
			return nil, err
		}
	case ".csv", ".xlsx":
		rows, err := readTable(path)
		if err != nil {
			return nil, err
		}
		out, err = spacesFromRows(rows)
		if err != nil {
			return nil, eris.Wrapf(err, "registry: parse %s", path)
		}
	default:
		return nil, eris.Wrapf(ErrUnsupportedFormat, "%s", path)
	}

	for i := range out {
		if err := model.Validate(out[i]); err != nil {
			return nil, eris.Wrapf(err, "registry: space %d in %s", i, path)
		}
	}
	zap.L().Debug("registry: loaded spaces", zap.String("path", path), zap.Int("count", len(out)))
	return out, nil
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// decodeYAML accepts either a bare list or a document with the list under key.
func decodeYAML[T any](path, key string, out *[]T) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "registry: read %s", path)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return eris.Wrapf(err, "registry: parse yaml %s", path)
	}
	if len(node.Content) == 0 {
		return nil
	}
	root := node.Content[0]
	if root.Kind == yaml.MappingNode {
		var doc map[string][]T
		if err := root.Decode(&doc); err != nil {
			return eris.Wrapf(err, "registry: decode yaml %s", path)
		}
		*out = doc[key]
		return nil
	}
	if err := root.Decode(out); err != nil {
		return eris.Wrapf(err, "registry: decode yaml %s", path)
	}
	return nil
}

// decodeJSON accepts either a bare array or an object with the array under key.
func decodeJSON[T any](path, key string, out *[]T) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "registry: read %s", path)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var doc map[string][]T
		if err := json.Unmarshal(data, &doc); err != nil {
			return eris.Wrapf(err, "registry: parse json %s", path)
		}
		*out = doc[key]
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrapf(err, "registry: parse json %s", path)
	}
	return nil
}

func businessesFromRows(rows [][]string) ([]model.BusinessProfile, error) {
	t, err := newTable(rows, "id", "name")
	if err != nil {
		return nil, err
	}

	out := make([]model.BusinessProfile, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, model.BusinessProfile{
			ID:        t.get(r, "id"),
			Name:      t.get(r, "name"),
			Company:   t.get(r, "company"),
			Type:      t.get(r, "type"),
			Interests: splitList(t.get(r, "interests")),
		})
	}
	return out, nil
}

func spacesFromRows(rows [][]string) ([]model.Space, error) {
	t, err := newTable(rows, "id", "name", "capacity")
	if err != nil {
		return nil, err
	}

	out := make([]model.Space, 0, len(t.rows))
	for i, r := range t.rows {
		capacity, err := strconv.Atoi(t.get(r, "capacity"))
		if err != nil {
			return nil, eris.Wrapf(err, "row %d: capacity", i+2)
		}
		out = append(out, model.Space{
			ID:        t.get(r, "id"),
			Name:      t.get(r, "name"),
			Capacity:  capacity,
			Location:  t.get(r, "location"),
			Amenities: splitList(t.get(r, "amenities")),
		})
	}
	return out, nil
}

// splitList splits a list cell and drops empty items. An empty cell is an
// empty, non-nil list.
func splitList(cell string) []string {
	out := []string{}
	for _, part := range strings.Split(cell, ListSeparator) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Package taxonomy defines the industry clusters businesses are grouped into.
package taxonomy

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

var (
	// ErrDuplicateCluster is returned when two clusters share an id.
	ErrDuplicateCluster = eris.New("taxonomy: duplicate cluster id")
	// ErrUnknownCluster is returned when a compatible_clusters entry names no cluster.
	ErrUnknownCluster = eris.New("taxonomy: unknown compatible cluster")
	// ErrSelfCompatible is returned when a cluster lists itself as compatible.
	ErrSelfCompatible = eris.New("taxonomy: cluster lists itself as compatible")
	// ErrEmptyClusterID is returned for a cluster without an id.
	ErrEmptyClusterID = eris.New("taxonomy: empty cluster id")
)

// Cluster is an industry ecosystem defined by its member categories.
type Cluster struct {
	ID                 string   `json:"id" yaml:"id"`
	Name               string   `json:"name" yaml:"name"`
	Categories         []string `json:"categories" yaml:"categories"`
	Description        string   `json:"description" yaml:"description"`
	Icon               string   `json:"icon,omitempty" yaml:"icon"`
	CompatibleClusters []string `json:"compatible_clusters" yaml:"compatible_clusters"`
	KeyBenefits        []string `json:"key_benefits" yaml:"key_benefits"`
	// AmenityKeywords mark space amenities that are especially relevant to
	// the cluster's members.
	AmenityKeywords []string `json:"amenity_keywords,omitempty" yaml:"amenity_keywords"`
}

// Taxonomy is an immutable, validated, ordered set of clusters.
type Taxonomy struct {
	clusters []Cluster
	index    map[string]int
	adjacent map[string]map[string]bool
	version  string
}

// New validates clusters and builds a Taxonomy. Cluster order is preserved
// and used wherever the engine needs a deterministic tie-break.
func New(clusters []Cluster) (*Taxonomy, error) {
	t := &Taxonomy{
		clusters: make([]Cluster, len(clusters)),
		index:    make(map[string]int, len(clusters)),
		adjacent: make(map[string]map[string]bool, len(clusters)),
	}
	for i, c := range clusters {
		if strings.TrimSpace(c.ID) == "" {
			return nil, eris.Wrapf(ErrEmptyClusterID, "cluster at position %d", i)
		}
		if _, dup := t.index[c.ID]; dup {
			return nil, eris.Wrapf(ErrDuplicateCluster, "cluster %q", c.ID)
		}
		t.index[c.ID] = i
		t.clusters[i] = cloneCluster(c)
	}

	for _, c := range t.clusters {
		for _, other := range c.CompatibleClusters {
			if other == c.ID {
				return nil, eris.Wrapf(ErrSelfCompatible, "cluster %q", c.ID)
			}
			if _, ok := t.index[other]; !ok {
				return nil, eris.Wrapf(ErrUnknownCluster, "cluster %q references %q", c.ID, other)
			}
			t.link(c.ID, other)
			t.link(other, c.ID)
		}
	}

	data, err := json.Marshal(t.clusters)
	if err != nil {
		return nil, eris.Wrap(err, "taxonomy: encode for version")
	}
	sum := sha256.Sum256(data)
	t.version = hex.EncodeToString(sum[:8])

	return t, nil
}

// MustNew is like New but panics on invalid input. Intended for built-in tables.
func MustNew(clusters []Cluster) *Taxonomy {
	t, err := New(clusters)
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads a YAML taxonomy file with a top-level "clusters" list.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "taxonomy: read %s", path)
	}

	var doc struct {
		Clusters []Cluster `yaml:"clusters"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "taxonomy: parse yaml")
	}
	if len(doc.Clusters) == 0 {
		return nil, eris.Errorf("taxonomy: %s defines no clusters", path)
	}
	return New(doc.Clusters)
}

func (t *Taxonomy) link(a, b string) {
	m, ok := t.adjacent[a]
	if !ok {
		m = make(map[string]bool)
		t.adjacent[a] = m
	}
	m[b] = true
}

// Clusters returns a copy of the clusters in taxonomy order.
func (t *Taxonomy) Clusters() []Cluster {
	out := make([]Cluster, len(t.clusters))
	for i, c := range t.clusters {
		out[i] = cloneCluster(c)
	}
	return out
}

// Cluster looks up a cluster by id.
func (t *Taxonomy) Cluster(id string) (Cluster, bool) {
	i, ok := t.index[id]
	if !ok {
		return Cluster{}, false
	}
	return cloneCluster(t.clusters[i]), true
}

// Name returns the display name of a cluster, or "" for an unknown id.
func (t *Taxonomy) Name(id string) string {
	if i, ok := t.index[id]; ok {
		return t.clusters[i].Name
	}
	return ""
}

// Index returns the position of id in taxonomy order, or -1.
func (t *Taxonomy) Index(id string) int {
	if i, ok := t.index[id]; ok {
		return i
	}
	return -1
}

// Compatible reports whether a and b are adjacent. A declaration on either
// side counts.
func (t *Taxonomy) Compatible(a, b string) bool {
	return t.adjacent[a][b]
}

// Len returns the number of clusters.
func (t *Taxonomy) Len() int { return len(t.clusters) }

// Version is a short content hash; two taxonomies with identical clusters
// in identical order share a version.
func (t *Taxonomy) Version() string { return t.version }

// Each visits clusters in order without copying. fn must not modify c.
func (t *Taxonomy) Each(fn func(i int, c *Cluster)) {
	for i := range t.clusters {
		fn(i, &t.clusters[i])
	}
}

func cloneCluster(c Cluster) Cluster {
	c.Categories = append([]string(nil), c.Categories...)
	c.CompatibleClusters = append([]string(nil), c.CompatibleClusters...)
	c.KeyBenefits = append([]string(nil), c.KeyBenefits...)
	c.AmenityKeywords = append([]string(nil), c.AmenityKeywords...)
	return c
}

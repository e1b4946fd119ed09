package snapshot

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cluster-cli/internal/model"
	"github.com/sells-group/cluster-cli/internal/taxonomy"
)

// Key identifies one combination of taxonomy and reference data. Only input
// fields are hashed, so derived fields on the records never change the key.
// Record order matters.
type Key struct {
	Taxonomy   string `json:"taxonomy"`
	Businesses string `json:"businesses"`
	Spaces     string `json:"spaces"`
}

func (k Key) String() string {
	return k.Taxonomy + "/" + k.Businesses + "/" + k.Spaces
}

type businessInput struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Company   string   `json:"company"`
	Type      string   `json:"type"`
	Interests []string `json:"interests"`
}

type spaceInput struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Capacity  int      `json:"capacity"`
	Location  string   `json:"location"`
	Amenities []string `json:"amenities"`
}

// KeyFor computes the cache key for a taxonomy and reference data.
func KeyFor(tax *taxonomy.Taxonomy, businesses []model.BusinessProfile, spaces []model.Space) (Key, error) {
	bs := make([]businessInput, len(businesses))
	for i, b := range businesses {
		bs[i] = businessInput{ID: b.ID, Name: b.Name, Company: b.Company, Type: b.Type, Interests: b.Interests}
	}
	ss := make([]spaceInput, len(spaces))
	for i, s := range spaces {
		ss[i] = spaceInput{ID: s.ID, Name: s.Name, Capacity: s.Capacity, Location: s.Location, Amenities: s.Amenities}
	}

	bh, err := hashJSON(bs)
	if err != nil {
		return Key{}, eris.Wrap(err, "snapshot: hash businesses")
	}
	sh, err := hashJSON(ss)
	if err != nil {
		return Key{}, eris.Wrap(err, "snapshot: hash spaces")
	}
	return Key{Taxonomy: tax.Version(), Businesses: bh, Spaces: sh}, nil
}

func hashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

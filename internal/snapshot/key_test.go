package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cluster-cli/internal/model"
	"github.com/sells-group/cluster-cli/internal/taxonomy"
)

func TestKeyFor_Stable(t *testing.T) {
	businesses, spaces := fixtures()

	a, err := KeyFor(taxonomy.Default(), businesses, spaces)
	require.NoError(t, err)
	b, err := KeyFor(taxonomy.Default(), businesses, spaces)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, taxonomy.Default().Version(), a.Taxonomy)
	assert.Len(t, a.Businesses, 64)
	assert.Contains(t, a.String(), a.Spaces)
}

func TestKeyFor_IgnoresDerivedFields(t *testing.T) {
	businesses, spaces := fixtures()
	base, err := KeyFor(taxonomy.Default(), businesses, spaces)
	require.NoError(t, err)

	c := 0.5
	businesses[0].ClusterAffiliations = []string{taxonomy.DigitalTransformation}
	businesses[0].ClusterCentrality = &c

	derived, err := KeyFor(taxonomy.Default(), businesses, spaces)
	require.NoError(t, err)
	assert.Equal(t, base, derived)
}

func TestKeyFor_Changes(t *testing.T) {
	businesses, spaces := fixtures()
	base, err := KeyFor(taxonomy.Default(), businesses, spaces)
	require.NoError(t, err)

	reordered := []model.BusinessProfile{businesses[1], businesses[0], businesses[2]}
	k, err := KeyFor(taxonomy.Default(), reordered, spaces)
	require.NoError(t, err)
	assert.NotEqual(t, base.Businesses, k.Businesses)
	assert.Equal(t, base.Spaces, k.Spaces)

	spaces[0].Capacity++
	k, err = KeyFor(taxonomy.Default(), businesses, spaces)
	require.NoError(t, err)
	assert.Equal(t, base.Businesses, k.Businesses)
	assert.NotEqual(t, base.Spaces, k.Spaces)

	other := taxonomy.MustNew([]taxonomy.Cluster{{ID: "x", Name: "X"}})
	k, err = KeyFor(other, businesses, spaces)
	require.NoError(t, err)
	assert.NotEqual(t, base.Taxonomy, k.Taxonomy)
}

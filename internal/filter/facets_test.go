package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techjojo/catalogue/internal/filter"
)

func TestBuildFacets_Scenario(t *testing.T) {
	facets := filter.BuildFacets(dataset(t, scenarioCSV))

	assert.Equal(t, []filter.Option{{Label: "8GB", Count: 2}, {Label: "16GB", Count: 1}}, facets["ram"])
	assert.Equal(t, []filter.Option{{Label: "Acer", Count: 2}, {Label: "Dell", Count: 1}}, facets["brand"])
	assert.Equal(t, []string{"150000", "300000"}, facets.Labels("price"))
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, facets.Labels("name"))
}

func TestBuildFacets_SkipsIdentityAndImageHeaders(t *testing.T) {
	facets := filter.BuildFacets(dataset(t, "ID,Image_URL,name\n1,a.png,A\n2,b.png,B\n"))

	_, hasID := facets["ID"]
	_, hasImage := facets["Image_URL"]
	assert.False(t, hasID)
	assert.False(t, hasImage)
	assert.True(t, facets.Offered("name"))
}

func TestBuildFacets_NonDegenerate(t *testing.T) {
	facets := filter.BuildFacets(dataset(t, "name,os,gpu\nA,Windows,-\nB,windows,N/A\nC,WINDOWS,RTX 4060\n"))

	require.Contains(t, facets, "os")
	assert.Empty(t, facets["os"], "one distinct value offers no control")
	assert.Empty(t, facets["gpu"], "junk values are not counted")
	assert.False(t, facets.Offered("os"))
}

func TestBuildFacets_FirstLabelWinsAndTiesSortByLabel(t *testing.T) {
	facets := filter.BuildFacets(dataset(t, "name,ram\nA,16GB\nB,16gb\nC,8GB\nD,4GB\nE,32GB\n"))

	assert.Equal(t, []filter.Option{
		{Label: "16GB", Count: 2},
		{Label: "32GB", Count: 1},
		{Label: "4GB", Count: 1},
		{Label: "8GB", Count: 1},
	}, facets["ram"])
}

func TestBuildFacets_ListsAreJoined(t *testing.T) {
	facets := filter.BuildFacets(dataset(t, "name,tags\nA,gaming|rgb\nB,gaming|rgb\nC,office\n"))

	assert.Equal(t, []filter.Option{
		{Label: "gaming, rgb", Count: 2},
		{Label: "office", Count: 1},
	}, facets["tags"])
}

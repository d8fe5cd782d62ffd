package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var twoGroups = [][]float32{
	{1, 0, 0},
	{0, 1, 0},
	{0.9, 0.1, 0},
	{0.1, 0.9, 0},
	{0.95, 0.05, 0},
	{0, 0.95, 0.05},
}

func items(headings ...string) []Item {
	out := make([]Item, len(headings))
	for i, h := range headings {
		out[i] = Item{SectionID: string(rune('a' + i)), Heading: h, Level: 2}
	}
	return out
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 1}, []float32{2, 2}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 3}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}

func TestAgglomerativeAndSilhouette(t *testing.T) {
	dist := [][]float64{
		{0, 0.1, 0.9, 0.9},
		{0.1, 0, 0.9, 0.9},
		{0.9, 0.9, 0, 0.1},
		{0.9, 0.9, 0.1, 0},
	}
	labels := Agglomerative(dist, 2)
	assert.Equal(t, []int{0, 0, 1, 1}, labels)
	assert.Equal(t, []int{0, 0, 0, 0}, Agglomerative(dist, 1))
	assert.InDelta(t, 0.8/0.9, Silhouette(dist, labels), 1e-9)
	assert.Equal(t, 0.0, Silhouette(dist, []int{0, 1, 2, 3}))
}

func TestChooseK(t *testing.T) {
	k, score, labels := ChooseK(DistanceMatrix(twoGroups), MinK, MaxK)
	assert.Equal(t, 2, k)
	assert.Greater(t, score, 0.5)
	assert.Equal(t, []int{0, 1, 0, 1, 0, 1}, labels)

	k, _, labels = ChooseK(DistanceMatrix(twoGroups[:2]), MinK, MaxK)
	assert.Equal(t, 1, k)
	assert.Equal(t, []int{0, 0}, labels)
}

func TestMetricsOutliers(t *testing.T) {
	vecs := [][]float32{{1, 0}, {1, 0}, {0.6, 0.8}}
	clusters := Metrics(vecs, []int{0, 0, 0}, items("A", "B", "C"))
	require.Len(t, clusters, 1)
	c := clusters[0]
	assert.Equal(t, 3, c.Size)
	assert.InDelta(t, 0.9068, c.Coherence, 1e-3)
	require.Len(t, c.Outliers, 1)
	assert.Equal(t, "C", c.Outliers[0].Heading)
}

func TestMetricsSortedBySize(t *testing.T) {
	vecs := [][]float32{{1, 0}, {0, 1}, {0, 1}}
	clusters := Metrics(vecs, []int{0, 1, 1}, items("x", "y", "z"))
	assert.Equal(t, []int{2, 1}, []int{clusters[0].Size, clusters[1].Size})
	assert.Equal(t, 1, clusters[0].ID)
	assert.NotNil(t, clusters[1].Outliers)
}

func TestTheme(t *testing.T) {
	assert.Equal(t, "Outdoor & Play & Activities",
		Theme([]string{"5.1 Outdoor Play Activities", "5.2 Outdoor Play with Water", "Outdoor games"}))
	assert.Equal(t, "General content", Theme([]string{"A to Z", "5.1.2"}))
}

func TestAnalyze(t *testing.T) {
	res, err := Analyze(twoGroups, items("Play One", "Meal One", "Play Two", "Meal Two", "Play Three", "Meal Three"), MinK, MaxK)
	require.NoError(t, err)
	assert.Equal(t, 2, res.K)
	require.Len(t, res.Clusters, 2)
	assert.Equal(t, "Play & Three", res.Clusters[0].Theme)

	_, err = Analyze(nil, nil, MinK, MaxK)
	assert.ErrorIs(t, err, ErrNoVectors)
	_, err = Analyze(twoGroups, items("x"), MinK, MaxK)
	assert.Error(t, err)
}

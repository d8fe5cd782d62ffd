package cluster

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/itsmostafa/chapterfix/internal/mdline"
)

// Item identifies the section behind one vector.
type Item struct {
	SectionID   string   `json:"section_id"`
	Heading     string   `json:"heading"`
	Level       int      `json:"level"`
	ContentType []string `json:"content_type"`
	Audience    []string `json:"age_groups"`
}

// Outlier is a member far from its cluster centroid.
type Outlier struct {
	SectionID  string  `json:"section_id"`
	Heading    string  `json:"heading"`
	Similarity float64 `json:"similarity_to_centroid"`
}

// Cluster is one group with its quality metrics.
type Cluster struct {
	ID        int       `json:"cluster_id"`
	Size      int       `json:"size"`
	Theme     string    `json:"theme"`
	Coherence float64   `json:"coherence_score"`
	Sections  []Item    `json:"sections"`
	Outliers  []Outlier `json:"outliers"`
}

// Result is a full clustering run.
type Result struct {
	K          int       `json:"num_clusters"`
	Silhouette float64   `json:"silhouette_score"`
	Clusters   []Cluster `json:"clusters"`
}

// Analyze picks k by silhouette, clusters the vectors and computes per
// cluster metrics. items[i] describes vecs[i].
func Analyze(vecs [][]float32, items []Item, minK, maxK int) (*Result, error) {
	if len(vecs) == 0 {
		return nil, ErrNoVectors
	}
	if len(vecs) != len(items) {
		return nil, fmt.Errorf("got %d vectors for %d items", len(vecs), len(items))
	}
	dist := DistanceMatrix(vecs)
	k, score, labels := ChooseK(dist, minK, maxK)
	return &Result{
		K:          k,
		Silhouette: score,
		Clusters:   Metrics(vecs, labels, items),
	}, nil
}

// Metrics computes centroid coherence, outliers and a theme for every
// cluster, largest first. A member is an outlier when its similarity to the
// centroid is below the mean minus one standard deviation.
func Metrics(vecs [][]float32, labels []int, items []Item) []Cluster {
	groups := map[int][]int{}
	var ids []int
	for i, l := range labels {
		if _, ok := groups[l]; !ok {
			ids = append(ids, l)
		}
		groups[l] = append(groups[l], i)
	}

	clusters := make([]Cluster, 0, len(ids))
	for _, id := range ids {
		members := groups[id]
		centroid := Centroid(vecs, members)

		sims := make([]float64, len(members))
		for i, m := range members {
			sims[i] = CosineSimilarity(vecs[m], centroid)
		}
		mean, std := meanStd(sims)

		c := Cluster{ID: id, Size: len(members), Coherence: mean, Outliers: []Outlier{}}
		headings := make([]string, 0, len(members))
		for i, m := range members {
			c.Sections = append(c.Sections, items[m])
			headings = append(headings, items[m].Heading)
			if sims[i] < mean-std {
				c.Outliers = append(c.Outliers, Outlier{
					SectionID:  items[m].SectionID,
					Heading:    items[m].Heading,
					Similarity: sims[i],
				})
			}
		}
		c.Theme = Theme(headings)
		clusters = append(clusters, c)
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Size > clusters[j].Size
	})
	return clusters
}

// Centroid returns the mean of the member vectors.
func Centroid(vecs [][]float32, members []int) []float32 {
	if len(members) == 0 {
		return nil
	}
	c := make([]float32, len(vecs[members[0]]))
	for _, m := range members {
		for j, v := range vecs[m] {
			c[j] += v
		}
	}
	for j := range c {
		c[j] /= float32(len(members))
	}
	return c
}

func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(sq / float64(len(xs)))
}

var themeStopWords = map[string]bool{
	"with": true, "this": true, "that": true, "from": true,
	"have": true, "will": true, "when": true, "what": true,
}

// Theme names a cluster after the three most frequent heading words longer
// than three characters, ties going to the word seen first.
func Theme(headings []string) string {
	counts := map[string]int{}
	var order []string
	for _, h := range headings {
		for _, w := range strings.Fields(strings.ToLower(mdline.StripNumber(h))) {
			if len([]rune(w)) <= 3 || themeStopWords[w] {
				continue
			}
			if counts[w] == 0 {
				order = append(order, w)
			}
			counts[w]++
		}
	}
	if len(order) == 0 {
		return "General content"
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > 3 {
		order = order[:3]
	}
	return cases.Title(language.Und).String(strings.Join(order, " & "))
}

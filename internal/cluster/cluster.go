// Package cluster groups section embeddings with average-linkage
// agglomerative clustering over cosine distance.
package cluster

import (
	"errors"
	"math"
)

// Defaults for the range of cluster counts tried by ChooseK.
const (
	MinK = 2
	MaxK = 10
)

// CosineSimilarity returns the cosine of the angle between a and b, or 0 when
// either is a zero vector.
func CosineSimilarity(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// DistanceMatrix returns pairwise cosine distances (1 - similarity).
func DistanceMatrix(vecs [][]float32) [][]float64 {
	n := len(vecs)
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := 1 - CosineSimilarity(vecs[i], vecs[j])
			d[i][j], d[j][i] = v, v
		}
	}
	return d
}

// Agglomerative merges the two closest clusters, measured by average
// pairwise distance, until k remain. Labels are numbered in order of each
// cluster's first member. Ties merge the lowest-indexed pair first.
func Agglomerative(dist [][]float64, k int) []int {
	n := len(dist)
	if k < 1 {
		k = 1
	}
	// working copy updated with the Lance-Williams rule for average linkage
	d := make([][]float64, n)
	for i := range dist {
		d[i] = append([]float64(nil), dist[i]...)
	}
	members := make([][]int, n)
	active := make([]bool, n)
	for i := range members {
		members[i] = []int{i}
		active[i] = true
	}

	for remaining := n; remaining > k; remaining-- {
		bi, bj := -1, -1
		best := math.Inf(1)
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if active[j] && d[i][j] < best {
					best, bi, bj = d[i][j], i, j
				}
			}
		}
		ni, nj := float64(len(members[bi])), float64(len(members[bj]))
		for x := 0; x < n; x++ {
			if !active[x] || x == bi || x == bj {
				continue
			}
			v := (ni*d[bi][x] + nj*d[bj][x]) / (ni + nj)
			d[bi][x], d[x][bi] = v, v
		}
		members[bi] = append(members[bi], members[bj]...)
		active[bj] = false
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	for i := 0; i < n; i++ {
		if !active[i] {
			continue
		}
		for _, m := range members[i] {
			labels[m] = i
		}
	}
	return relabel(labels)
}

// relabel renumbers labels 0..k-1 by first appearance.
func relabel(labels []int) []int {
	next := 0
	seen := map[int]int{}
	out := make([]int, len(labels))
	for i, l := range labels {
		id, ok := seen[l]
		if !ok {
			id = next
			seen[l] = id
			next++
		}
		out[i] = id
	}
	return out
}

// Silhouette returns the mean silhouette coefficient of a labeling. Points in
// singleton clusters score 0.
func Silhouette(dist [][]float64, labels []int) float64 {
	n := len(labels)
	if n == 0 {
		return 0
	}
	k := 0
	for _, l := range labels {
		if l+1 > k {
			k = l + 1
		}
	}
	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}

	var total float64
	for i := 0; i < n; i++ {
		if sizes[labels[i]] < 2 {
			continue
		}
		sums := make([]float64, k)
		for j := 0; j < n; j++ {
			if i != j {
				sums[labels[j]] += dist[i][j]
			}
		}
		a := sums[labels[i]] / float64(sizes[labels[i]]-1)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == labels[i] || sizes[c] == 0 {
				continue
			}
			if m := sums[c] / float64(sizes[c]); m < b {
				b = m
			}
		}
		if math.IsInf(b, 1) {
			continue
		}
		if s := math.Max(a, b); s > 0 {
			total += (b - a) / s
		}
	}
	return total / float64(n)
}

// ChooseK tries every k in [minK, min(maxK, n-1)] and returns the one with
// the highest silhouette score and its labels. With fewer than three points
// everything goes into one cluster.
func ChooseK(dist [][]float64, minK, maxK int) (int, float64, []int) {
	n := len(dist)
	if n < 3 {
		return 1, 0, make([]int, n)
	}
	if maxK > n-1 {
		maxK = n - 1
	}
	if minK < 2 {
		minK = 2
	}
	if minK > maxK {
		minK = maxK
	}

	bestK, bestScore := 0, math.Inf(-1)
	var bestLabels []int
	for k := minK; k <= maxK; k++ {
		labels := Agglomerative(dist, k)
		if s := Silhouette(dist, labels); s > bestScore {
			bestK, bestScore, bestLabels = k, s, labels
		}
	}
	return bestK, bestScore, bestLabels
}

// ErrNoVectors is returned when there is nothing to cluster.
var ErrNoVectors = errors.New("no vectors to cluster")

// Copyright 2024 The mosaic-generator Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mosaic

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Matcher finds the tile whose mean color is nearest to a given color.
//
// Nearest returns the index of the nearest color. If multiple colors have
// the same distance the smallest index is returned.
// Matchers are safe for concurrent use.
type Matcher interface {
	Nearest(c MeanColor) int
}

// MatcherFactory creates a matcher for the given tile colors, colors must not
// be empty.
type MatcherFactory func(colors []MeanColor) Matcher

// LinearMatcher compares a color with every tile color.
type LinearMatcher struct {
	Colors []MeanColor
	Metric VectorMetric
}

// NewLinearMatcher returns a new LinearMatcher, if metric is nil
// EuclideanDistance is used.
func NewLinearMatcher(colors []MeanColor, metric VectorMetric) *LinearMatcher {
	if metric == nil {
		metric = EuclideanDistance
	}
	return &LinearMatcher{Colors: colors, Metric: metric}
}

// NewLinearMatcherFactory returns a MatcherFactory creating LinearMatchers.
func NewLinearMatcherFactory(metric VectorMetric) MatcherFactory {
	return func(colors []MeanColor) Matcher {
		return NewLinearMatcher(colors, metric)
	}
}

// Nearest implements Matcher.
func (m *LinearMatcher) Nearest(c MeanColor) int {
	best := -1
	bestDist := math.Inf(1)
	v := c.Vector()
	for i, other := range m.Colors {
		// strict comparison, ties keep the smaller index
		if d := m.Metric(v, other.Vector()); best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

type kdNode struct {
	index       int
	axis        int
	left, right *kdNode
}

// KDTreeMatcher is a k-d tree over tile colors with euclidean distance.
// It returns exactly the same tiles as a LinearMatcher with
// EuclideanDistance, including the choice between tiles of equal distance,
// but usually compares far fewer colors.
type KDTreeMatcher struct {
	colors []MeanColor
	root   *kdNode
}

// NewKDTreeMatcher builds the tree for the given colors.
func NewKDTreeMatcher(colors []MeanColor) *KDTreeMatcher {
	indices := make([]int, len(colors))
	for i := range indices {
		indices[i] = i
	}
	m := &KDTreeMatcher{colors: colors}
	m.root = m.build(indices, 0)
	return m
}

// KDTreeMatcherFactory is a MatcherFactory creating KDTreeMatchers.
func KDTreeMatcherFactory(colors []MeanColor) Matcher {
	return NewKDTreeMatcher(colors)
}

func (m *KDTreeMatcher) build(indices []int, depth int) *kdNode {
	if len(indices) == 0 {
		return nil
	}
	axis := depth % 3
	sort.Slice(indices, func(a, b int) bool {
		ca := m.colors[indices[a]].Component(axis)
		cb := m.colors[indices[b]].Component(axis)
		if ca != cb {
			return ca < cb
		}
		return indices[a] < indices[b]
	})
	median := len(indices) / 2
	// all colors left of the median have a component ≤ the median component,
	// all colors on the right ≥
	return &kdNode{
		index: indices[median],
		axis:  axis,
		left:  m.build(indices[:median], depth+1),
		right: m.build(indices[median+1:], depth+1),
	}
}

// pruneSlack makes sure rounding in EuclideanDistance never prunes a subtree
// that contains a color with the best distance.
const pruneSlack = 1e-9

func (m *KDTreeMatcher) search(node *kdNode, v []float64, best *int, bestDist *float64) {
	if node == nil {
		return
	}
	d := EuclideanDistance(v, m.colors[node.index].Vector())
	if *best < 0 || d < *bestDist || (d == *bestDist && node.index < *best) {
		*best = node.index
		*bestDist = d
	}
	diff := v[node.axis] - m.colors[node.index].Component(node.axis)
	near, far := node.left, node.right
	if diff > 0 {
		near, far = node.right, node.left
	}
	m.search(near, v, best, bestDist)
	if math.Abs(diff) <= *bestDist+pruneSlack*(1+*bestDist) {
		m.search(far, v, best, bestDist)
	}
}

// Nearest implements Matcher.
func (m *KDTreeMatcher) Nearest(c MeanColor) int {
	best := -1
	bestDist := math.Inf(1)
	m.search(m.root, c.Vector(), &best, &bestDist)
	return best
}

// GetMatcherFactory returns the factory for a matcher called name ("linear"
// or "kdtree"). metric is the name of a registered vector metric and only
// used by the linear matcher; the k-d tree requires "euclid".
func GetMatcherFactory(name, metric string) (MatcherFactory, error) {
	if metric == "" {
		metric = "euclid"
	}
	vm, ok := GetVectorMetric(metric)
	if !ok {
		return nil, fmt.Errorf("Unknown metric %s, valid metrics are: %s",
			metric, strings.Join(GetVectorMetricNames(), ", "))
	}
	switch strings.ToLower(name) {
	case "", "linear":
		return NewLinearMatcherFactory(vm), nil
	case "kdtree":
		if strings.ToLower(metric) != "euclid" {
			return nil, fmt.Errorf("The kdtree matcher only supports the euclid metric, got %s", metric)
		}
		return KDTreeMatcherFactory, nil
	default:
		return nil, fmt.Errorf("Unknown matcher: %s", name)
	}
}

// Package cluster implements seeded, weighted k-means clustering.
//
// The same engine groups pixel colors into a palette and pixel positions into
// sample points. Results depend only on the input and Options.Seed: restarts
// run concurrently but each has its own random source, and ties between
// restarts are broken by restart index.
package cluster

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// Default option values.
const (
	DefaultRestarts      = 10
	DefaultMaxIterations = 300
	DefaultTolerance     = 1e-4
	DefaultSeed          = 42
)

var (
	// ErrInvalidK is returned when K is less than 1.
	ErrInvalidK = errors.New("cluster count must be at least 1")

	// ErrTooFewPoints is returned when there are fewer points than clusters.
	ErrTooFewPoints = errors.New("fewer points than clusters")
)

// Point is a position in n-dimensional space. All points passed to one call
// must have the same dimension.
type Point []float64

// Options controls a clustering run. Zero values select the defaults.
type Options struct {
	K             int
	Restarts      int
	MaxIterations int
	// Tolerance is relative to the mean per-dimension variance of the input.
	// A run stops when the summed squared centroid shift falls to or below it.
	Tolerance float64
	Seed      int64
}

func (o Options) withDefaults() Options {
	if o.Restarts <= 0 {
		o.Restarts = DefaultRestarts
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	return o
}

// Result is the best clustering found across all restarts.
type Result struct {
	// Centroids has exactly K entries. A centroid whose cluster ended up
	// empty keeps its last position.
	Centroids []Point
	// Labels[i] is the cluster index of input point i.
	Labels []int
	// Inertia is the weighted sum of squared distances to assigned centroids.
	Inertia float64
	// Iterations is the number of Lloyd iterations the best restart ran.
	Iterations int
}

// Sizes returns the total weight assigned to each cluster.
func (r *Result) Sizes(weights []float64) []float64 {
	sizes := make([]float64, len(r.Centroids))
	for i, label := range r.Labels {
		sizes[label] += weightAt(weights, i)
	}
	return sizes
}

// KMeans clusters points into opts.K groups.
//
// Parameters:
//   - ctx: Checked between Lloyd iterations of every restart.
//   - points: The points to cluster, all of the same dimension.
//   - weights: Per-point weight, or nil to count every point once.
//   - opts: Cluster count and tuning; zero fields take the defaults.
//
// Returns:
//   - *Result: Centroids, one label per point, inertia and iteration count
//     of the best restart.
//   - error: ErrInvalidK, ErrTooFewPoints, a shape mismatch, or the context
//     error.
//
// # Restarts
//
// Each restart seeds its centroids with weighted k-means++ and then runs
// Lloyd iterations on its own goroutine with the random source
// Seed+restart. The restart with the lowest inertia wins; ties go to the
// lower restart index.
func KMeans(ctx context.Context, points []Point, weights []float64, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	if opts.K < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, opts.K)
	}
	if len(points) < opts.K {
		return nil, fmt.Errorf("%w: %d points, %d clusters", ErrTooFewPoints, len(points), opts.K)
	}
	if weights != nil && len(weights) != len(points) {
		return nil, fmt.Errorf("got %d weights for %d points", len(weights), len(points))
	}
	dim := len(points[0])
	for i, p := range points {
		if len(p) != dim {
			return nil, fmt.Errorf("point %d has dimension %d, want %d", i, len(p), dim)
		}
	}

	tol := opts.Tolerance * meanVariance(points, weights)

	results := make([]*Result, opts.Restarts)
	var wg sync.WaitGroup
	for r := 0; r < opts.Restarts; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(opts.Seed + int64(r)))
			results[r] = run(ctx, points, weights, opts.K, opts.MaxIterations, tol, rng)
		}(r)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	best := results[0]
	for _, res := range results[1:] {
		if res.Inertia < best.Inertia {
			best = res
		}
	}
	return best, nil
}

// run performs one k-means++ seeding followed by Lloyd iterations.
func run(ctx context.Context, points []Point, weights []float64, k, maxIter int, tol float64, rng *rand.Rand) *Result {
	centroids := seedPlusPlus(points, weights, k, rng)
	labels := make([]int, len(points))

	iter := 0
	for iter < maxIter {
		if ctx.Err() != nil {
			break
		}
		iter++

		changed := assign(points, centroids, labels)
		next := recompute(points, weights, labels, centroids)

		shift := 0.0
		for i := range centroids {
			shift += sqDist(centroids[i], next[i])
		}
		centroids = next

		if shift <= tol || (!changed && iter > 1) {
			break
		}
	}

	assign(points, centroids, labels)
	inertia := 0.0
	for i, p := range points {
		inertia += weightAt(weights, i) * sqDist(p, centroids[labels[i]])
	}

	return &Result{
		Centroids:  centroids,
		Labels:     labels,
		Inertia:    inertia,
		Iterations: iter,
	}
}

// seedPlusPlus picks k initial centroids. The first is drawn with probability
// proportional to weight, each following one proportional to weight times the
// squared distance to the nearest chosen centroid.
func seedPlusPlus(points []Point, weights []float64, k int, rng *rand.Rand) []Point {
	centroids := make([]Point, 0, k)

	total := 0.0
	for i := range points {
		total += weightAt(weights, i)
	}
	first := pick(rng, total, func(i int) float64 { return weightAt(weights, i) }, len(points))
	centroids = append(centroids, clone(points[first]))

	nearest := make([]float64, len(points))
	for i, p := range points {
		nearest[i] = sqDist(p, centroids[0])
	}

	for len(centroids) < k {
		total = 0
		for i := range points {
			total += weightAt(weights, i) * nearest[i]
		}

		var idx int
		if total == 0 {
			// Every point coincides with a chosen centroid; take the first
			// point not already chosen.
			idx = firstUnchosen(points, centroids)
		} else {
			idx = pick(rng, total, func(i int) float64 { return weightAt(weights, i) * nearest[i] }, len(points))
		}

		c := clone(points[idx])
		centroids = append(centroids, c)
		for i, p := range points {
			if d := sqDist(p, c); d < nearest[i] {
				nearest[i] = d
			}
		}
	}

	return centroids
}

// pick draws an index with probability mass(i)/total.
func pick(rng *rand.Rand, total float64, mass func(int) float64, n int) int {
	target := rng.Float64() * total
	cumulative := 0.0
	last := 0
	for i := 0; i < n; i++ {
		m := mass(i)
		if m <= 0 {
			continue
		}
		cumulative += m
		last = i
		if cumulative > target {
			return i
		}
	}
	return last
}

func firstUnchosen(points []Point, centroids []Point) int {
	for i, p := range points {
		taken := false
		for _, c := range centroids {
			if sqDist(p, c) == 0 {
				taken = true
				break
			}
		}
		if !taken {
			return i
		}
	}
	return 0
}

// assign sets each label to its nearest centroid, lowest index on ties, and
// reports whether any label changed.
func assign(points []Point, centroids []Point, labels []int) bool {
	changed := false
	for i, p := range points {
		best := 0
		bestDist := math.Inf(1)
		for j, c := range centroids {
			if d := sqDist(p, c); d < bestDist {
				bestDist = d
				best = j
			}
		}
		if labels[i] != best {
			labels[i] = best
			changed = true
		}
	}
	return changed
}

// recompute returns the weighted mean of each cluster. Empty clusters keep
// their previous centroid.
func recompute(points []Point, weights []float64, labels []int, prev []Point) []Point {
	dim := len(points[0])
	sums := make([]Point, len(prev))
	totals := make([]float64, len(prev))
	for j := range sums {
		sums[j] = make(Point, dim)
	}

	for i, p := range points {
		w := weightAt(weights, i)
		s := sums[labels[i]]
		for d := range p {
			s[d] += w * p[d]
		}
		totals[labels[i]] += w
	}

	for j := range sums {
		if totals[j] == 0 {
			sums[j] = clone(prev[j])
			continue
		}
		for d := range sums[j] {
			sums[j][d] /= totals[j]
		}
	}
	return sums
}

func meanVariance(points []Point, weights []float64) float64 {
	dim := len(points[0])
	mean := make([]float64, dim)
	total := 0.0
	for i, p := range points {
		w := weightAt(weights, i)
		total += w
		for d := range p {
			mean[d] += w * p[d]
		}
	}
	if total == 0 {
		return 0
	}
	for d := range mean {
		mean[d] /= total
	}

	variance := 0.0
	for i, p := range points {
		w := weightAt(weights, i)
		for d := range p {
			diff := p[d] - mean[d]
			variance += w * diff * diff
		}
	}
	return variance / total / float64(dim)
}

func weightAt(weights []float64, i int) float64 {
	if weights == nil {
		return 1
	}
	return weights[i]
}

func sqDist(a, b Point) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func clone(p Point) Point {
	out := make(Point, len(p))
	copy(out, p)
	return out
}

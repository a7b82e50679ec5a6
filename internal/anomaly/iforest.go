package anomaly

import (
	"math"
	"math/rand"
	"sort"

	"go.uber.org/zap"
)

const (
	// DefaultSeed fixes the forest's random source so repeated runs over
	// identical rows in identical order produce identical flags.
	DefaultSeed = 42

	DefaultTrees         = 100
	DefaultSampleSize    = 256
	DefaultContamination = 0.20

	// minBatch is the smallest batch worth fitting. Below it, or when every
	// feature row is identical, all records are treated as normal.
	minBatch = 4

	// eulerMascheroni is used in the average unsuccessful-BST-search length.
	eulerMascheroni = 0.5772156649
)

// IsolationForest is a seeded isolation forest. Anomalous rows isolate in
// fewer random splits than common ones, so shorter average path lengths mean
// higher anomaly scores. The top contamination fraction of each batch is
// flagged, which makes the threshold batch-relative rather than absolute.
type IsolationForest struct {
	trees         int
	sampleSize    int
	contamination float64
	seed          int64
}

// ForestParams configures an IsolationForest. Zero values fall back to the
// package defaults. That includes Seed: 0 is indistinguishable from unset and
// selects DefaultSeed, so a forest cannot be seeded with a literal 0.
type ForestParams struct {
	Trees         int
	SampleSize    int
	Contamination float64
	Seed          int64
}

// NewIsolationForest creates a forest with the given parameters.
func NewIsolationForest(p ForestParams) *IsolationForest {
	f := &IsolationForest{
		trees:         p.Trees,
		sampleSize:    p.SampleSize,
		contamination: p.Contamination,
		seed:          p.Seed,
	}
	if f.trees <= 0 {
		f.trees = DefaultTrees
	}
	if f.sampleSize <= 0 {
		f.sampleSize = DefaultSampleSize
	}
	if f.contamination <= 0 {
		f.contamination = DefaultContamination
	}
	if f.seed == 0 {
		f.seed = DefaultSeed
	}
	return f
}

// Flags fits a fresh forest over the batch and flags the top
// floor(contamination*n) rows by anomaly score. Ties break toward earlier
// rows. Degenerate batches (too small, or all rows identical) are never an
// error: no row is flagged.
func (f *IsolationForest) Flags(X [][]float64) []bool {
	n := len(X)
	flags := make([]bool, n)

	k := int(f.contamination * float64(n))
	if k <= 0 {
		return flags
	}
	if n < minBatch || allRowsEqual(X) {
		zap.L().Debug("anomaly: degenerate batch, skipping fit", zap.Int("rows", n))
		return flags
	}

	scores := f.scores(X)
	for _, idx := range topK(scores, k) {
		flags[idx] = true
	}
	return flags
}

// scores builds the forest and returns one anomaly score per row. Trees are
// built sequentially off a single seeded source; flags must be reproducible
// for a given seed and row order.
func (f *IsolationForest) scores(X [][]float64) []float64 {
	n := len(X)
	rnd := rand.New(rand.NewSource(f.seed))

	psi := f.sampleSize
	if psi > n {
		psi = n
	}
	heightLimit := int(math.Ceil(math.Log2(float64(psi))))

	roots := make([]*treeNode, f.trees)
	for i := range roots {
		sample := rnd.Perm(n)[:psi]
		roots[i] = buildTree(X, sample, 0, heightLimit, rnd)
	}

	norm := avgPathLength(psi)
	scores := make([]float64, n)
	for i, row := range X {
		var total float64
		for _, root := range roots {
			total += pathLength(row, root, 0)
		}
		avg := total / float64(f.trees)
		scores[i] = math.Pow(2, -avg/norm)
	}
	return scores
}

// treeNode is one node of an isolation tree. Leaves have a nil left child
// and carry the subsample size that reached them.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	size      int
}

// buildTree grows an isolation tree over the rows indexed by idx.
func buildTree(X [][]float64, idx []int, depth, limit int, rnd *rand.Rand) *treeNode {
	if depth >= limit || len(idx) <= 1 {
		return &treeNode{size: len(idx)}
	}

	// Only features with spread within this subsample can split it.
	nFeatures := len(X[idx[0]])
	splittable := make([]int, 0, nFeatures)
	mins := make([]float64, nFeatures)
	maxs := make([]float64, nFeatures)
	for j := 0; j < nFeatures; j++ {
		mins[j], maxs[j] = X[idx[0]][j], X[idx[0]][j]
		for _, i := range idx[1:] {
			v := X[i][j]
			if v < mins[j] {
				mins[j] = v
			}
			if v > maxs[j] {
				maxs[j] = v
			}
		}
		if maxs[j] > mins[j] {
			splittable = append(splittable, j)
		}
	}
	if len(splittable) == 0 {
		return &treeNode{size: len(idx)}
	}

	feature := splittable[rnd.Intn(len(splittable))]
	threshold := mins[feature] + rnd.Float64()*(maxs[feature]-mins[feature])

	var left, right []int
	for _, i := range idx {
		if X[i][feature] < threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      buildTree(X, left, depth+1, limit, rnd),
		right:     buildTree(X, right, depth+1, limit, rnd),
	}
}

// pathLength walks row down the tree and returns its isolation depth,
// adjusted at the leaf by the expected depth of the subsample that landed
// there.
func pathLength(row []float64, node *treeNode, depth int) float64 {
	if node.left == nil {
		return float64(depth) + avgPathLength(node.size)
	}
	if row[node.feature] < node.threshold {
		return pathLength(row, node.left, depth+1)
	}
	return pathLength(row, node.right, depth+1)
}

// avgPathLength is the average unsuccessful-search path length in a BST of
// n nodes, the standard isolation-forest normalizer.
func avgPathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	default:
		h := math.Log(float64(n-1)) + eulerMascheroni
		return 2*h - 2*float64(n-1)/float64(n)
	}
}

// topK returns the indices of the k highest scores, earlier rows first on
// ties.
func topK(scores []float64, k int) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		if scores[idx[a]] != scores[idx[b]] {
			return scores[idx[a]] > scores[idx[b]]
		}
		return idx[a] < idx[b]
	})
	if k > len(idx) {
		k = len(idx)
	}
	return idx[:k]
}

func allRowsEqual(X [][]float64) bool {
	for _, row := range X[1:] {
		for j, v := range row {
			if v != X[0][j] {
				return false
			}
		}
	}
	return true
}

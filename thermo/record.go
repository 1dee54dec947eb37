// Package thermo implements the LRU thermodynamic-record cache (C3) and the
// external ThermoKernel boundary that ComplexEvaluator calls into at leaf
// decomposition nodes.
//
// The cache's two-dimensional memo-table shape is grounded on
// fold.FoldContext's V/W caches (fold/seqfold.go's NewFoldingContext): the
// teacher allocates one NucleicAcidStructure per (i,j) interval and fills it
// once per sequence. ThermoCache generalizes this from a single dense
// per-sequence table to an LRU keyed across many sequences and
// decomposition depths, evicted by an aggregate byte budget rather than
// living for the lifetime of one fold call.
package thermo

import "math"

// SparseMatrix is an N x N symmetric matrix of base-pair probabilities,
// storing only entries at or above a sparsity threshold.
type SparseMatrix struct {
	N       int
	entries map[[2]int]float64
}

// NewSparseMatrix allocates an empty N x N sparse matrix.
func NewSparseMatrix(n int) *SparseMatrix {
	return &SparseMatrix{N: n, entries: make(map[[2]int]float64)}
}

// Set stores P[i][j] = P[j][i] = v. A zero v deletes the entry instead of
// storing it, keeping the map limited to genuinely nonzero cells.
func (m *SparseMatrix) Set(i, j int, v float64) {
	if i > j {
		i, j = j, i
	}
	key := [2]int{i, j}
	if v == 0 {
		delete(m.entries, key)
		return
	}
	m.entries[key] = v
}

// Get returns P[i][j], defaulting to 0 for unset cells.
func (m *SparseMatrix) Get(i, j int) float64 {
	if i > j {
		i, j = j, i
	}
	return m.entries[[2]int{i, j}]
}

// NNZ returns the number of explicitly stored (nonzero) entries.
func (m *SparseMatrix) NNZ() int {
	return len(m.entries)
}

// Sparsify removes every entry below threshold in magnitude, per the
// f_sparse cutoff used when merging decomposition-tree alternatives.
func (m *SparseMatrix) Sparsify(threshold float64) {
	for k, v := range m.entries {
		if math.Abs(v) < threshold {
			delete(m.entries, k)
		}
	}
}

// Each calls f for every explicitly stored entry.
func (m *SparseMatrix) Each(f func(i, j int, v float64)) {
	for k, v := range m.entries {
		f(k[0], k[1], v)
	}
}

// ThermoRecord is the cached unit of work: a log partition function value
// and the corresponding sparse pair-probability matrix.
type ThermoRecord struct {
	LogQ  float64
	Pairs *SparseMatrix
}

// byteSize estimates memory footprint for the cache's byte-budget
// accounting: one map-entry overhead (roughly 2 ints + 1 float64) per
// nonzero cell, plus a fixed struct overhead.
func (r ThermoRecord) byteSize() int64 {
	const fixedOverhead = 64
	const perEntry = 32
	nnz := 0
	if r.Pairs != nil {
		nnz = r.Pairs.NNZ()
	}
	return int64(fixedOverhead + perEntry*nnz)
}

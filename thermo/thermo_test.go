package thermo

import "testing"

func TestSparseMatrixSetGetSymmetric(t *testing.T) {
	m := NewSparseMatrix(4)
	m.Set(1, 2, 0.5)
	if m.Get(1, 2) != 0.5 || m.Get(2, 1) != 0.5 {
		t.Error("sparse matrix should be symmetric")
	}
	if m.NNZ() != 1 {
		t.Errorf("NNZ() = %d, want 1", m.NNZ())
	}
}

func TestSparseMatrixSetZeroDeletes(t *testing.T) {
	m := NewSparseMatrix(4)
	m.Set(0, 1, 0.3)
	m.Set(0, 1, 0)
	if m.NNZ() != 0 {
		t.Errorf("setting 0 should remove the entry, NNZ() = %d", m.NNZ())
	}
}

func TestSparsifyRemovesBelowThreshold(t *testing.T) {
	m := NewSparseMatrix(4)
	m.Set(0, 1, 0.001)
	m.Set(0, 2, 0.5)
	m.Sparsify(0.01)
	if m.NNZ() != 1 {
		t.Errorf("expected 1 entry surviving sparsify, got %d", m.NNZ())
	}
	if m.Get(0, 2) != 0.5 {
		t.Error("surviving entry value changed unexpectedly")
	}
}

func TestPrecisionPromotionLadder(t *testing.T) {
	v := NewF32(1.5)
	if v.Precision != PrecisionF32 {
		t.Fatal("expected f32 tier")
	}
	v = v.Promote()
	if v.Precision != PrecisionF64 {
		t.Fatal("expected f64 tier after first promotion")
	}
	v = v.Promote()
	if v.Precision != PrecisionExpF32 {
		t.Fatal("expected exponent-f32 tier after second promotion")
	}
	v = v.Promote()
	if v.Precision != PrecisionExpF64 {
		t.Fatal("expected exponent-f64 tier after third promotion")
	}
	// further promotion is a no-op
	same := v.Promote()
	if same.Precision != PrecisionExpF64 {
		t.Error("promoting past the last tier should be a no-op")
	}
}

func TestPrecisionFloat64RoundTrip(t *testing.T) {
	v := NewF64(123.456)
	promoted := v.Promote().Promote()
	if diff := promoted.Float64() - 123.456; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("round trip through exponent scaling lost precision: got %v", promoted.Float64())
	}
}

func TestCachePutGetAndEviction(t *testing.T) {
	c := NewCache(200)
	rec1 := ThermoRecord{LogQ: 1.0, Pairs: NewSparseMatrix(2)}
	rec1.Pairs.Set(0, 1, 0.9)
	c.Put(Key{ComplexHash: "a", Depth: 0}, rec1)

	rec2 := ThermoRecord{LogQ: 2.0, Pairs: NewSparseMatrix(2)}
	rec2.Pairs.Set(0, 1, 0.8)
	c.Put(Key{ComplexHash: "b", Depth: 0}, rec2)

	if c.Len() == 0 {
		t.Fatal("expected at least one cached entry")
	}

	got, release, ok := c.Get(Key{ComplexHash: "b", Depth: 0})
	if !ok {
		t.Fatal("expected cache hit for key b")
	}
	release()
	if got.LogQ != 2.0 {
		t.Errorf("LogQ = %v, want 2.0", got.LogQ)
	}

	// each record costs 96 bytes; a third one exceeds the 200-byte budget
	rec3 := ThermoRecord{LogQ: 3.0, Pairs: NewSparseMatrix(2)}
	rec3.Pairs.Set(0, 1, 0.7)
	c.Put(Key{ComplexHash: "c", Depth: 0}, rec3)
	if _, _, ok := c.Get(Key{ComplexHash: "a", Depth: 0}); ok {
		t.Error("expected least-recently-used key a to be evicted")
	}
}

func TestCacheGetMiss(t *testing.T) {
	c := NewCache(1000)
	_, _, ok := c.Get(Key{ComplexHash: "missing", Depth: 0})
	if ok {
		t.Error("expected cache miss for unknown key")
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache(1000)
	c.Put(Key{ComplexHash: "a", Depth: 0}, ThermoRecord{LogQ: 1.0, Pairs: NewSparseMatrix(1)})
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got Len()=%d", c.Len())
	}
}

func TestCacheDoesNotEvictReferencedEntry(t *testing.T) {
	c := NewCache(70) // small enough to force eviction pressure
	rec := ThermoRecord{LogQ: 1.0, Pairs: NewSparseMatrix(1)}
	key := Key{ComplexHash: "held", Depth: 0}
	c.Put(key, rec)

	_, release, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit right after put")
	}
	defer release()

	// insert more entries to create eviction pressure while "held" is referenced
	for i := 0; i < 5; i++ {
		other := ThermoRecord{LogQ: float64(i), Pairs: NewSparseMatrix(1)}
		other.Pairs.Set(0, 0, 0.5)
		c.Put(Key{ComplexHash: "filler", Depth: i}, other)
	}

	if _, _, ok := c.Get(key); !ok {
		t.Error("referenced entry should not have been evicted")
	}
}

package thermo

import "math"

// Precision names one rung of the overflow ladder a partition-function
// value can be promoted through. Grounded on the pack's gonum/blas pattern
// of one typed entry point per numeric precision tier (S/D/C/Z routines);
// here the tiers are f32, f64, and two exponent-scaled representations
// rather than real/complex BLAS types, but the "pick the narrowest tier
// that doesn't overflow, promote on demand" structure is the same idiom.
type Precision int

const (
	PrecisionF32 Precision = iota
	PrecisionF64
	PrecisionExpF32
	PrecisionExpF64
)

// ScaledValue represents a log partition function value at one precision
// tier. F32/F64 hold the value directly; the exponent tiers hold
// mantissa*2^exponent to extend dynamic range past float64 overflow.
type ScaledValue struct {
	Precision Precision
	F32       float32
	F64       float64
	MantissaF float32
	ExponentI int32
	MantissaD float64
	ExponentL int64
}

// NewF64 wraps a plain float64 value at the widest non-scaled tier.
func NewF64(v float64) ScaledValue {
	return ScaledValue{Precision: PrecisionF64, F64: v}
}

// NewF32 wraps a plain float32 value at the narrowest tier.
func NewF32(v float32) ScaledValue {
	return ScaledValue{Precision: PrecisionF32, F32: v}
}

// Overflows reports whether the current tier's representable range has been
// exceeded, the signal ComplexEvaluator uses to call Promote.
func (s ScaledValue) Overflows() bool {
	switch s.Precision {
	case PrecisionF32:
		return math.IsInf(float64(s.F32), 0) || math.IsNaN(float64(s.F32))
	case PrecisionF64:
		return math.IsInf(s.F64, 0) || math.IsNaN(s.F64)
	default:
		return false // exponent-scaled tiers have no realistic overflow at design-engine scale
	}
}

// Promote moves a value up one rung of the ladder: f32 -> f64 -> (mantissa
// f32, exponent i32) -> (mantissa f64, exponent i64). Promoting past the
// last tier is a no-op, since it is already the widest representation.
func (s ScaledValue) Promote() ScaledValue {
	switch s.Precision {
	case PrecisionF32:
		return NewF64(float64(s.F32))
	case PrecisionF64:
		m, e := frexp(s.F64)
		return ScaledValue{Precision: PrecisionExpF32, MantissaF: float32(m), ExponentI: int32(e)}
	case PrecisionExpF32:
		return ScaledValue{Precision: PrecisionExpF64, MantissaD: float64(s.MantissaF), ExponentL: int64(s.ExponentI)}
	default:
		return s
	}
}

// frexp decomposes v into mantissa*2^exponent with mantissa in [0.5, 1).
func frexp(v float64) (float64, int) {
	return math.Frexp(v)
}

// Float64 collapses a ScaledValue back to a plain float64, for callers that
// don't need the extended dynamic range (e.g. reporting).
func (s ScaledValue) Float64() float64 {
	switch s.Precision {
	case PrecisionF32:
		return float64(s.F32)
	case PrecisionF64:
		return s.F64
	case PrecisionExpF32:
		return float64(s.MantissaF) * math.Pow(2, float64(s.ExponentI))
	case PrecisionExpF64:
		return s.MantissaD * math.Pow(2, float64(s.ExponentL))
	default:
		return 0
	}
}

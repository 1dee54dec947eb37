package design

import "errors"

// ErrUnknownName is returned whenever a Specification references a
// domain, strand, tube, or complex name that was never defined.
var ErrUnknownName = errors.New("design: unknown name")

// ErrIncompatibleCheckpoint is returned when a restored checkpoint does
// not match the Specification it's being restored against: its sequence
// length differs from the design's, its complex list differs in count or
// names a complex the design lacks, or its sequence holds a letter that is
// not an IUPAC code. Per-domain lengths, strand definitions and per-tube
// complex membership are not compared.
var ErrIncompatibleCheckpoint = errors.New("design: checkpoint incompatible with specification")

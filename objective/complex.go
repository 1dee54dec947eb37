package objective

import "github.com/bebop/nadesign/defect"

// Complex is the single-complex objective: a complex's raw defect
// normalized by its length.
type Complex struct {
	ComplexName string
}

func (Complex) Kind() Kind     { return KindComplex }
func (c Complex) Name() string { return "complex:" + c.ComplexName }
func (Complex) sealed()        {}

// Evaluate normalizes complexDefect by the complex's nucleotide length.
func (Complex) Evaluate(complexDefect defect.Defect, length int) defect.Defect {
	if length <= 0 {
		return complexDefect
	}
	return complexDefect.Scale(1 / float64(length))
}

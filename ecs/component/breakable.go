package component

// Breakable marks a prop that impact rules may destroy once a single
// contact impulse reaches Threshold.
type Breakable struct {
	Threshold float64
}

var BreakableComponent = NewComponent[Breakable]()

package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// ImpactAction is what the impact rules ask for.
type ImpactAction string

const (
	ImpactNone        ImpactAction = "none"
	ImpactDestroyA    ImpactAction = "destroy_a"
	ImpactDestroyB    ImpactAction = "destroy_b"
	ImpactDestroyBoth ImpactAction = "destroy_both"
)

// ImpactSide describes one participant of an impact.
type ImpactSide struct {
	Kind      string
	Threshold float64
}

const impactDispatchScript = `
__result = on_impact(__impact)
`

// ImpactRules runs a tengo script defining on_impact(impact) for every
// first contact between a breakable entity and anything else.
type ImpactRules struct {
	compiled *tengo.Compiled
}

// NewImpactRules compiles src. The script must define on_impact.
func NewImpactRules(src []byte) (*ImpactRules, error) {
	script := tengo.NewScript(append(append([]byte(nil), src...), impactDispatchScript...))
	_ = script.Add("__impact", map[string]any{})
	_ = script.Add("__result", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("impact rules: compile: %w", err)
	}
	return &ImpactRules{compiled: compiled}, nil
}

// Evaluate runs on_impact for one impact.
func (r *ImpactRules) Evaluate(a, b ImpactSide, impulse float64) (ImpactAction, error) {
	if r == nil || r.compiled == nil {
		return ImpactNone, nil
	}
	impact := &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"a":       impactSide(a),
		"b":       impactSide(b),
		"impulse": &tengo.Float{Value: impulse},
	}}
	if err := r.compiled.Set("__impact", impact); err != nil {
		return ImpactNone, err
	}
	if err := r.compiled.Run(); err != nil {
		return ImpactNone, fmt.Errorf("impact rules: run: %w", err)
	}

	action := ImpactAction(r.compiled.Get("__result").String())
	switch action {
	case ImpactNone, ImpactDestroyA, ImpactDestroyB, ImpactDestroyBoth:
		return action, nil
	default:
		return ImpactNone, fmt.Errorf("impact rules: unknown action %q", action)
	}
}

func impactSide(s ImpactSide) *tengo.ImmutableMap {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"kind":      &tengo.String{Value: s.Kind},
		"threshold": &tengo.Float{Value: s.Threshold},
	}}
}

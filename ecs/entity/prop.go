package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/crate/ecs"
	"github.com/milk9111/crate/ecs/component"
	"github.com/milk9111/crate/physics"
)

// PropSpec is a static, solid box owned by an entity.
type PropSpec struct {
	Position cp.Vector
	Width    float64
	Height   float64
	Friction float64
	// BreakThreshold > 0 makes the prop breakable by hard impacts.
	BreakThreshold float64
}

// NewStaticProp creates a static prop entity.
func NewStaticProp(w *ecs.World, reg *physics.Registry, spec PropSpec) (ecs.Entity, error) {
	fixture := physics.Box(physics.RoleSolid, spec.Width, spec.Height)
	fixture.Friction = spec.Friction
	e, _, err := spawn(w, reg, component.KindStaticProp, physics.StaticBody(spec.Position, fixture))
	if err != nil {
		return 0, err
	}
	if spec.BreakThreshold > 0 {
		if err := ecs.Add(w, e, component.BreakableComponent.Kind(), &component.Breakable{Threshold: spec.BreakThreshold}); err != nil {
			return 0, abandon(w, reg, e, fmt.Errorf("prop: add breakable: %w", err))
		}
	}
	if err := ecs.Add(w, e, component.PoseComponent.Kind(), &component.Pose{
		X:      spec.Position.X,
		Y:      spec.Position.Y,
		Width:  spec.Width,
		Height: spec.Height,
	}); err != nil {
		return 0, abandon(w, reg, e, fmt.Errorf("prop: add pose: %w", err))
	}
	return e, nil
}

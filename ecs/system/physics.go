package system

import (
	"github.com/milk9111/crate/ecs"
	"github.com/milk9111/crate/physics"
)

// PhysicsSystem advances the registry by the frame delta.
type PhysicsSystem struct {
	registry           *physics.Registry
	velocityIterations int
	positionIterations int
}

func NewPhysicsSystem(registry *physics.Registry, velocityIterations, positionIterations int) *PhysicsSystem {
	if velocityIterations <= 0 {
		velocityIterations = physics.DefaultVelocityIterations
	}
	if positionIterations <= 0 {
		positionIterations = physics.DefaultPositionIterations
	}
	return &PhysicsSystem{
		registry:           registry,
		velocityIterations: velocityIterations,
		positionIterations: positionIterations,
	}
}

func (p *PhysicsSystem) Update(w *ecs.World) {
	if p == nil || p.registry == nil {
		return
	}
	p.registry.Advance(w.Delta(), p.velocityIterations, p.positionIterations)
}

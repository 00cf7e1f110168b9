package system

import (
	"github.com/milk9111/crate/ecs"
	"github.com/milk9111/crate/ecs/entity"
	"github.com/milk9111/crate/physics"
)

// DestroySystem flushes the destroy queue once the step is over.
type DestroySystem struct {
	registry *physics.Registry
	queue    *entity.DestroyQueue
}

func NewDestroySystem(registry *physics.Registry, queue *entity.DestroyQueue) *DestroySystem {
	return &DestroySystem{registry: registry, queue: queue}
}

func (d *DestroySystem) Update(w *ecs.World) {
	d.queue.Flush(w, d.registry)
}

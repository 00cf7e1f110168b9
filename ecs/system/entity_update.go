package system

import (
	"log"

	"github.com/milk9111/crate/ecs"
	"github.com/milk9111/crate/ecs/component"
	"github.com/milk9111/crate/ecs/entity"
)

// EntitySystem runs the per-kind update of every entity.
type EntitySystem struct {
	destroy *entity.DestroyQueue
}

func NewEntitySystem(destroy *entity.DestroyQueue) *EntitySystem {
	return &EntitySystem{destroy: destroy}
}

func (s *EntitySystem) Update(w *ecs.World) {
	dt := w.Delta()
	ecs.ForEach(w, component.KindComponent.Kind(), func(e ecs.Entity, _ *component.Kind) {
		if ecs.Has(w, e, component.PendingDestroyComponent.Kind()) {
			return
		}
		if err := entity.Update(w, e, dt, s.destroy); err != nil {
			log.Printf("EntitySystem: %v", err)
		}
	})
}

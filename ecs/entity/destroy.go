package entity

import (
	"errors"
	"log"

	"github.com/milk9111/crate/ecs"
	"github.com/milk9111/crate/ecs/component"
	"github.com/milk9111/crate/physics"
)

type destroyRequest struct {
	entity ecs.Entity
	reason string
}

// DestroyQueue buffers destruction requested while the world must not be
// mutated. Requests for the same entity collapse into one.
type DestroyQueue struct {
	pending ecs.EventQueue[destroyRequest]
}

// Request queues e for destruction. It reports false when e is dead or
// already queued.
func (q *DestroyQueue) Request(w *ecs.World, e ecs.Entity, reason string) bool {
	if q == nil || !ecs.IsAlive(w, e) {
		return false
	}
	if ecs.Has(w, e, component.PendingDestroyComponent.Kind()) {
		return false
	}
	if err := ecs.Add(w, e, component.PendingDestroyComponent.Kind(), &component.PendingDestroy{Reason: reason}); err != nil {
		log.Printf("DestroyQueue: mark %s: %v", e, err)
		return false
	}
	q.pending.Push(destroyRequest{entity: e, reason: reason})
	return true
}

func (q *DestroyQueue) Len() int {
	if q == nil {
		return 0
	}
	return q.pending.Len()
}

// Flush destroys every queued entity and returns how many were removed.
// Called mid-step it keeps the requests for the next flush.
func (q *DestroyQueue) Flush(w *ecs.World, reg *physics.Registry) int {
	if q == nil {
		return 0
	}
	destroyed := 0
	for _, req := range q.pending.Drain() {
		if !ecs.IsAlive(w, req.entity) {
			continue
		}
		if err := Destroy(w, reg, req.entity); err != nil {
			if errors.Is(err, physics.ErrStepInProgress) {
				q.pending.Push(req)
				continue
			}
			log.Printf("DestroyQueue: %s (%s): %v", req.entity, req.reason, err)
			continue
		}
		destroyed++
	}
	return destroyed
}

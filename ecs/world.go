package ecs

import "github.com/milk9111/crate/ecs/component"

// World owns entities and their component stores. It is not safe for
// concurrent use; the whole runtime steps it from one goroutine.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]store

	delta  float64
	frames uint64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]store)}
}

// BeginFrame records the delta for the frame about to run.
func (w *World) BeginFrame(dt float64) {
	if w == nil {
		return
	}
	w.delta = dt
	w.frames++
}

// Delta returns the frame delta in seconds recorded by BeginFrame.
func (w *World) Delta() float64 {
	if w == nil {
		return 0
	}
	return w.delta
}

// Frames returns how many frames have begun.
func (w *World) Frames() uint64 {
	if w == nil {
		return 0
	}
	return w.frames
}

// Len returns the number of live entities.
func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return w.entities.count
}

func (w *World) resolve(id entityID) (Entity, bool) {
	return w.entities.current(id)
}

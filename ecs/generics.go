package ecs

import (
	"fmt"

	"github.com/milk9111/crate/ecs/component"
)

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and invalidates the handle.
// It reports false when e was already dead.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, w.entities.count)
	for i := range w.entities.gen {
		if e, ok := w.resolve(entityID(i + 1)); ok {
			out = append(out, e)
		}
	}
	return out
}

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) (*SparseSet[T], error) {
	if w == nil {
		return nil, component.ErrEntityNotAlive
	}
	if !kind.Valid() {
		return nil, component.ErrInvalidComponentKind
	}
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]store)
	}
	raw, ok := w.stores[kind.ID()]
	if !ok {
		if !create {
			return nil, nil
		}
		s := &SparseSet[T]{}
		w.stores[kind.ID()] = s
		return s, nil
	}
	s, ok := raw.(*SparseSet[T])
	if !ok {
		return nil, fmt.Errorf("%w: id %d", component.ErrComponentKindClash, kind.ID())
	}
	return s, nil
}

// Add attaches (or replaces) a component value on e.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if value == nil {
		return component.ErrNilComponent
	}
	if !IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	s, err := storeFor(w, kind, true)
	if err != nil {
		return err
	}
	s.set(e.id(), value)
	return nil
}

// Get returns the component pointer stored on e.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	s, err := storeFor(w, kind, false)
	if err != nil || s == nil {
		return nil, false
	}
	return s.get(e.id())
}

// Has reports whether e carries a component of the given kind.
func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	_, ok := Get(w, e, kind)
	return ok
}

// Remove detaches a component and reports whether one was present.
func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	s, err := storeFor(w, kind, false)
	if err != nil || s == nil || !s.has(e.id()) {
		return false
	}
	s.remove(e.id())
	return true
}

// First returns the first live entity carrying kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	s, err := storeFor(w, kind, false)
	if err != nil || s == nil {
		return 0, false
	}
	for _, id := range s.ids() {
		if e, ok := w.resolve(id); ok {
			return e, true
		}
	}
	return 0, false
}

// ForEach visits every entity with a component of kind. The id list is
// snapshotted first, so fn may add or remove components and destroy
// entities; entities destroyed mid-iteration are skipped.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s, err := storeFor(w, kind, false)
	if err != nil || s == nil {
		return
	}
	for _, id := range snapshot(s) {
		e, ok := w.resolve(id)
		if !ok {
			continue
		}
		v, ok := s.get(id)
		if !ok {
			continue
		}
		fn(e, v)
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa, errA := storeFor(w, ka, false)
	sb, errB := storeFor(w, kb, false)
	if errA != nil || errB != nil || sa == nil || sb == nil {
		return
	}
	for _, id := range intersect(sa, sb) {
		e, ok := w.resolve(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id)
		b, okB := sb.get(id)
		if !okA || !okB {
			continue
		}
		fn(e, a, b)
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sa, errA := storeFor(w, ka, false)
	sb, errB := storeFor(w, kb, false)
	sc, errC := storeFor(w, kc, false)
	if errA != nil || errB != nil || errC != nil || sa == nil || sb == nil || sc == nil {
		return
	}
	for _, id := range intersect(sa, sb, sc) {
		e, ok := w.resolve(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id)
		b, okB := sb.get(id)
		c, okC := sc.get(id)
		if !okA || !okB || !okC {
			continue
		}
		fn(e, a, b, c)
	}
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	sa, errA := storeFor(w, ka, false)
	sb, errB := storeFor(w, kb, false)
	sc, errC := storeFor(w, kc, false)
	sd, errD := storeFor(w, kd, false)
	if errA != nil || errB != nil || errC != nil || errD != nil || sa == nil || sb == nil || sc == nil || sd == nil {
		return
	}
	for _, id := range intersect(sa, sb, sc, sd) {
		e, ok := w.resolve(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id)
		b, okB := sb.get(id)
		c, okC := sc.get(id)
		d, okD := sd.get(id)
		if !okA || !okB || !okC || !okD {
			continue
		}
		fn(e, a, b, c, d)
	}
}

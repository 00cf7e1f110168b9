package entity

import (
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/crate/ecs"
	"github.com/milk9111/crate/ecs/component"
	"github.com/milk9111/crate/physics"
)

var (
	ErrNotAlive = errors.New("entity: not alive")
	ErrNoKind   = errors.New("entity: missing kind")
)

// spawn creates an entity of the given kind and binds it to a new body
// owned by it. On failure nothing is left behind in either the world or
// the registry.
func spawn(w *ecs.World, reg *physics.Registry, kind component.Kind, spec physics.BodySpec) (ecs.Entity, *physics.Body, error) {
	e := ecs.CreateEntity(w)
	spec.Owner = uint64(e.Ref())
	body, err := reg.CreateBody(spec)
	if err != nil {
		ecs.DestroyEntity(w, e)
		return 0, nil, fmt.Errorf("%s: create body: %w", kind, err)
	}
	k := kind
	if err := ecs.Add(w, e, component.KindComponent.Kind(), &k); err != nil {
		_ = reg.DestroyBody(body)
		ecs.DestroyEntity(w, e)
		return 0, nil, fmt.Errorf("%s: add kind: %w", kind, err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Body: body}); err != nil {
		_ = reg.DestroyBody(body)
		ecs.DestroyEntity(w, e)
		return 0, nil, fmt.Errorf("%s: add physics body: %w", kind, err)
	}
	return e, body, nil
}

// abandon tears down a half-built entity after spawn succeeded and returns
// cause.
func abandon(w *ecs.World, reg *physics.Registry, e ecs.Entity, cause error) error {
	if err := Destroy(w, reg, e); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// KindOf returns the variant tag of e.
func KindOf(w *ecs.World, e ecs.Entity) (component.Kind, bool) {
	k, ok := ecs.Get(w, e, component.KindComponent.Kind())
	if !ok || k == nil {
		return 0, false
	}
	return *k, true
}

// BodyOf returns the rigid body owned by e, if it still has a valid one.
func BodyOf(w *ecs.World, e ecs.Entity) (*physics.Body, bool) {
	pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || pb == nil || pb.Body == nil || !pb.Body.Valid() {
		return nil, false
	}
	return pb.Body, true
}

// OwnerOf maps a body back to the entity that owns it. Ownerless scenery
// and stale owners report false.
func OwnerOf(w *ecs.World, b *physics.Body) (ecs.Entity, bool) {
	if b == nil || b.Owner() == 0 {
		return 0, false
	}
	e := ecs.FromRef(component.EntityRef(b.Owner()))
	if !ecs.IsAlive(w, e) {
		return 0, false
	}
	return e, true
}

// Update advances the per-frame logic of e according to its kind. Static
// props have none.
func Update(w *ecs.World, e ecs.Entity, dt float64, q *DestroyQueue) error {
	kind, ok := KindOf(w, e)
	if !ok {
		return fmt.Errorf("update %s: %w", e, ErrNoKind)
	}
	switch kind {
	case component.KindPlayer:
		updatePlayer(w, e)
	case component.KindBullet:
		updateBullet(w, e, dt, q)
	case component.KindStaticProp:
	}
	return nil
}

// Pose returns the render state last written for e.
func Pose(w *ecs.World, e ecs.Entity) (component.Pose, bool) {
	p, ok := ecs.Get(w, e, component.PoseComponent.Kind())
	if !ok || p == nil {
		return component.Pose{}, false
	}
	return *p, true
}

// Destroy releases the body owned by e and removes e from the world. The
// two always happen together: when the registry refuses the release
// (mid-step) the entity is left untouched and the error is returned.
func Destroy(w *ecs.World, reg *physics.Registry, e ecs.Entity) error {
	if !ecs.IsAlive(w, e) {
		return fmt.Errorf("destroy %s: %w", e, ErrNotAlive)
	}
	if body, ok := BodyOf(w, e); ok {
		if err := reg.DestroyBody(body); err != nil {
			return fmt.Errorf("destroy %s: %w", e, err)
		}
	}
	if !ecs.DestroyEntity(w, e) {
		log.Printf("Entity: %s vanished while its body was released", e)
	}
	return nil
}

package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/crate/ecs"
	"github.com/milk9111/crate/ecs/component"
	"github.com/milk9111/crate/physics"
)

// BulletSpec describes one shot. Direction is +1 or -1 and only affects
// presentation; the trajectory comes from Impulse.
type BulletSpec struct {
	Position  cp.Vector
	Impulse   cp.Vector
	Direction float64
	Size      float64
	Density   float64
	Lifetime  float64
	Spawner   ecs.Entity
}

// NewBullet spawns a gravity-free bullet body and launches it with a
// single impulse.
func NewBullet(w *ecs.World, reg *physics.Registry, spec BulletSpec) (ecs.Entity, error) {
	if spec.Size <= 0 {
		spec.Size = 0.5
	}
	if spec.Density <= 0 {
		spec.Density = 1
	}
	body := physics.DynamicBody(spec.Position, physics.FixtureSpec{
		Role:    physics.RoleProjectile,
		Kind:    physics.ShapeBox,
		Width:   spec.Size,
		Height:  spec.Size,
		Density: spec.Density,
	})
	body.GravityScale = 0
	body.Bullet = true

	e, b, err := spawn(w, reg, component.KindBullet, body)
	if err != nil {
		return 0, err
	}
	b.ApplyImpulse(spec.Impulse)

	direction := 1.0
	if spec.Direction < 0 {
		direction = -1
	}
	if err := ecs.Add(w, e, component.BulletComponent.Kind(), &component.Bullet{
		Direction: direction,
		Speed:     spec.Impulse.Length(),
		Lifetime:  spec.Lifetime,
		Spawner:   spec.Spawner.Ref(),
	}); err != nil {
		return 0, abandon(w, reg, e, fmt.Errorf("bullet: add state: %w", err))
	}
	if err := ecs.Add(w, e, component.PoseComponent.Kind(), &component.Pose{
		X:      spec.Position.X,
		Y:      spec.Position.Y,
		FlipX:  direction < 0,
		Width:  spec.Size,
		Height: spec.Size,
	}); err != nil {
		return 0, abandon(w, reg, e, fmt.Errorf("bullet: add pose: %w", err))
	}
	return e, nil
}

// SpawnerOf resolves the weak shooter reference of a bullet. It reports
// false once the shooter is gone, even if its slot was reused.
func SpawnerOf(w *ecs.World, e ecs.Entity) (ecs.Entity, bool) {
	b, ok := ecs.Get(w, e, component.BulletComponent.Kind())
	if !ok || b == nil || b.Spawner == 0 {
		return 0, false
	}
	spawner := ecs.FromRef(b.Spawner)
	if !ecs.IsAlive(w, spawner) {
		return 0, false
	}
	return spawner, true
}

func updateBullet(w *ecs.World, e ecs.Entity, dt float64, q *DestroyQueue) {
	b, ok := ecs.Get(w, e, component.BulletComponent.Kind())
	if !ok || b == nil {
		return
	}
	b.Age += dt
	if b.Expired() {
		q.Request(w, e, "expired")
	}
}

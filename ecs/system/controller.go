package system

import (
	"log"
	"math"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/crate/ecs"
	"github.com/milk9111/crate/ecs/component"
	"github.com/milk9111/crate/ecs/entity"
	"github.com/milk9111/crate/physics"
)

// ControllerSystem turns the player's Intent into movement flags and
// bullets. It runs before the physics step.
type ControllerSystem struct {
	registry *physics.Registry
	rng      *rand.Rand
}

// NewControllerSystem creates a controller. A nil rng is replaced by one
// seeded from the runtime.
func NewControllerSystem(registry *physics.Registry, rng *rand.Rand) *ControllerSystem {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &ControllerSystem{registry: registry, rng: rng}
}

func (c *ControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	intent, ok := ecs.Get(w, player, component.IntentComponent.Kind())
	if !ok {
		return
	}
	view, ok := entity.PlayerOf(w, player)
	if !ok {
		panic("controller: tagged player has no player state")
	}

	view.SetMovingLeft(intent.MoveLeft)
	view.SetMovingRight(intent.MoveRight)
	if intent.Jump {
		view.SetJump(true)
	} else if !intent.JumpHeld {
		view.SetJump(false)
	}
	intent.Jump = false

	weapon, ok := ecs.Get(w, player, component.WeaponComponent.Kind())
	if !ok {
		intent.Fire = false
		return
	}
	if weapon.Cooldown > 0 {
		weapon.Cooldown--
	}
	if !intent.Fire {
		return
	}
	intent.Fire = false
	if weapon.Cooldown > 0 {
		return
	}
	if _, err := c.fire(w, player, intentFacing(intent, view.Facing()), weapon); err != nil {
		log.Printf("Controller: fire: %v", err)
		return
	}
	weapon.Cooldown = weapon.CooldownFrames
}

func (c *ControllerSystem) fire(w *ecs.World, shooter ecs.Entity, facing float64, weapon *component.Weapon) (ecs.Entity, error) {
	body, ok := entity.BodyOf(w, shooter)
	if !ok {
		return 0, entity.ErrNotAlive
	}
	dir := SpreadDirection(facing, weapon.SpreadDegrees, c.rng.Float64())
	return entity.NewBullet(w, c.registry, entity.BulletSpec{
		Position:  body.Position().Add(cp.Vector{X: weapon.BaseOffset * facing}),
		Impulse:   dir.Mult(weapon.Speed),
		Direction: facing,
		Size:      weapon.Size,
		Density:   weapon.Density,
		Lifetime:  weapon.Lifetime,
		Spawner:   shooter,
	})
}

// intentFacing is the facing the player will have once this frame's move
// intent is applied.
func intentFacing(intent *component.Intent, current float64) float64 {
	switch {
	case intent.MoveLeft && !intent.MoveRight:
		return -1
	case intent.MoveRight && !intent.MoveLeft:
		return 1
	}
	return current
}

// SpreadDirection returns the unit firing direction for a random draw r in
// [0, 1). The deviation is (r-0.5)*spread degrees off the horizontal axis,
// and facing -1 mirrors the facing +1 result across the vertical axis.
func SpreadDirection(facing, spreadDegrees, r float64) cp.Vector {
	delta := (r - 0.5) * spreadDegrees * math.Pi / 180
	x := math.Cos(delta)
	if facing < 0 {
		x = -x
	}
	return cp.Vector{X: x, Y: math.Sin(delta)}
}

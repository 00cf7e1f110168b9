package system

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/crate/ecs"
	"github.com/milk9111/crate/ecs/component"
	"github.com/milk9111/crate/ecs/entity"
	"github.com/milk9111/crate/physics"
)

func newControllerWorld(t *testing.T, weapon component.Weapon) (*ecs.World, *physics.Registry, *ControllerSystem, ecs.Entity) {
	t.Helper()
	w := ecs.NewWorld()
	reg := physics.NewRegistry(cp.Vector{Y: -50})
	spec := entity.DefaultPlayerSpec()
	spec.Weapon = weapon
	player, err := entity.NewPlayerAt(w, reg, 2, 2, spec)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	if err := ecs.Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		t.Fatalf("tag player: %v", err)
	}
	ctrl := NewControllerSystem(reg, rand.New(rand.NewPCG(1, 2)))
	return w, reg, ctrl, player
}

func bullets(w *ecs.World) []ecs.Entity {
	var out []ecs.Entity
	ecs.ForEach(w, component.BulletComponent.Kind(), func(e ecs.Entity, _ *component.Bullet) {
		out = append(out, e)
	})
	return out
}

func TestSpreadDirectionIsMirrored(t *testing.T) {
	for _, r := range []float64{0, 0.1, 0.25, 0.5, 0.73, 0.999} {
		right := SpreadDirection(1, 2, r)
		left := SpreadDirection(-1, 2, r)
		if left.X != -right.X || left.Y != right.Y {
			t.Fatalf("r=%v: %v is not the mirror of %v", r, left, right)
		}
		if math.Abs(right.Length()-1) > 1e-12 {
			t.Fatalf("r=%v: direction not normalized: %v", r, right.Length())
		}
		deg := math.Atan2(right.Y, right.X) * 180 / math.Pi
		if math.Abs(deg) > 1+1e-9 {
			t.Fatalf("r=%v: deviation %v exceeds half the spread", r, deg)
		}
	}
	if d := SpreadDirection(1, 2, 0.5); d.Y != 0 || d.X != 1 {
		t.Fatalf("centered draw must fire straight, got %v", d)
	}
}

func TestFireSpawnsBulletAhead(t *testing.T) {
	tests := []struct {
		name   string
		facing float64
	}{
		{name: "right", facing: 1},
		{name: "left", facing: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weapon := entity.DefaultWeapon()
			weapon.SpreadDegrees = 0
			w, _, ctrl, player := newControllerWorld(t, weapon)
			p, _ := ecs.Get(w, player, component.PlayerComponent.Kind())
			p.Facing = tt.facing

			intent, _ := ecs.Get(w, player, component.IntentComponent.Kind())
			intent.Fire = true
			ctrl.Update(w)

			shots := bullets(w)
			if len(shots) != 1 {
				t.Fatalf("expected 1 bullet, got %d", len(shots))
			}
			body, _ := entity.BodyOf(w, shots[0])
			pos := body.Position()
			if math.Abs(pos.X-(2+0.8*tt.facing)) > 1e-9 || pos.Y != 2 {
				t.Fatalf("expected bullet at (%v, 2), got %v", 2+0.8*tt.facing, pos)
			}
			if body.GravityScale() != 0 || !body.IsBullet() {
				t.Fatalf("bullet body must be gravity-free and flagged as bullet")
			}
			if v := body.Velocity(); v.X*tt.facing <= 0 || v.Y != 0 {
				t.Fatalf("expected horizontal launch along facing, got %v", v)
			}
			b, _ := ecs.Get(w, shots[0], component.BulletComponent.Kind())
			if b.Direction != tt.facing {
				t.Fatalf("expected direction %v, got %v", tt.facing, b.Direction)
			}
			if spawner, ok := entity.SpawnerOf(w, shots[0]); !ok || spawner != player {
				t.Fatalf("bullet must reference its shooter")
			}
		})
	}
}

func TestFireFollowsSameFrameTurn(t *testing.T) {
	tests := []struct {
		name      string
		facing    float64
		left      bool
		right     bool
		direction float64
	}{
		{name: "turn left", facing: 1, left: true, direction: -1},
		{name: "turn right", facing: -1, right: true, direction: 1},
		{name: "both held keeps facing", facing: -1, left: true, right: true, direction: -1},
		{name: "idle keeps facing", facing: 1, direction: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weapon := entity.DefaultWeapon()
			weapon.SpreadDegrees = 0
			w, _, ctrl, player := newControllerWorld(t, weapon)
			p, _ := ecs.Get(w, player, component.PlayerComponent.Kind())
			p.Facing = tt.facing

			intent, _ := ecs.Get(w, player, component.IntentComponent.Kind())
			intent.MoveLeft = tt.left
			intent.MoveRight = tt.right
			intent.Fire = true
			ctrl.Update(w)

			shots := bullets(w)
			if len(shots) != 1 {
				t.Fatalf("expected 1 bullet, got %d", len(shots))
			}
			b, _ := ecs.Get(w, shots[0], component.BulletComponent.Kind())
			if b.Direction != tt.direction {
				t.Fatalf("expected direction %v, got %v", tt.direction, b.Direction)
			}
			body, _ := entity.BodyOf(w, shots[0])
			if v := body.Velocity(); v.X*tt.direction <= 0 {
				t.Fatalf("expected launch along %v, got %v", tt.direction, v)
			}
		})
	}
}

func TestFireIsConsumed(t *testing.T) {
	w, _, ctrl, player := newControllerWorld(t, entity.DefaultWeapon())
	intent, _ := ecs.Get(w, player, component.IntentComponent.Kind())
	intent.Fire = true
	ctrl.Update(w)
	ctrl.Update(w)
	ctrl.Update(w)
	if n := len(bullets(w)); n != 1 {
		t.Fatalf("one fire press must spawn one bullet, got %d", n)
	}
}

func TestFireCooldown(t *testing.T) {
	weapon := entity.DefaultWeapon()
	weapon.CooldownFrames = 3
	w, _, ctrl, player := newControllerWorld(t, weapon)
	intent, _ := ecs.Get(w, player, component.IntentComponent.Kind())

	fired := 0
	for i := 0; i < 8; i++ {
		intent.Fire = true
		ctrl.Update(w)
		fired = len(bullets(w))
	}
	// Frames 0, 3 and 6 fire.
	if fired != 3 {
		t.Fatalf("expected 3 shots in 8 frames, got %d", fired)
	}
}

func TestIntentDrivesPlayerFlags(t *testing.T) {
	w, _, ctrl, player := newControllerWorld(t, entity.DefaultWeapon())
	intent, _ := ecs.Get(w, player, component.IntentComponent.Kind())
	p, _ := ecs.Get(w, player, component.PlayerComponent.Kind())

	intent.MoveLeft = true
	intent.Jump = true
	intent.JumpHeld = true
	ctrl.Update(w)
	if !p.MovingLeft || p.MovingRight || !p.JumpRequested {
		t.Fatalf("intent not forwarded: %+v", *p)
	}

	// Holding jump keeps the request until the player lands.
	intent.JumpHeld = true
	ctrl.Update(w)
	if !p.JumpRequested {
		t.Fatalf("held jump must keep the request")
	}

	intent.JumpHeld = false
	intent.MoveLeft = false
	ctrl.Update(w)
	if p.JumpRequested || p.MovingLeft {
		t.Fatalf("released inputs must clear flags: %+v", *p)
	}
}

func TestControllerWithoutPlayer(t *testing.T) {
	ctrl := NewControllerSystem(physics.NewRegistry(cp.Vector{Y: -50}), nil)
	ctrl.Update(ecs.NewWorld())
}

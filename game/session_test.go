package game

import (
	"errors"
	"math"
	"testing"

	"github.com/milk9111/crate/ecs"
	"github.com/milk9111/crate/ecs/component"
	"github.com/milk9111/crate/ecs/entity"
	"github.com/milk9111/crate/levels"
	"github.com/milk9111/crate/prefabs"
)

const frame = 1.0 / 60.0

func testTuning(t *testing.T) prefabs.Tuning {
	t.Helper()
	tuning, err := prefabs.LoadTuning()
	if err != nil {
		t.Fatalf("load tuning: %v", err)
	}
	tuning.Weapon.SpreadDegrees = 0
	return tuning
}

// floorLevel has a floor whose top is y=0 and a player spawn at (2, 2).
func floorLevel(extra ...levels.Region) *levels.Level {
	return &levels.Level{
		Name: "floor",
		Regions: append([]levels.Region{
			{Shape: "rect", Tag: "solid", X: -20, Y: -1, W: 60, H: 1},
		}, extra...),
		Entities: []levels.Entity{{Type: "player_spawn", X: 2, Y: 2}},
	}
}

func newSession(t *testing.T, lvl *levels.Level) *Session {
	t.Helper()
	s, err := NewSession(lvl, Options{Tuning: testTuning(t), Seed: 7})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(func() { _ = s.Dispose() })
	return s
}

func grounded(s *Session) bool {
	p, _ := entity.PlayerOf(s.World, s.Player)
	return p.Grounded()
}

func settle(t *testing.T, s *Session) {
	t.Helper()
	for i := 0; i < 120 && !grounded(s); i++ {
		if err := s.Step(frame); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if !grounded(s) {
		t.Fatalf("player never landed")
	}
}

func TestPlayerLandsOnce(t *testing.T) {
	s := newSession(t, floorLevel())
	if grounded(s) {
		t.Fatalf("player must spawn airborne")
	}

	transitions := 0
	prev := false
	for i := 0; i < 180; i++ {
		if err := s.Step(frame); err != nil {
			t.Fatalf("step: %v", err)
		}
		now := grounded(s)
		if now && !prev {
			transitions++
		}
		if prev && !now {
			t.Fatalf("frame %d: player lost ground while resting", i)
		}
		prev = now
	}
	if transitions != 1 {
		t.Fatalf("expected exactly one grounded transition, got %d", transitions)
	}

	body, _ := entity.BodyOf(s.World, s.Player)
	if v := body.Velocity(); math.Abs(v.Y) > 0.05 {
		t.Fatalf("expected vertical velocity to settle, got %v", v.Y)
	}
	if pos := body.Position(); pos.Y < 0.3 || pos.Y > 0.6 {
		t.Fatalf("expected the player resting on the floor, got y=%v", pos.Y)
	}
}

func TestJumpOncePerLanding(t *testing.T) {
	s := newSession(t, floorLevel())
	settle(t, s)

	intent := s.Intent()
	intent.Jump = true
	intent.JumpHeld = true
	if err := s.Step(frame); err != nil {
		t.Fatalf("step: %v", err)
	}
	body, _ := entity.BodyOf(s.World, s.Player)
	if v := body.Velocity().Y; v <= 0 {
		t.Fatalf("expected upward velocity after jump, got %v", v)
	}
	if grounded(s) {
		t.Fatalf("jump must clear grounded")
	}

	// Mashing jump in the air does nothing until the player lands again.
	peak := body.Velocity().Y
	for i := 0; i < 10; i++ {
		intent.Jump = true
		if err := s.Step(frame); err != nil {
			t.Fatalf("step: %v", err)
		}
		if v := body.Velocity().Y; v > peak {
			t.Fatalf("frame %d: second jump in the air (vy %v > %v)", i, v, peak)
		}
		peak = body.Velocity().Y
	}
}

func TestBulletFliesStraight(t *testing.T) {
	s := newSession(t, floorLevel())
	settle(t, s)

	playerBody, _ := entity.BodyOf(s.World, s.Player)
	playerX := playerBody.Position().X

	s.Intent().Fire = true
	if err := s.Step(frame); err != nil {
		t.Fatalf("step: %v", err)
	}
	bullet, ok := ecs.First(s.World, component.BulletComponent.Kind())
	if !ok {
		t.Fatalf("no bullet spawned")
	}
	body, _ := entity.BodyOf(s.World, bullet)
	start := body.Position()
	if start.X < playerX+0.8 {
		t.Fatalf("bullet spawned behind the muzzle: x=%v, player x=%v", start.X, playerX)
	}

	lastX := start.X
	for i := 0; i < 30; i++ {
		if err := s.Step(frame); err != nil {
			t.Fatalf("step: %v", err)
		}
		pos := body.Position()
		if math.Abs(pos.Y-start.Y) > 1e-9 {
			t.Fatalf("step %d: bullet drifted vertically: %v -> %v", i, start.Y, pos.Y)
		}
		if pos.X <= lastX {
			t.Fatalf("step %d: bullet x not increasing: %v -> %v", i, lastX, pos.X)
		}
		lastX = pos.X
	}
	if n := len(ecs.Entities(s.World)); n != 2 {
		t.Fatalf("expected player and bullet only, got %d entities", n)
	}
}

func TestBulletDestroyedOnWall(t *testing.T) {
	wall := levels.Region{Shape: "rect", Tag: "solid", X: 6, Y: 0, W: 0.2, H: 4}
	s := newSession(t, floorLevel(wall))
	settle(t, s)
	bodies := s.Registry.BodyCount()

	s.Intent().Fire = true
	if err := s.Step(frame); err != nil {
		t.Fatalf("step: %v", err)
	}
	bullet, ok := ecs.First(s.World, component.BulletComponent.Kind())
	if !ok {
		t.Fatalf("no bullet spawned")
	}
	body, _ := entity.BodyOf(s.World, bullet)

	for i := 0; i < 60 && ecs.IsAlive(s.World, bullet); i++ {
		if err := s.Step(frame); err != nil {
			t.Fatalf("step: %v", err)
		}
		if s.PendingDestroys() != 0 {
			t.Fatalf("destroy requests must be flushed within the frame")
		}
	}
	if ecs.IsAlive(s.World, bullet) {
		t.Fatalf("bullet survived hitting the wall")
	}
	if body.Valid() || s.Registry.BodyCount() != bodies {
		t.Fatalf("bullet body leaked: %d bodies, want %d", s.Registry.BodyCount(), bodies)
	}
	if body.Position().X > 6.2 {
		t.Fatalf("bullet passed through the wall: x=%v", body.Position().X)
	}
}

func TestBulletExpires(t *testing.T) {
	s := newSession(t, floorLevel())
	s.tuning.Weapon.Lifetime = 0.25
	s.ApplyTuning(s.tuning)
	settle(t, s)

	s.Intent().Fire = true
	for i := 0; i < 20; i++ {
		if err := s.Step(frame); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if _, ok := ecs.First(s.World, component.BulletComponent.Kind()); ok {
		t.Fatalf("bullet outlived its lifetime")
	}
}

func TestLandingBreaksProp(t *testing.T) {
	script, err := prefabs.LoadScript("impact.tengo")
	if err != nil {
		t.Fatalf("load impact script: %v", err)
	}
	tests := []struct {
		name      string
		threshold float64
		breaks    bool
	}{
		{name: "fragile", threshold: 0.001, breaks: true},
		{name: "sturdy", threshold: 1e6, breaks: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl := floorLevel()
			lvl.Entities = append(lvl.Entities, levels.Entity{
				Type:  "prop",
				X:     2,
				Y:     0.5,
				Props: map[string]interface{}{"w": 1.0, "h": 1.0, "break_threshold": tt.threshold},
			})
			s, err := NewSession(lvl, Options{Tuning: testTuning(t), ImpactScript: script, Seed: 7})
			if err != nil {
				t.Fatalf("new session: %v", err)
			}
			t.Cleanup(func() { _ = s.Dispose() })

			prop, ok := ecs.First(s.World, component.BreakableComponent.Kind())
			if !ok {
				t.Fatalf("level has no breakable prop")
			}
			body, _ := entity.BodyOf(s.World, prop)

			for i := 0; i < 180; i++ {
				if err := s.Step(frame); err != nil {
					t.Fatalf("step %d: %v", i, err)
				}
			}
			if broken := !ecs.IsAlive(s.World, prop); broken != tt.breaks {
				t.Fatalf("expected broken=%v after landing, got %v", tt.breaks, broken)
			}
			if body.Valid() == tt.breaks {
				t.Fatalf("prop body must go with the prop")
			}
			if !ecs.IsAlive(s.World, s.Player) {
				t.Fatalf("player must survive the impact")
			}
		})
	}
}

func TestNewSessionWithoutSpawn(t *testing.T) {
	lvl := floorLevel()
	lvl.Entities = nil
	if _, err := NewSession(lvl, Options{Tuning: testTuning(t)}); !errors.Is(err, entity.ErrNoPlayerSpawn) {
		t.Fatalf("expected ErrNoPlayerSpawn, got %v", err)
	}
}

func TestNewSessionBadImpactScript(t *testing.T) {
	if _, err := NewSession(floorLevel(), Options{Tuning: testTuning(t), ImpactScript: []byte("on_impact := ")}); err == nil {
		t.Fatalf("expected a compile error")
	}
}

func TestApplyTuning(t *testing.T) {
	s := newSession(t, floorLevel())
	next := s.Tuning()
	next.Player.JumpSpeed = 22
	next.Weapon.CooldownFrames = 4
	s.ApplyTuning(next)

	p, _ := ecs.Get(s.World, s.Player, component.PlayerComponent.Kind())
	if p.JumpSpeed != 22 {
		t.Fatalf("expected jump speed 22, got %v", p.JumpSpeed)
	}
	weapon, _ := ecs.Get(s.World, s.Player, component.WeaponComponent.Kind())
	if weapon.CooldownFrames != 4 {
		t.Fatalf("expected cooldown 4, got %d", weapon.CooldownFrames)
	}
}

func TestDispose(t *testing.T) {
	s, err := NewSession(floorLevel(), Options{Tuning: testTuning(t)})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.Intent().Fire = true
	if err := s.Step(frame); err != nil {
		t.Fatalf("step: %v", err)
	}
	if err := s.Dispose(); err != nil {
		t.Fatalf("dispose: %v", err)
	}
	if s.World.Len() != 0 || s.Registry.BodyCount() != 0 {
		t.Fatalf("dispose left %d entities and %d bodies", s.World.Len(), s.Registry.BodyCount())
	}
	if err := s.Step(frame); !errors.Is(err, ErrDisposed) {
		t.Fatalf("expected ErrDisposed, got %v", err)
	}
	if err := s.Dispose(); err != nil {
		t.Fatalf("second dispose: %v", err)
	}
}

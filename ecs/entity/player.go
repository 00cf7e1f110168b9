package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/crate/ecs"
	"github.com/milk9111/crate/ecs/component"
	"github.com/milk9111/crate/physics"
)

// PlayerSpec holds the tuning and collider dimensions of a player.
type PlayerSpec struct {
	MoveSpeed float64
	JumpSpeed float64

	Width    float64
	Height   float64
	Density  float64
	Friction float64

	// The ground sensor is a thin box flush with the bottom of the body.
	SensorWidth  float64
	SensorHeight float64

	Weapon component.Weapon
}

func DefaultPlayerSpec() PlayerSpec {
	return PlayerSpec{
		MoveSpeed:    5,
		JumpSpeed:    15,
		Width:        0.8,
		Height:       1,
		Density:      1,
		SensorWidth:  0.7,
		SensorHeight: 0.1,
		Weapon:       DefaultWeapon(),
	}
}

func DefaultWeapon() component.Weapon {
	return component.Weapon{
		BaseOffset:    0.8,
		Speed:         5,
		Lifetime:      5,
		SpreadDegrees: 2,
		Size:          0.5,
		Density:       1,
	}
}

// NewPlayerAt creates a player whose body is centered on (x, y).
func NewPlayerAt(w *ecs.World, reg *physics.Registry, x, y float64, spec PlayerSpec) (ecs.Entity, error) {
	feet := -spec.Height/2 + spec.SensorHeight/2
	body := physics.DynamicBody(cp.Vector{X: x, Y: y},
		physics.FixtureSpec{
			Role:     physics.RoleBody,
			Kind:     physics.ShapeBox,
			Width:    spec.Width,
			Height:   spec.Height,
			Density:  spec.Density,
			Friction: spec.Friction,
		},
		physics.FixtureSpec{
			Role:   physics.RoleGroundSensor,
			Kind:   physics.ShapeBox,
			Width:  spec.SensorWidth,
			Height: spec.SensorHeight,
			Offset: cp.Vector{Y: feet},
			Sensor: true,
		},
	)
	body.FixedRotation = true

	e, _, err := spawn(w, reg, component.KindPlayer, body)
	if err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		MoveSpeed: spec.MoveSpeed,
		JumpSpeed: spec.JumpSpeed,
		Facing:    1,
	}); err != nil {
		return 0, abandon(w, reg, e, fmt.Errorf("player: add state: %w", err))
	}
	weapon := spec.Weapon
	if err := ecs.Add(w, e, component.WeaponComponent.Kind(), &weapon); err != nil {
		return 0, abandon(w, reg, e, fmt.Errorf("player: add weapon: %w", err))
	}
	if err := ecs.Add(w, e, component.IntentComponent.Kind(), &component.Intent{}); err != nil {
		return 0, abandon(w, reg, e, fmt.Errorf("player: add intent: %w", err))
	}
	if err := ecs.Add(w, e, component.PoseComponent.Kind(), &component.Pose{
		X: x, Y: y, Width: spec.Width, Height: spec.Height,
	}); err != nil {
		return 0, abandon(w, reg, e, fmt.Errorf("player: add pose: %w", err))
	}
	return e, nil
}

// Player is a narrow view over a player entity's state. The zero value is
// detached and every setter on it is a no-op.
type Player struct {
	state *component.Player
}

// PlayerOf returns the player view of e. ok is false when e is not a
// live player.
func PlayerOf(w *ecs.World, e ecs.Entity) (Player, bool) {
	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok || p == nil {
		return Player{}, false
	}
	return Player{state: p}, true
}

func (p Player) SetGrounded(v bool) {
	if p.state != nil {
		p.state.Grounded = v
	}
}

func (p Player) SetMovingLeft(v bool) {
	if p.state != nil {
		p.state.MovingLeft = v
	}
}

func (p Player) SetMovingRight(v bool) {
	if p.state != nil {
		p.state.MovingRight = v
	}
}

func (p Player) SetJump(v bool) {
	if p.state != nil {
		p.state.JumpRequested = v
	}
}

func (p Player) Grounded() bool {
	return p.state != nil && p.state.Grounded
}

// Facing is +1 or -1.
func (p Player) Facing() float64 {
	if p.state == nil || p.state.Facing >= 0 {
		return 1
	}
	return -1
}

func updatePlayer(w *ecs.World, e ecs.Entity) {
	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok || p == nil {
		return
	}
	body, ok := BodyOf(w, e)
	if !ok {
		return
	}

	v := body.Velocity()
	switch {
	case p.MovingLeft && !p.MovingRight:
		v.X = -p.MoveSpeed
		p.Facing = -1
	case p.MovingRight && !p.MovingLeft:
		v.X = p.MoveSpeed
		p.Facing = 1
	default:
		v.X = 0
	}
	if p.JumpRequested && p.Grounded {
		v.Y = p.JumpSpeed
		p.JumpRequested = false
		p.Grounded = false
	}
	body.SetVelocity(v)
}

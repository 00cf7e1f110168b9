// Package game wires the registry, the world and the systems into one
// steppable session.
package game

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/crate/ecs"
	"github.com/milk9111/crate/ecs/component"
	"github.com/milk9111/crate/ecs/entity"
	"github.com/milk9111/crate/ecs/system"
	"github.com/milk9111/crate/levels"
	"github.com/milk9111/crate/physics"
	"github.com/milk9111/crate/prefabs"
)

var ErrDisposed = errors.New("game: session disposed")

// Options configure a session.
type Options struct {
	// Tuning is used as given; prefabs.LoadTuning provides the defaults.
	Tuning prefabs.Tuning
	// ImpactScript is tengo source defining on_impact; nil disables
	// impact rules.
	ImpactScript []byte
	// Seed drives bullet spread; 0 picks a random seed.
	Seed uint64
}

// Session is one loaded level being simulated.
type Session struct {
	World    *ecs.World
	Registry *physics.Registry
	Player   ecs.Entity
	Level    *levels.Level

	tuning     prefabs.Tuning
	destroy    *entity.DestroyQueue
	router     *system.ContactRouter
	controller *system.ControllerSystem
	scheduler  *ecs.Scheduler
	disposed   bool
}

// NewSession builds lvl into a fresh world. It fails without a player
// spawn marker.
func NewSession(lvl *levels.Level, opts Options) (*Session, error) {
	tuning := opts.Tuning
	reg := physics.NewRegistry(cp.Vector{X: tuning.Physics.GravityX, Y: tuning.Physics.GravityY})
	w := ecs.NewWorld()
	destroy := &entity.DestroyQueue{}

	var rules *system.ImpactRules
	if opts.ImpactScript != nil {
		var err error
		if rules, err = system.NewImpactRules(opts.ImpactScript); err != nil {
			return nil, err
		}
	}
	router := system.NewContactRouter(destroy, rules)
	reg.SetContactListener(router)

	var rng *rand.Rand
	if opts.Seed != 0 {
		rng = rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	}
	controller := system.NewControllerSystem(reg, rng)

	res, err := entity.LoadLevelToWorld(w, reg, lvl, PlayerSpec(tuning))
	if err != nil {
		return nil, fmt.Errorf("game: build level: %w", err)
	}

	s := &Session{
		World:      w,
		Registry:   reg,
		Player:     res.Player,
		Level:      lvl,
		tuning:     tuning,
		destroy:    destroy,
		router:     router,
		controller: controller,
	}
	s.scheduler = ecs.NewScheduler(
		controller,
		system.NewPhysicsSystem(reg, tuning.Physics.VelocityIterations, tuning.Physics.PositionIterations),
		router,
		system.NewEntitySystem(destroy),
		system.NewDestroySystem(reg, destroy),
		system.NewPoseSystem(),
	)
	return s, nil
}

// Step runs one frame: intent, physics, contact drain, entity update,
// deferred destruction and pose output, in that order.
func (s *Session) Step(dt float64) error {
	if s.disposed {
		return ErrDisposed
	}
	s.World.BeginFrame(dt)
	s.scheduler.Update(s.World)
	return nil
}

// Intent returns the player's intent for the input layer to fill.
func (s *Session) Intent() *component.Intent {
	intent, ok := ecs.Get(s.World, s.Player, component.IntentComponent.Kind())
	if !ok {
		return nil
	}
	return intent
}

// PendingDestroys returns the number of queued destroy requests.
func (s *Session) PendingDestroys() int {
	return s.destroy.Len()
}

func (s *Session) Tuning() prefabs.Tuning {
	return s.tuning
}

// ApplyTuning pushes new player and weapon tuning into the live player.
// Physics tuning is fixed for the life of the session.
func (s *Session) ApplyTuning(t prefabs.Tuning) {
	if t.Physics.GravityX != s.tuning.Physics.GravityX || t.Physics.GravityY != s.tuning.Physics.GravityY {
		log.Printf("Session: gravity change ignored until the level reloads")
	}
	spec := PlayerSpec(t)
	if p, ok := ecs.Get(s.World, s.Player, component.PlayerComponent.Kind()); ok {
		p.MoveSpeed = spec.MoveSpeed
		p.JumpSpeed = spec.JumpSpeed
	}
	if weapon, ok := ecs.Get(s.World, s.Player, component.WeaponComponent.Kind()); ok {
		cooldown := weapon.Cooldown
		*weapon = spec.Weapon
		weapon.Cooldown = min(cooldown, weapon.CooldownFrames)
	}
	s.tuning.Player = t.Player
	s.tuning.Weapon = t.Weapon
}

// SetImpactRules replaces the impact rules; nil disables them.
func (s *Session) SetImpactRules(rules *system.ImpactRules) {
	s.router.SetImpactRules(rules)
}

// Dispose destroys every entity with its body, then the remaining scenery.
// It is safe to call more than once.
func (s *Session) Dispose() error {
	if s.disposed {
		return nil
	}
	if s.Registry.Stepping() {
		return physics.ErrStepInProgress
	}
	var errs []error
	for _, e := range ecs.Entities(s.World) {
		if err := entity.Destroy(s.World, s.Registry, e); err != nil {
			errs = append(errs, err)
		}
	}
	for _, b := range s.Registry.Bodies() {
		if err := s.Registry.DestroyBody(b); err != nil {
			errs = append(errs, err)
		}
	}
	s.disposed = true
	return errors.Join(errs...)
}

// PlayerSpec converts prefab tuning into entity construction parameters.
func PlayerSpec(t prefabs.Tuning) entity.PlayerSpec {
	spec := entity.DefaultPlayerSpec()
	setIf(&spec.MoveSpeed, t.Player.MoveSpeed)
	setIf(&spec.JumpSpeed, t.Player.JumpSpeed)
	setIf(&spec.Width, t.Player.Width)
	setIf(&spec.Height, t.Player.Height)
	setIf(&spec.Density, t.Player.Density)
	setIf(&spec.Friction, t.Player.Friction)
	setIf(&spec.SensorWidth, t.Player.GroundSensor.Width)
	setIf(&spec.SensorHeight, t.Player.GroundSensor.Height)

	setIf(&spec.Weapon.BaseOffset, t.Weapon.BaseOffset)
	setIf(&spec.Weapon.Speed, t.Weapon.Speed)
	setIf(&spec.Weapon.Lifetime, t.Weapon.Lifetime)
	setIf(&spec.Weapon.Size, t.Weapon.Size)
	setIf(&spec.Weapon.Density, t.Weapon.Density)
	// Zero spread and cooldown are meaningful, so they are taken as given.
	spec.Weapon.SpreadDegrees = t.Weapon.SpreadDegrees
	spec.Weapon.CooldownFrames = t.Weapon.CooldownFrames
	return spec
}

func setIf(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

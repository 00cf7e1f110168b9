package system

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/crate/ecs"
	"github.com/milk9111/crate/ecs/component"
	"github.com/milk9111/crate/ecs/entity"
	"github.com/milk9111/crate/physics"
)

type ContactEventKind uint8

const (
	GroundGained ContactEventKind = iota + 1
	GroundLost
	ProjectileHit
	Impact
)

func (k ContactEventKind) String() string {
	switch k {
	case GroundGained:
		return "ground gained"
	case GroundLost:
		return "ground lost"
	case ProjectileHit:
		return "projectile hit"
	case Impact:
		return "impact"
	default:
		return "unknown"
	}
}

// ContactEvent is a classified contact waiting for Drain. Bodies are kept
// instead of entities so the router never touches the world mid-step.
type ContactEvent struct {
	Kind    ContactEventKind
	Self    *physics.Body
	Other   *physics.Body
	Impulse float64
}

type contactPhase uint8

const (
	phaseBegin contactPhase = iota
	phaseEnd
)

type roleHandler func(r *ContactRouter, phase contactPhase, self, other *physics.Fixture)

// ContactRouter classifies physics contacts by fixture role and defers
// their effect on gameplay state until Drain, after the step has finished.
type ContactRouter struct {
	handlers map[physics.Role]roleHandler
	pending  ecs.EventQueue[ContactEvent]
	destroy  *entity.DestroyQueue
	rules    *ImpactRules
}

func NewContactRouter(destroy *entity.DestroyQueue, rules *ImpactRules) *ContactRouter {
	return &ContactRouter{
		handlers: map[physics.Role]roleHandler{
			physics.RoleGroundSensor: handleGroundSensor,
			physics.RoleProjectile:   handleProjectile,
		},
		destroy: destroy,
		rules:   rules,
	}
}

// SetImpactRules swaps the rules used for impacts; nil disables them.
func (r *ContactRouter) SetImpactRules(rules *ImpactRules) {
	r.rules = rules
}

// Pending returns the number of events waiting for Drain.
func (r *ContactRouter) Pending() int {
	return r.pending.Len()
}

func (r *ContactRouter) BeginContact(c physics.Contact) {
	r.dispatch(phaseBegin, c)
}

func (r *ContactRouter) EndContact(c physics.Contact) {
	r.dispatch(phaseEnd, c)
}

// PreSolve restores both fixtures to their base friction. Gameplay code may
// override friction for a single step; the override never outlives it.
func (r *ContactRouter) PreSolve(c physics.Contact) bool {
	c.A.ResetFriction()
	c.B.ResetFriction()
	return true
}

func (r *ContactRouter) PostSolve(c physics.Contact, impulse cp.Vector) {
	if !c.First {
		return
	}
	magnitude := impulse.Length()
	if magnitude <= 0 {
		return
	}
	r.pending.Push(ContactEvent{Kind: Impact, Self: c.A.Body(), Other: c.B.Body(), Impulse: magnitude})
}

func (r *ContactRouter) dispatch(phase contactPhase, c physics.Contact) {
	if c.A == nil || c.B == nil {
		return
	}
	if h, ok := r.handlers[c.A.Role()]; ok {
		h(r, phase, c.A, c.B)
	}
	if h, ok := r.handlers[c.B.Role()]; ok {
		h(r, phase, c.B, c.A)
	}
}

func handleGroundSensor(r *ContactRouter, phase contactPhase, self, other *physics.Fixture) {
	if other.Sensor() {
		return
	}
	kind := GroundGained
	if phase == phaseEnd {
		kind = GroundLost
	}
	r.pending.Push(ContactEvent{Kind: kind, Self: self.Body(), Other: other.Body()})
}

func handleProjectile(r *ContactRouter, phase contactPhase, self, other *physics.Fixture) {
	if phase != phaseBegin || other.Sensor() {
		return
	}
	r.pending.Push(ContactEvent{Kind: ProjectileHit, Self: self.Body(), Other: other.Body()})
}

func (r *ContactRouter) Update(w *ecs.World) {
	r.Drain(w)
}

// Drain applies every pending event in the order the contacts happened.
// It must run after Registry.Advance has returned.
func (r *ContactRouter) Drain(w *ecs.World) {
	for _, evt := range r.pending.Drain() {
		switch evt.Kind {
		case GroundGained, GroundLost:
			r.applyGrounded(w, evt)
		case ProjectileHit:
			r.applyProjectileHit(w, evt)
		case Impact:
			r.applyImpact(w, evt)
		}
	}
}

func (r *ContactRouter) applyGrounded(w *ecs.World, evt ContactEvent) {
	e, ok := entity.OwnerOf(w, evt.Self)
	if !ok {
		return
	}
	player, ok := entity.PlayerOf(w, e)
	if !ok {
		log.Printf("ContactRouter: ground sensor on non-player %s", e)
		return
	}
	player.SetGrounded(evt.Kind == GroundGained)
}

func (r *ContactRouter) applyProjectileHit(w *ecs.World, evt ContactEvent) {
	bullet, ok := entity.OwnerOf(w, evt.Self)
	if !ok {
		return
	}
	if target, ok := entity.OwnerOf(w, evt.Other); ok {
		if spawner, ok := entity.SpawnerOf(w, bullet); ok && spawner == target {
			return
		}
	}
	r.destroy.Request(w, bullet, "hit")
}

func (r *ContactRouter) applyImpact(w *ecs.World, evt ContactEvent) {
	if r.rules == nil {
		return
	}
	a, aOK := entity.OwnerOf(w, evt.Self)
	b, bOK := entity.OwnerOf(w, evt.Other)
	sideA := impactSideOf(w, a, aOK)
	sideB := impactSideOf(w, b, bOK)
	if sideA.Threshold <= 0 && sideB.Threshold <= 0 {
		return
	}

	action, err := r.rules.Evaluate(sideA, sideB, evt.Impulse)
	if err != nil {
		log.Printf("ContactRouter: impact rules: %v", err)
		return
	}
	if action == ImpactDestroyA || action == ImpactDestroyBoth {
		r.breakEntity(w, a, aOK)
	}
	if action == ImpactDestroyB || action == ImpactDestroyBoth {
		r.breakEntity(w, b, bOK)
	}
}

func (r *ContactRouter) breakEntity(w *ecs.World, e ecs.Entity, ok bool) {
	if !ok {
		return
	}
	if kind, _ := entity.KindOf(w, e); kind == component.KindPlayer {
		log.Printf("ContactRouter: impact rules may not destroy player %s", e)
		return
	}
	r.destroy.Request(w, e, "impact")
}

func impactSideOf(w *ecs.World, e ecs.Entity, ok bool) ImpactSide {
	if !ok {
		return ImpactSide{Kind: "scenery"}
	}
	side := ImpactSide{Kind: "unknown"}
	if kind, ok := entity.KindOf(w, e); ok {
		side.Kind = kind.String()
	}
	if br, ok := ecs.Get(w, e, component.BreakableComponent.Kind()); ok && br != nil {
		side.Threshold = br.Threshold
	}
	return side
}

package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/crate/ecs"
	"github.com/milk9111/crate/ecs/component"
	"github.com/milk9111/crate/ecs/entity"
	"github.com/milk9111/crate/physics"
)

type routerFixture struct {
	w      *ecs.World
	reg    *physics.Registry
	queue  *entity.DestroyQueue
	router *ContactRouter
	player ecs.Entity
	floor  *physics.Fixture
	ledge  *physics.Fixture
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	f := &routerFixture{
		w:     ecs.NewWorld(),
		reg:   physics.NewRegistry(cp.Vector{Y: -50}),
		queue: &entity.DestroyQueue{},
	}
	f.router = NewContactRouter(f.queue, nil)

	floorSpec := physics.Box(physics.RoleSolid, 10, 1)
	floorSpec.Friction = 0.9
	floor, err := f.reg.CreateBody(physics.StaticBody(cp.Vector{X: 0, Y: -0.5}, floorSpec))
	if err != nil {
		t.Fatalf("create floor: %v", err)
	}
	f.floor, _ = floor.Fixture(physics.RoleSolid)

	ledge, err := f.reg.CreateBody(physics.StaticBody(cp.Vector{X: 6, Y: -0.5}, physics.Box(physics.RoleSolid, 2, 1)))
	if err != nil {
		t.Fatalf("create ledge: %v", err)
	}
	f.ledge, _ = ledge.Fixture(physics.RoleSolid)

	f.player, err = entity.NewPlayerAt(f.w, f.reg, 0, 5, entity.DefaultPlayerSpec())
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	return f
}

func (f *routerFixture) sensor(t *testing.T) *physics.Fixture {
	t.Helper()
	body, ok := entity.BodyOf(f.w, f.player)
	if !ok {
		t.Fatalf("player has no body")
	}
	s, ok := body.Fixture(physics.RoleGroundSensor)
	if !ok {
		t.Fatalf("player has no ground sensor")
	}
	return s
}

func (f *routerFixture) grounded() bool {
	p, _ := entity.PlayerOf(f.w, f.player)
	return p.Grounded()
}

func TestGroundedIsDeferredUntilDrain(t *testing.T) {
	f := newRouterFixture(t)
	sensor := f.sensor(t)

	f.router.BeginContact(physics.Contact{A: f.floor, B: sensor})
	if f.grounded() {
		t.Fatalf("grounded changed inside the contact callback")
	}
	if f.router.Pending() != 1 {
		t.Fatalf("expected 1 pending event, got %d", f.router.Pending())
	}
	f.router.Drain(f.w)
	if !f.grounded() {
		t.Fatalf("expected grounded after drain")
	}
	if f.router.Pending() != 0 {
		t.Fatalf("drain must empty the queue")
	}
}

func TestGroundedLastWriteWins(t *testing.T) {
	tests := []struct {
		name   string
		events func(f *routerFixture, sensor *physics.Fixture)
		want   bool
	}{
		{
			name: "begin then end",
			events: func(f *routerFixture, s *physics.Fixture) {
				f.router.BeginContact(physics.Contact{A: s, B: f.floor})
				f.router.EndContact(physics.Contact{A: s, B: f.floor})
			},
			want: false,
		},
		{
			name: "end then begin",
			events: func(f *routerFixture, s *physics.Fixture) {
				f.router.EndContact(physics.Contact{A: s, B: f.floor})
				f.router.BeginContact(physics.Contact{A: s, B: f.floor})
			},
			want: true,
		},
		{
			// Straddling two fixtures and leaving one clears grounded.
			name: "straddle",
			events: func(f *routerFixture, s *physics.Fixture) {
				f.router.BeginContact(physics.Contact{A: s, B: f.floor})
				f.router.BeginContact(physics.Contact{A: s, B: f.ledge})
				f.router.EndContact(physics.Contact{A: s, B: f.ledge})
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t)
			tt.events(f, f.sensor(t))
			f.router.Drain(f.w)
			if got := f.grounded(); got != tt.want {
				t.Fatalf("expected grounded=%v, got %v", tt.want, got)
			}
		})
	}
}

func TestGroundSensorIgnoresSensors(t *testing.T) {
	f := newRouterFixture(t)
	trigger, err := f.reg.CreateBody(physics.StaticBody(cp.Vector{X: 0, Y: 4}, physics.Box(physics.RoleSensor, 2, 2)))
	if err != nil {
		t.Fatalf("create trigger: %v", err)
	}
	fix, _ := trigger.Fixture(physics.RoleSensor)
	f.router.BeginContact(physics.Contact{A: f.sensor(t), B: fix})
	f.router.Drain(f.w)
	if f.grounded() {
		t.Fatalf("a trigger region must not ground the player")
	}
}

func TestPreSolveResetsFriction(t *testing.T) {
	f := newRouterFixture(t)
	f.floor.OverrideFriction(0)
	if got := f.floor.Shape().Friction(); got != 0 {
		t.Fatalf("override not applied: %v", got)
	}
	body, _ := entity.BodyOf(f.w, f.player)
	main, _ := body.Fixture(physics.RoleBody)

	if !f.router.PreSolve(physics.Contact{A: main, B: f.floor}) {
		t.Fatalf("PreSolve must keep the contact")
	}
	if got := f.floor.Shape().Friction(); got != 0.9 {
		t.Fatalf("expected base friction 0.9, got %v", got)
	}
}

func TestProjectileHitQueuesDestroy(t *testing.T) {
	f := newRouterFixture(t)
	bullet, err := entity.NewBullet(f.w, f.reg, entity.BulletSpec{
		Position: cp.Vector{X: 3, Y: 5},
		Lifetime: 5,
		Spawner:  f.player,
	})
	if err != nil {
		t.Fatalf("new bullet: %v", err)
	}
	bulletBody, _ := entity.BodyOf(f.w, bullet)
	projectile, _ := bulletBody.Fixture(physics.RoleProjectile)
	playerBody, _ := entity.BodyOf(f.w, f.player)
	playerMain, _ := playerBody.Fixture(physics.RoleBody)

	f.router.BeginContact(physics.Contact{A: playerMain, B: projectile})
	f.router.Drain(f.w)
	if f.queue.Len() != 0 {
		t.Fatalf("bullet must pass through its own shooter")
	}

	f.router.BeginContact(physics.Contact{A: projectile, B: f.floor, Swept: true})
	f.router.Drain(f.w)
	if f.queue.Len() != 1 {
		t.Fatalf("expected bullet queued for destroy, got %d", f.queue.Len())
	}
	if !ecs.IsAlive(f.w, bullet) || !bulletBody.Valid() {
		t.Fatalf("drain must queue, not destroy")
	}
	if n := f.queue.Flush(f.w, f.reg); n != 1 {
		t.Fatalf("expected 1 destroyed, got %d", n)
	}
	if ecs.IsAlive(f.w, bullet) || bulletBody.Valid() {
		t.Fatalf("bullet not destroyed by flush")
	}
}

func TestImpactRulesBreakProps(t *testing.T) {
	f := newRouterFixture(t)
	rules, err := NewImpactRules(defaultImpactScript(t))
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	f.router.SetImpactRules(rules)

	crate, err := entity.NewStaticProp(f.w, f.reg, entity.PropSpec{Position: cp.Vector{X: 3, Y: 0.5}, Width: 1, Height: 1, BreakThreshold: 4})
	if err != nil {
		t.Fatalf("new prop: %v", err)
	}
	crateBody, _ := entity.BodyOf(f.w, crate)
	crateFix, _ := crateBody.Fixture(physics.RoleSolid)
	playerBody, _ := entity.BodyOf(f.w, f.player)
	playerMain, _ := playerBody.Fixture(physics.RoleBody)

	f.router.PostSolve(physics.Contact{A: playerMain, B: crateFix, First: true}, cp.Vector{X: 1})
	f.router.PostSolve(physics.Contact{A: playerMain, B: crateFix}, cp.Vector{X: 50})
	f.router.Drain(f.w)
	if f.queue.Len() != 0 {
		t.Fatalf("soft or repeated impacts must not break the prop")
	}

	f.router.PostSolve(physics.Contact{A: playerMain, B: crateFix, First: true}, cp.Vector{X: 3, Y: 4})
	f.router.Drain(f.w)
	if f.queue.Len() != 1 {
		t.Fatalf("expected the prop queued for destroy, got %d", f.queue.Len())
	}
	if pd, ok := ecs.Get(f.w, crate, component.PendingDestroyComponent.Kind()); !ok || pd.Reason != "impact" {
		t.Fatalf("expected crate pending destroy by impact")
	}
	if ecs.Has(f.w, f.player, component.PendingDestroyComponent.Kind()) {
		t.Fatalf("player must never be destroyed by impacts")
	}
}

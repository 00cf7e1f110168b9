package physics

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/jakecoffman/cp"
)

const (
	DefaultVelocityIterations = 6
	DefaultPositionIterations = 2
)

var (
	ErrStepInProgress = errors.New("physics: world is mid-step")
	ErrInvalidBody    = errors.New("physics: invalid body handle")
	ErrOwnerHasBody   = errors.New("physics: owner already has a body")
	ErrNoFixtures     = errors.New("physics: body spec has no fixtures")
	ErrDuplicateRole  = errors.New("physics: duplicate fixture role on body")
	ErrInvalidRole    = errors.New("physics: invalid fixture role")
)

// Registry owns the Chipmunk space and every body in it. All mutation goes
// through CreateBody, DestroyBody and Advance; none of them may be called
// from a ContactListener.
type Registry struct {
	space    *cp.Space
	gravity  cp.Vector
	listener ContactListener

	bodies   map[BodyID]*Body
	shapes   map[*cp.Shape]*Fixture
	owners   map[uint64]*Body
	touching map[contactKey]struct{}
	nextID   BodyID

	stepping bool
	clock    float64
	steps    uint64
}

// NewRegistry creates an empty world with a fixed gravity vector.
func NewRegistry(gravity cp.Vector) *Registry {
	space := cp.NewSpace()
	space.Iterations = DefaultVelocityIterations + DefaultPositionIterations
	space.SetGravity(gravity)

	r := &Registry{
		space:    space,
		gravity:  gravity,
		bodies:   make(map[BodyID]*Body),
		shapes:   make(map[*cp.Shape]*Fixture),
		owners:   make(map[uint64]*Body),
		touching: make(map[contactKey]struct{}),
	}
	r.installHandlers()
	return r
}

// SetContactListener routes contact callbacks to l. Passing nil disables
// routing.
func (r *Registry) SetContactListener(l ContactListener) {
	r.listener = l
}

// Space returns the underlying Chipmunk space for debug drawing. Callers
// must not add or remove anything through it.
func (r *Registry) Space() *cp.Space {
	if r == nil {
		return nil
	}
	return r.space
}

func (r *Registry) Gravity() cp.Vector {
	return r.gravity
}

// Stepping reports whether Advance is currently running.
func (r *Registry) Stepping() bool {
	return r.stepping
}

// Clock returns the total simulated time in seconds.
func (r *Registry) Clock() float64 {
	return r.clock
}

// Steps returns how many times Advance has completed.
func (r *Registry) Steps() uint64 {
	return r.steps
}

func (r *Registry) BodyCount() int {
	return len(r.bodies)
}

// Contains reports whether b is a live body of this registry.
func (r *Registry) Contains(b *Body) bool {
	if b == nil || !b.valid || b.reg != r {
		return false
	}
	_, ok := r.bodies[b.id]
	return ok
}

// BodyOf returns the body owned by owner.
func (r *Registry) BodyOf(owner uint64) (*Body, bool) {
	b, ok := r.owners[owner]
	return b, ok
}

// Bodies returns every live body ordered by id.
func (r *Registry) Bodies() []*Body {
	out := make([]*Body, 0, len(r.bodies))
	for _, b := range r.bodies {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// CreateBody adds a body and its fixtures to the world.
func (r *Registry) CreateBody(spec BodySpec) (*Body, error) {
	if r.stepping {
		log.Printf("Registry: CreateBody refused for owner %d: step in progress", spec.Owner)
		return nil, ErrStepInProgress
	}
	if len(spec.Fixtures) == 0 {
		return nil, ErrNoFixtures
	}
	seen := make(map[Role]bool, len(spec.Fixtures))
	for _, f := range spec.Fixtures {
		if !f.Role.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrInvalidRole, f.Role)
		}
		if seen[f.Role] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRole, f.Role)
		}
		seen[f.Role] = true
	}
	if spec.Owner != 0 {
		if _, ok := r.owners[spec.Owner]; ok {
			return nil, fmt.Errorf("%w: owner %d", ErrOwnerHasBody, spec.Owner)
		}
	}

	var cpBody *cp.Body
	switch spec.Type {
	case Static:
		cpBody = cp.NewStaticBody()
	case Kinematic:
		cpBody = cp.NewKinematicBody()
	default:
		cpBody = cp.NewBody(massProperties(spec))
	}
	cpBody.SetPosition(spec.Position)
	cpBody.SetAngle(spec.Angle)

	if spec.Type == Dynamic && spec.GravityScale != 1 {
		scale := spec.GravityScale
		cpBody.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
			cp.BodyUpdateVelocity(body, gravity.Mult(scale), damping, dt)
		})
	}
	r.space.AddBody(cpBody)

	r.nextID++
	b := &Body{
		id:      r.nextID,
		reg:     r,
		body:    cpBody,
		typ:     spec.Type,
		owner:   spec.Owner,
		bullet:  spec.Bullet,
		gravity: spec.GravityScale,
		prevPos: spec.Position,
		valid:   true,
	}
	for _, fs := range spec.Fixtures {
		shape := fs.build(cpBody)
		shape.SetFriction(fs.Friction)
		shape.SetElasticity(fs.Restitution)
		shape.SetSensor(fs.Sensor || fs.Role == RoleGroundSensor || fs.Role == RoleSensor)
		shape.SetCollisionType(fs.Role.collisionType())
		r.space.AddShape(shape)

		f := &Fixture{role: fs.Role, body: b, shape: shape, friction: fs.Friction}
		r.shapes[shape] = f
		b.fixtures = append(b.fixtures, f)
	}

	r.bodies[b.id] = b
	if spec.Owner != 0 {
		r.owners[spec.Owner] = b
	}
	return b, nil
}

// DestroyBody removes b from the world and invalidates the handle. While a
// step is running it does nothing and returns ErrStepInProgress; callers
// queue the request and retry after Advance returns.
func (r *Registry) DestroyBody(b *Body) error {
	if !r.Contains(b) {
		return ErrInvalidBody
	}
	if r.stepping {
		log.Printf("Registry: DestroyBody(%d) refused: step in progress", b.id)
		return ErrStepInProgress
	}

	for _, f := range b.fixtures {
		r.space.RemoveShape(f.shape)
		delete(r.shapes, f.shape)
	}
	for key := range r.touching {
		if key.a.body == b || key.b.body == b {
			delete(r.touching, key)
		}
	}
	r.space.RemoveBody(b.body)

	delete(r.bodies, b.id)
	if b.owner != 0 && r.owners[b.owner] == b {
		delete(r.owners, b.owner)
	}
	b.valid = false
	return nil
}

// Advance integrates the world by exactly one step of dt seconds. Contact
// callbacks fire synchronously before it returns. Chipmunk has a single
// solver iteration count, so the velocity and position budgets are summed.
func (r *Registry) Advance(dt float64, velocityIterations, positionIterations int) {
	if r.stepping {
		panic("physics: Advance called from inside a step")
	}
	if dt <= 0 {
		return
	}
	iterations := velocityIterations + positionIterations
	if iterations <= 0 {
		iterations = DefaultVelocityIterations + DefaultPositionIterations
	}
	r.space.Iterations = uint(iterations)

	for _, b := range r.bodies {
		if b.bullet {
			b.prevPos = b.body.Position()
		}
	}

	r.stepping = true
	defer func() { r.stepping = false }()

	r.space.Step(dt)
	r.sweepBullets()

	r.clock += dt
	r.steps++
}

package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// BodyType is the simulation class of a body.
type BodyType uint8

const (
	Static BodyType = iota
	Dynamic
	Kinematic
)

// BodyID identifies a body for its whole life in a Registry. IDs are never
// reused.
type BodyID uint32

// BodySpec describes a body to create. GravityScale is used as given, so a
// zero value means the body ignores gravity; DynamicBody fills in 1.
type BodySpec struct {
	Type          BodyType
	Position      cp.Vector
	Angle         float64
	GravityScale  float64
	Bullet        bool
	FixedRotation bool
	// Owner is an opaque reference to the owning entity, 0 for scenery.
	Owner    uint64
	Fixtures []FixtureSpec
}

// DynamicBody returns a dynamic spec at pos with normal gravity.
func DynamicBody(pos cp.Vector, fixtures ...FixtureSpec) BodySpec {
	return BodySpec{Type: Dynamic, Position: pos, GravityScale: 1, Fixtures: fixtures}
}

// StaticBody returns a static spec at pos.
func StaticBody(pos cp.Vector, fixtures ...FixtureSpec) BodySpec {
	return BodySpec{Type: Static, Position: pos, Fixtures: fixtures}
}

// Body is a handle to a rigid body owned by a Registry. It stays valid until
// the registry destroys it.
type Body struct {
	id       BodyID
	reg      *Registry
	body     *cp.Body
	typ      BodyType
	fixtures []*Fixture
	owner    uint64
	bullet   bool
	gravity  float64
	prevPos  cp.Vector
	valid    bool
}

func (b *Body) ID() BodyID {
	return b.id
}

// Valid reports whether the handle still refers to a live body.
func (b *Body) Valid() bool {
	return b != nil && b.valid
}

func (b *Body) Type() BodyType {
	return b.typ
}

func (b *Body) Owner() uint64 {
	return b.owner
}

func (b *Body) IsBullet() bool {
	return b.bullet
}

func (b *Body) GravityScale() float64 {
	return b.gravity
}

func (b *Body) Position() cp.Vector {
	return b.body.Position()
}

func (b *Body) Velocity() cp.Vector {
	return b.body.Velocity()
}

func (b *Body) SetVelocity(v cp.Vector) {
	b.body.SetVelocityVector(v)
}

func (b *Body) Angle() float64 {
	return b.body.Angle()
}

func (b *Body) Mass() float64 {
	return b.body.Mass()
}

// ApplyImpulse applies an impulse at the center of mass.
func (b *Body) ApplyImpulse(impulse cp.Vector) {
	b.body.ApplyImpulseAtWorldPoint(impulse, b.body.Position())
}

// Fixture returns the fixture with the given role, if the body has one.
func (b *Body) Fixture(role Role) (*Fixture, bool) {
	for _, f := range b.fixtures {
		if f.role == role {
			return f, true
		}
	}
	return nil, false
}

func (b *Body) Fixtures() []*Fixture {
	return b.fixtures
}

// CPBody exposes the engine body for debug drawing.
func (b *Body) CPBody() *cp.Body {
	return b.body
}

func massProperties(spec BodySpec) (mass, moment float64) {
	for _, f := range spec.Fixtures {
		if f.Sensor || f.Density <= 0 {
			continue
		}
		var area, m, i float64
		switch f.Kind {
		case ShapeCircle:
			area = cp.AreaForCircle(0, f.Radius)
			m = f.Density * area
			i = cp.MomentForCircle(m, 0, f.Radius, f.Offset)
		case ShapePolygon:
			area = cp.AreaForPoly(len(f.Vertices), f.Vertices, 0)
			m = f.Density * area
			i = cp.MomentForPoly(m, len(f.Vertices), f.Vertices, cp.Vector{}, 0)
		default:
			area = f.Width * f.Height
			m = f.Density * area
			i = cp.MomentForBox(m, f.Width, f.Height) + m*f.Offset.LengthSq()
		}
		mass += m
		moment += i
	}
	if mass <= 0 {
		mass = 1
		moment = 1
	}
	if spec.FixedRotation {
		moment = math.Inf(1)
	}
	return mass, moment
}

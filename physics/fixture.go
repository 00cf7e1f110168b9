package physics

import "github.com/jakecoffman/cp"

// ShapeKind selects the geometry of a FixtureSpec.
type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota
	ShapeCircle
	ShapePolygon
)

// FixtureSpec describes one shape attached to a body. Offsets and polygon
// vertices are in body-local coordinates.
type FixtureSpec struct {
	Role        Role
	Kind        ShapeKind
	Width       float64
	Height      float64
	Radius      float64
	Offset      cp.Vector
	Vertices    []cp.Vector
	Density     float64
	Friction    float64
	Restitution float64
	Sensor      bool
}

// Box returns a solid box fixture centered on the body.
func Box(role Role, w, h float64) FixtureSpec {
	return FixtureSpec{Role: role, Kind: ShapeBox, Width: w, Height: h, Density: 1}
}

// Fixture is a shape plus material attached to a Body.
type Fixture struct {
	role     Role
	body     *Body
	shape    *cp.Shape
	friction float64
}

func (f *Fixture) Role() Role {
	return f.role
}

func (f *Fixture) Body() *Body {
	return f.body
}

func (f *Fixture) Sensor() bool {
	return f.shape.Sensor()
}

// Friction returns the base material friction the fixture was built with.
func (f *Fixture) Friction() float64 {
	return f.friction
}

// ResetFriction restores the base material friction on the shape, undoing
// any override applied since the last solve.
func (f *Fixture) ResetFriction() {
	if f.shape.Friction() != f.friction {
		f.shape.SetFriction(f.friction)
	}
}

// OverrideFriction changes the live friction without touching the base
// material. The next ResetFriction undoes it.
func (f *Fixture) OverrideFriction(u float64) {
	f.shape.SetFriction(u)
}

// Shape exposes the engine shape for debug drawing and queries.
func (f *Fixture) Shape() *cp.Shape {
	return f.shape
}

func (spec FixtureSpec) build(body *cp.Body) *cp.Shape {
	switch spec.Kind {
	case ShapeCircle:
		return cp.NewCircle(body, spec.Radius, spec.Offset)
	case ShapePolygon:
		return cp.NewPolyShape(body, len(spec.Vertices), spec.Vertices, cp.NewTransformIdentity(), 0)
	default:
		hw, hh := spec.Width/2, spec.Height/2
		bb := cp.BB{
			L: spec.Offset.X - hw,
			B: spec.Offset.Y - hh,
			R: spec.Offset.X + hw,
			T: spec.Offset.Y + hh,
		}
		return cp.NewBox2(body, bb, 0)
	}
}

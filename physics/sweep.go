package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

const sweepEpsilon = 1e-9

// sweepBullets catches bullet bodies that crossed a solid fixture between
// two narrow-phase checks. Chipmunk has no continuous collision, so the
// path from the previous position to the current one is segment-queried.
func (r *Registry) sweepBullets() {
	for _, b := range r.Bodies() {
		if !b.bullet || b.typ != Dynamic {
			continue
		}
		start := b.prevPos
		end := b.body.Position()
		if start.DistanceSq(end) < sweepEpsilon {
			continue
		}

		var (
			hit       *Fixture
			hitPoint  cp.Vector
			hitNormal cp.Vector
			bestAlpha = 1.0
		)
		r.space.SegmentQuery(start, end, 0, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, point, normal cp.Vector, alpha float64, _ interface{}) {
			f, ok := r.shapes[shape]
			if !ok || f.body == b || f.shape.Sensor() || f.role != RoleSolid {
				return
			}
			if alpha < bestAlpha {
				hit, hitPoint, hitNormal, bestAlpha = f, point, normal, alpha
			}
		}, nil)
		if hit == nil {
			continue
		}

		self := b.primaryFixture()
		if self == nil {
			continue
		}
		if _, already := r.touching[contactKey{self, hit}]; already {
			continue
		}

		dir := end.Sub(start).Normalize()
		b.body.SetPosition(hitPoint.Sub(dir.Mult(b.halfExtent(dir))))
		v := b.body.Velocity()
		if into := v.Dot(hitNormal); into < 0 {
			b.body.SetVelocityVector(v.Sub(hitNormal.Mult(into)))
		}

		if r.listener != nil {
			r.listener.BeginContact(Contact{A: self, B: hit, Normal: hitNormal.Neg(), Swept: true, First: true})
		}
	}
}

func (b *Body) primaryFixture() *Fixture {
	for _, f := range b.fixtures {
		if !f.shape.Sensor() {
			return f
		}
	}
	return nil
}

// halfExtent is the distance from the body center to the edge of its
// bounding box along dir.
func (b *Body) halfExtent(dir cp.Vector) float64 {
	f := b.primaryFixture()
	if f == nil {
		return 0
	}
	bb := f.shape.BB()
	return (bb.R-bb.L)/2*math.Abs(dir.X) + (bb.T-bb.B)/2*math.Abs(dir.Y)
}

package physics

import "github.com/jakecoffman/cp"

// Contact is one fixture pair reported by the registry. Normal points from
// A to B. Swept contacts come from the bullet sweep rather than the narrow
// phase; they are begin-only and never get a matching end. First is set on
// the first step the pair touches.
type Contact struct {
	A, B   *Fixture
	Normal cp.Vector
	Swept  bool
	First  bool
}

// Find returns the fixture with the given role and its counterpart. When
// both fixtures carry the role, A is returned as self.
func (c Contact) Find(role Role) (self, other *Fixture, ok bool) {
	switch {
	case c.A != nil && c.A.role == role:
		return c.A, c.B, true
	case c.B != nil && c.B.role == role:
		return c.B, c.A, true
	}
	return nil, nil, false
}

// ContactListener receives contact callbacks. Every method runs inside
// Registry.Advance, while the body set is locked: implementations may read
// body state but must not create or destroy bodies.
type ContactListener interface {
	BeginContact(c Contact)
	EndContact(c Contact)
	// PreSolve runs before the solver for touching, non-sensor pairs.
	// Returning false skips the solve for this step.
	PreSolve(c Contact) bool
	PostSolve(c Contact, impulse cp.Vector)
}

type contactKey struct {
	a, b *Fixture
}

func (r *Registry) fixturesOf(arb *cp.Arbiter) (*Fixture, *Fixture, bool) {
	shapeA, shapeB := arb.Shapes()
	fa, okA := r.shapes[shapeA]
	fb, okB := r.shapes[shapeB]
	return fa, fb, okA && okB
}

func (r *Registry) installHandlers() {
	for a := RoleNone + 1; a < roleCount; a++ {
		for b := a; b < roleCount; b++ {
			h := r.space.NewCollisionHandler(a.collisionType(), b.collisionType())
			// cp passes the handler itself as userData, so each callback
			// closes over the registry instead.
			h.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
				return r.beginContact(arb)
			}
			h.SeparateFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
				r.endContact(arb)
			}
			h.PreSolveFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
				return r.preSolve(arb)
			}
			h.PostSolveFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
				r.postSolve(arb)
			}
		}
	}
}

func (r *Registry) beginContact(arb *cp.Arbiter) bool {
	fa, fb, ok := r.fixturesOf(arb)
	if !ok {
		return true
	}
	r.touching[contactKey{fa, fb}] = struct{}{}
	r.touching[contactKey{fb, fa}] = struct{}{}
	if r.listener != nil {
		r.listener.BeginContact(Contact{A: fa, B: fb, Normal: arb.Normal()})
	}
	return true
}

func (r *Registry) endContact(arb *cp.Arbiter) {
	fa, fb, ok := r.fixturesOf(arb)
	if !ok {
		return
	}
	delete(r.touching, contactKey{fa, fb})
	delete(r.touching, contactKey{fb, fa})
	if r.listener != nil {
		r.listener.EndContact(Contact{A: fa, B: fb, Normal: arb.Normal()})
	}
}

func (r *Registry) preSolve(arb *cp.Arbiter) bool {
	if r.listener == nil {
		return true
	}
	fa, fb, ok := r.fixturesOf(arb)
	if !ok {
		return true
	}
	return r.listener.PreSolve(Contact{A: fa, B: fb, Normal: arb.Normal()})
}

func (r *Registry) postSolve(arb *cp.Arbiter) {
	if r.listener == nil {
		return
	}
	fa, fb, ok := r.fixturesOf(arb)
	if !ok {
		return
	}
	r.listener.PostSolve(Contact{A: fa, B: fb, Normal: arb.Normal(), First: arb.IsFirstContact()}, arb.TotalImpulse())
}

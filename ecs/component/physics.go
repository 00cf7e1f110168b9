package component

import "github.com/milk9111/crate/physics"

// PhysicsBody binds an entity to the single rigid body it owns.
type PhysicsBody struct {
	Body *physics.Body
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()

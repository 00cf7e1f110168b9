package physics

import "github.com/jakecoffman/cp"

// Role classifies a fixture for contact routing. Roles never change how the
// solver treats a shape; sensor-ness and materials do that.
type Role uint8

const (
	RoleNone Role = iota
	// RoleSolid is standable static geometry.
	RoleSolid
	// RoleBody is the main collision fixture of an actor.
	RoleBody
	// RoleGroundSensor sits under an actor's feet.
	RoleGroundSensor
	// RoleProjectile is the fixture of a bullet body.
	RoleProjectile
	// RoleSensor is a static trigger region.
	RoleSensor

	roleCount
)

var roleNames = [...]string{
	RoleNone:         "none",
	RoleSolid:        "solid",
	RoleBody:         "body",
	RoleGroundSensor: "ground sensor",
	RoleProjectile:   "projectile",
	RoleSensor:       "sensor",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// Valid reports whether r is one of the declared roles other than RoleNone.
func (r Role) Valid() bool {
	return r > RoleNone && r < roleCount
}

// ParseRole maps a level tag to a role. Unknown tags map to RoleNone.
func ParseRole(tag string) Role {
	for i, name := range roleNames {
		if name == tag {
			return Role(i)
		}
	}
	return RoleNone
}

func (r Role) collisionType() cp.CollisionType {
	return cp.CollisionType(r)
}

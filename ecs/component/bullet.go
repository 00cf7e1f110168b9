package component

// Bullet is a projectile with a finite lifetime.
type Bullet struct {
	Direction float64
	Speed     float64
	Lifetime  float64
	Age       float64
	// Spawner is weak: the bullet never keeps its shooter alive.
	Spawner EntityRef
}

// Expired reports whether the bullet outlived its lifetime.
func (b Bullet) Expired() bool {
	return b.Lifetime > 0 && b.Age >= b.Lifetime
}

var BulletComponent = NewComponent[Bullet]()

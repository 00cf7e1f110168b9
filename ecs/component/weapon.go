package component

// Weapon describes the bullets an entity fires.
type Weapon struct {
	// BaseOffset is the horizontal spawn distance from the shooter's center,
	// multiplied by facing.
	BaseOffset float64
	// Speed is the magnitude of the launch impulse.
	Speed    float64
	Lifetime float64
	// SpreadDegrees is the full cone width; shots deviate by at most half
	// of it on either side of the firing axis.
	SpreadDegrees  float64
	Size           float64
	Density        float64
	CooldownFrames int

	Cooldown int
}

var WeaponComponent = NewComponent[Weapon]()

package common

const (
	BaseWidth  = 1152
	BaseHeight = 768

	// The camera shows a fixed window of the world, in world units.
	ViewWidth  = 24.0
	ViewHeight = 16.0
)

// PixelsPerUnit is the scale at the base resolution.
func PixelsPerUnit() float64 {
	return min(BaseWidth/ViewWidth, BaseHeight/ViewHeight)
}

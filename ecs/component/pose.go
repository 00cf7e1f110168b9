package component

// Pose is what the presentation layer reads each frame.
type Pose struct {
	X        float64
	Y        float64
	Rotation float64
	FlipX    bool
	// AnimTime accumulates frame deltas for animation playback.
	AnimTime float64
	Width    float64
	Height   float64
}

var PoseComponent = NewComponent[Pose]()

package system

import "github.com/jakecoffman/cp"

// Viewport maps Y-up world units onto Y-down screen pixels.
type Viewport struct {
	// Origin is the world point drawn at the bottom-left of the screen.
	Origin       cp.Vector
	Width        float64
	Height       float64
	ScreenWidth  int
	ScreenHeight int
}

func NewViewport(width, height float64, screenWidth, screenHeight int) Viewport {
	return Viewport{Width: width, Height: height, ScreenWidth: screenWidth, ScreenHeight: screenHeight}
}

// Scale returns pixels per world unit.
func (v Viewport) Scale() float64 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	sx := float64(v.ScreenWidth) / v.Width
	sy := float64(v.ScreenHeight) / v.Height
	if sx < sy {
		return sx
	}
	return sy
}

func (v Viewport) ToScreen(p cp.Vector) (float64, float64) {
	s := v.Scale()
	return (p.X - v.Origin.X) * s, float64(v.ScreenHeight) - (p.Y-v.Origin.Y)*s
}

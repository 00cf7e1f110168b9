package system

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/crate/ecs"
	"github.com/milk9111/crate/ecs/component"
	"github.com/milk9111/crate/physics"
	"golang.org/x/image/colornames"
)

// RenderSystem draws ownerless scenery from the registry and every entity
// from its Pose. It never writes game state.
type RenderSystem struct {
	view Viewport
}

func NewRenderSystem(view Viewport) *RenderSystem {
	return &RenderSystem{view: view}
}

func (r *RenderSystem) SetViewport(view Viewport) {
	r.view = view
}

func (r *RenderSystem) Viewport() Viewport {
	return r.view
}

func (r *RenderSystem) Draw(w *ecs.World, reg *physics.Registry, screen *ebiten.Image) {
	if r == nil || screen == nil {
		return
	}
	screen.Fill(colornames.Midnightblue)

	if reg != nil {
		for _, body := range reg.Bodies() {
			if body.Owner() != 0 {
				continue
			}
			for _, f := range body.Fixtures() {
				if f.Sensor() {
					continue
				}
				bb := f.Shape().BB()
				r.fillRect(screen, cp.Vector{X: bb.L, Y: bb.B}, bb.R-bb.L, bb.T-bb.B, colornames.Slategray)
			}
		}
	}

	ecs.ForEach2(w, component.KindComponent.Kind(), component.PoseComponent.Kind(), func(e ecs.Entity, kind *component.Kind, pose *component.Pose) {
		clr := kindColor(*kind)
		if *kind == component.KindStaticProp && ecs.Has(w, e, component.BreakableComponent.Kind()) {
			clr = colornames.Firebrick
		}
		corner := cp.Vector{X: pose.X - pose.Width/2, Y: pose.Y - pose.Height/2}
		r.fillRect(screen, corner, pose.Width, pose.Height, clr)

		if *kind == component.KindPlayer || *kind == component.KindBullet {
			// Facing marker on the leading edge.
			edge := pose.X + pose.Width/2 - pose.Width/5
			if pose.FlipX {
				edge = pose.X - pose.Width/2
			}
			r.fillRect(screen, cp.Vector{X: edge, Y: pose.Y}, pose.Width/5, pose.Height/4, colornames.White)
		}
	})
}

func (r *RenderSystem) fillRect(screen *ebiten.Image, corner cp.Vector, width, height float64, clr color.Color) {
	x, y := r.view.ToScreen(cp.Vector{X: corner.X, Y: corner.Y + height})
	s := r.view.Scale()
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(width*s), float32(height*s), clr, false)
}

func kindColor(k component.Kind) color.Color {
	switch k {
	case component.KindPlayer:
		return colornames.Steelblue
	case component.KindBullet:
		return colornames.Gold
	case component.KindStaticProp:
		return colornames.Saddlebrown
	default:
		return colornames.Magenta
	}
}

package system

import (
	"github.com/milk9111/crate/ecs"
	"github.com/milk9111/crate/ecs/component"
)

// PoseSystem copies body state into Pose for the renderer.
type PoseSystem struct{}

func NewPoseSystem() *PoseSystem {
	return &PoseSystem{}
}

func (p *PoseSystem) Update(w *ecs.World) {
	dt := w.Delta()
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.PoseComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, pose *component.Pose) {
		if pb.Body == nil || !pb.Body.Valid() {
			return
		}
		pos := pb.Body.Position()
		pose.X = pos.X
		pose.Y = pos.Y
		pose.Rotation = pb.Body.Angle()
		pose.AnimTime += dt

		if player, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok {
			pose.FlipX = player.Facing < 0
		} else if bullet, ok := ecs.Get(w, e, component.BulletComponent.Kind()); ok {
			pose.FlipX = bullet.Direction < 0
		}
	})
}

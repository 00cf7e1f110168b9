package entity

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/crate/ecs"
	"github.com/milk9111/crate/ecs/component"
	"github.com/milk9111/crate/levels"
	"github.com/milk9111/crate/physics"
)

var (
	ErrNoPlayerSpawn        = errors.New("level: no player_spawn marker")
	ErrDuplicatePlayerSpawn = errors.New("level: more than one player_spawn marker")
	ErrBadRegion            = errors.New("level: bad region")
)

const defaultTileFriction = 0.9

// BuildResult lists what LoadLevelToWorld created.
type BuildResult struct {
	// Player is the definitive player the controller drives.
	Player  ecs.Entity
	Props   []ecs.Entity
	Scenery []*physics.Body
}

// LoadLevelToWorld turns level geometry into static bodies and its markers
// into entities. The level must contain exactly one player_spawn marker.
// Bodies created before a failure are left in place; callers discard the
// session on error.
func LoadLevelToWorld(w *ecs.World, reg *physics.Registry, lvl *levels.Level, player PlayerSpec) (BuildResult, error) {
	var res BuildResult
	if lvl == nil {
		return res, errors.New("level: nil level")
	}

	spawn, err := findPlayerSpawn(lvl)
	if err != nil {
		log.Printf("Level: %q: %v", lvl.Name, err)
		return res, err
	}

	tileSize := lvl.Scale()
	for layerIdx, layer := range lvl.Layers {
		meta := levels.LayerMeta{}
		if layerIdx < len(lvl.LayerMeta) {
			meta = lvl.LayerMeta[layerIdx]
		}
		if !meta.Physics {
			continue
		}
		friction := meta.Friction
		if friction == 0 {
			friction = defaultTileFriction
		}
		for _, rect := range mergeTiles(layer, lvl.Width, lvl.Height) {
			rw := float64(rect.w) * tileSize
			rh := float64(rect.h) * tileSize
			// Convert the top-left tile of the rectangle to a Y-up center.
			center := cp.Vector{
				X: float64(rect.x)*tileSize + rw/2,
				Y: float64(lvl.Height-rect.y)*tileSize - rh/2,
			}
			fixture := physics.Box(physics.RoleSolid, rw, rh)
			fixture.Friction = friction
			body, err := reg.CreateBody(physics.StaticBody(center, fixture))
			if err != nil {
				return res, fmt.Errorf("level: layer %d collider: %w", layerIdx, err)
			}
			res.Scenery = append(res.Scenery, body)
		}
	}

	for i, region := range lvl.Regions {
		body, err := regionBody(reg, region)
		if err != nil {
			return res, fmt.Errorf("level: region %d: %w", i, err)
		}
		res.Scenery = append(res.Scenery, body)
	}

	res.Player, err = NewPlayerAt(w, reg, spawn.X, spawn.Y, player)
	if err != nil {
		return res, fmt.Errorf("level: player: %w", err)
	}
	if err := ecs.Add(w, res.Player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return res, fmt.Errorf("level: tag player: %w", err)
	}

	for _, ent := range lvl.Entities {
		switch strings.ToLower(ent.Type) {
		case "player_spawn", "player":
		case "prop":
			e, err := NewStaticProp(w, reg, PropSpec{
				Position:       cp.Vector{X: ent.X, Y: ent.Y},
				Width:          ent.Float("w", tileSize),
				Height:         ent.Float("h", tileSize),
				Friction:       ent.Float("friction", defaultTileFriction),
				BreakThreshold: ent.Float("break_threshold", 0),
			})
			if err != nil {
				return res, fmt.Errorf("level: prop at (%g, %g): %w", ent.X, ent.Y, err)
			}
			res.Props = append(res.Props, e)
		default:
			log.Printf("Level: %q: ignoring unknown marker %q", lvl.Name, ent.Type)
		}
	}

	return res, nil
}

func findPlayerSpawn(lvl *levels.Level) (levels.Entity, error) {
	var (
		spawn levels.Entity
		found int
	)
	for _, ent := range lvl.Entities {
		switch strings.ToLower(ent.Type) {
		case "player_spawn", "player":
			spawn = ent
			found++
		}
	}
	switch {
	case found == 0:
		return spawn, ErrNoPlayerSpawn
	case found > 1:
		return spawn, fmt.Errorf("%w: %d found", ErrDuplicatePlayerSpawn, found)
	}
	return spawn, nil
}

func regionBody(reg *physics.Registry, region levels.Region) (*physics.Body, error) {
	tag := region.Tag
	if tag == "" {
		tag = "solid"
	}
	role := physics.ParseRole(tag)
	if role != physics.RoleSolid && role != physics.RoleSensor {
		return nil, fmt.Errorf("%w: tag %q", ErrBadRegion, region.Tag)
	}

	var (
		pos     cp.Vector
		fixture physics.FixtureSpec
	)
	switch strings.ToLower(region.Shape) {
	case "", "rect":
		if region.W <= 0 || region.H <= 0 {
			return nil, fmt.Errorf("%w: rect %gx%g", ErrBadRegion, region.W, region.H)
		}
		pos = cp.Vector{X: region.X + region.W/2, Y: region.Y + region.H/2}
		fixture = physics.Box(role, region.W, region.H)
	case "polygon":
		if len(region.Points) < 3 {
			return nil, fmt.Errorf("%w: polygon with %d points", ErrBadRegion, len(region.Points))
		}
		pos = cp.Vector{X: region.X, Y: region.Y}
		verts := make([]cp.Vector, 0, len(region.Points))
		for _, p := range region.Points {
			verts = append(verts, cp.Vector{X: p[0], Y: p[1]})
		}
		fixture = physics.FixtureSpec{Role: role, Kind: physics.ShapePolygon, Vertices: verts, Density: 1}
	default:
		return nil, fmt.Errorf("%w: shape %q", ErrBadRegion, region.Shape)
	}
	fixture.Friction = region.Friction
	if fixture.Friction == 0 && role == physics.RoleSolid {
		fixture.Friction = defaultTileFriction
	}
	fixture.Sensor = role == physics.RoleSensor
	return reg.CreateBody(physics.StaticBody(pos, fixture))
}

type tileRect struct {
	x, y, w, h int
}

// mergeTiles covers the filled tiles of a layer with maximal rectangles,
// scanning row by row. Coordinates are in tiles with row 0 at the top.
func mergeTiles(layer []int, width, height int) []tileRect {
	if width <= 0 || height <= 0 {
		return nil
	}
	visited := make([]bool, width*height)
	index := func(x, y int) int { return y*width + x }
	filled := func(idx int) bool {
		return idx < len(layer) && !visited[idx] && layer[idx] > 0
	}

	var rects []tileRect
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !filled(index(x, y)) {
				continue
			}

			maxW := 0
			for x2 := x; x2 < width && filled(index(x2, y)); x2++ {
				maxW++
			}

			maxH := 1
			for y2 := y + 1; y2 < height; y2++ {
				rowOK := true
				for x2 := x; x2 < x+maxW; x2++ {
					if !filled(index(x2, y2)) {
						rowOK = false
						break
					}
				}
				if !rowOK {
					break
				}
				maxH++
			}

			for yy := y; yy < y+maxH; yy++ {
				for xx := x; xx < x+maxW; xx++ {
					visited[index(xx, yy)] = true
				}
			}
			rects = append(rects, tileRect{x: x, y: y, w: maxW, h: maxH})
		}
	}
	return rects
}

package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is a tile grid plus free-form regions and entity markers. Tile row
// 0 is the top row; world space is Y-up, so row r sits at
// y = (Height-1-r)*TileSize.
type Level struct {
	Name      string      `json:"name,omitempty"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	TileSize  float64     `json:"tile_size,omitempty"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Regions   []Region    `json:"regions,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Physics  bool    `json:"physics"`
	Friction float64 `json:"friction,omitempty"`
}

// Region is a static collider given directly in world units. Rect regions
// use X/Y as the bottom-left corner; polygon regions list their points.
type Region struct {
	Shape    string       `json:"shape"`
	Tag      string       `json:"tag"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	W        float64      `json:"w,omitempty"`
	H        float64      `json:"h,omitempty"`
	Points   [][2]float64 `json:"points,omitempty"`
	Friction float64      `json:"friction,omitempty"`
}

// Entity is a named marker in world units.
type Entity struct {
	Type  string                 `json:"type"`
	X     float64                `json:"x"`
	Y     float64                `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

// Float reads a numeric prop, falling back to def.
func (e Entity) Float(key string, def float64) float64 {
	if e.Props == nil {
		return def
	}
	if v, ok := e.Props[key].(float64); ok {
		return v
	}
	return def
}

// Scale returns the world size of one tile.
func (l *Level) Scale() float64 {
	if l == nil || l.TileSize <= 0 {
		return 1
	}
	return l.TileSize
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(data)
}

// LoadLevelFile reads a level from disk instead of the embedded set.
func LoadLevelFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	for i, layer := range lvl.Layers {
		if len(layer) != lvl.Width*lvl.Height {
			return nil, fmt.Errorf("level %q: layer %d has %d tiles, want %d", lvl.Name, i, len(layer), lvl.Width*lvl.Height)
		}
	}
	return &lvl, nil
}

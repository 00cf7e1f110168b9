package main

import (
	"errors"
	"flag"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/crate/common"
	"github.com/milk9111/crate/levels"
	"github.com/milk9111/crate/prefabs"
)

func main() {
	debug := flag.Bool("debug", false, "start in debug wireframe mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "crate", "level name in levels/ (basename, .json optional) or a path to a level file")
	seed := flag.Uint64("seed", 0, "bullet spread seed (0 = random)")
	prefabDir := flag.String("prefabs", prefabs.Dir, "directory checked for prefab overrides before the embedded copies")
	flag.Parse()

	prefabs.Dir = *prefabDir

	lvl, err := loadLevel(*levelName)
	if err != nil {
		log.Fatal(err)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("crate")

	game := NewGame(lvl, *debug, *seed)
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}

func loadLevel(name string) (*levels.Level, error) {
	if strings.ContainsAny(name, `/\`) {
		return levels.LoadLevelFile(name)
	}
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return levels.LoadLevelFromFS(name)
}

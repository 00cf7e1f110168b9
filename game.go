package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/crate/common"
	"github.com/milk9111/crate/ecs/system"
	"github.com/milk9111/crate/game"
	"github.com/milk9111/crate/levels"
	"github.com/milk9111/crate/prefabs"
)

type Game struct {
	frames int

	level   *levels.Level
	opts    game.Options
	session *game.Session
	input   *system.InputSystem
	render  *system.RenderSystem
	watcher *prefabs.Watcher
	pauseUI *ebitenui.UI

	debug   bool
	paused  bool
	restart bool
	quit    bool
}

// NewGame loads tuning and the level and builds the first session. A level
// without a player spawn is fatal.
func NewGame(lvl *levels.Level, debug bool, seed uint64) *Game {
	tuning, err := prefabs.LoadTuning()
	if err != nil {
		log.Fatalf("load tuning: %v", err)
	}
	script, err := prefabs.LoadScript("impact.tengo")
	if err != nil {
		log.Printf("Game: impact rules disabled: %v", err)
	}

	g := &Game{
		level:  lvl,
		opts:   game.Options{Tuning: tuning, ImpactScript: script, Seed: seed},
		input:  system.NewInputSystem(),
		render: system.NewRenderSystem(system.NewViewport(common.ViewWidth, common.ViewHeight, common.BaseWidth, common.BaseHeight)),
		debug:  debug,
	}
	g.session, err = game.NewSession(lvl, g.opts)
	if err != nil {
		log.Fatalf("start level %q: %v", lvl.Name, err)
	}
	if w, err := prefabs.NewWatcher(); err == nil {
		g.watcher = w
	} else {
		log.Printf("Game: prefab hot reload disabled: %v", err)
	}
	g.pauseUI = NewPauseUI(g)
	return g
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || g.quit {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyGraveAccent) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.restart = true
	}
	if g.restart {
		g.restart = false
		g.paused = false
		g.reload()
	}
	g.applyPrefabEdits()

	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.input.Update(g.session.World)
	return g.session.Step(g.frameDelta())
}

// frameDelta is the fixed step from physics.yaml, or one tick.
func (g *Game) frameDelta() float64 {
	if step := g.opts.Tuning.Physics.FixedStep; step > 0 {
		return step
	}
	return 1 / float64(ebiten.TPS())
}

func (g *Game) reload() {
	next, err := game.NewSession(g.level, g.opts)
	if err != nil {
		log.Printf("Game: reload: %v", err)
		return
	}
	if err := g.session.Dispose(); err != nil {
		log.Printf("Game: dispose: %v", err)
	}
	g.session = next
}

func (g *Game) applyPrefabEdits() {
	for _, name := range g.watcher.Drain() {
		switch {
		case strings.HasSuffix(name, ".tengo"):
			src, err := prefabs.LoadScript(name)
			if err != nil {
				log.Printf("Game: reload %s: %v", name, err)
				continue
			}
			rules, err := system.NewImpactRules(src)
			if err != nil {
				log.Printf("Game: reload %s: %v", name, err)
				continue
			}
			g.opts.ImpactScript = src
			g.session.SetImpactRules(rules)
		default:
			tuning, err := prefabs.LoadTuning()
			if err != nil {
				log.Printf("Game: reload %s: %v", name, err)
				continue
			}
			g.opts.Tuning.Player = tuning.Player
			g.opts.Tuning.Weapon = tuning.Weapon
			g.session.ApplyTuning(tuning)
		}
		log.Printf("Game: reloaded %s", name)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.session.World, g.session.Registry, screen)
	if g.debug {
		system.DrawPhysicsDebug(g.session.Registry, g.render.Viewport(), screen)
		system.DrawPlayerStateDebug(g.session.World, g.session.Registry, screen)
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS()))

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

// Close releases the session and the prefab watcher.
func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if err := g.session.Dispose(); err != nil {
		log.Printf("Game: dispose: %v", err)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

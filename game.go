package main

import (
	"fmt"
	"math"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/milk9111/moveset/common"
	"github.com/milk9111/moveset/ecs"
	"github.com/milk9111/moveset/ecs/component"
	"github.com/milk9111/moveset/ecs/entity"
	"github.com/milk9111/moveset/ecs/system"
	"github.com/milk9111/moveset/logger"
	"github.com/milk9111/moveset/prefabs"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	ticksPerSecond = 60
	pixelsPerMetre = 40
	eyeHeight      = 1.5
	// killDepth is how far below the lowest block the player may fall
	// before being returned to spawn.
	killDepth = 20
)

// presetKeys switch presets at runtime.
var presetKeys = []struct {
	key  ebiten.Key
	name string
}{
	{ebiten.KeyF1, "default"},
	{ebiten.KeyF2, "arcade"},
	{ebiten.KeyF3, "sidescroller"},
}

type Options struct {
	Preset string
	Level  string
	Debug  bool
	Watch  bool
}

type Game struct {
	frames int
	debug  bool
	paused bool
	quit   bool

	world   *ecs.World
	sched   *ecs.Scheduler
	input   *system.InputSystem
	physics *system.PhysicsSystem
	camera  *system.Camera
	camSys  *system.CameraSystem

	player ecs.Entity
	spawn  common.Vec3
	killY  float64

	preset  string
	watcher *prefabs.Watcher

	hud     *HUD
	pauseUI *ebitenui.UI
}

func NewGame(opts Options) (*Game, error) {
	preset, err := prefabs.LoadPreset(opts.Preset, true)
	if err != nil {
		return nil, err
	}
	if preset.Warnings != nil {
		logger.Warn("preset abilities disabled", zap.String("preset", preset.Name), zap.Error(preset.Warnings))
	}

	lvl, err := prefabs.LoadLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	w := ecs.NewWorld()
	spawn, err := entity.LoadLevelToWorld(w, lvl)
	if err != nil {
		return nil, err
	}
	player, err := entity.NewPlayer(w, preset, spawn, true)
	if err != nil {
		return nil, err
	}

	g := &Game{
		debug:   opts.Debug,
		world:   w,
		player:  player,
		spawn:   spawn,
		killY:   lowestPoint(lvl) - killDepth,
		preset:  preset.Name,
		physics: system.NewPhysicsSystem(preset.Movement.Ground.Gravity),
		camera:  &system.Camera{X: spawn.X, Y: spawn.Y, Zoom: pixelsPerMetre, Width: baseWidth, Height: baseHeight},
		hud:     NewHUD(),
	}
	g.camSys = system.NewCameraSystem(g.camera, 6)
	g.input = system.NewInputSystem(presetBindings(preset))

	effects := system.NewEffectsSystem()
	effects.OnAny(g.hud.Record)
	effects.On(ecs.EventLanded, func(evt ecs.Event) {
		logger.Debug("landed", zap.Float64("air_time", evt.Value))
	})
	effects.On(ecs.EventGroundPound, func(evt ecs.Event) {
		logger.Info("ground pound", zap.Float64("force", evt.Value), zap.Any("hits", evt.Data))
	})

	g.sched = ecs.NewScheduler(
		g.input,
		system.NewSideViewSystem(eyeHeight),
		system.NewGroundSensorSystem(g.physics),
		system.NewLocomotionSystem(g.physics),
		g.physics,
		system.NewStaminaSystem(),
		g.camSys,
		effects,
	)
	g.pauseUI = NewPauseUI(g)

	if opts.Watch {
		watcher, err := prefabs.NewWatcher(prefabs.DefaultWatchDirs()...)
		if err != nil {
			// Running from outside the repo has no on-disk presets to watch.
			logger.Warn("preset hot reload disabled", zap.Error(err))
		} else {
			g.watcher = watcher
		}
	}

	logger.Info("game started",
		zap.String("preset", preset.Name),
		zap.String("level", lvl.Name),
		zap.Int("blocks", len(lvl.Blocks)),
		zap.Int("props", len(lvl.Props)))
	return g, nil
}

func lowestPoint(lvl *prefabs.LevelSpec) float64 {
	low := lvl.Spawn.Y
	for _, b := range lvl.Blocks {
		low = math.Min(low, b.Y)
	}
	return low
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		if g.quit {
			return ebiten.Termination
		}
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.debug = !g.debug
	}
	for _, pk := range presetKeys {
		if inpututil.IsKeyJustPressed(pk.key) {
			g.switchPreset(pk.name)
		}
	}
	g.pollWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.respawn()
	}

	g.sched.Step(g.world, common.FixedStep)

	if body, ok := ecs.Get(g.world, g.player, component.BodyComponent.Kind()); ok && body.Position.Y < g.killY {
		logger.Info("fell out of level", zap.Float64("y", body.Position.Y))
		g.respawn()
	}
	return nil
}

func (g *Game) respawn() {
	if system.Teleport(g.world, g.player, g.spawn) {
		g.camSys.Snap(g.world)
	}
}

// switchPreset loads name and applies it to the player, keeping its position
// and stamina level.
func (g *Game) switchPreset(name string) {
	preset, err := prefabs.LoadPreset(name, true)
	if err != nil {
		logger.Error("load preset", zap.String("preset", name), zap.Error(err))
		g.hud.Notice(fmt.Sprintf("preset %s: %v", name, err))
		return
	}
	if preset.Warnings != nil {
		logger.Warn("preset abilities disabled", zap.String("preset", name), zap.Error(preset.Warnings))
	}
	if err := preset.Apply(g.world, g.player); err != nil {
		logger.Error("apply preset", zap.String("preset", name), zap.Error(err))
		return
	}
	g.input.Bindings = presetBindings(preset)
	g.preset = name
}

// presetBindings is the default key map with the preset's overrides.
func presetBindings(p *prefabs.Preset) system.Bindings {
	b, err := system.DefaultBindings().WithOverrides(p.Bindings)
	if err != nil {
		logger.Warn("preset bindings", zap.String("preset", p.Name), zap.Error(err))
	}
	return b
}

// pollWatcher reloads the active preset when it or any cost script changes.
func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			if !change.Affects(g.preset) {
				continue
			}
			logger.Info("reloading preset", zap.String("preset", g.preset), zap.Stringer("kind", change.Kind), zap.String("changed", change.Path))
			g.switchPreset(g.preset)
		case err, ok := <-g.watcher.Errors:
			if ok {
				logger.Warn("preset watcher", zap.Error(err))
			}
			return
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawWorld(g.world, g.camera, screen)

	if g.debug {
		system.DrawPhysicsDebug(g.physics, g.camera, screen)
		system.DrawLocomotionDebug(g.world, screen)
	}

	g.hud.Draw(g.world, g.player, g.preset, screen)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS()))

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/moveset/logger"
)

func main() {
	presetName := flag.String("preset", "sidescroller", "movement preset in prefabs/presets (basename)")
	levelName := flag.String("level", "playground", "level in prefabs/levels (basename)")
	debug := flag.Bool("debug", false, "draw physics shapes and controller state")
	watch := flag.Bool("watch", true, "reload presets when their files change on disk")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	logFile := flag.String("log-file", "", "also write logs to this file, rotated")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if err := logger.Init(*logLevel, *logFile); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("moveset")
	ebiten.SetTPS(ticksPerSecond)

	game, err := NewGame(Options{
		Preset: *presetName,
		Level:  *levelName,
		Debug:  *debug,
		Watch:  *watch,
	})
	if err != nil {
		logger.Fatal("start game", zap.Error(err))
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		game.Close()
		logger.Fatal("run game", zap.Error(err))
	}
}

// Command boxdrop loads a scene file and shows it falling, with a small
// control panel for the integrator and resolver stages.
package main

import (
	"context"
	"flag"
	"runtime"

	"rigidbox/internal/body"
	"rigidbox/internal/logging"
	"rigidbox/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	// raylib calls must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	scenePath := flag.String("scene", "assets/scenes/boxdrop.yaml", "scene file to load")
	schemeName := flag.String("scheme", "", "integration scheme, overrides the scene")
	savePath := flag.String("save", "boxdrop-saved.yaml", "where the Save button writes")
	debug := flag.Bool("debug", false, "debug logging and bounds overlay")
	flag.Parse()

	logger := logging.NewLogger("boxdrop")
	if *debug {
		logger = logging.NewDebugLogger("boxdrop")
	}
	defer logger.Sync()
	logging.ReplaceGlobal(logger)

	sc, err := scene.Load(*scenePath)
	if err != nil {
		logger.Fatalw("cannot load scene", "path", *scenePath, "error", err)
	}
	if *schemeName != "" {
		if _, ok := body.ParseScheme(*schemeName); !ok {
			logger.Fatalw("unknown scheme", "scheme", *schemeName, "known", body.Schemes())
		}
		sc.Settings.Scheme = *schemeName
	}

	a := newApp(sc, *savePath, *debug, logger)

	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(1280, 720, "boxdrop")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	initStyle()

	if err := a.Reset(context.Background()); err != nil {
		logger.Fatalw("cannot spawn scene", "path", *scenePath, "error", err)
	}
	defer a.sim.Stop()

	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

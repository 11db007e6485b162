// Stress test for the O(n^2) narrow phase: random boxes dropped into a
// bounded volume, timing World.Step at increasing body counts.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"rigidbox/internal/body"
	"rigidbox/internal/collider"
	"rigidbox/internal/logging"
	"rigidbox/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

type options struct {
	counts     []int
	iterations int
	seed       int64
	scheme     body.Scheme
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("physics_stress", flag.ContinueOnError)
	counts := fs.String("counts", "50,100,250,500,1000", "comma separated body counts")
	iterations := fs.Int("iterations", 10, "timed steps per count")
	seed := fs.Int64("seed", 42, "random seed for body placement")
	scheme := fs.String("scheme", body.SemiImplicitEuler.String(), "integration scheme")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts := options{iterations: *iterations, seed: *seed}
	var err error
	if opts.counts, err = parseCounts(*counts); err != nil {
		return options{}, err
	}
	if opts.iterations <= 0 {
		return options{}, errors.Errorf("-iterations must be positive, got %d", opts.iterations)
	}
	var ok bool
	if opts.scheme, ok = body.ParseScheme(*scheme); !ok {
		return options{}, errors.Errorf("unknown scheme %q", *scheme)
	}
	return opts, nil
}

func parseCounts(s string) ([]int, error) {
	var counts []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.Wrapf(err, "parse count %q", field)
		}
		if n <= 0 {
			return nil, errors.Errorf("count must be positive, got %d", n)
		}
		counts = append(counts, n)
	}
	if len(counts) == 0 {
		return nil, errors.New("no counts given")
	}
	return counts, nil
}

type result struct {
	count    int
	perStep  time.Duration
	contacts int
}

// populate fills w with count unit-ish boxes over a static floor. The
// spawn volume grows with count to keep density roughly constant.
func populate(w *physics.World, count int, rng *rand.Rand) {
	spawnSize := float32(20) + float32(count)/50
	w.AddBox(physics.BoxDef{
		Name:     "floor",
		Position: rl.Vector3{Y: -0.5},
		Scale:    rl.Vector3{X: spawnSize * 2, Y: 1, Z: spawnSize * 2},
		State:    collider.Static,
	})
	for i := 0; i < count; i++ {
		size := 0.5 + rng.Float32()
		pos := rl.Vector3{
			X: rng.Float32()*spawnSize - spawnSize/2,
			Y: 1 + rng.Float32()*spawnSize/2,
			Z: rng.Float32()*spawnSize - spawnSize/2,
		}
		w.AddBox(physics.BoxDef{
			Name:         fmt.Sprintf("box-%d", i),
			Position:     pos,
			Orientation:  rl.QuaternionFromEuler(rng.Float32()*rl.Pi, rng.Float32()*rl.Pi, 0),
			Scale:        rl.Vector3{X: size, Y: size, Z: size},
			Mass:         size * size * size,
			Acceleration: rl.Vector3{Y: -9.81},
		})
	}
}

func run(opts options, count int) result {
	w := physics.New(nil)
	w.SetScheme(opts.scheme)
	populate(w, count, rand.New(rand.NewSource(opts.seed)))

	const dt = float32(1.0 / 60)
	w.Step(dt) // warm up

	start := time.Now()
	contacts := 0
	for i := 0; i < opts.iterations; i++ {
		w.Step(dt)
		contacts += w.Snapshot().Contacts
	}
	return result{
		count:    count,
		perStep:  time.Since(start) / time.Duration(opts.iterations),
		contacts: contacts / opts.iterations,
	}
}

func main() {
	logger := logging.NewLogger("stress")
	defer logger.Sync()

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		logger.Fatalw("bad flags", "error", err)
	}
	logger.Infow("starting", "counts", opts.counts, "iterations", opts.iterations, "seed", opts.seed, "scheme", opts.scheme)

	for _, count := range opts.counts {
		r := run(opts, count)
		pairs := count * (count + 1) / 2
		logger.Infow("step timing",
			"bodies", r.count,
			"pairs", pairs,
			"perStep", r.perStep.Round(time.Microsecond),
			"perPair", (r.perStep / time.Duration(pairs)).Round(time.Nanosecond),
			"contacts", r.contacts,
		)
	}
}

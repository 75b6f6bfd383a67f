// Command simulate runs a scene headless and reports what happened.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"physics2d/internal/physics"
	"physics2d/internal/scene"

	"github.com/go-gl/mathgl/mgl64"
)

type config struct {
	SceneType string
	SceneFile string
	Bodies    int
	Seed      int64

	TimeStep   float64
	Duration   float64 // simulated seconds
	Iterations int
	GravityY   float64
	Sleep      bool

	StatsEvery int // steps
	Snapshot   string
	ProfileCPU string
	Verbose    bool
	Quiet      bool
}

func parseFlags() config {
	var c config
	flag.StringVar(&c.SceneType, "scene", "default", "built-in scene")
	flag.StringVar(&c.SceneFile, "file", "", "scene file to load instead of a built-in scene")
	flag.IntVar(&c.Bodies, "bodies", 100, "number of bodies in generated scenes")
	flag.Int64Var(&c.Seed, "seed", 1, "random seed for generated scenes")
	flag.Float64Var(&c.TimeStep, "dt", 1.0/60, "timestep in seconds")
	flag.Float64Var(&c.Duration, "duration", 10, "simulated seconds")
	flag.IntVar(&c.Iterations, "iterations", 0, "solver iterations (0 keeps the scene's value)")
	flag.Float64Var(&c.GravityY, "gravity", 0, "vertical gravity override (0 keeps the scene's value)")
	flag.BoolVar(&c.Sleep, "sleep", false, "enable sleeping")
	flag.IntVar(&c.StatsEvery, "stats", 60, "log stats every N steps (0 disables)")
	flag.StringVar(&c.Snapshot, "out", "", "write the final state as a scene file")
	flag.StringVar(&c.ProfileCPU, "cpuprofile", "", "write a CPU profile")
	flag.BoolVar(&c.Verbose, "v", false, "log contact events")
	flag.BoolVar(&c.Quiet, "q", false, "suppress all logging")
	flag.Parse()
	return c
}

func loadScene(c config) (*scene.File, error) {
	if c.SceneFile != "" {
		return scene.Load(c.SceneFile)
	}
	return scene.Builtin(c.SceneType, c.Bodies, c.Seed)
}

func main() {
	c := parseFlags()

	if c.Quiet {
		log.SetOutput(io.Discard)
	}

	if c.ProfileCPU != "" {
		f, err := os.Create(c.ProfileCPU)
		if err != nil {
			log.Fatal("Could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("Could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	file, err := loadScene(c)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}
	if file.Duration > 0 {
		c.Duration = file.Duration
	}
	if c.Iterations > 0 {
		file.Config.Iterations = c.Iterations
	}
	if c.GravityY != 0 {
		file.Config.GravityXY = &[2]float64{0, c.GravityY}
	}
	if c.Sleep {
		file.Config.SleepDef = &scene.SleepDef{Enabled: true}
	}

	w, err := file.Build(log.Default())
	if err != nil {
		log.Fatalf("Failed to build scene: %v", err)
	}

	if c.Verbose {
		w.ContactBegan.AddListener(func(e physics.ContactEvent) {
			log.Printf("Contact began: %v-%v at (%.3f, %.3f) speed %.3f", e.A, e.B, e.Point.X(), e.Point.Y(), e.Speed)
		})
		w.ContactEnded.AddListener(func(e physics.ContactEvent) {
			log.Printf("Contact ended: %v-%v", e.A, e.B)
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := run(ctx, w, c)
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}
	log.Printf("Ran %d steps (%.2fs simulated) in %v, %.1f steps/s",
		res.Steps, float64(res.Steps)*c.TimeStep, res.Elapsed.Round(time.Millisecond), res.StepsPerSecond())
	log.Printf("Final kinetic energy %.4f J, center of mass (%.3f, %.3f)",
		res.KineticEnergy, res.CenterOfMass.X(), res.CenterOfMass.Y())

	if c.Snapshot != "" {
		snap := scene.Snapshot(w)
		snap.Name = file.Name
		if err := scene.Save(c.Snapshot, snap); err != nil {
			log.Fatalf("Failed to save snapshot: %v", err)
		}
		log.Printf("Wrote %s", c.Snapshot)
	}
}

type result struct {
	Steps         int
	Elapsed       time.Duration
	KineticEnergy float64
	CenterOfMass  mgl64.Vec2
}

func (r result) StepsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Steps) / r.Elapsed.Seconds()
}

// run steps w until the simulated duration is reached or ctx is done.
func run(ctx context.Context, w *physics.World, c config) (result, error) {
	total := int(c.Duration/c.TimeStep + 0.5)
	start := time.Now()

	var res result
	for res.Steps < total {
		select {
		case <-ctx.Done():
			log.Printf("Interrupted after %d steps", res.Steps)
			total = res.Steps
			continue
		default:
		}

		if err := w.Step(c.TimeStep); err != nil {
			return res, err
		}
		res.Steps++

		if c.StatsEvery > 0 && res.Steps%c.StatsEvery == 0 {
			st := w.Stats()
			log.Printf("Step %d: %d bodies (%d awake), %d pairs, %d contacts, %v/step",
				res.Steps, st.Bodies, st.Awake, st.Pairs, st.Contacts, st.LastStep)
		}
	}
	res.Elapsed = time.Since(start)

	var mass float64
	var moment mgl64.Vec2
	w.Each(func(b *physics.Body) {
		res.KineticEnergy += b.KineticEnergy()
		mass += b.Mass()
		moment = moment.Add(b.Position().Mul(b.Mass()))
	})
	if mass > 0 {
		res.CenterOfMass = moment.Mul(1 / mass)
	}
	return res, nil
}

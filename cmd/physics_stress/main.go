// Stress test comparing this engine against chipmunk (cp) and box2d on the
// same generated scenes.
package main

import (
	"fmt"
	"time"

	"physics2d/internal/physics"
	"physics2d/internal/scene"
)

const (
	timestep  = 1.0 / 60
	warmup    = 30
	iters     = 8 // solver iterations for every engine
	seed      = 42
	stepCount = 120
)

// stepper is one engine loaded with a scene.
type stepper interface {
	Name() string
	Step(dt float64)
	// Pairs reports touching pairs after the last step, for sanity checks.
	Pairs() int
}

func main() {
	testCounts := []int{50, 100, 250, 500, 1000}
	for _, sceneName := range []string{"pyramid", "rain"} {
		fmt.Printf("Scene %s (%d steps after %d warm-up steps)\n", sceneName, stepCount, warmup)
		for _, count := range testCounts {
			if err := testScene(sceneName, count); err != nil {
				fmt.Printf("%5d bodies: ERROR: %v\n", count, err)
			}
		}
		fmt.Println()
	}
}

func testScene(sceneName string, count int) error {
	defs, err := scene.Generate(sceneName, count, seed)
	if err != nil {
		return err
	}

	own, err := newOwnStepper(defs)
	if err != nil {
		return err
	}
	engines := []stepper{own, newCPStepper(defs), newBox2DStepper(defs)}

	fmt.Printf("%5d bodies:", len(defs))
	for _, e := range engines {
		for i := 0; i < warmup; i++ {
			e.Step(timestep)
		}
		start := time.Now()
		for i := 0; i < stepCount; i++ {
			e.Step(timestep)
		}
		perStep := time.Since(start) / stepCount
		fmt.Printf(" | %s %9v (%5d pairs)", e.Name(), perStep.Round(time.Microsecond), e.Pairs())
	}
	fmt.Println()
	return nil
}

type ownStepper struct {
	w *physics.World
}

func newOwnStepper(defs []scene.BodyDef) (*ownStepper, error) {
	cfg := physics.DefaultConfig()
	cfg.Iterations = iters
	cfg.Sleep.Enabled = true
	w, err := physics.NewWorld(cfg)
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		if _, err := scene.AddBody(w, def); err != nil {
			return nil, err
		}
	}
	return &ownStepper{w: w}, nil
}

func (s *ownStepper) Name() string { return "physics2d" }

func (s *ownStepper) Step(dt float64) { s.w.Step(dt) }

func (s *ownStepper) Pairs() int { return s.w.Stats().Manifolds }

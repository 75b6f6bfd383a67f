package game

import "physics2d/internal/physics"

// Stepper advances a world in fixed increments so the simulation does not
// depend on the frame rate.
type Stepper struct {
	Dt          float64
	MaxSubsteps int

	accumulator float64
}

func NewStepper(dt float64) *Stepper {
	return &Stepper{Dt: dt, MaxSubsteps: 5}
}

// Advance consumes elapsed seconds in steps of Dt and returns how many
// steps ran. Leftover time carries into the next call; time beyond
// MaxSubsteps is dropped so a stall cannot snowball.
func (s *Stepper) Advance(w *physics.World, elapsed float64) (int, error) {
	s.accumulator += elapsed
	steps := 0
	for s.accumulator >= s.Dt {
		if steps == s.MaxSubsteps {
			s.accumulator = 0
			break
		}
		if err := w.Step(s.Dt); err != nil {
			return steps, err
		}
		s.accumulator -= s.Dt
		steps++
	}
	return steps, nil
}

// StepOnce runs a single step of Dt regardless of carried time.
func (s *Stepper) StepOnce(w *physics.World) error {
	return w.Step(s.Dt)
}

// Reset drops any carried time.
func (s *Stepper) Reset() { s.accumulator = 0 }

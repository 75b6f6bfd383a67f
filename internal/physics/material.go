package physics

import (
	"math"

	"github.com/pkg/errors"
)

// Material sets how dense, grippy and bouncy a body is.
type Material struct {
	Density     float64
	Friction    float64
	Restitution float64
}

// Material presets.
var (
	MaterialDefault = Material{Density: 0.1, Friction: 0.6, Restitution: 0.5}
	MaterialRubber  = Material{Density: 0.9, Friction: 0.8, Restitution: 0.6}
	MaterialPlastic = Material{Density: 1.2, Friction: 0.6, Restitution: 0.5}
	MaterialStone   = Material{Density: 2.5, Friction: 0.4, Restitution: 0.2}
	MaterialMetal   = Material{Density: 7.8, Friction: 0.2, Restitution: 0.1}
)

var materialsByName = map[string]Material{
	"default": MaterialDefault,
	"rubber":  MaterialRubber,
	"plastic": MaterialPlastic,
	"stone":   MaterialStone,
	"metal":   MaterialMetal,
}

// LookupMaterial returns a preset by name.
func LookupMaterial(name string) (Material, bool) {
	m, ok := materialsByName[name]
	return m, ok
}

// Validate checks the coefficients. Density is only required for bodies
// that move.
func (m Material) Validate(needsDensity bool) error {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
	switch {
	case !finite(m.Density) || !finite(m.Friction) || !finite(m.Restitution):
		return errors.Wrapf(ErrInvalidMaterial, "non-finite coefficient in %+v", m)
	case needsDensity && m.Density <= 0:
		return errors.Wrapf(ErrInvalidMaterial, "density %v must be positive", m.Density)
	case m.Friction < 0:
		return errors.Wrapf(ErrInvalidMaterial, "friction %v must not be negative", m.Friction)
	case m.Restitution < 0 || m.Restitution > 1:
		return errors.Wrapf(ErrInvalidMaterial, "restitution %v must be within [0,1]", m.Restitution)
	}
	return nil
}

package physics

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Gravity presets in m/s².
var (
	GravityEarth = mgl64.Vec2{0, -9.81}
	GravityMars  = mgl64.Vec2{0, -3.71}
	GravityMoon  = mgl64.Vec2{0, -1.62}
	GravityNone  = mgl64.Vec2{}
)

// CombineRule merges the coefficients of two touching bodies.
// The zero value is unset.
type CombineRule uint8

const (
	CombineMin CombineRule = iota + 1
	CombineMax
	CombineAverage
	CombineMultiply
	CombineGeometric
)

var combineNames = map[CombineRule]string{
	CombineMin:       "min",
	CombineMax:       "max",
	CombineAverage:   "average",
	CombineMultiply:  "multiply",
	CombineGeometric: "geometric",
}

// Combine applies the rule to a and b.
func (r CombineRule) Combine(a, b float64) float64 {
	switch r {
	case CombineMax:
		return math.Max(a, b)
	case CombineAverage:
		return (a + b) / 2
	case CombineMultiply:
		return a * b
	case CombineGeometric:
		return math.Sqrt(a * b)
	default:
		return math.Min(a, b)
	}
}

func (r CombineRule) String() string {
	if name, ok := combineNames[r]; ok {
		return name
	}
	return fmt.Sprintf("CombineRule(%d)", r)
}

// ParseCombineRule parses a rule name as printed by String.
func ParseCombineRule(s string) (CombineRule, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for r, name := range combineNames {
		if name == s {
			return r, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidConfig, "unknown combine rule %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r CombineRule) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *CombineRule) UnmarshalText(text []byte) error {
	parsed, err := ParseCombineRule(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// SleepConfig controls when resting bodies stop being simulated.
type SleepConfig struct {
	Enabled          bool
	LinearThreshold  float64 // m/s
	AngularThreshold float64 // rad/s
	TimeToSleep      float64 // seconds below both thresholds
}

// Config holds the world's step parameters.
type Config struct {
	Gravity mgl64.Vec2

	// Iterations is the number of sequential-impulse passes per step.
	Iterations int

	// CorrectionFactor is the share of residual penetration removed per step,
	// and Slop the penetration left alone.
	CorrectionFactor float64
	Slop             float64

	RestitutionRule CombineRule
	FrictionRule    CombineRule

	// Contacts slower than |gravity*dt| plus this (squared speeds) do not bounce.
	RestingSpeedEpsilon float64

	Sleep SleepConfig

	// BroadPhase defaults to NaiveBroadPhase.
	BroadPhase BroadPhase

	// Logger receives engine messages; nil keeps the engine quiet.
	Logger *log.Logger
}

// DefaultConfig returns the standard step parameters under Earth gravity.
func DefaultConfig() Config {
	return Config{
		Gravity:             GravityEarth,
		Iterations:          10,
		CorrectionFactor:    0.4,
		Slop:                0.005,
		RestitutionRule:     CombineMin,
		FrictionRule:        CombineGeometric,
		RestingSpeedEpsilon: 1e-4,
		Sleep: SleepConfig{
			Enabled:          false,
			LinearThreshold:  0.05,
			AngularThreshold: 0.05,
			TimeToSleep:      0.5,
		},
	}
}

// Validate rejects settings the solver cannot work with.
func (c Config) Validate() error {
	switch {
	case !finiteVec(c.Gravity):
		return errors.Wrapf(ErrInvalidConfig, "gravity %v", c.Gravity)
	case c.Iterations <= 0:
		return errors.Wrapf(ErrInvalidConfig, "iterations %d must be positive", c.Iterations)
	case !(c.CorrectionFactor > 0 && c.CorrectionFactor <= 1):
		return errors.Wrapf(ErrInvalidConfig, "correction factor %v must be within (0,1]", c.CorrectionFactor)
	case !(c.Slop >= 0) || math.IsInf(c.Slop, 0):
		return errors.Wrapf(ErrInvalidConfig, "slop %v must not be negative", c.Slop)
	case !(c.RestingSpeedEpsilon >= 0):
		return errors.Wrapf(ErrInvalidConfig, "resting speed epsilon %v must not be negative", c.RestingSpeedEpsilon)
	}
	if _, ok := combineNames[c.RestitutionRule]; !ok {
		return errors.Wrapf(ErrInvalidConfig, "restitution rule %v", c.RestitutionRule)
	}
	if _, ok := combineNames[c.FrictionRule]; !ok {
		return errors.Wrapf(ErrInvalidConfig, "friction rule %v", c.FrictionRule)
	}
	if c.Sleep.Enabled && (c.Sleep.LinearThreshold < 0 || c.Sleep.AngularThreshold < 0 || c.Sleep.TimeToSleep <= 0) {
		return errors.Wrapf(ErrInvalidConfig, "sleep settings %+v", c.Sleep)
	}
	return nil
}

func finiteVec(v mgl64.Vec2) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Package scene loads and saves worlds as YAML files and builds the
// procedural demo scenes shared by the command-line tools.
package scene

import (
	"log"
	"os"
	"strings"

	"physics2d/internal/physics"
	"physics2d/internal/shape"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownShape = errors.New("scene: unknown shape kind")
	ErrUnknownScene = errors.New("scene: unknown scene")
	ErrInvalidBody  = errors.New("scene: invalid body")
)

// --- YAML types ---

type File struct {
	Name        string         `yaml:"name,omitempty"`
	Duration    float64        `yaml:"duration,omitempty"` // seconds, for headless runs
	Config      ConfigDef      `yaml:"config,omitempty"`
	Defaults    BodyDef        `yaml:"defaults,omitempty"`
	Bodies      []BodyDef      `yaml:"bodies"`
	Attractors  []AttractorDef `yaml:"attractors,omitempty"`
	ForceFields [][2]float64   `yaml:"force_fields,omitempty"`
	Generators  []GeneratorDef `yaml:"generators,omitempty"`
}

// ConfigDef overlays physics.DefaultConfig. Omitted fields keep their
// defaults. Scalars are merged by name; gravity and sleep are merged by hand.
type ConfigDef struct {
	GravityXY           *[2]float64         `yaml:"gravity,omitempty"`
	Iterations          int                 `yaml:"iterations,omitempty"`
	CorrectionFactor    float64             `yaml:"correction_factor,omitempty"`
	Slop                float64             `yaml:"slop,omitempty"`
	RestitutionRule     physics.CombineRule `yaml:"restitution_rule,omitempty"`
	FrictionRule        physics.CombineRule `yaml:"friction_rule,omitempty"`
	RestingSpeedEpsilon float64             `yaml:"resting_speed_epsilon,omitempty"`
	SleepDef            *SleepDef           `yaml:"sleep,omitempty"`
}

type SleepDef struct {
	Enabled          bool    `yaml:"enabled"`
	LinearThreshold  float64 `yaml:"linear_threshold,omitempty"`
	AngularThreshold float64 `yaml:"angular_threshold,omitempty"`
	TimeToSleep      float64 `yaml:"time_to_sleep,omitempty"`
}

type ShapeDef struct {
	Kind     string       `yaml:"kind"` // circle, box, polygon, regular
	Radius   float64      `yaml:"radius,omitempty"`
	Width    float64      `yaml:"width,omitempty"`
	Height   float64      `yaml:"height,omitempty"`
	Sides    int          `yaml:"sides,omitempty"`
	Vertices [][2]float64 `yaml:"vertices,omitempty"`
}

// BodyDef describes one body. Keys written in a scene file override the
// file's defaults section even when the value is zero, so a body can say
// `ignore_gravity: false` or `position: [0, 0]` under defaults that set
// them. Bodies built in code only override with non-zero fields.
type BodyDef struct {
	Name            string     `yaml:"name,omitempty"`
	Type            string     `yaml:"type,omitempty"` // dynamic (default) or static
	Shape           ShapeDef   `yaml:"shape,omitempty"`
	Position        [2]float64 `yaml:"position,omitempty"`
	Angle           float64    `yaml:"angle,omitempty"` // radians
	Velocity        [2]float64 `yaml:"velocity,omitempty"`
	AngularVelocity float64    `yaml:"angular_velocity,omitempty"`
	Material        string     `yaml:"material,omitempty"`
	Density         *float64   `yaml:"density,omitempty"`
	Friction        *float64   `yaml:"friction,omitempty"`
	Restitution     *float64   `yaml:"restitution,omitempty"`
	LinearDamping   float64    `yaml:"linear_damping,omitempty"`
	AngularDamping  float64    `yaml:"angular_damping,omitempty"`
	IgnoreGravity   bool       `yaml:"ignore_gravity,omitempty"`
	FixedRotation   bool       `yaml:"fixed_rotation,omitempty"`
	Color           string     `yaml:"color,omitempty"`

	node *yaml.Node // source mapping, kept to replay explicit keys over defaults
}

type plainBodyDef BodyDef

func (d *BodyDef) UnmarshalYAML(value *yaml.Node) error {
	if err := value.Decode((*plainBodyDef)(d)); err != nil {
		return err
	}
	d.node = value
	return nil
}

type AttractorDef struct {
	Position    [2]float64 `yaml:"position"`
	Mass        float64    `yaml:"mass,omitempty"`
	Local       bool       `yaml:"local,omitempty"`
	Radius      float64    `yaml:"radius,omitempty"`
	MinDistance float64    `yaml:"min_distance,omitempty"`
	MaxDistance float64    `yaml:"max_distance,omitempty"`
}

// GeneratorDef expands into bodies from one of the built-in generators.
type GeneratorDef struct {
	Kind  string `yaml:"kind"`
	Count int    `yaml:"count,omitempty"`
	Seed  int64  `yaml:"seed,omitempty"`
}

// BodyInfo is attached to every body built from a scene as its user data.
type BodyInfo struct {
	Name  string
	Color string
}

// --- Loading ---

// Load reads and parses a scene file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scene")
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "scene %s", path)
	}
	return f, nil
}

// Parse decodes a scene from YAML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse scene")
	}
	return &f, nil
}

// PhysicsConfig merges the file's config section onto physics.DefaultConfig.
func (f *File) PhysicsConfig() (physics.Config, error) {
	cfg := physics.DefaultConfig()
	if err := copier.CopyWithOption(&cfg, &f.Config, copier.Option{IgnoreEmpty: true}); err != nil {
		return cfg, errors.Wrap(err, "merge config")
	}
	if f.Config.GravityXY != nil {
		cfg.Gravity = mgl64.Vec2(*f.Config.GravityXY)
	}
	if s := f.Config.SleepDef; s != nil {
		cfg.Sleep.Enabled = s.Enabled
		if s.LinearThreshold > 0 {
			cfg.Sleep.LinearThreshold = s.LinearThreshold
		}
		if s.AngularThreshold > 0 {
			cfg.Sleep.AngularThreshold = s.AngularThreshold
		}
		if s.TimeToSleep > 0 {
			cfg.Sleep.TimeToSleep = s.TimeToSleep
		}
	}
	return cfg, cfg.Validate()
}

// Build creates a world from the file. Invalid bodies abort the build.
func (f *File) Build(logger *log.Logger) (*physics.World, error) {
	cfg, err := f.PhysicsConfig()
	if err != nil {
		return nil, err
	}
	cfg.Logger = logger
	w, err := physics.NewWorld(cfg)
	if err != nil {
		return nil, err
	}
	if err := f.Populate(w); err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Printf("Scene: built %q with %d bodies", f.Name, w.Len())
	}
	return w, nil
}

// Populate adds the file's bodies, generated bodies, attractors and force
// fields to w.
func (f *File) Populate(w *physics.World) error {
	bodies := f.Bodies
	for _, g := range f.Generators {
		generated, err := Generate(g.Kind, g.Count, g.Seed)
		if err != nil {
			return err
		}
		bodies = append(bodies, generated...)
	}

	for i, def := range bodies {
		merged, err := f.withDefaults(def)
		if err != nil {
			return err
		}
		if _, err := AddBody(w, merged); err != nil {
			return errors.Wrapf(err, "body %d (%s)", i, def.Name)
		}
	}

	for i, a := range f.Attractors {
		attr := physics.NewAttractor(mgl64.Vec2(a.Position))
		if a.Mass > 0 {
			attr.Mass = a.Mass
		}
		if a.Local {
			attr.Mode = physics.AttractLocal
			attr.Radius = a.Radius
		}
		if a.MinDistance > 0 {
			attr.MinDistance = a.MinDistance
		}
		if a.MaxDistance > 0 {
			attr.MaxDistance = a.MaxDistance
		}
		if _, err := w.AddAttractor(attr); err != nil {
			return errors.Wrapf(err, "attractor %d", i)
		}
	}

	for i, field := range f.ForceFields {
		if _, err := w.AddForceField(mgl64.Vec2(field)); err != nil {
			return errors.Wrapf(err, "force field %d", i)
		}
	}
	return nil
}

// withDefaults overlays def onto the file's defaults section. Parsed
// bodies replay their own YAML keys over the defaults; bodies built in
// code are merged field by field, skipping zero values.
func (f *File) withDefaults(def BodyDef) (BodyDef, error) {
	merged := f.Defaults
	merged.node = nil
	merged.Density = clonePtr(merged.Density)
	merged.Friction = clonePtr(merged.Friction)
	merged.Restitution = clonePtr(merged.Restitution)
	merged.Shape.Vertices = append([][2]float64(nil), merged.Shape.Vertices...)

	if def.node != nil {
		if err := def.node.Decode((*plainBodyDef)(&merged)); err != nil {
			return def, errors.Wrap(err, "merge body defaults")
		}
		return merged, nil
	}
	if err := copier.CopyWithOption(&merged, &def, copier.Option{IgnoreEmpty: true}); err != nil {
		return def, errors.Wrap(err, "merge body defaults")
	}
	return merged, nil
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// BuildShape turns a shape definition into a validated shape.
func BuildShape(def ShapeDef) (*shape.Shape, error) {
	switch strings.ToLower(def.Kind) {
	case "circle":
		return shape.NewCircle(def.Radius)
	case "box":
		return shape.NewBox(def.Width, def.Height)
	case "regular":
		return shape.NewRegularPolygon(def.Sides, def.Radius)
	case "polygon":
		verts := make([]mgl64.Vec2, len(def.Vertices))
		for i, v := range def.Vertices {
			verts[i] = mgl64.Vec2(v)
		}
		return shape.NewPolygon(verts)
	}
	return nil, errors.Wrapf(ErrUnknownShape, "%q", def.Kind)
}

// BodyDefinition converts a scene body into a physics body definition.
func BodyDefinition(def BodyDef) (physics.BodyDef, error) {
	s, err := BuildShape(def.Shape)
	if err != nil {
		return physics.BodyDef{}, err
	}

	mat := physics.MaterialDefault
	if def.Material != "" {
		m, ok := physics.LookupMaterial(strings.ToLower(def.Material))
		if !ok {
			return physics.BodyDef{}, errors.Wrapf(ErrInvalidBody, "unknown material %q", def.Material)
		}
		mat = m
	}
	if def.Density != nil {
		mat.Density = *def.Density
	}
	if def.Friction != nil {
		mat.Friction = *def.Friction
	}
	if def.Restitution != nil {
		mat.Restitution = *def.Restitution
	}

	typ := physics.Dynamic
	switch strings.ToLower(def.Type) {
	case "", "dynamic":
	case "static":
		typ = physics.Static
	default:
		return physics.BodyDef{}, errors.Wrapf(ErrInvalidBody, "unknown body type %q", def.Type)
	}

	return physics.BodyDef{
		Type:            typ,
		Shape:           s,
		Position:        mgl64.Vec2(def.Position),
		Angle:           def.Angle,
		LinearVelocity:  mgl64.Vec2(def.Velocity),
		AngularVelocity: def.AngularVelocity,
		Material:        mat,
		LinearDamping:   def.LinearDamping,
		AngularDamping:  def.AngularDamping,
		IgnoreGravity:   def.IgnoreGravity,
		FixedRotation:   def.FixedRotation,
		UserData:        BodyInfo{Name: def.Name, Color: def.Color},
	}, nil
}

// AddBody builds def and adds it to w.
func AddBody(w *physics.World, def BodyDef) (physics.Handle, error) {
	bd, err := BodyDefinition(def)
	if err != nil {
		return physics.Handle{}, err
	}
	return w.AddBody(bd)
}

// --- Saving ---

// Snapshot captures the current state of w as a scene file. Polygon
// vertices are written centred on each body's position.
func Snapshot(w *physics.World) *File {
	cfg := w.Config()
	gravity := [2]float64(cfg.Gravity)
	f := &File{
		Config: ConfigDef{
			GravityXY:        &gravity,
			Iterations:       cfg.Iterations,
			CorrectionFactor: cfg.CorrectionFactor,
			Slop:             cfg.Slop,
			RestitutionRule:  cfg.RestitutionRule,
			FrictionRule:     cfg.FrictionRule,

			RestingSpeedEpsilon: cfg.RestingSpeedEpsilon,
		},
	}
	if cfg.Sleep.Enabled {
		f.Config.SleepDef = &SleepDef{
			Enabled:          true,
			LinearThreshold:  cfg.Sleep.LinearThreshold,
			AngularThreshold: cfg.Sleep.AngularThreshold,
			TimeToSleep:      cfg.Sleep.TimeToSleep,
		}
	}

	w.Each(func(b *physics.Body) {
		bd := b.Definition()
		def := BodyDef{
			Position:        [2]float64(bd.Position),
			Angle:           bd.Angle,
			Velocity:        [2]float64(bd.LinearVelocity),
			AngularVelocity: bd.AngularVelocity,
			LinearDamping:   bd.LinearDamping,
			AngularDamping:  bd.AngularDamping,
			IgnoreGravity:   bd.IgnoreGravity,
			FixedRotation:   bd.FixedRotation,
		}
		if info, ok := bd.UserData.(BodyInfo); ok {
			def.Name, def.Color = info.Name, info.Color
		}
		mat := bd.Material
		def.Density, def.Friction, def.Restitution = &mat.Density, &mat.Friction, &mat.Restitution
		if bd.Type == physics.Static {
			def.Type = "static"
		}

		s := bd.Shape
		if s.Kind() == shape.KindCircle {
			def.Shape = ShapeDef{Kind: "circle", Radius: s.Radius()}
		} else {
			def.Shape.Kind = "polygon"
			for _, v := range s.Vertices() {
				def.Shape.Vertices = append(def.Shape.Vertices, [2]float64(v))
			}
		}
		f.Bodies = append(f.Bodies, def)
	})

	for _, a := range w.Attractors() {
		f.Attractors = append(f.Attractors, AttractorDef{
			Position:    [2]float64(a.Position),
			Mass:        a.Mass,
			Local:       a.Mode == physics.AttractLocal,
			Radius:      a.Radius,
			MinDistance: a.MinDistance,
			MaxDistance: a.MaxDistance,
		})
	}
	for _, accel := range w.ForceFields() {
		f.ForceFields = append(f.ForceFields, [2]float64(accel))
	}
	return f
}

// Save writes f as YAML.
func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "marshal scene")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "write scene")
	}
	return nil
}

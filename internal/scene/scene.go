// Package scene reads and writes YAML scene files: world settings plus the
// boxes to spawn into a physics.World.
package scene

import (
	"bytes"
	"io"
	"os"
	"strconv"

	"rigidbox/internal/body"
	"rigidbox/internal/collider"
	"rigidbox/internal/resolver"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// DefaultFixedStep is the physics step used when a scene does not set one.
const DefaultFixedStep = float32(1.0 / 60)

// DefaultGravity is used when a scene does not set gravity.
var DefaultGravity = Vec3{0, -9.81, 0}

// Vec3 is written as a flow sequence, e.g. [0, 1.5, 0].
type Vec3 [3]float32

func FromVector3(v rl.Vector3) Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

func (v Vec3) Vector3() rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

// IsZero lets omitempty drop zero vectors.
func (v Vec3) IsZero() bool {
	return v == Vec3{}
}

func (v Vec3) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, f := range v {
		n.Content = append(n.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: strconv.FormatFloat(float64(f), 'g', -1, 32),
		})
	}
	return n, nil
}

type Settings struct {
	Gravity   *Vec3            `yaml:"gravity,omitempty"`
	Scheme    string           `yaml:"scheme,omitempty"`
	FixedStep float32          `yaml:"fixedStep,omitempty"`
	Stages    *resolver.Stages `yaml:"stages,omitempty"`
}

// Object is one box. Unset optional fields take the body defaults.
type Object struct {
	Name     string `yaml:"name"`
	Position Vec3   `yaml:"position"`
	Rotation Vec3   `yaml:"rotation,omitempty"` // Euler angles, degrees
	Scale    Vec3   `yaml:"scale,omitempty"`    // full extents, default [1, 1, 1]
	State    string `yaml:"state,omitempty"`    // dynamic, static or trigger

	// Mass defaults to 1. Zero means infinite mass.
	Mass *float32 `yaml:"mass,omitempty"`

	Velocity        Vec3 `yaml:"velocity,omitempty"`
	AngularVelocity Vec3 `yaml:"angularVelocity,omitempty"`

	LinearDamping  *float32 `yaml:"linearDamping,omitempty"`
	AngularDamping *float32 `yaml:"angularDamping,omitempty"`
	Restitution    *float32 `yaml:"restitution,omitempty"`
	Friction       *float32 `yaml:"friction,omitempty"`
	Elasticity     *float32 `yaml:"elasticity,omitempty"`

	Resting  bool `yaml:"resting,omitempty"`
	Platform bool `yaml:"platform,omitempty"`

	Color          string   `yaml:"color,omitempty"`
	TriggerTargets []string `yaml:"triggerTargets,omitempty"`
}

type Scene struct {
	Settings Settings `yaml:"settings"`
	Objects  []Object `yaml:"objects"`
}

// Load reads and validates the scene at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scene")
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return s, nil
}

// Parse decodes and validates a scene document. Unknown keys are errors.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "parse scene")
	}
	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid scene")
	}
	return &s, nil
}

// Marshal encodes the scene as YAML.
func (s *Scene) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, errors.Wrap(err, "encode scene")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encode scene")
	}
	return buf.Bytes(), nil
}

// Validate reports every problem in the scene at once.
func (s *Scene) Validate() error {
	var err error

	if s.Settings.Scheme != "" {
		if _, ok := body.ParseScheme(s.Settings.Scheme); !ok {
			err = multierr.Append(err, errors.Errorf("settings: unknown scheme %q", s.Settings.Scheme))
		}
	}
	if s.Settings.FixedStep < 0 {
		err = multierr.Append(err, errors.Errorf("settings: fixedStep must be positive, got %g", s.Settings.FixedStep))
	}

	states := make(map[string]collider.State, len(s.Objects))
	for i, o := range s.Objects {
		if o.Name == "" {
			err = multierr.Append(err, errors.Errorf("object %d: missing name", i))
			continue
		}
		if _, dup := states[o.Name]; dup {
			err = multierr.Append(err, errors.Errorf("object %q: duplicate name", o.Name))
			continue
		}
		state, ok := o.state()
		if !ok {
			err = multierr.Append(err, errors.Errorf("object %q: unknown state %q", o.Name, o.State))
		}
		states[o.Name] = state
		err = multierr.Append(err, o.validate())
	}

	for _, o := range s.Objects {
		if len(o.TriggerTargets) == 0 {
			continue
		}
		if states[o.Name] != collider.Trigger {
			err = multierr.Append(err, errors.Errorf("object %q: triggerTargets set on a %s object", o.Name, o.State))
		}
		for _, target := range o.TriggerTargets {
			if _, ok := states[target]; !ok {
				err = multierr.Append(err, errors.Errorf("object %q: unknown trigger target %q", o.Name, target))
			}
		}
	}
	return err
}

func (o Object) validate() error {
	var err error
	if !o.Scale.IsZero() {
		for i, v := range o.Scale {
			if v <= 0 {
				err = multierr.Append(err, errors.Errorf("object %q: scale[%d] must be positive, got %g", o.Name, i, v))
			}
		}
	}
	if o.Mass != nil && *o.Mass < 0 {
		err = multierr.Append(err, errors.Errorf("object %q: mass must not be negative, got %g", o.Name, *o.Mass))
	}
	for _, f := range []struct {
		name     string
		v        *float32
		min, max float32
	}{
		{"linearDamping", o.LinearDamping, 0, 1},
		{"angularDamping", o.AngularDamping, 0, 1},
		{"restitution", o.Restitution, 0, 1},
		{"friction", o.Friction, 0, 10},
		{"elasticity", o.Elasticity, 0, 10},
	} {
		if f.v != nil && (*f.v < f.min || *f.v > f.max) {
			err = multierr.Append(err, errors.Errorf("object %q: %s must be in [%g, %g], got %g", o.Name, f.name, f.min, f.max, *f.v))
		}
	}
	if o.Color != "" {
		if _, ok := colorByName[o.Color]; !ok {
			err = multierr.Append(err, errors.Errorf("object %q: unknown color %q", o.Name, o.Color))
		}
	}
	return err
}

func (o Object) state() (collider.State, bool) {
	if o.State == "" {
		return collider.Dynamic, true
	}
	return collider.ParseState(o.State)
}

// SchemeOrDefault returns the configured scheme, semi-implicit Euler if unset.
func (s Settings) SchemeOrDefault() body.Scheme {
	if sc, ok := body.ParseScheme(s.Scheme); ok {
		return sc
	}
	return body.SemiImplicitEuler
}

func (s Settings) FixedStepOrDefault() float32 {
	if s.FixedStep > 0 {
		return s.FixedStep
	}
	return DefaultFixedStep
}

func (s Settings) GravityOrDefault() rl.Vector3 {
	if s.Gravity != nil {
		return s.Gravity.Vector3()
	}
	return DefaultGravity.Vector3()
}

func (s Settings) StagesOrDefault() resolver.Stages {
	if s.Stages != nil {
		return *s.Stages
	}
	return resolver.AllStages()
}

package scene

import (
	"errors"
	"fmt"
	"io"

	"cogentcore.org/core/math32"
	"gopkg.in/yaml.v3"
)

// Config errors.
var (
	ErrNoObjects   = errors.New("scene: no objects")
	ErrDuplicateID = errors.New("scene: duplicate object id")
)

// vec3 is the YAML form of a point: a three-element flow sequence.
type vec3 [3]float32

func (v vec3) abs() math32.Vector3 { return math32.Vec3(v[0], v[1], v[2]) }

// cameraConfig mirrors the camera block of a scene file. Zero values
// fall back to DefaultCamera.
type cameraConfig struct {
	Pos    *vec3   `yaml:"pos"`
	Target *vec3   `yaml:"target"`
	Up     *vec3   `yaml:"up"`
	FOV    float32 `yaml:"fov"`
	Near   float32 `yaml:"near"`
	Far    float32 `yaml:"far"`
}

// objectConfig mirrors one entry of the objects list.
type objectConfig struct {
	ID    string  `yaml:"id"`
	Model string  `yaml:"model"`
	Proxy string  `yaml:"proxy"`
	Pos   *vec3   `yaml:"pos"`
	Scale float32 `yaml:"scale"`
}

// Config is the parsed but unresolved form of a scene file: model
// paths have not been decoded yet.
type Config struct {
	Name    string         `yaml:"name"`
	Camera  cameraConfig   `yaml:"camera"`
	Objects []objectConfig `yaml:"objects"`
}

// ParseConfig reads a scene file from r and validates its structure.
func ParseConfig(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("scene: parse: %w", err)
	}
	if len(cfg.Objects) == 0 {
		return nil, ErrNoObjects
	}
	seen := make(map[string]bool, len(cfg.Objects))
	for i, o := range cfg.Objects {
		if o.ID == "" {
			return nil, fmt.Errorf("scene: object %d has no id", i)
		}
		if o.Model == "" {
			return nil, fmt.Errorf("scene: object %q has no model", o.ID)
		}
		if seen[o.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, o.ID)
		}
		seen[o.ID] = true
	}
	return &cfg, nil
}

// camera resolves the camera block against DefaultCamera.
func (cfg *Config) camera() Camera {
	c := DefaultCamera()
	if cfg.Camera.Pos != nil {
		c.Pos = cfg.Camera.Pos.abs()
	}
	if cfg.Camera.Target != nil {
		c.Target = cfg.Camera.Target.abs()
	}
	if cfg.Camera.Up != nil {
		c.Up = cfg.Camera.Up.abs()
	}
	if cfg.Camera.FOV > 0 {
		c.FOV = cfg.Camera.FOV
	}
	if cfg.Camera.Near > 0 {
		c.Near = cfg.Camera.Near
	}
	if cfg.Camera.Far > 0 {
		c.Far = cfg.Camera.Far
	}
	return c
}

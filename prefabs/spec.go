package prefabs

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. CRATE_GRAVITY_Y.
const EnvPrefix = "CRATE_"

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type PhysicsSpec struct {
	Name               string  `yaml:"name"`
	GravityX           float64 `yaml:"gravity_x" env:"GRAVITY_X"`
	GravityY           float64 `yaml:"gravity_y" env:"GRAVITY_Y"`
	VelocityIterations int     `yaml:"velocity_iterations" env:"VELOCITY_ITERATIONS"`
	PositionIterations int     `yaml:"position_iterations" env:"POSITION_ITERATIONS"`
	FixedStep          float64 `yaml:"fixed_step" env:"FIXED_STEP"`
}

type SensorSpec struct {
	Width  float64 `yaml:"width" env:"WIDTH"`
	Height float64 `yaml:"height" env:"HEIGHT"`
}

type PlayerSpec struct {
	Name         string     `yaml:"name"`
	MoveSpeed    float64    `yaml:"move_speed" env:"MOVE_SPEED"`
	JumpSpeed    float64    `yaml:"jump_speed" env:"JUMP_SPEED"`
	Width        float64    `yaml:"width" env:"WIDTH"`
	Height       float64    `yaml:"height" env:"HEIGHT"`
	Density      float64    `yaml:"density" env:"DENSITY"`
	Friction     float64    `yaml:"friction" env:"FRICTION"`
	GroundSensor SensorSpec `yaml:"ground_sensor" envPrefix:"SENSOR_"`
}

type WeaponSpec struct {
	Name           string  `yaml:"name"`
	BaseOffset     float64 `yaml:"base_offset" env:"BASE_OFFSET"`
	Speed          float64 `yaml:"speed" env:"SPEED"`
	Lifetime       float64 `yaml:"lifetime" env:"LIFETIME"`
	SpreadDegrees  float64 `yaml:"spread_degrees" env:"SPREAD_DEGREES"`
	Size           float64 `yaml:"size" env:"SIZE"`
	Density        float64 `yaml:"density" env:"DENSITY"`
	CooldownFrames int     `yaml:"cooldown_frames" env:"COOLDOWN_FRAMES"`
}

// Tuning is every prefab the game reads at startup.
type Tuning struct {
	Physics PhysicsSpec `envPrefix:"PHYSICS_"`
	Player  PlayerSpec  `envPrefix:"PLAYER_"`
	Weapon  WeaponSpec  `envPrefix:"WEAPON_"`
}

// LoadTuning reads physics.yaml, player.yaml and weapon.yaml, then applies
// CRATE_* environment overrides (CRATE_PLAYER_JUMP_SPEED and so on).
func LoadTuning() (Tuning, error) {
	var t Tuning
	var err error
	if t.Physics, err = LoadSpec[PhysicsSpec]("physics.yaml"); err != nil {
		return Tuning{}, err
	}
	if t.Player, err = LoadSpec[PlayerSpec]("player.yaml"); err != nil {
		return Tuning{}, err
	}
	if t.Weapon, err = LoadSpec[WeaponSpec]("weapon.yaml"); err != nil {
		return Tuning{}, err
	}
	if err := ApplyEnv(&t); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// ApplyEnv overrides fields of target from the environment. Fields whose
// variable is unset keep their value.
func ApplyEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("prefabs: parse env: %w", err)
	}
	return nil
}

// Package config handles engine configuration loading and management.
package config

import "github.com/mechanicchickendev/froggi/pkg/math"

// Config holds all engine settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Render   RenderConfig   `yaml:"render"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Assets   AssetsConfig   `yaml:"assets"`
	Audio    AudioConfig    `yaml:"audio"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds window and display settings.
type GraphicsConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// RenderConfig holds render-graph settings. The engine draws at a fixed
// internal resolution and upscales to the window in the blit pass.
type RenderConfig struct {
	InternalWidth  int     `yaml:"internal_width"`
	InternalHeight int     `yaml:"internal_height"`
	Zoom           float32 `yaml:"zoom"`
	ZoomCenterX    float32 `yaml:"zoom_center_x"`
	ZoomCenterY    float32 `yaml:"zoom_center_y"`
	DebugDraw      bool    `yaml:"debug_draw"`
}

// PhysicsConfig holds simulation tunables.
type PhysicsConfig struct {
	Gravity         [3]float32 `yaml:"gravity"`
	FixedTimeStep   float32    `yaml:"fixed_time_step"`
	SubSteps        int        `yaml:"sub_steps"`
	SlopeLimitCos   float32    `yaml:"slope_limit_cos"`
	VelocityEpsilon float32    `yaml:"velocity_epsilon"`
	LinearDamping   float32    `yaml:"linear_damping"`
	AngularDamping  float32    `yaml:"angular_damping"`
}

// GravityVec returns gravity as a Vec3.
func (p PhysicsConfig) GravityVec() math.Vec3 {
	return math.Vec3{X: p.Gravity[0], Y: p.Gravity[1], Z: p.Gravity[2]}
}

// AssetsConfig points at the asset tree. Dir is the loose-file root,
// Pack an optional archive consulted before the directory, Manifest a
// YAML list of assets to preload.
type AssetsConfig struct {
	Dir      string `yaml:"dir"`
	Pack     string `yaml:"pack"`
	Manifest string `yaml:"manifest"`
}

// AudioConfig holds mixer levels and the startup track.
type AudioConfig struct {
	MasterVolume float64 `yaml:"master_volume"`
	MusicVolume  float64 `yaml:"music_volume"`
	SoundVolume  float64 `yaml:"sound_volume"`
	Music        string  `yaml:"music"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Title:      "froggi",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Render: RenderConfig{
			InternalWidth:  640,
			InternalHeight: 360,
			Zoom:           1.0,
			ZoomCenterX:    0.5,
			ZoomCenterY:    0.5,
			DebugDraw:      false,
		},
		Physics: PhysicsConfig{
			Gravity:         [3]float32{0, 0, -30},
			FixedTimeStep:   1.0 / 60.0,
			SubSteps:        4,
			SlopeLimitCos:   0.6,
			VelocityEpsilon: 0.01,
			LinearDamping:   0.05,
			AngularDamping:  0.05,
		},
		Assets: AssetsConfig{
			Dir:      "assets",
			Manifest: "assets/manifest.yaml",
		},
		Audio: AudioConfig{
			MasterVolume: 1.0,
			MusicVolume:  0.7,
			SoundVolume:  1.0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "ORRERY"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// SystemConfig describes a whole solar system and how to run it.
type SystemConfig struct {
	Star       BodyConfig       `json:"star" mapstructure:"star"`
	Planets    []PlanetConfig   `json:"planets" mapstructure:"planets"`
	Belts      []BeltConfig     `json:"belts" mapstructure:"belts"`
	Spacecraft SpacecraftConfig `json:"spacecraft" mapstructure:"spacecraft"`
	Simulation SimulationConfig `json:"simulation" mapstructure:"simulation"`
	Server     ServerConfig     `json:"server" mapstructure:"server"`
	Client     ClientConfig     `json:"client" mapstructure:"client"`
}

// BodyConfig holds the physical and display settings shared by every body.
// Axes are in scene units; periods in days.
type BodyConfig struct {
	Name         string  `json:"name" mapstructure:"name"`
	Radius       float64 `json:"radius" mapstructure:"radius"`
	SemiMajor    float64 `json:"semiMajor" mapstructure:"semiMajor"`
	SemiMinor    float64 `json:"semiMinor" mapstructure:"semiMinor"`
	PeriodDays   float64 `json:"periodDays" mapstructure:"periodDays"`
	RotationDays float64 `json:"rotationDays" mapstructure:"rotationDays"`
	OrbitColor   string  `json:"orbitColor,omitempty" mapstructure:"orbitColor"`
	LabelColor   string  `json:"labelColor,omitempty" mapstructure:"labelColor"`

	ShortDescription string   `json:"shortDescription,omitempty" mapstructure:"shortDescription"`
	Title            string   `json:"title,omitempty" mapstructure:"title"`
	Paragraphs       []string `json:"paragraphs,omitempty" mapstructure:"paragraphs"`

	Locations []LocationConfig `json:"locations,omitempty" mapstructure:"locations"`
}

// RotationSpeed converts RotationDays to radians per simulated second. A
// zero rotation period means the body does not spin.
func (b BodyConfig) RotationSpeed() float64 {
	if b.RotationDays == 0 {
		return 0
	}
	return 2 * math.Pi / (b.RotationDays * 24 * 60 * 60)
}

// PlanetConfig adds satellites and surface features to a body.
type PlanetConfig struct {
	BodyConfig `mapstructure:",squash"`
	Satellites []SatelliteConfig `json:"satellites,omitempty" mapstructure:"satellites"`
	Ring       *RingConfig       `json:"ring,omitempty" mapstructure:"ring"`
	// CloudSize is the cloud shell radius in planet radii; zero means no clouds.
	CloudSize float64 `json:"cloudSize,omitempty" mapstructure:"cloudSize"`
}

// SatelliteConfig places a body in orbit around its planet.
type SatelliteConfig struct {
	BodyConfig `mapstructure:",squash"`
	// YOffset lifts the satellite's orbit above the planet's orbital plane.
	YOffset float64 `json:"yOffset" mapstructure:"yOffset"`
}

// LocationConfig is a named marker on a body's surface.
type LocationConfig struct {
	Name      string  `json:"name" mapstructure:"name"`
	Latitude  float64 `json:"latitude" mapstructure:"latitude"`
	Longitude float64 `json:"longitude" mapstructure:"longitude"`
	Size      float64 `json:"size" mapstructure:"size"`
}

// RingConfig is a flat ring tilted about the planet's x, y and z axes.
type RingConfig struct {
	InnerRadius float64 `json:"innerRadius" mapstructure:"innerRadius"`
	OuterRadius float64 `json:"outerRadius" mapstructure:"outerRadius"`
	TiltX       float64 `json:"tiltX" mapstructure:"tiltX"`
	TiltY       float64 `json:"tiltY" mapstructure:"tiltY"`
	TiltZ       float64 `json:"tiltZ" mapstructure:"tiltZ"`
}

// BeltConfig is an asteroid belt on an ellipse around a centre.
type BeltConfig struct {
	CenterX   float64 `json:"centerX" mapstructure:"centerX"`
	CenterY   float64 `json:"centerY" mapstructure:"centerY"`
	CenterZ   float64 `json:"centerZ" mapstructure:"centerZ"`
	SemiMajor float64 `json:"semiMajor" mapstructure:"semiMajor"`
	SemiMinor float64 `json:"semiMinor" mapstructure:"semiMinor"`
	Count     int     `json:"count" mapstructure:"count"`
}

// SpacecraftConfig configures the travelling craft.
type SpacecraftConfig struct {
	Name string `json:"name" mapstructure:"name"`
	// Speed is simulated seconds per trajectory sample.
	Speed      float64 `json:"speed" mapstructure:"speed"`
	PathPoints int     `json:"pathPoints" mapstructure:"pathPoints"`
}

// SimulationConfig holds the frame driver settings.
type SimulationConfig struct {
	// Speed is simulated seconds per real second.
	Speed          float64 `json:"speed" mapstructure:"speed"`
	FrameRate      int     `json:"frameRate" mapstructure:"frameRate"`
	MaxDelta       float64 `json:"maxDelta" mapstructure:"maxDelta"`
	TracePoints    int     `json:"tracePoints" mapstructure:"tracePoints"`
	TraceThreshold float64 `json:"traceThreshold" mapstructure:"traceThreshold"`
	OrbitPoints    int     `json:"orbitPoints" mapstructure:"orbitPoints"`
	StartRunning   bool    `json:"startRunning" mapstructure:"startRunning"`
}

// ServerConfig holds the HTTP surface settings.
type ServerConfig struct {
	ListenAddr      string        `json:"listenAddr" mapstructure:"listenAddr"`
	AllowedOrigins  []string      `json:"allowedOrigins" mapstructure:"allowedOrigins"`
	SnapshotRate    int           `json:"snapshotRate" mapstructure:"snapshotRate"`
	CommandRate     float64       `json:"commandRate" mapstructure:"commandRate"`
	CommandBurst    int           `json:"commandBurst" mapstructure:"commandBurst"`
	MaxRequestBytes int64         `json:"maxRequestBytes" mapstructure:"maxRequestBytes"`
	StallTimeout    time.Duration `json:"stallTimeout" mapstructure:"stallTimeout"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout" mapstructure:"shutdownTimeout"`
}

// ClientConfig holds the remote viewer settings.
type ClientConfig struct {
	ServerURL            string        `json:"serverURL" mapstructure:"serverURL"`
	RequestTimeout       time.Duration `json:"requestTimeout" mapstructure:"requestTimeout"`
	ReconnectDelay       time.Duration `json:"reconnectDelay" mapstructure:"reconnectDelay"`
	MaxReconnectAttempts int           `json:"maxReconnectAttempts" mapstructure:"maxReconnectAttempts"`
	RetryAttempts        int           `json:"retryAttempts" mapstructure:"retryAttempts"`
	RetryBaseDelay       time.Duration `json:"retryBaseDelay" mapstructure:"retryBaseDelay"`

	// Circuit breaker around every call to the server.
	BreakerMaxRequests    uint32        `json:"breakerMaxRequests" mapstructure:"breakerMaxRequests"`
	BreakerInterval       time.Duration `json:"breakerInterval" mapstructure:"breakerInterval"`
	BreakerTimeout        time.Duration `json:"breakerTimeout" mapstructure:"breakerTimeout"`
	BreakerMaxConsecutive uint32        `json:"breakerMaxConsecutive" mapstructure:"breakerMaxConsecutive"`
}

// envBindings maps config keys to the environment variables that override
// them.
var envBindings = map[string]string{
	"simulation.speed":          "ORRERY_SIMULATION_SPEED",
	"simulation.frameRate":      "ORRERY_FRAME_RATE",
	"simulation.maxDelta":       "ORRERY_MAX_DELTA",
	"simulation.startRunning":   "ORRERY_START_RUNNING",
	"server.listenAddr":         "ORRERY_LISTEN_ADDR",
	"server.allowedOrigins":     "ORRERY_ALLOWED_ORIGINS",
	"server.snapshotRate":       "ORRERY_SNAPSHOT_RATE",
	"server.commandRate":        "ORRERY_COMMAND_RATE",
	"server.commandBurst":       "ORRERY_COMMAND_BURST",
	"server.maxRequestBytes":    "ORRERY_MAX_REQUEST_BYTES",
	"server.stallTimeout":       "ORRERY_STALL_TIMEOUT",
	"server.shutdownTimeout":    "ORRERY_SHUTDOWN_TIMEOUT",
	"client.serverURL":          "ORRERY_SERVER_URL",
	"client.requestTimeout":     "ORRERY_REQUEST_TIMEOUT",
	"spacecraft.name":           "ORRERY_SPACECRAFT_NAME",
	"spacecraft.speed":          "ORRERY_SPACECRAFT_SPEED",
	"simulation.tracePoints":    "ORRERY_TRACE_POINTS",
	"simulation.traceThreshold": "ORRERY_TRACE_THRESHOLD",
}

// LoadConfig reads a configuration file over the defaults and applies
// ORRERY_* environment overrides. The format follows the file extension
// (json, yaml, toml). An empty path loads defaults and environment only.
func LoadConfig(path string) (*SystemConfig, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v, cfg)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// A catalog given in the file replaces the default one rather than
	// merging with it element by element.
	if v.InConfig("star") {
		cfg.Star = BodyConfig{}
	}
	if v.InConfig("planets") {
		cfg.Planets = nil
	}
	if v.InConfig("belts") {
		cfg.Belts = nil
	}
	cfg.Server.AllowedOrigins = nil

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *SystemConfig) {
	v.SetDefault("simulation.speed", cfg.Simulation.Speed)
	v.SetDefault("simulation.frameRate", cfg.Simulation.FrameRate)
	v.SetDefault("simulation.maxDelta", cfg.Simulation.MaxDelta)
	v.SetDefault("simulation.tracePoints", cfg.Simulation.TracePoints)
	v.SetDefault("simulation.traceThreshold", cfg.Simulation.TraceThreshold)
	v.SetDefault("simulation.orbitPoints", cfg.Simulation.OrbitPoints)
	v.SetDefault("simulation.startRunning", cfg.Simulation.StartRunning)
	v.SetDefault("server.listenAddr", cfg.Server.ListenAddr)
	v.SetDefault("server.allowedOrigins", cfg.Server.AllowedOrigins)
	v.SetDefault("server.snapshotRate", cfg.Server.SnapshotRate)
	v.SetDefault("server.commandRate", cfg.Server.CommandRate)
	v.SetDefault("server.commandBurst", cfg.Server.CommandBurst)
	v.SetDefault("server.maxRequestBytes", cfg.Server.MaxRequestBytes)
	v.SetDefault("server.stallTimeout", cfg.Server.StallTimeout)
	v.SetDefault("server.shutdownTimeout", cfg.Server.ShutdownTimeout)
	v.SetDefault("client.serverURL", cfg.Client.ServerURL)
	v.SetDefault("client.requestTimeout", cfg.Client.RequestTimeout)
	v.SetDefault("client.reconnectDelay", cfg.Client.ReconnectDelay)
	v.SetDefault("client.maxReconnectAttempts", cfg.Client.MaxReconnectAttempts)
	v.SetDefault("client.retryAttempts", cfg.Client.RetryAttempts)
	v.SetDefault("client.retryBaseDelay", cfg.Client.RetryBaseDelay)
	v.SetDefault("client.breakerMaxRequests", cfg.Client.BreakerMaxRequests)
	v.SetDefault("client.breakerInterval", cfg.Client.BreakerInterval)
	v.SetDefault("client.breakerTimeout", cfg.Client.BreakerTimeout)
	v.SetDefault("client.breakerMaxConsecutive", cfg.Client.BreakerMaxConsecutive)
	v.SetDefault("spacecraft.name", cfg.Spacecraft.Name)
	v.SetDefault("spacecraft.speed", cfg.Spacecraft.Speed)
	v.SetDefault("spacecraft.pathPoints", cfg.Spacecraft.PathPoints)
}

// SaveConfig saves a configuration to a file as indented JSON.
func SaveConfig(config *SystemConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks names are unique and every count and rate is usable.
func (c *SystemConfig) Validate() error {
	names := make(map[string]bool)
	checkBody := func(kind string, b BodyConfig) error {
		key := strings.ToLower(b.Name)
		switch {
		case b.Name == "":
			return fmt.Errorf("%w: %s with empty name", ErrInvalidConfig, kind)
		case names[key]:
			return fmt.Errorf("%w: duplicate body name %q", ErrInvalidConfig, b.Name)
		case b.Radius <= 0:
			return fmt.Errorf("%w: %s %q radius must be positive", ErrInvalidConfig, kind, b.Name)
		case b.SemiMajor < 0 || b.SemiMinor < 0:
			return fmt.Errorf("%w: %s %q has negative orbit axes", ErrInvalidConfig, kind, b.Name)
		case b.PeriodDays < 0:
			return fmt.Errorf("%w: %s %q has negative period", ErrInvalidConfig, kind, b.Name)
		}
		names[key] = true
		return nil
	}

	if err := checkBody("star", c.Star); err != nil {
		return err
	}
	for _, p := range c.Planets {
		if err := checkBody("planet", p.BodyConfig); err != nil {
			return err
		}
		if p.Ring != nil && p.Ring.OuterRadius < p.Ring.InnerRadius {
			return fmt.Errorf("%w: planet %q ring outer radius below inner", ErrInvalidConfig, p.Name)
		}
		for _, s := range p.Satellites {
			if err := checkBody("satellite", s.BodyConfig); err != nil {
				return err
			}
		}
	}

	for i, b := range c.Belts {
		if b.Count <= 0 {
			return fmt.Errorf("%w: belt %d must have asteroids", ErrInvalidConfig, i)
		}
	}

	sim := c.Simulation
	switch {
	case sim.Speed < 0:
		return fmt.Errorf("%w: simulation speed must not be negative", ErrInvalidConfig)
	case sim.FrameRate <= 0:
		return fmt.Errorf("%w: frame rate must be positive", ErrInvalidConfig)
	case sim.MaxDelta <= 0:
		return fmt.Errorf("%w: max delta must be positive", ErrInvalidConfig)
	case sim.TracePoints <= 0:
		return fmt.Errorf("%w: trace points must be positive", ErrInvalidConfig)
	case sim.OrbitPoints <= 0:
		return fmt.Errorf("%w: orbit points must be positive", ErrInvalidConfig)
	case sim.TraceThreshold < 0:
		return fmt.Errorf("%w: trace threshold must not be negative", ErrInvalidConfig)
	}

	craft := c.Spacecraft
	switch {
	case craft.Speed <= 0:
		return fmt.Errorf("%w: spacecraft speed must be positive", ErrInvalidConfig)
	case craft.PathPoints <= 0:
		return fmt.Errorf("%w: spacecraft path points must be positive", ErrInvalidConfig)
	}

	srv := c.Server
	switch {
	case srv.SnapshotRate <= 0:
		return fmt.Errorf("%w: snapshot rate must be positive", ErrInvalidConfig)
	case srv.CommandRate <= 0 || srv.CommandBurst <= 0:
		return fmt.Errorf("%w: command rate and burst must be positive", ErrInvalidConfig)
	case srv.MaxRequestBytes <= 0:
		return fmt.Errorf("%w: max request bytes must be positive", ErrInvalidConfig)
	}

	cl := c.Client
	switch {
	case cl.RequestTimeout <= 0:
		return fmt.Errorf("%w: client request timeout must be positive", ErrInvalidConfig)
	case cl.RetryAttempts <= 0:
		return fmt.Errorf("%w: client retry attempts must be positive", ErrInvalidConfig)
	case cl.BreakerMaxConsecutive == 0:
		return fmt.Errorf("%w: breaker failure limit must be positive", ErrInvalidConfig)
	}
	return nil
}

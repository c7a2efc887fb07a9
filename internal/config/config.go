// Package config describes devices and evolutions in YAML and builds the
// corresponding runtime objects.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/qpulse/internal/basis"
	"github.com/san-kum/qpulse/internal/device"
	"github.com/san-kum/qpulse/internal/quantum"
	"github.com/san-kum/qpulse/internal/signal"
)

const (
	DefaultLevels   = 3
	DefaultDuration = 10.0
	DefaultSteps    = 200
)

type Config struct {
	Device    DeviceConfig    `yaml:"device"`
	Evolution EvolutionConfig `yaml:"evolution"`
}

type DeviceConfig struct {
	Levels          int              `yaml:"levels"`
	Frequencies     []float64        `yaml:"frequencies"`
	Anharmonicities []float64        `yaml:"anharmonicities"`
	Couplings       []CouplingConfig `yaml:"couplings"`
	Channels        []ChannelConfig  `yaml:"channels"`
}

type CouplingConfig struct {
	P int     `yaml:"p"`
	Q int     `yaml:"q"`
	G float64 `yaml:"g"`
}

type ChannelConfig struct {
	Qubit  int          `yaml:"qubit"`
	Freq   float64      `yaml:"freq"`
	Signal SignalConfig `yaml:"signal"`
}

type SignalConfig struct {
	Kind     string    `yaml:"kind"` // constant, polynomial, windowed
	Values   []float64 `yaml:"values"`
	Duration float64   `yaml:"duration"`
	Windows  int       `yaml:"windows"`
}

type EvolutionConfig struct {
	Basis    string  `yaml:"basis"`
	Duration float64 `yaml:"duration"`
	Steps    int     `yaml:"steps"`
}

func DefaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			Levels:          DefaultLevels,
			Frequencies:     []float64{5.0},
			Anharmonicities: []float64{-0.3},
			Channels: []ChannelConfig{{
				Qubit: 0, Freq: 5.0,
				Signal: SignalConfig{Kind: "constant", Values: []float64{0.1, 0}},
			}},
		},
		Evolution: EvolutionConfig{
			Basis:    "occupation",
			Duration: DefaultDuration,
			Steps:    DefaultSteps,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BuildDevice constructs the transmon network the config describes.
func (c *Config) BuildDevice() (*device.Transmon, error) {
	couplings := make([]device.Coupling, len(c.Device.Couplings))
	for i, cc := range c.Device.Couplings {
		couplings[i] = device.Coupling{Pair: device.NewQuple(cc.P, cc.Q), G: cc.G}
	}
	channels := make([]device.Channel, len(c.Device.Channels))
	for i, ch := range c.Device.Channels {
		sig, err := ch.Signal.Build()
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", i, err)
		}
		channels[i] = device.Channel{Qubit: ch.Qubit, Freq: ch.Freq, Signal: sig}
	}
	return device.NewTransmon(c.Device.Frequencies, c.Device.Anharmonicities,
		couplings, channels, c.Device.Levels)
}

// Build constructs the signal a channel entry describes.
func (s *SignalConfig) Build() (quantum.Signal, error) {
	switch s.Kind {
	case "constant":
		if len(s.Values) != 2 {
			return nil, fmt.Errorf("config: constant signal needs 2 values, got %d", len(s.Values))
		}
		return signal.NewConstant(s.Values[0], s.Values[1]), nil
	case "polynomial":
		if len(s.Values) == 0 {
			return nil, fmt.Errorf("config: polynomial signal needs coefficients")
		}
		return signal.NewPolynomial(s.Values), nil
	case "windowed":
		if s.Windows < 1 || s.Duration <= 0 {
			return nil, fmt.Errorf("config: windowed signal needs windows and a duration")
		}
		w := signal.NewWindowed(s.Duration, s.Windows)
		if len(s.Values) > 0 {
			if err := w.Bind(s.Values); err != nil {
				return nil, fmt.Errorf("config: windowed values: %w", err)
			}
		}
		return w, nil
	default:
		return nil, fmt.Errorf("config: unknown signal kind %q", s.Kind)
	}
}

// ParseBasis resolves the evolution's working basis.
func (c *Config) ParseBasis() (basis.Basis, error) {
	return basis.Parse(c.Evolution.Basis)
}

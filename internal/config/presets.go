package config

// Presets are ready-made device/evolution setups keyed by family and
// variant name.
var Presets = map[string]map[string]*Config{
	"single": {
		"rabi": {
			Device: DeviceConfig{
				Levels:          2,
				Frequencies:     []float64{5.0},
				Anharmonicities: []float64{-0.3},
				Channels: []ChannelConfig{{
					Qubit: 0, Freq: 5.0,
					Signal: SignalConfig{Kind: "constant", Values: []float64{0.05, 0}},
				}},
			},
			Evolution: EvolutionConfig{Basis: "occupation", Duration: 100.0, Steps: 4000},
		},
		"leaky": {
			Device: DeviceConfig{
				Levels:          4,
				Frequencies:     []float64{5.0},
				Anharmonicities: []float64{-0.2},
				Channels: []ChannelConfig{{
					Qubit: 0, Freq: 5.0,
					Signal: SignalConfig{Kind: "constant", Values: []float64{0.3, 0}},
				}},
			},
			Evolution: EvolutionConfig{Basis: "occupation", Duration: 40.0, Steps: 4000},
		},
	},
	"pair": {
		"exchange": {
			Device: DeviceConfig{
				Levels:          3,
				Frequencies:     []float64{5.0, 5.0},
				Anharmonicities: []float64{-0.3, -0.3},
				Couplings:       []CouplingConfig{{P: 0, Q: 1, G: 0.02}},
				Channels: []ChannelConfig{{
					Qubit: 0, Freq: 5.0,
					Signal: SignalConfig{Kind: "constant", Values: []float64{0, 0}},
				}},
			},
			Evolution: EvolutionConfig{Basis: "dressed", Duration: 200.0, Steps: 8000},
		},
		"detuned": {
			Device: DeviceConfig{
				Levels:          3,
				Frequencies:     []float64{5.0, 5.4},
				Anharmonicities: []float64{-0.3, -0.31},
				Couplings:       []CouplingConfig{{P: 0, Q: 1, G: 0.05}},
				Channels: []ChannelConfig{{
					Qubit: 0, Freq: 5.0,
					Signal: SignalConfig{Kind: "windowed", Duration: 50.0, Windows: 10},
				}},
			},
			Evolution: EvolutionConfig{Basis: "occupation", Duration: 50.0, Steps: 2000},
		},
	},
}

func GetPreset(family, preset string) *Config {
	variants, ok := Presets[family]
	if !ok {
		return nil
	}
	cfg, ok := variants[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(family string) []string {
	variants, ok := Presets[family]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	return names
}

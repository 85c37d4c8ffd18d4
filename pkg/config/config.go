package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/XiaoConstantine/vmc-go/pkg/errors"
)

// SamplerConfig holds the Metropolis-Hastings sampler settings.
type SamplerConfig struct {
	// NChains is the number of Markov chains run in parallel.
	NChains int `yaml:"n_chains" validate:"min=1"`

	// SweepSize is the number of propose/accept trials per sweep.
	// Zero means one trial per degree of freedom.
	SweepSize int `yaml:"sweep_size" validate:"min=0"`

	// BatchSize is the evaluation batch for wavefunction calls, independent
	// of the chain count. Zero means evaluate all chains at once.
	BatchSize int `yaml:"batch_size" validate:"min=0"`

	// NReplicas is the parallel-tempering ladder size. Zero disables
	// tempering; otherwise at least two replicas are required.
	NReplicas int `yaml:"n_replicas" validate:"eq=0|min=2"`

	// Seed makes the owned random source reproducible.
	Seed int64 `yaml:"seed"`

	// LocalStates lists the values one degree of freedom can take,
	// e.g. [-1, 1] for spin-1/2. Used to draw initial configurations.
	LocalStates []float64 `yaml:"local_states" validate:"min=2"`
}

// RunConfig holds per-optimization-step sampling amounts.
type RunConfig struct {
	// NSamples is the total number of samples collected per step,
	// summed over chains.
	NSamples int `yaml:"n_samples" validate:"min=1"`

	// NDiscard is the number of thermalization sweeps dropped before
	// recording starts. Zero means 10% of the per-chain sweep count.
	NDiscard int `yaml:"n_discard" validate:"min=0"`
}

// SRConfig holds the stochastic-reconfiguration regularization surface.
type SRConfig struct {
	// DiagShift is added to the diagonal of the geometric tensor.
	DiagShift float64 `yaml:"diag_shift" validate:"gte=0"`

	// UseSVD forces the pseudo-inverse solve even when the shifted tensor
	// factorizes.
	UseSVD bool `yaml:"use_svd"`

	// SVDThreshold drops singular values below threshold*sigma_max.
	// Zero means a machine-epsilon based default.
	SVDThreshold float64 `yaml:"svd_threshold" validate:"gte=0"`
}

// Config is the full YAML surface of a VMC run.
type Config struct {
	Sampler SamplerConfig `yaml:"sampler"`
	Run     RunConfig     `yaml:"run"`
	SR      *SRConfig     `yaml:"sr,omitempty"`
}

// Default returns a config matching the reference defaults: 16 chains,
// 500 samples with 10% discarded, no tempering, no SR.
func Default() *Config {
	return &Config{
		Sampler: SamplerConfig{
			NChains:     16,
			LocalStates: []float64{-1, 1},
		},
		Run: RunConfig{
			NSamples: 500,
		},
	}
}

// Parse decodes and validates a YAML document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.InvalidConfig, "failed to parse config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.InvalidConfig, "failed to read config file")
	}
	return Parse(data)
}

package workqueue

import (
	"runtime"

	"github.com/caarlos0/env/v11"

	"github.com/Nexuscompute/host-runtime/errors"
)

// Config sizes a Pool. Fields left at zero take the DefaultConfig values.
type Config struct {
	// Workers is the number of compute worker goroutines.
	Workers int `env:"HOSTRT_WORKERS"`

	// BlockingWorkers is the number of goroutines dedicated to tasks that
	// may block.
	BlockingWorkers int `env:"HOSTRT_BLOCKING_WORKERS"`

	// BlockingQueueCap bounds the buffer of blocking tasks waiting for a
	// worker. A full buffer rejects queueing submissions.
	BlockingQueueCap int `env:"HOSTRT_BLOCKING_QUEUE_CAP"`
}

// DefaultConfig returns sizes derived from GOMAXPROCS.
func DefaultConfig() Config {
	n := runtime.GOMAXPROCS(0)
	return Config{
		Workers:          n,
		BlockingWorkers:  n,
		BlockingQueueCap: 64,
	}
}

// ConfigFromEnv returns DefaultConfig overlaid with any HOSTRT_* environment
// variables that are set.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse environment")
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Workers < 0 {
		return errors.InvalidInput(errors.PhaseConfig, "workers must not be negative")
	}
	if c.BlockingWorkers < 0 {
		return errors.InvalidInput(errors.PhaseConfig, "blocking workers must not be negative")
	}
	if c.BlockingQueueCap < 0 {
		return errors.InvalidInput(errors.PhaseConfig, "blocking queue capacity must not be negative")
	}
	return nil
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Workers == 0 {
		c.Workers = def.Workers
	}
	if c.BlockingWorkers == 0 {
		c.BlockingWorkers = def.BlockingWorkers
	}
	if c.BlockingQueueCap == 0 {
		c.BlockingQueueCap = def.BlockingQueueCap
	}
	return c
}

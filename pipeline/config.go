package pipeline

import (
	"time"

	"github.com/kbukum/handoff/validation"
	"github.com/kbukum/handoff/worker"
)

// DefaultCapacity is the channel capacity used when none is configured.
const DefaultCapacity = 5

// Config configures a run.
type Config struct {
	// Capacity is the maximum number of messages buffered in the channel,
	// counting the end-of-stream sentinel. The upper bound is
	// channel.MaxCapacity.
	Capacity int `yaml:"capacity" mapstructure:"capacity" json:"capacity" validate:"gte=1,lte=1048576"`
	// ProduceJitter is simulated work before each put.
	ProduceJitter worker.Jitter `yaml:"produce_jitter" mapstructure:"produce_jitter" json:"produce_jitter"`
	// ConsumeJitter is simulated work after each get.
	ConsumeJitter worker.Jitter `yaml:"consume_jitter" mapstructure:"consume_jitter" json:"consume_jitter"`
}

// DefaultConfig returns a configuration with the default capacity and no
// jitter.
func DefaultConfig() Config {
	return Config{Capacity: DefaultCapacity}
}

// DemoJitter returns the processing delays of the interactive demo: the
// producer takes 10-100ms per item and the consumer 10-150ms.
func DemoJitter() (produce, consume worker.Jitter) {
	return worker.Jitter{Min: 10 * time.Millisecond, Max: 100 * time.Millisecond},
		worker.Jitter{Min: 10 * time.Millisecond, Max: 150 * time.Millisecond}
}

// Validate returns an INVALID_CONFIG error naming every out-of-range field.
func (c Config) Validate() error {
	return validation.Validate(c)
}

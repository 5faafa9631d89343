// Scenario files: optional YAML overlays on the default configuration, for
// running named setups (stress capacities, legacy client ranges) without
// long flag lists.

package sim

import (
	"bytes"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Scenario is a YAML-loadable partial configuration. Only fields present in
// the file override the base config; durations are millisecond integers.
type Scenario struct {
	MinClients            *int   `yaml:"min_clients,omitempty"`
	MaxClients            *int   `yaml:"max_clients,omitempty"`
	OpenHours             *int   `yaml:"open_hours,omitempty"`
	ForceConflictingOrder *bool  `yaml:"force_conflicting_order,omitempty"`
	Seed                  *int64 `yaml:"seed,omitempty"`

	Workstations *int64 `yaml:"workstations,omitempty"`
	Headsets     *int64 `yaml:"headsets,omitempty"`
	Seats        *int64 `yaml:"seats,omitempty"`

	AcquireTimeoutMs *int64 `yaml:"acquire_timeout_ms,omitempty"`
	RetryIntervalMs  *int64 `yaml:"retry_interval_ms,omitempty"`
	SpawnIntervalMs  *int64 `yaml:"spawn_interval_ms,omitempty"`
	HourLengthMs     *int64 `yaml:"hour_length_ms,omitempty"`
	UsageMinMs       *int64 `yaml:"usage_min_ms,omitempty"`
	UsageMaxMs       *int64 `yaml:"usage_max_ms,omitempty"`
}

// LoadScenario reads and strictly parses a scenario file; unknown keys are
// rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading scenario")
	}
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, errors.Wrap(err, "parsing scenario")
	}
	return &sc, nil
}

// Apply overlays the scenario's set fields on cfg and returns the result.
// The caller still runs Config.Validate afterwards.
func (s *Scenario) Apply(cfg Config) Config {
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setInt64 := func(dst *int64, src *int64) {
		if src != nil {
			*dst = *src
		}
	}
	setMs := func(dst *time.Duration, src *int64) {
		if src != nil {
			*dst = time.Duration(*src) * time.Millisecond
		}
	}

	setInt(&cfg.MinClients, s.MinClients)
	setInt(&cfg.MaxClients, s.MaxClients)
	setInt(&cfg.OpenHours, s.OpenHours)
	if s.ForceConflictingOrder != nil {
		cfg.ForceConflictingOrder = *s.ForceConflictingOrder
	}
	setInt64(&cfg.Seed, s.Seed)
	setInt64(&cfg.Capacities.Workstations, s.Workstations)
	setInt64(&cfg.Capacities.Headsets, s.Headsets)
	setInt64(&cfg.Capacities.Seats, s.Seats)
	setMs(&cfg.AcquireTimeout, s.AcquireTimeoutMs)
	setMs(&cfg.RetryInterval, s.RetryIntervalMs)
	setMs(&cfg.SpawnInterval, s.SpawnIntervalMs)
	setMs(&cfg.HourLength, s.HourLengthMs)
	setMs(&cfg.UsageMin, s.UsageMinMs)
	setMs(&cfg.UsageMax, s.UsageMaxMs)
	return cfg
}

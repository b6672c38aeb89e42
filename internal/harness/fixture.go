package harness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cochisestarks-web/EARA---Darwish/internal/capacity"
	"github.com/cochisestarks-web/EARA---Darwish/internal/schedule"
)

// #region fixture-types

// scenarioFile is the on-disk form of a Scenario. Config and thresholds are
// optional; zero-valued config fields take the documented defaults. The
// schedule may be given as segment list, as a compact string, or both ways
// omitted to get the default day. Cycles repeats the schedule.
type scenarioFile struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description" json:"description"`
	Config      *capacity.Config  `yaml:"config" json:"config"`
	Schedule    schedule.Schedule `yaml:"schedule" json:"schedule"`
	Compact     string            `yaml:"schedule_compact" json:"schedule_compact"`
	Cycles      int               `yaml:"cycles" json:"cycles"`
	TimeSteps   int               `yaml:"time_steps" json:"time_steps"`
	Thresholds  *Thresholds       `yaml:"thresholds" json:"thresholds"`
	ExpectPass  *bool             `yaml:"expect_pass" json:"expect_pass"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadScenario reads and parses a scenario file. The extension selects the
// codec: .yaml/.yml use YAML, anything else JSON.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var sf scenarioFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &sf)
	default:
		err = json.Unmarshal(data, &sf)
	}
	if err != nil {
		return Scenario{}, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	sc, err := sf.toScenario()
	if err != nil {
		return Scenario{}, fmt.Errorf("scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// toScenario resolves the optional sections against the defaults.
func (sf scenarioFile) toScenario() (Scenario, error) {
	sc := DefaultScenario()
	sc.Name = sf.Name
	sc.Description = sf.Description

	if sf.Config != nil {
		sc.Config = applyConfigDefaults(*sf.Config)
	}

	switch {
	case len(sf.Schedule) > 0 && sf.Compact != "":
		return Scenario{}, fmt.Errorf("%w: schedule and schedule_compact are mutually exclusive", schedule.ErrInvalidSchedule)
	case len(sf.Schedule) > 0:
		sc.Schedule = sf.Schedule
	case sf.Compact != "":
		parsed, err := schedule.ParseCompact(sf.Compact)
		if err != nil {
			return Scenario{}, err
		}
		sc.Schedule = parsed
	}
	if sf.Cycles > 1 {
		sc.Schedule = sc.Schedule.Repeat(sf.Cycles)
	}
	if err := sc.Schedule.Validate(); err != nil {
		return Scenario{}, err
	}

	if sf.TimeSteps > 0 {
		sc.TimeSteps = sf.TimeSteps
	} else {
		sc.TimeSteps = sc.Schedule.TotalMinutes()
	}
	if sf.Thresholds != nil {
		sc.Thresholds = *sf.Thresholds
		if sc.Thresholds.MAE == 0 {
			sc.Thresholds.MAE = DefaultThresholds().MAE
		}
	}
	if sf.ExpectPass != nil {
		sc.ExpectPass = *sf.ExpectPass
	}
	return sc, nil
}

// applyConfigDefaults fills zero-valued fields with the documented defaults.
// A fixture cannot set a rate or threshold to exactly zero; zero means
// unspecified.
func applyConfigDefaults(c capacity.Config) capacity.Config {
	def := capacity.DefaultConfig()
	if c.FatigueRate == 0 {
		c.FatigueRate = def.FatigueRate
	}
	if c.RecoveryRate == 0 {
		c.RecoveryRate = def.RecoveryRate
	}
	if c.MinCapacity == 0 {
		c.MinCapacity = def.MinCapacity
	}
	if c.CriticalThreshold == 0 {
		c.CriticalThreshold = def.CriticalThreshold
	}
	if c.OptimalThreshold == 0 {
		c.OptimalThreshold = def.OptimalThreshold
	}
	if c.InitialCapacity == 0 {
		c.InitialCapacity = def.InitialCapacity
	}
	if c.CriticalZoneClock == "" {
		c.CriticalZoneClock = def.CriticalZoneClock
	}
	return c
}

// #endregion fixture-loader

package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/meshlearn/pkg/meshstats"
	"github.com/charlie0129/meshlearn/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		VariablesFile:        ptr.To("~/printer_data/config/variables.cfg"),
		DefaultTemperature:   ptr.To(60),
		ConfidenceReference:  ptr.To(meshstats.DefaultConfidenceReference),
		ImprovementReference: ptr.To(meshstats.DefaultImprovementReference),
		StableThreshold:      ptr.To(meshstats.DefaultStableThreshold),
		MQTTBroker:           ptr.To(""),
		MQTTTopicPrefix:      ptr.To("meshlearn"),
		PublishSchedule:      ptr.To("@every 10m"),
		AllowNonRootAccess:   ptr.To(false),
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string

	// variablesOverride survives Load and is never saved.
	variablesOverride string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

type RawFileConfig struct {
	VariablesFile        *string           `json:"variablesFile,omitempty"`
	DefaultTemperature   *int              `json:"defaultTemperature,omitempty"`
	ConfidenceReference  *float64          `json:"confidenceReference,omitempty"`
	ImprovementReference *float64          `json:"improvementReference,omitempty"`
	StableThreshold      *float64          `json:"stableThreshold,omitempty"`
	ExportParams         map[string]string `json:"exportParams,omitempty"`
	MQTTBroker           *string           `json:"mqttBroker,omitempty"`
	MQTTTopicPrefix      *string           `json:"mqttTopicPrefix,omitempty"`
	PublishSchedule      *string           `json:"publishSchedule,omitempty"`
	AllowNonRootAccess   *bool             `json:"allowNonRootAccess,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	th := c.Thresholds()
	rawConfig := &RawFileConfig{
		VariablesFile:        ptr.To(c.VariablesFile()),
		DefaultTemperature:   ptr.To(c.DefaultTemperature()),
		ConfidenceReference:  ptr.To(th.ConfidenceReference),
		ImprovementReference: ptr.To(th.ImprovementReference),
		StableThreshold:      ptr.To(th.StableThreshold),
		ExportParams:         c.ExportParams(),
		MQTTBroker:           ptr.To(c.MQTTBroker()),
		MQTTTopicPrefix:      ptr.To(c.MQTTTopicPrefix()),
		PublishSchedule:      ptr.To(c.PublishSchedule()),
		AllowNonRootAccess:   ptr.To(c.AllowNonRootAccess()),
	}

	return rawConfig, nil
}

// orDefault returns *v, or *def when v is nil.
func orDefault[T any](v, def *T) T {
	if v != nil {
		return *v
	}
	return *def
}

// VariablesFile returns the variables store path with a leading "~/"
// expanded to the home directory.
func (f *File) VariablesFile() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.variablesOverride != "" {
		return expandHome(f.variablesOverride)
	}
	return expandHome(orDefault(f.c.VariablesFile, defaultFileConfig.VariablesFile))
}

// OverrideVariablesFile pins the variables store path for the lifetime of f,
// regardless of what later Loads read from disk. An empty path clears it.
func (f *File) OverrideVariablesFile(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.variablesOverride = s
}

func (f *File) DefaultTemperature() int {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return orDefault(f.c.DefaultTemperature, defaultFileConfig.DefaultTemperature)
}

// Thresholds returns the quality heuristic references. Non-positive values
// in the file are ignored since they would make every heuristic divide by
// zero or flip sign.
func (f *File) Thresholds() meshstats.Thresholds {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	positive := func(v, def *float64) float64 {
		if v != nil && *v > 0 {
			return *v
		}
		return *def
	}

	return meshstats.Thresholds{
		ConfidenceReference:  positive(f.c.ConfidenceReference, defaultFileConfig.ConfidenceReference),
		ImprovementReference: positive(f.c.ImprovementReference, defaultFileConfig.ImprovementReference),
		StableThreshold:      positive(f.c.StableThreshold, defaultFileConfig.StableThreshold),
	}
}

// ExportParams returns a copy of the extra parameters appended to exported
// bed_mesh sections.
func (f *File) ExportParams() map[string]string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	params := make(map[string]string, len(f.c.ExportParams))
	for k, v := range f.c.ExportParams {
		params[k] = v
	}
	return params
}

// MQTTBroker returns the broker URL. An empty string disables publishing.
func (f *File) MQTTBroker() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return orDefault(f.c.MQTTBroker, defaultFileConfig.MQTTBroker)
}

func (f *File) MQTTTopicPrefix() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return orDefault(f.c.MQTTTopicPrefix, defaultFileConfig.MQTTTopicPrefix)
}

func (f *File) PublishSchedule() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return orDefault(f.c.PublishSchedule, defaultFileConfig.PublishSchedule)
}

func (f *File) AllowNonRootAccess() bool {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return orDefault(f.c.AllowNonRootAccess, defaultFileConfig.AllowNonRootAccess)
}

func (f *File) SetVariablesFile(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.VariablesFile = &s
}

func (f *File) SetDefaultTemperature(i int) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.DefaultTemperature = &i
}

func (f *File) SetAllowNonRootAccess(b bool) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.AllowNonRootAccess = &b
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Since we want to tell if the file is empty, using json.Decoder will
	// not work.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	th := f.Thresholds()
	return logrus.Fields{
		"variablesFile":        f.VariablesFile(),
		"defaultTemperature":   f.DefaultTemperature(),
		"confidenceReference":  th.ConfidenceReference,
		"improvementReference": th.ImprovementReference,
		"stableThreshold":      th.StableThreshold,
		"mqttBroker":           f.MQTTBroker(),
		"publishSchedule":      f.PublishSchedule(),
		"allowNonRootAccess":   f.AllowNonRootAccess(),
	}
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		logrus.Warnf("failed to expand home directory in %s: %v", p, err)
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

package config

import (
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/meshlearn/pkg/meshstats"
)

type Config interface {
	VariablesFile() string
	DefaultTemperature() int
	Thresholds() meshstats.Thresholds
	ExportParams() map[string]string
	MQTTBroker() string
	MQTTTopicPrefix() string
	PublishSchedule() string
	AllowNonRootAccess() bool

	SetVariablesFile(string)
	SetDefaultTemperature(int)
	SetAllowNonRootAccess(bool)

	LogrusFields() logrus.Fields

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}

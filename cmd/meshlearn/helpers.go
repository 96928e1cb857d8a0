package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/charlie0129/meshlearn/pkg/client"
	"github.com/charlie0129/meshlearn/pkg/config"
	"github.com/charlie0129/meshlearn/pkg/meshstats"
	"github.com/charlie0129/meshlearn/pkg/variables"
)

const remoteTimeout = 10 * time.Second

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}

// confidenceText colours a percentage by how trustworthy the bucket is.
func confidenceText(pct float64) string {
	s := fmt.Sprintf("%.1f%%", pct)
	switch {
	case pct >= 80:
		return color.GreenString(s)
	case pct >= 50:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}

func loadConfig() (*config.File, error) {
	conf, err := config.NewFile(configPath)
	if err != nil {
		return nil, err
	}
	if variablesPath != "" {
		conf.SetVariablesFile(variablesPath)
	}
	return conf, nil
}

// loadHistory reads the variables store named by the config and decodes its
// mesh history. It returns meshstats.ErrNoHistory when the entry is absent.
func loadHistory(conf config.Config) (meshstats.History, error) {
	vars, err := variables.NewFile(conf.VariablesFile()).Load()
	if err != nil {
		return nil, err
	}
	return meshstats.HistoryFromVariables(vars)
}

func newRemoteContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, remoteTimeout)
}

func newAPIClient() *client.Client {
	return client.NewClient(unixSocketPath)
}

// parseTemperatureArg returns the optional temperature argument, or def.
func parseTemperatureArg(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}

	value, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid temperature: %v", err)
	}

	return value, nil
}

func validateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format %q, expected one of %v", format, allowed)
}

// printStructured writes v as indented JSON or YAML.
func printStructured(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

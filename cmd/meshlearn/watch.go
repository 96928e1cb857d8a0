package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/charlie0129/meshlearn/pkg/events"
)

// NewWatchCommand .
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   "Follow events from the meshlearn daemon",
		GroupID: gService,
		Long: `Follow the event stream of the running meshlearn daemon.

An event is printed whenever the daemon publishes learned meshes over MQTT
or reloads its config. Press Ctrl-C to stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := newAPIClient().SubscribeEvents(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to subscribe to events: %w", err)
			}

			out := cmd.OutOrStdout()
			for ev := range ch {
				renderEvent(out, ev)
			}
			return nil
		},
	}
}

func renderEvent(w io.Writer, ev events.Event) {
	switch ev.Name {
	case events.AnalysisPublished:
		p, err := events.DecodeAs[events.AnalysisPublishedEvent](ev)
		if err == nil {
			fmt.Fprintf(w, "[%s] %s: %s\n", eventTime(p.Ts), bold("published"), strings.Join(p.Buckets, ", "))
			return
		}
	case events.ConfigReloaded:
		p, err := events.DecodeAs[events.ConfigReloadedEvent](ev)
		if err == nil {
			fmt.Fprintf(w, "[%s] %s: variables=%s schedule=%q\n", eventTime(p.Ts), bold("config reloaded"), p.VariablesFile, p.PublishSchedule)
			return
		}
	}
	fmt.Fprintf(w, "%s: %s\n", ev.Name, ev.Data)
}

func eventTime(ts int64) string {
	return time.Unix(ts, 0).Format(time.Kitchen)
}

package events

import "encoding/json"

// Event names streamed on the daemon's /events endpoint.
const (
	// AnalysisPublished follows every successful scheduled MQTT publish.
	AnalysisPublished = "analysis.published"
	// ConfigReloaded follows a successful SIGHUP reload.
	ConfigReloaded = "config.reloaded"
)

// Event is one server-sent event.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// AnalysisPublishedEvent is the payload of AnalysisPublished.
type AnalysisPublishedEvent struct {
	Buckets []string `json:"buckets"`
	Ts      int64    `json:"ts"`
}

// ConfigReloadedEvent is the payload of ConfigReloaded.
type ConfigReloadedEvent struct {
	VariablesFile   string `json:"variablesFile"`
	PublishSchedule string `json:"publishSchedule"`
	Ts              int64  `json:"ts"`
}

// DecodeAs unmarshals the payload of e into T. An empty payload yields the
// zero value of T.
//
//	payload, err := events.DecodeAs[events.AnalysisPublishedEvent](ev)
func DecodeAs[T any](e Event) (T, error) {
	var v T
	if len(e.Data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(e.Data, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Package publish pushes mesh learning results to an MQTT broker so that
// dashboards (e.g. Home Assistant) can track calibration quality.
package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/meshlearn/pkg/meshstats"
)

const publishTimeout = 5 * time.Second

// ErrNotConnected is returned when publishing without a connected client.
var ErrNotConnected = errors.New("MQTT client not connected")

// Publisher publishes bucket reports to <prefix>/analysis/<bucket> and
// synthesized meshes to <prefix>/mesh/<bucket>. Messages are retained so a
// new subscriber sees the latest state immediately.
type Publisher struct {
	client mqtt.Client
	prefix string
	qos    byte
	retain bool
}

// NewPublisher creates a publisher on top of a connected client.
func NewPublisher(client mqtt.Client, prefix string) *Publisher {
	if prefix == "" {
		prefix = "meshlearn"
	}
	return &Publisher{
		client: client,
		prefix: prefix,
		qos:    0,
		retain: true,
	}
}

// Connect creates a client for broker and connects it.
func Connect(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logrus.Warnf("MQTT connection lost (%v), auto-reconnect will retry", err)
	})
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logrus.WithField("broker", broker).Info("connected to MQTT broker")
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("timed out connecting to MQTT broker %s", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", broker, err)
	}

	return client, nil
}

// AnalysisTopic returns the topic of a bucket report.
func (p *Publisher) AnalysisTopic(key string) string {
	return fmt.Sprintf("%s/analysis/%s", p.prefix, key)
}

// MeshTopic returns the topic of a synthesized mesh.
func (p *Publisher) MeshTopic(key string) string {
	return fmt.Sprintf("%s/mesh/%s", p.prefix, key)
}

func (p *Publisher) PublishReport(report meshstats.BucketReport) error {
	return p.publishJSON(p.AnalysisTopic(report.Key), report)
}

func (p *Publisher) PublishMesh(key string, mesh *meshstats.SynthesizedMesh) error {
	return p.publishJSON(p.MeshTopic(key), mesh)
}

// PublishHistory analyzes history and publishes every report and every
// synthesized mesh. Data errors abort before anything is published.
func (p *Publisher) PublishHistory(history meshstats.History, th meshstats.Thresholds) error {
	reports, err := meshstats.AnalyzeHistory(history, th)
	if err != nil {
		return err
	}

	meshes := make(map[string]*meshstats.SynthesizedMesh, len(reports))
	for _, r := range reports {
		mesh, err := history.Synthesize(r.Key, th)
		if err != nil {
			return err
		}
		meshes[r.Key] = mesh
	}

	for _, r := range reports {
		if err := p.PublishReport(r); err != nil {
			return err
		}
		if err := p.PublishMesh(r.Key, meshes[r.Key]); err != nil {
			return err
		}
	}

	logrus.WithField("buckets", len(reports)).Debug("published mesh learning results")
	return nil
}

func (p *Publisher) publishJSON(topic string, v any) error {
	if p.client == nil || !p.client.IsConnected() {
		return ErrNotConnected
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling payload for %s: %w", topic, err)
	}

	token := p.client.Publish(topic, p.qos, p.retain, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("timed out publishing to %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}

	return nil
}

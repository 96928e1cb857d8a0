package daemon

import (
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/meshlearn/pkg/events"
	"github.com/charlie0129/meshlearn/pkg/publish"
)

type scheduledPublisher struct {
	client    mqtt.Client
	publisher *publish.Publisher
	scheduler *Scheduler
}

// startPublishing connects to the configured MQTT broker and publishes the
// learning results on the configured schedule. It returns nil when MQTT is
// disabled or unavailable; the HTTP API keeps working either way.
func startPublishing() *scheduledPublisher {
	broker := conf.MQTTBroker()
	if broker == "" {
		logrus.Info("MQTT publishing disabled: no broker configured")
		return nil
	}

	hostname, _ := os.Hostname()
	client, err := publish.Connect(broker, "meshlearn-"+hostname)
	if err != nil {
		logrus.Errorf("MQTT publishing disabled: %v", err)
		return nil
	}

	sp := newScheduledPublisher(client, publish.NewPublisher(client, conf.MQTTTopicPrefix()))
	if err := sp.scheduler.Schedule(conf.PublishSchedule()); err != nil {
		logrus.Errorf("MQTT publishing disabled: %v", err)
		client.Disconnect(250)
		return nil
	}
	sp.scheduler.Start()

	next, _ := sp.scheduler.Status()
	logrus.WithFields(logrus.Fields{
		"broker":   broker,
		"schedule": conf.PublishSchedule(),
		"nextRun":  next,
	}).Info("MQTT publishing enabled")

	return sp
}

func newScheduledPublisher(client mqtt.Client, p *publish.Publisher) *scheduledPublisher {
	sp := &scheduledPublisher{client: client, publisher: p}
	sp.scheduler = NewScheduler(sp.publishOnce, sp.checkConnected, func(err error) {
		logrus.Warnf("scheduled publish: %v", err)
	})
	return sp
}

func (sp *scheduledPublisher) checkConnected() error {
	if !sp.client.IsConnected() {
		return publish.ErrNotConnected
	}
	return nil
}

func (sp *scheduledPublisher) publishOnce() error {
	history, err := loadHistory()
	if err != nil {
		return err
	}
	if err := sp.publisher.PublishHistory(history, conf.Thresholds()); err != nil {
		return err
	}

	var buckets []string
	for _, key := range history.Keys() {
		if len(history[key].Samples) > 0 {
			buckets = append(buckets, key)
		}
	}
	sseHub.Publish(events.AnalysisPublished, events.AnalysisPublishedEvent{
		Buckets: buckets,
		Ts:      time.Now().Unix(),
	})
	return nil
}

func (sp *scheduledPublisher) stop() {
	sp.scheduler.Stop()
	sp.client.Disconnect(250)
}

package daemon

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/meshlearn/pkg/events"
)

var (
	sseHub *events.Hub

	sseHeartbeat = 30 * time.Second
)

// getEvents streams hub events as server-sent events until the client goes
// away.
func getEvents(c *gin.Context) {
	if sseHub == nil {
		c.IndentedJSON(http.StatusServiceUnavailable, "event stream is not available")
		return
	}

	ch := sseHub.Subscribe()
	defer sseHub.Unsubscribe(ch)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			logrus.Debug("event subscriber disconnected")
			return
		case <-heartbeat.C:
			if _, err := c.Writer.WriteString(": keep-alive\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		case ev, ok := <-ch:
			if !ok {
				return
			}
			c.SSEvent(ev.Name, string(ev.Data))
			c.Writer.Flush()
		}
	}
}

func publishConfigReloaded() {
	sseHub.Publish(events.ConfigReloaded, events.ConfigReloadedEvent{
		VariablesFile:   conf.VariablesFile(),
		PublishSchedule: conf.PublishSchedule(),
		Ts:              time.Now().Unix(),
	})
}

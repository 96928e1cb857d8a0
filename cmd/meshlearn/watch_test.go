package main

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/charlie0129/meshlearn/pkg/events"
)

func TestRenderEvent(t *testing.T) {
	ts := time.Date(2024, 5, 1, 15, 4, 0, 0, time.Local).Unix()

	var buf bytes.Buffer
	renderEvent(&buf, events.Event{
		Name: events.AnalysisPublished,
		Data: []byte(`{"buckets":["temp_60","temp_70"],"ts":` + strconv.FormatInt(ts, 10) + `}`),
	})
	assert.Equal(t, "[3:04PM] published: temp_60, temp_70\n", buf.String())

	buf.Reset()
	renderEvent(&buf, events.Event{
		Name: events.ConfigReloaded,
		Data: []byte(`{"variablesFile":"/tmp/v.cfg","publishSchedule":"@hourly","ts":` + strconv.FormatInt(ts, 10) + `}`),
	})
	assert.Equal(t, "[3:04PM] config reloaded: variables=/tmp/v.cfg schedule=\"@hourly\"\n", buf.String())

	buf.Reset()
	renderEvent(&buf, events.Event{Name: "other", Data: []byte(`{}`)})
	assert.Equal(t, "other: {}\n", buf.String())
}

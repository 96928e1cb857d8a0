package publish

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/meshlearn/pkg/meshstats"
)

func testHistory() meshstats.History {
	return meshstats.History{
		"temp_40": {Count: 2},
		"temp_60": {Count: 7, Samples: []meshstats.Sample{
			{Points: meshstats.Grid{{0, 0}, {0, 0}}},
			{Points: meshstats.Grid{{0.02, 0.02}, {0.02, 0.02}}},
		}},
		"temp_80": {Count: 1, Samples: []meshstats.Sample{
			{Points: meshstats.Grid{{0.1, 0.2}}},
		}},
	}
}

func TestPublishHistory(t *testing.T) {
	client := newMockClient(true)
	p := NewPublisher(client, "printer1")

	require.NoError(t, p.PublishHistory(testHistory(), meshstats.DefaultThresholds()))

	msgs := client.messages()
	require.Len(t, msgs, 4)

	topics := make([]string, len(msgs))
	for i, m := range msgs {
		topics[i] = m.Topic
		assert.True(t, m.Retain)
		assert.Equal(t, byte(0), m.QoS)
	}
	assert.Equal(t, []string{
		"printer1/analysis/temp_60",
		"printer1/mesh/temp_60",
		"printer1/analysis/temp_80",
		"printer1/mesh/temp_80",
	}, topics)

	var report meshstats.BucketReport
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &report))
	assert.Equal(t, 7, report.Count)
	require.NotNil(t, report.Variance)
	assert.InDelta(t, 90.0, report.Variance.Confidence, 1e-9)

	var mesh meshstats.SynthesizedMesh
	require.NoError(t, json.Unmarshal(msgs[3].Payload, &mesh))
	assert.False(t, mesh.Averaged)
	assert.Equal(t, meshstats.Grid{{0.1, 0.2}}, mesh.Points)
}

func TestPublishHistoryDataError(t *testing.T) {
	client := newMockClient(true)
	p := NewPublisher(client, "")

	history := meshstats.History{
		"temp_60": {Count: 2, Samples: []meshstats.Sample{
			{Points: meshstats.Grid{{0, 0}}},
			{Points: meshstats.Grid{{0}}},
		}},
	}

	err := p.PublishHistory(history, meshstats.DefaultThresholds())
	assert.ErrorIs(t, err, meshstats.ErrInconsistentDimensions)
	assert.Empty(t, client.messages())
}

func TestPublishNotConnected(t *testing.T) {
	p := NewPublisher(newMockClient(false), "")
	err := p.PublishReport(meshstats.BucketReport{Key: "temp_60"})
	assert.ErrorIs(t, err, ErrNotConnected)

	p = NewPublisher(nil, "")
	err = p.PublishReport(meshstats.BucketReport{Key: "temp_60"})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestPublishError(t *testing.T) {
	client := newMockClient(true)
	client.publishError = errors.New("broker full")
	p := NewPublisher(client, "")

	err := p.PublishMesh("temp_60", &meshstats.SynthesizedMesh{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "meshlearn/mesh/temp_60")
	assert.Contains(t, err.Error(), "broker full")
}

package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapMessageToEvent(t *testing.T) {
	msg := kafkago.Message{
		Key:       []byte("key-1"),
		Value:     []byte(`{"date_time":"2023-02-06 01:17:34","magnitude":"7.8","depth":10,"sig":912,"tsunami":1,"latitude":37.17,"longitude":37.03,"country":"Turkey"}`),
		Topic:     "raw-quake-records",
		Partition: 2,
		Offset:    42,
		Time:      time.Now(),
	}

	event, err := mapMessageToEvent(msg)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2023, 2, 6, 1, 17, 34, 0, time.UTC), event.Time)
	assert.Equal(t, 7.8, event.Magnitude)
	assert.Equal(t, 10.0, event.Depth)
	assert.Equal(t, 912.0, event.Significance)
	require.NotNil(t, event.Tsunami)
	assert.Equal(t, 1, *event.Tsunami)
	assert.Equal(t, "Turkey", event.Country)
}

func TestMapMessageToEvent_Invalid(t *testing.T) {
	msg := kafkago.Message{Value: []byte("not json")}
	_, err := mapMessageToEvent(msg)
	assert.Error(t, err)
}

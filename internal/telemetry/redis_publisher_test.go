package telemetry_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wisefido-node/internal/models"
	"wisefido-node/internal/telemetry"
)

func TestRedisPublisher_Publish(t *testing.T) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	p := telemetry.NewRedisPublisher(client, "node:telemetry", zap.NewNop())
	ctx := context.Background()

	err := p.Publish(ctx, telemetry.Event{
		EventID: "event-1",
		Kind:    models.EventDepartment,
		Payload: []byte(`{"department":"Pediatric dept","rssi":-55,"timestamp":100}`),
	})
	require.NoError(t, err)

	entries, err := client.XRange(ctx, "node:telemetry", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "event-1", entries[0].Values["event_id"])
	assert.Equal(t, "department", entries[0].Values["kind"])
	assert.JSONEq(t, `{"department":"Pediatric dept","rssi":-55,"timestamp":100}`, entries[0].Values["data"].(string))
	assert.NotEmpty(t, entries[0].Values["timestamp"])
}

func TestRedisPublisher_ErrorWhenStopped(t *testing.T) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	p := telemetry.NewRedisPublisher(client, "node:telemetry", zap.NewNop())

	mr.Close()

	err := p.Publish(context.Background(), telemetry.Event{EventID: "event-2", Kind: models.EventStatus})
	assert.Error(t, err)
}

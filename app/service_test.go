package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/cabs/config"
	"github.com/kilianp07/cabs/core/events"
	"github.com/kilianp07/cabs/core/factory"
	"github.com/kilianp07/cabs/core/model"
	coremqtt "github.com/kilianp07/cabs/core/mqtt"
	"github.com/kilianp07/cabs/infra/mqtt"
)

func serviceConfig() *config.Config {
	cfg := config.Default()
	cfg.Fleet.Cabs = []string{"101", "102"}
	cfg.Fleet.Customers = []model.Customer{{ID: "201"}}
	cfg.Dispatch.Shards = 3
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "nop"}}
	return cfg
}

func TestServiceRunStops(t *testing.T) {
	svc, err := New(serviceConfig())
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, []string{"101", "102"}, svc.System.CabIDs())
	w, err := svc.System.Wallet("201")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx, nil) }()

	bal, err := w.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultBalance, bal)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("service did not stop")
	}
}

func TestServiceBadSink(t *testing.T) {
	cfg := serviceConfig()
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "carrier-pigeon"}}
	_, err := New(cfg)
	require.Error(t, err)
}

func TestServiceMQTT(t *testing.T) {
	pub := mqtt.NewMockPublisher()
	var handler coremqtt.RideEndedHandler
	old := newMQTTClient
	newMQTTClient = func(_ mqtt.Config, h coremqtt.RideEndedHandler) (coremqtt.Client, error) {
		handler = h
		return pub, nil
	}
	t.Cleanup(func() { newMQTTClient = old })

	cfg := serviceConfig()
	cfg.MQTT.Enabled = true
	svc, err := New(cfg)
	require.NoError(t, err)
	defer svc.Close()
	require.NotNil(t, handler)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	go func() { _ = svc.Run(ctx, nil) }()

	c, err := svc.System.Cab("101")
	require.NoError(t, err)
	c.SignIn(0)
	waitEntry(t, ctx, svc.System, model.AvailableEntry("101", 0))

	sh, err := svc.System.Shard(1)
	require.NoError(t, err)
	resp, err := sh.Ride(ctx, "201", 0, 10)
	require.NoError(t, err)
	require.True(t, resp.OK())

	handler("nope", resp.RideID)
	handler("101", resp.RideID)

	require.Eventually(t, func() bool {
		var started, completed bool
		for _, ev := range pub.Published() {
			started = started || ev.Outcome == events.RideStarted
			completed = completed || ev.Outcome == events.RideCompleted
		}
		return started && completed
	}, 3*time.Second, 10*time.Millisecond)

	st, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Available, st.Minor)
	assert.Equal(t, 10, st.Position)
}

func TestServiceMQTTError(t *testing.T) {
	old := newMQTTClient
	newMQTTClient = func(mqtt.Config, coremqtt.RideEndedHandler) (coremqtt.Client, error) {
		return nil, errors.New("refused")
	}
	t.Cleanup(func() { newMQTTClient = old })

	cfg := serviceConfig()
	cfg.MQTT.Enabled = true
	_, err := New(cfg)
	require.ErrorContains(t, err, "refused")
}

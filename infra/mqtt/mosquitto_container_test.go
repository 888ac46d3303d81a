package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kilianp07/cabs/core/events"
)

func waitForMQTTReady(broker string, timeout time.Duration) error {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("probe")
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		cli := paho.NewClient(opts)
		token := cli.Connect()
		token.Wait()
		if token.Error() == nil {
			cli.Disconnect(100)
			return nil
		}
		lastErr = token.Error()
		time.Sleep(100 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for broker")
	}
	return lastErr
}

func startMosquitto(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	conf := `listener 1883
allow_anonymous true
persistence false
log_dest stdout
`
	dir := t.TempDir()
	path := filepath.Join(dir, "mosquitto.conf")
	if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
		t.Fatalf("write conf: %v", err)
	}

	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
		Files: []tc.ContainerFile{
			{
				HostFilePath:      path,
				ContainerFilePath: "/mosquitto/config/mosquitto.conf",
				FileMode:          0644,
			},
		},
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("container start: %v", err)
	}
	host, err := cont.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := cont.MappedPort(ctx, "1883")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	broker := fmt.Sprintf("tcp://%s:%s", host, port.Port())
	if err := waitForMQTTReady(broker, 5*time.Second); err != nil {
		t.Logf("mosquitto not ready at %s: %v", broker, err)
		t.Skip("Mosquitto not ready after retries")
	}
	return cont, broker
}

func TestRideBridgeWithMosquitto(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}
	ctx := context.Background()
	cont, broker := startMosquitto(ctx, t)
	defer func() { _ = cont.Terminate(ctx) }()

	ended := make(chan [2]any, 1)
	cli, err := NewPahoClient(Config{Broker: broker, ClientID: "bridge", QoS: map[string]byte{"event": 1, "command": 1}},
		func(cabID string, rideID int) { ended <- [2]any{cabID, rideID} })
	if err != nil {
		t.Fatalf("bridge: %v", err)
	}
	defer cli.Disconnect()

	peer := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("peer"))
	if token := peer.Connect(); token.Wait() && token.Error() != nil {
		t.Fatalf("peer connect: %v", token.Error())
	}
	defer peer.Disconnect(100)

	rides := make(chan events.RideEvent, 1)
	if token := peer.Subscribe(RideTopic("cabs", 11), 1, func(_ paho.Client, m paho.Message) {
		var ev events.RideEvent
		if json.Unmarshal(m.Payload(), &ev) == nil {
			rides <- ev
		}
	}); token.Wait() && token.Error() != nil {
		t.Fatalf("peer subscribe: %v", token.Error())
	}

	if err := cli.PublishRide(events.RideEvent{RideID: 11, CabID: "101", Fare: 900, Outcome: events.RideStarted}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	select {
	case ev := <-rides:
		if ev.CabID != "101" || ev.Fare != 900 {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ride event not received")
	}

	peer.Publish("cabs/cabs/101/ride-ended", 1, false, []byte(`{"ride_id":11}`)).Wait()
	select {
	case got := <-ended:
		if got[0] != "101" || got[1] != 11 {
			t.Fatalf("unexpected command %v", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ride-ended command not received")
	}
}

package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/cabs/core/events"
	coremetrics "github.com/kilianp07/cabs/core/metrics"
	"github.com/kilianp07/cabs/infra/logger"
)

// InfluxConfig holds the connection settings of an InfluxSink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes ride and cache events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRide writes one ride_event point.
func (s *InfluxSink) RecordRide(ev events.RideEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("ride_event").
		AddTag("outcome", string(ev.Outcome)).
		AddTag("shard", strconv.Itoa(ev.Shard)).
		AddTag("customer_id", ev.CustomerID)
	if ev.CabID != "" {
		p = p.AddTag("cab_id", ev.CabID)
	}
	p = p.AddField("ride_id", ev.RideID).
		AddField("fare", ev.Fare).
		AddField("offers", ev.Offers).
		AddField("source", ev.Source).
		AddField("destination", ev.Destination).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordCacheUpdate writes one cache_update point.
func (s *InfluxSink) RecordCacheUpdate(ev events.CacheEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("cache_update").
		AddTag("shard", strconv.Itoa(ev.Shard)).
		AddTag("origin", string(ev.Origin)).
		AddTag("cab_id", ev.Entry.CabID).
		AddField("major", ev.Entry.Major.String()).
		AddField("minor", ev.Entry.Minor.String()).
		AddField("position", ev.Entry.Position).
		AddField("ride_id", ev.Entry.RideID).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

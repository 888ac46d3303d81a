package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/cabs/config"
	coremetrics "github.com/kilianp07/cabs/core/metrics"
	coremqtt "github.com/kilianp07/cabs/core/mqtt"
	"github.com/kilianp07/cabs/infra/logger"
	"github.com/kilianp07/cabs/infra/metrics"
	"github.com/kilianp07/cabs/infra/mqtt"
	"github.com/kilianp07/cabs/internal/eventbus"
)

// newMQTTClient is replaced in tests.
var newMQTTClient = func(cfg mqtt.Config, h coremqtt.RideEndedHandler) (coremqtt.Client, error) {
	c, err := mqtt.NewPahoClient(cfg, h)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Service runs the system together with its observability and transport
// side cars.
type Service struct {
	System *System

	cfg  *config.Config
	bus  *eventbus.Bus
	sink coremetrics.MetricsSink
	mqtt coremqtt.Client
	log  logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	logg := logger.New("service")

	roster, err := config.LoadRoster(cfg.Fleet)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	var opts []eventbus.Option
	if r, ok := sink.(coremetrics.DropRecorder); ok {
		opts = append(opts, eventbus.WithDropHook(func() { _ = r.RecordEventsDropped(1) }))
	}
	bus := eventbus.New(opts...)

	sys := NewSystem(roster, cfg.Dispatch, bus, logger.New("system"))
	svc := &Service{System: sys, cfg: cfg, bus: bus, sink: sink, log: logg}

	if cfg.MQTT.Enabled {
		cli, err := newMQTTClient(cfg.MQTT, svc.rideEnded)
		if err != nil {
			bus.Close()
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.mqtt = cli
	}
	return svc, nil
}

func (s *Service) rideEnded(cabID string, rideID int) {
	c, err := s.System.Cab(cabID)
	if err != nil {
		s.log.Warnf("ride-ended command: %v", err)
		return
	}
	c.RideEnded(rideID)
}

// Run starts every entity and side car, and serves handler on the API
// address when handler is not nil. It blocks until ctx is canceled.
func (s *Service) Run(ctx context.Context, handler http.Handler) error {
	g, ctx := errgroup.WithContext(ctx)

	metrics.StartEventCollector(ctx, s.bus, s.sink, nil)
	if s.mqtt != nil {
		mqtt.StartRideForwarder(ctx, s.bus, s.mqtt)
	}
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		g.Go(func() error { return metrics.StartPromServer(ctx, addr) })
	}
	if handler != nil {
		g.Go(func() error { return serveAPI(ctx, s.cfg.API.Addr, handler, s.log) })
	}
	g.Go(func() error { return s.System.Run(ctx) })
	return g.Wait()
}

func serveAPI(ctx context.Context, addr string, h http.Handler, log logger.Logger) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("api shutdown: %v", err)
		}
		cancel()
	}()
	log.Infof("serving api on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.mqtt != nil {
		s.mqtt.Disconnect()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	s.bus.Close()
	return nil
}

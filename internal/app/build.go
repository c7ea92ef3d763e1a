// Package app assembles a runnable engine from configuration.
package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"waste-sim-service/internal/adapters/cache"
	"waste-sim-service/internal/adapters/classifier"
	"waste-sim-service/internal/adapters/distance"
	"waste-sim-service/internal/adapters/landmarks"
	"waste-sim-service/internal/adapters/observability"
	"waste-sim-service/internal/adapters/publisher"
	"waste-sim-service/internal/app/engine"
	"waste-sim-service/internal/config"
	"waste-sim-service/internal/ports"
	"waste-sim-service/internal/services"
	"waste-sim-service/internal/sim"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// Build wires adapters behind ports and returns an engine ready to tick.
// A nil registerer disables Prometheus metrics.
func Build(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*engine.Engine, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	provider, closer, err := newDistances(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	deps := sim.Deps{
		Classifier: newClassifier(cfg.Classifier, params.Seed),
		Planner:    services.NewNearestNeighborPlanner(provider),
		Distances:  provider,
		Landmarks:  landmarks.NewDefaultSource(),
	}
	if cfg.LandmarksPath != "" {
		deps.Landmarks = landmarks.NewJSONSource(cfg.LandmarksPath)
	}

	s, err := sim.New(params, deps)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, fmt.Errorf("build: %w", err)
	}

	pub, err := newPublisher(ctx, cfg.Publisher)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, fmt.Errorf("build: %w", err)
	}

	var metrics ports.Observability = observability.Noop{}
	if reg != nil {
		metrics = observability.NewPromObs(reg)
	}

	log.Printf(
		"op=app.build seed=%d bins=%d trucks=%d classifier=%s distance=%s publisher=%s",
		params.Seed, params.BinCount, params.EffectiveTruckCount(), deps.Classifier.Name(), cfg.Distance.Kind, cfg.Publisher.Kind,
	)
	e := engine.New(s, pub, metrics)
	if closer != nil {
		e.OnClose(closer)
	}
	return e, nil
}

// newDistances returns the provider route legs are measured with and,
// when a Redis cache is used, the client to close on shutdown.
func newDistances(ctx context.Context, cfg *config.Config) (ports.DistanceMatrixProvider, io.Closer, error) {
	if cfg.Distance.Kind != config.DistanceORS {
		p, err := distance.NewHaversineProvider(cfg.SpeedKmh)
		return p, nil, err
	}

	var (
		dc     ports.DistanceCache
		closer io.Closer
	)
	switch cfg.Distance.Cache {
	case config.CacheMemory:
		dc = cache.NewMemoryDistanceCache()
	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Distance.CacheRedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("op=app.build distance_cache=redis addr=%s err=%v", cfg.Distance.CacheRedisAddr, err)
		}
		rc, err := cache.NewRedisDistanceCache(client, "waste:distance", cfg.Distance.CacheTTL)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		dc, closer = rc, client
	}

	p, err := distance.NewORSProvider(
		cfg.Distance.ORSAPIKey,
		dc,
		distance.WithORSBaseURL(cfg.Distance.ORSBaseURL),
		distance.WithORSProfile(cfg.Distance.ORSProfile),
	)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, nil, err
	}
	return p, closer, nil
}

func newClassifier(kind string, seed int64) ports.Classifier {
	if kind == config.ClassifierRandom {
		return classifier.NewRandomClassifier(seed)
	}
	return classifier.NewLookupClassifier()
}

func newPublisher(ctx context.Context, cfg config.PublisherConfig) (ports.SnapshotPublisher, error) {
	switch cfg.Kind {
	case config.PublisherRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		// An unreachable broker only costs failed publishes; the simulation still runs.
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("op=app.build publisher=redis addr=%s err=%v", cfg.RedisAddr, err)
		}
		return publisher.NewRedisPublisher(client, cfg.Channel, cfg.LatestTTL)
	case config.PublisherKafka:
		return publisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.Topic)
	default:
		return publisher.NoopPublisher{}, nil
	}
}

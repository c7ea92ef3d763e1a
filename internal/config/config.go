package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/sim"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Simulation    SimulationConfig `yaml:"simulation"`
	Server        ServerConfig     `yaml:"server"`
	Publisher     PublisherConfig  `yaml:"publisher"`
	Classifier    string           `yaml:"classifier"`
	LandmarksPath string           `yaml:"landmarks_path"`
	SpeedKmh      float64          `yaml:"speed_kmh"`
	Distance      DistanceConfig   `yaml:"distance"`
}

// SimulationConfig mirrors sim.Params. Seed stays textual until validated
// so bad values surface as ErrInvalidSeed rather than a YAML type error.
// Fields where zero is a valid setting are pointers; nil means default.
type SimulationConfig struct {
	Seed                string        `yaml:"seed"`
	Bins                int           `yaml:"bins"`
	Trucks              int           `yaml:"trucks"`
	TruckCapacity       int           `yaml:"truck_capacity"`
	CollectionThreshold float64       `yaml:"collection_threshold"`
	WarningThreshold    float64       `yaml:"warning_threshold"`
	ResetBaseline       *float64      `yaml:"reset_baseline"`
	MinFillDelta        *float64      `yaml:"min_fill_delta"`
	MaxFillDelta        *float64      `yaml:"max_fill_delta"`
	StartTime           time.Time     `yaml:"start_time"`
	TickDuration        time.Duration `yaml:"tick_duration"`
	RetentionTicks      int           `yaml:"retention_ticks"`
	AutoDispatch        *bool         `yaml:"auto_dispatch"`
	CenterLat           float64       `yaml:"center_lat"`
	CenterLon           float64       `yaml:"center_lon"`
	RadiusMeters        float64       `yaml:"radius_meters"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	AutoTick     *bool         `yaml:"auto_tick"`
	TickInterval time.Duration `yaml:"tick_interval"`
}

type PublisherConfig struct {
	Kind         string        `yaml:"kind"`
	RedisAddr    string        `yaml:"redis_addr"`
	Channel      string        `yaml:"channel"`
	LatestTTL    time.Duration `yaml:"latest_ttl"`
	KafkaBrokers string        `yaml:"kafka_brokers"`
	Topic        string        `yaml:"topic"`
}

// DistanceConfig selects where route legs get their distances from.
type DistanceConfig struct {
	Kind           string        `yaml:"kind"`
	ORSAPIKey      string        `yaml:"ors_api_key"`
	ORSBaseURL     string        `yaml:"ors_base_url"`
	ORSProfile     string        `yaml:"ors_profile"`
	Cache          string        `yaml:"cache"`
	CacheRedisAddr string        `yaml:"cache_redis_addr"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
}

const (
	PublisherNone  = "none"
	PublisherRedis = "redis"
	PublisherKafka = "kafka"

	ClassifierLookup = "lookup"
	ClassifierRandom = "random"

	DistanceHaversine = "haversine"
	DistanceORS       = "ors"

	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Load reads a YAML file, applies environment overrides and defaults, and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &cfg, nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *Config) applyEnv() error {
	c.Simulation.Seed = Get("SIM_SEED", c.Simulation.Seed)
	c.Server.Addr = Get("HTTP_ADDR", c.Server.Addr)
	c.Publisher.Kind = Get("PUBLISHER_KIND", c.Publisher.Kind)
	c.Publisher.RedisAddr = Get("REDIS_ADDR", c.Publisher.RedisAddr)
	c.Publisher.KafkaBrokers = Get("KAFKA_BROKERS", c.Publisher.KafkaBrokers)
	c.Classifier = Get("CLASSIFIER", c.Classifier)
	c.LandmarksPath = Get("LANDMARKS_PATH", c.LandmarksPath)
	c.Distance.Kind = Get("DISTANCE_KIND", c.Distance.Kind)
	c.Distance.ORSAPIKey = Get("ORS_API_KEY", c.Distance.ORSAPIKey)
	c.Distance.Cache = Get("DISTANCE_CACHE", c.Distance.Cache)

	if v := Get("SIM_BINS", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SIM_BINS=%q: %w", v, domain.ErrInvalidCount)
		}
		c.Simulation.Bins = n
	}
	if v := Get("SIM_TICK_INTERVAL", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SIM_TICK_INTERVAL=%q: %w", v, err)
		}
		c.Server.TickInterval = d
	}
	return nil
}

func (c *Config) applyDefaults() {
	d := sim.DefaultParams()
	s := &c.Simulation

	if strings.TrimSpace(s.Seed) == "" {
		s.Seed = strconv.FormatInt(d.Seed, 10)
	}
	if s.Bins == 0 {
		s.Bins = d.BinCount
	}
	if s.TruckCapacity == 0 {
		s.TruckCapacity = d.TruckCapacity
	}
	if s.CollectionThreshold == 0 {
		s.CollectionThreshold = d.CollectionThreshold
	}
	if s.WarningThreshold == 0 {
		s.WarningThreshold = d.WarningThreshold
	}
	if s.ResetBaseline == nil {
		s.ResetBaseline = floatPtr(d.ResetBaseline)
	}
	if s.MinFillDelta == nil {
		s.MinFillDelta = floatPtr(d.MinFillDelta)
	}
	if s.MaxFillDelta == nil {
		s.MaxFillDelta = floatPtr(d.MaxFillDelta)
	}
	if s.StartTime.IsZero() {
		s.StartTime = d.StartTime
	}
	if s.TickDuration == 0 {
		s.TickDuration = d.TickDuration
	}
	if s.AutoDispatch == nil {
		s.AutoDispatch = boolPtr(d.AutoDispatch)
	}
	if s.CenterLat == 0 && s.CenterLon == 0 {
		s.CenterLat, s.CenterLon = d.Center.Lat, d.Center.Lon
	}
	if s.RadiusMeters == 0 {
		s.RadiusMeters = d.RadiusMeters
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.AutoTick == nil {
		c.Server.AutoTick = boolPtr(true)
	}
	if c.Server.TickInterval == 0 {
		c.Server.TickInterval = 30 * time.Second
	}

	if c.Publisher.Kind == "" {
		c.Publisher.Kind = PublisherNone
	}
	if c.Publisher.Channel == "" {
		c.Publisher.Channel = "waste:snapshots"
	}
	if c.Publisher.Topic == "" {
		c.Publisher.Topic = "waste.snapshots"
	}
	if c.Publisher.LatestTTL == 0 {
		c.Publisher.LatestTTL = 10 * time.Minute
	}

	if c.Classifier == "" {
		c.Classifier = ClassifierLookup
	}

	if c.Distance.Kind == "" {
		c.Distance.Kind = DistanceHaversine
	}
	if c.Distance.Cache == "" {
		c.Distance.Cache = CacheMemory
	}
	if c.Distance.Cache == CacheRedis && c.Distance.CacheRedisAddr == "" {
		c.Distance.CacheRedisAddr = c.Publisher.RedisAddr
	}
	if c.Distance.CacheTTL == 0 {
		c.Distance.CacheTTL = 24 * time.Hour
	}
}

func (c *Config) validate() error {
	if _, err := c.Params(); err != nil {
		return err
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.TickInterval < 0 {
		return fmt.Errorf("server.tick_interval must be positive, got %s", c.Server.TickInterval)
	}

	switch c.Publisher.Kind {
	case PublisherNone:
	case PublisherRedis:
		if c.Publisher.RedisAddr == "" {
			return fmt.Errorf("publisher.redis_addr is required for kind %q", PublisherRedis)
		}
	case PublisherKafka:
		if c.Publisher.KafkaBrokers == "" {
			return fmt.Errorf("publisher.kafka_brokers is required for kind %q", PublisherKafka)
		}
	default:
		return fmt.Errorf("publisher.kind must be one of none, redis, kafka, got %q", c.Publisher.Kind)
	}

	switch c.Classifier {
	case ClassifierLookup, ClassifierRandom:
	default:
		return fmt.Errorf("classifier must be %q or %q, got %q", ClassifierLookup, ClassifierRandom, c.Classifier)
	}

	switch c.Distance.Kind {
	case DistanceHaversine:
	case DistanceORS:
		if c.Distance.ORSAPIKey == "" {
			return fmt.Errorf("distance.ors_api_key is required for kind %q", DistanceORS)
		}
	default:
		return fmt.Errorf("distance.kind must be %q or %q, got %q", DistanceHaversine, DistanceORS, c.Distance.Kind)
	}

	switch c.Distance.Cache {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.Distance.CacheRedisAddr == "" {
			return fmt.Errorf("distance.cache_redis_addr is required for cache %q", CacheRedis)
		}
	default:
		return fmt.Errorf("distance.cache must be one of none, memory, redis, got %q", c.Distance.Cache)
	}

	if c.SpeedKmh < 0 {
		return fmt.Errorf("speed_kmh must be non-negative, got %v", c.SpeedKmh)
	}
	return nil
}

// Params converts the simulation section into validated sim.Params.
func (c *Config) Params() (sim.Params, error) {
	seed, err := domain.ParseSeed(c.Simulation.Seed)
	if err != nil {
		return sim.Params{}, err
	}

	s := c.Simulation
	p := sim.Params{
		Seed:                seed,
		BinCount:            s.Bins,
		TruckCount:          s.Trucks,
		TruckCapacity:       s.TruckCapacity,
		CollectionThreshold: s.CollectionThreshold,
		WarningThreshold:    s.WarningThreshold,
		ResetBaseline:       deref(s.ResetBaseline),
		MinFillDelta:        deref(s.MinFillDelta),
		MaxFillDelta:        deref(s.MaxFillDelta),
		StartTime:           s.StartTime.UTC(),
		TickDuration:        s.TickDuration,
		RetentionTicks:      s.RetentionTicks,
		AutoDispatch:        s.AutoDispatch != nil && *s.AutoDispatch,
		Center:              domain.Coordinates{Lon: s.CenterLon, Lat: s.CenterLat},
		RadiusMeters:        s.RadiusMeters,
	}
	if err := p.Validate(); err != nil {
		return sim.Params{}, err
	}
	return p, nil
}

func boolPtr(v bool) *bool { return &v }

func floatPtr(v float64) *float64 { return &v }

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

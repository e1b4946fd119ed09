package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Engine     EngineConfig     `yaml:"engine" mapstructure:"engine"`
	Taxonomy   TaxonomyConfig   `yaml:"taxonomy" mapstructure:"taxonomy"`
	Data       DataConfig       `yaml:"data" mapstructure:"data"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the reference-data database.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// EngineConfig holds the tuned constants of the clustering engine. They are
// heuristics, not fitted values; see cluster.DefaultEngineConfig.
type EngineConfig struct {
	// Affiliation scorer.
	AffiliationThreshold float64 `yaml:"affiliation_threshold" mapstructure:"affiliation_threshold"`
	AffiliationBoost     float64 `yaml:"affiliation_boost" mapstructure:"affiliation_boost"`

	// Pairwise compatibility tiers.
	SharedClusterBase      float64 `yaml:"shared_cluster_base" mapstructure:"shared_cluster_base"`
	SharedClusterStep      float64 `yaml:"shared_cluster_step" mapstructure:"shared_cluster_step"`
	CompatibleClusterScore float64 `yaml:"compatible_cluster_score" mapstructure:"compatible_cluster_score"`
	InterestOverlapFactor  float64 `yaml:"interest_overlap_factor" mapstructure:"interest_overlap_factor"`
	InterestOverlapCap     float64 `yaml:"interest_overlap_cap" mapstructure:"interest_overlap_cap"`
	FloorScore             float64 `yaml:"floor_score" mapstructure:"floor_score"`

	// Centrality.
	IsolatedCentrality      float64 `yaml:"isolated_centrality" mapstructure:"isolated_centrality"`
	InterestBonusCap        float64 `yaml:"interest_bonus_cap" mapstructure:"interest_bonus_cap"`
	InterestBonusSaturation int     `yaml:"interest_bonus_saturation" mapstructure:"interest_bonus_saturation"`
	ClusterBonusStep        float64 `yaml:"cluster_bonus_step" mapstructure:"cluster_bonus_step"`
	ClusterBonusCap         float64 `yaml:"cluster_bonus_cap" mapstructure:"cluster_bonus_cap"`
	Workers                 int     `yaml:"workers" mapstructure:"workers"`

	// Space-cluster optimizer.
	SizeWeight             float64  `yaml:"size_weight" mapstructure:"size_weight"`
	LocationWeight         float64  `yaml:"location_weight" mapstructure:"location_weight"`
	AmenitiesWeight        float64  `yaml:"amenities_weight" mapstructure:"amenities_weight"`
	SizeOccupancy          float64  `yaml:"size_occupancy" mapstructure:"size_occupancy"`
	SizeFactor             float64  `yaml:"size_factor" mapstructure:"size_factor"`
	HubDistricts           []string `yaml:"hub_districts" mapstructure:"hub_districts"`
	HubLocationScore       float64  `yaml:"hub_location_score" mapstructure:"hub_location_score"`
	DefaultLocationScore   float64  `yaml:"default_location_score" mapstructure:"default_location_score"`
	AmenityBaseScore       float64  `yaml:"amenity_base_score" mapstructure:"amenity_base_score"`
	AmenityMatchScore      float64  `yaml:"amenity_match_score" mapstructure:"amenity_match_score"`
	MaxRecommendedClusters int      `yaml:"max_recommended_clusters" mapstructure:"max_recommended_clusters"`

	// Business-space resolver.
	NeutralSpaceScore  float64 `yaml:"neutral_space_score" mapstructure:"neutral_space_score"`
	DirectMatchBoost   float64 `yaml:"direct_match_boost" mapstructure:"direct_match_boost"`
	CompatibleDiscount float64 `yaml:"compatible_discount" mapstructure:"compatible_discount"`
	NoRelationScore    float64 `yaml:"no_relation_score" mapstructure:"no_relation_score"`

	// Listings.
	RecommendationLimit  int     `yaml:"recommendation_limit" mapstructure:"recommendation_limit"`
	CompatibleSpaceMin   float64 `yaml:"compatible_space_min" mapstructure:"compatible_space_min"`
	CompatibleSpaceLimit int     `yaml:"compatible_space_limit" mapstructure:"compatible_space_limit"`
	TopClusterLimit      int     `yaml:"top_cluster_limit" mapstructure:"top_cluster_limit"`
}

// TaxonomyConfig points at an optional YAML taxonomy. Empty uses the built-in one.
type TaxonomyConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// DataConfig points at reference-data fixtures.
type DataConfig struct {
	Businesses string `yaml:"businesses" mapstructure:"businesses"`
	Spaces     string `yaml:"spaces" mapstructure:"spaces"`
	// Source is "files" (read Businesses/Spaces paths) or "store".
	Source string `yaml:"source" mapstructure:"source"`
}

// CacheConfig bounds the snapshot cache.
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	RateLimit      float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// MonitoringConfig configures the background health checker and alerting.
type MonitoringConfig struct {
	Enabled             bool    `yaml:"enabled" mapstructure:"enabled"`
	WebhookURL          string  `yaml:"webhook_url" mapstructure:"webhook_url"`
	CheckIntervalSecs   int     `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
	LookbackWindowHours int     `yaml:"lookback_window_hours" mapstructure:"lookback_window_hours"`
	MinAvgCompatibility float64 `yaml:"min_avg_compatibility" mapstructure:"min_avg_compatibility"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CLUSTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "cluster.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("data.source", "files")
	v.SetDefault("data.businesses", "data/businesses.yaml")
	v.SetDefault("data.spaces", "data/spaces.yaml")
	v.SetDefault("cache.max_entries", 16)
	v.SetDefault("monitoring.enabled", false)
	v.SetDefault("monitoring.check_interval_secs", 300)
	v.SetDefault("monitoring.lookback_window_hours", 24)
	v.SetDefault("monitoring.min_avg_compatibility", 0.0)

	v.SetDefault("engine.affiliation_threshold", 0.4)
	v.SetDefault("engine.affiliation_boost", 1.5)
	v.SetDefault("engine.shared_cluster_base", 0.7)
	v.SetDefault("engine.shared_cluster_step", 0.15)
	v.SetDefault("engine.compatible_cluster_score", 0.6)
	v.SetDefault("engine.interest_overlap_factor", 0.8)
	v.SetDefault("engine.interest_overlap_cap", 0.5)
	v.SetDefault("engine.floor_score", 0.1)
	v.SetDefault("engine.isolated_centrality", 0.3)
	v.SetDefault("engine.interest_bonus_cap", 0.2)
	v.SetDefault("engine.interest_bonus_saturation", 10)
	v.SetDefault("engine.cluster_bonus_step", 0.1)
	v.SetDefault("engine.cluster_bonus_cap", 0.2)
	v.SetDefault("engine.workers", 4)
	v.SetDefault("engine.size_weight", 0.4)
	v.SetDefault("engine.location_weight", 0.3)
	v.SetDefault("engine.amenities_weight", 0.3)
	v.SetDefault("engine.size_occupancy", 0.7)
	v.SetDefault("engine.size_factor", 0.5)
	v.SetDefault("engine.hub_districts", []string{"Schwabing"})
	v.SetDefault("engine.hub_location_score", 0.8)
	v.SetDefault("engine.default_location_score", 0.6)
	v.SetDefault("engine.amenity_base_score", 0.5)
	v.SetDefault("engine.amenity_match_score", 0.9)
	v.SetDefault("engine.max_recommended_clusters", 3)
	v.SetDefault("engine.neutral_space_score", 0.5)
	v.SetDefault("engine.direct_match_boost", 0.2)
	v.SetDefault("engine.compatible_discount", 0.8)
	v.SetDefault("engine.no_relation_score", 0.3)
	v.SetDefault("engine.recommendation_limit", 5)
	v.SetDefault("engine.compatible_space_min", 0.5)
	v.SetDefault("engine.compatible_space_limit", 6)
	v.SetDefault("engine.top_cluster_limit", 3)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a given command mode depends on.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "store":
		if c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
			errs = append(errs, "store.driver must be sqlite or postgres")
		}
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	case "files":
		if c.Data.Businesses == "" {
			errs = append(errs, "data.businesses is required")
		}
		if c.Data.Spaces == "" {
			errs = append(errs, "data.spaces is required")
		}
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be between 1 and 65535")
		}
		if c.Server.RateLimit < 0 {
			errs = append(errs, "server.rate_limit must be >= 0")
		}
	default:
		return eris.Errorf("config: unknown validation mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

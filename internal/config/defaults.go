package config

import "runtime"

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Catalog.DebounceMS == 0 {
		cfg.Catalog.DebounceMS = 400
	}
	if cfg.Index.MaxFeatures == 0 {
		cfg.Index.MaxFeatures = 5000
	}
	if cfg.Index.Workers == 0 {
		cfg.Index.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Index.QueryCacheSize == 0 {
		cfg.Index.QueryCacheSize = 1024
	}
	if cfg.Recommend.DefaultLimit == 0 {
		cfg.Recommend.DefaultLimit = 5
	}
	if cfg.Recommend.MaxLimit == 0 {
		cfg.Recommend.MaxLimit = 100
	}
	if cfg.Recommend.DefaultMinSimilarity == nil {
		m := 0.1
		cfg.Recommend.DefaultMinSimilarity = &m
	}
	if cfg.Scoring.StaleAfterDays == 0 {
		cfg.Scoring.StaleAfterDays = 365
	}
}

package models

// MConfig Structure
type MConfig struct {
	Name      string         `yaml:"name"`
	Host      string         `yaml:"host"`
	Port      int            `yaml:"port"`
	LogLevel  string         `yaml:"log_level"`
	Feed      MFeedConfig    `yaml:"feed"`
	Catalog   MCatalogConfig `yaml:"catalog"`
	Storage   MStorageConfig `yaml:"storage"`
	RateLimit MRateLimit     `yaml:"rate_limit"`
}

type MFeedConfig struct {
	WsURL                string  `yaml:"ws_url"`
	ReconcileIntervalSec int     `yaml:"reconcile_interval_seconds"`
	PingIntervalSec      int     `yaml:"ping_interval_seconds"`
	MaxRetries           int     `yaml:"max_retries"`
	BackoffBaseSec       float64 `yaml:"backoff_base_seconds"`
	BackoffCapSec        float64 `yaml:"backoff_cap_seconds"`
}

type MCatalogConfig struct {
	ExchangeInfoURL    string `yaml:"exchange_info_url"`
	RefreshIntervalMin int    `yaml:"refresh_interval_minutes"`
	FetchRetries       int    `yaml:"fetch_retries"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
}

type MRateLimit struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	Burst             int `yaml:"burst"`
}

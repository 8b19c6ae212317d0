package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port        int              `json:"port"`
	LogConfig   logger.LogConfig `json:"log_config"`
	Database    DatabaseConfig   `json:"database"`
	Catalog     CatalogConfig    `json:"catalog"`
	FileStore   FileStoreConfig  `json:"file_store"`
	ImageProc   ImageProcConfig  `json:"image_proc"`
	Recommend   RecommendConfig  `json:"recommend"`
	CORSAllow   []string         `json:"cors_allow"`
	RateLimitMS int64            `json:"rate_limit_ms"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type CatalogConfig struct {
	Source     string `json:"source"`      // file | postgres
	FilePath   string `json:"file_path"`   // snapshot artifact for the file source
	ReloadSpec string `json:"reload_spec"` // cron spec, empty disables the reload job
}

type FileStoreConfig struct {
	Type      string   `json:"type"`
	Dir       string   `json:"dir"`
	PublicURL string   `json:"public_url"`
	S3        S3Config `json:"s3"`
}

type S3Config struct {
	Endpoint  string `json:"endpoint"`
	SecretID  string `json:"secret_id"`
	SecretKey string `json:"secret_key"`
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	Prefix    string `json:"prefix"`
	PublicURL string `json:"public_url"`
	UseSSL    bool   `json:"use_ssl"`
}

type ImageProcConfig struct {
	MattingURL     string `json:"matting_url"`
	FetchTimeoutMS int64  `json:"fetch_timeout_ms"`
	CacheSize      int    `json:"cache_size"`
	CacheTTLHours  int    `json:"cache_ttl_hours"`
}

type RecommendConfig struct {
	PoolSize       int                `json:"pool_size"`
	PickCount      int                `json:"pick_count"`
	DefaultPersona string             `json:"default_persona"`
	DefaultPreset  string             `json:"default_preset"`
	Presets        map[string]Weights `json:"presets"`
}

type Weights struct {
	Name     float64 `json:"name"`
	Brand    float64 `json:"brand"`
	Image    float64 `json:"image"`
	Category float64 `json:"category"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if err := cfg.Catalog.validate(); err != nil {
		return nil, err
	}
	if err := cfg.FileStore.validate(); err != nil {
		return nil, err
	}
	if cfg.ImageProc.FetchTimeoutMS <= 0 {
		cfg.ImageProc.FetchTimeoutMS = 10000
	}
	if cfg.ImageProc.CacheSize <= 0 {
		cfg.ImageProc.CacheSize = 10000
	}
	if cfg.ImageProc.CacheTTLHours <= 0 {
		cfg.ImageProc.CacheTTLHours = 2
	}
	cfg.Recommend.applyDefaults()
	return &cfg, nil
}

func (c *CatalogConfig) validate() error {
	if c.Source == "" {
		c.Source = "file"
	}
	switch c.Source {
	case "file":
		if c.FilePath == "" {
			return fmt.Errorf("catalog.file_path is required for file source")
		}
	case "postgres":
	default:
		return fmt.Errorf("catalog.source must be file or postgres")
	}
	return nil
}

func (c *FileStoreConfig) validate() error {
	if c.Type == "" {
		c.Type = "local"
	}
	switch c.Type {
	case "local":
		if c.Dir == "" {
			return fmt.Errorf("file_store.dir is required for local store")
		}
	case "s3":
		if c.S3.Endpoint == "" || c.S3.Bucket == "" || c.S3.SecretID == "" || c.S3.SecretKey == "" {
			return fmt.Errorf("file_store.s3 endpoint/bucket/secret_id/secret_key are required for s3 store")
		}
		if c.S3.Region == "" {
			c.S3.Region = "cn"
		}
	default:
		return fmt.Errorf("file_store.type must be local or s3")
	}
	return nil
}

func (c *RecommendConfig) applyDefaults() {
	if c.PoolSize <= 0 {
		c.PoolSize = 100
	}
	if c.PickCount <= 0 {
		c.PickCount = 5
	}
	if c.DefaultPersona == "" {
		c.DefaultPersona = "amekaji"
	}
	if len(c.Presets) == 0 {
		c.Presets = map[string]Weights{
			"balanced": {Name: 0.3, Brand: 0.3, Image: 0.3, Category: 0.1},
			"visual":   {Name: 0.1, Brand: 0.1, Image: 0.6, Category: 0.1},
		}
	}
	if c.DefaultPreset == "" {
		c.DefaultPreset = "balanced"
	}
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/chaos-io/cutout/matte"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Matting MattingConfig `mapstructure:"matting"`
	Remote  RemoteConfig  `mapstructure:"remote"`
	Model   ModelConfig   `mapstructure:"model"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type UploadConfig struct {
	MaxSize      int64    `mapstructure:"max_size"`
	AllowedTypes []string `mapstructure:"allowed_types"`
}

type MattingConfig struct {
	matte.Options `mapstructure:",squash"`
	MaxDimension  int    `mapstructure:"max_dimension"`
	Codec         string `mapstructure:"codec"`
}

type RemoteConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	URL      string        `mapstructure:"url"`
	SizeHint int           `mapstructure:"size_hint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ModelConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Name      string        `mapstructure:"name"`
	URL       string        `mapstructure:"url"`
	HealthURL string        `mapstructure:"health_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	// ReloadSpec cron 表达式，模型不可用时按此周期重新加载
	ReloadSpec string `mapstructure:"reload_spec"`
}

// Load 从 YAML 文件加载配置
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("CUTOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// New 加载 path，失败时返回默认配置
func New(path string) *Config {
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := Load(path)
	if err != nil {
		return Default()
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)

	v.SetDefault("redis.enabled", d.Redis.Enabled)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.ttl", d.Redis.TTL)

	v.SetDefault("upload.max_size", d.Upload.MaxSize)
	v.SetDefault("upload.allowed_types", d.Upload.AllowedTypes)

	v.SetDefault("matting.threshold", d.Matting.Threshold)
	v.SetDefault("matting.trimap_radius", d.Matting.TrimapRadius)
	v.SetDefault("matting.feather_radius", d.Matting.FeatherRadius)
	v.SetDefault("matting.distance_iterations", d.Matting.DistanceIterations)
	v.SetDefault("matting.workers", d.Matting.Workers)
	v.SetDefault("matting.max_dimension", d.Matting.MaxDimension)
	v.SetDefault("matting.codec", d.Matting.Codec)

	v.SetDefault("remote.enabled", d.Remote.Enabled)
	v.SetDefault("remote.url", d.Remote.URL)
	v.SetDefault("remote.size_hint", d.Remote.SizeHint)
	v.SetDefault("remote.timeout", d.Remote.Timeout)

	v.SetDefault("model.enabled", d.Model.Enabled)
	v.SetDefault("model.name", d.Model.Name)
	v.SetDefault("model.url", d.Model.URL)
	v.SetDefault("model.health_url", d.Model.HealthURL)
	v.SetDefault("model.timeout", d.Model.Timeout)
	v.SetDefault("model.reload_spec", d.Model.ReloadSpec)
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			Mode:         "debug",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
			DB:      0,
			TTL:     24 * time.Hour,
		},
		Upload: UploadConfig{
			MaxSize:      10 * 1024 * 1024,
			AllowedTypes: []string{"image/jpeg", "image/png", "image/jpg", "image/webp"},
		},
		Matting: MattingConfig{
			Options:      matte.DefaultOptions(),
			MaxDimension: 2048,
			Codec:        "std",
		},
		Remote: RemoteConfig{
			Enabled:  false,
			URL:      "http://127.0.0.1:7000/api/remove",
			SizeHint: 1024,
			Timeout:  20 * time.Second,
		},
		Model: ModelConfig{
			Enabled:    false,
			Name:       "BiRefNet",
			URL:        "http://127.0.0.1:8188/api/segment",
			HealthURL:  "http://127.0.0.1:8188/api/health",
			Timeout:    15 * time.Second,
			ReloadSpec: "@every 5m",
		},
	}
}

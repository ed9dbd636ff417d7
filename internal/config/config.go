package config

import (
	"time"

	"github.com/spf13/viper"
	pkgconfig "github.com/virtumeet/room-coordinator/pkg/config"
)

type Config struct {
	Server    ServerConfig
	WebSocket WebSocketConfig
	Directory DirectoryConfig
	Identity  IdentityConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
}

type DirectoryConfig struct {
	HTTPAddress string        `mapstructure:"http_address"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

type IdentityConfig struct {
	TokenSecret string `mapstructure:"token_secret"`
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8383)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.max_message_size", 65536)
	v.SetDefault("directory.http_address", "")
	v.SetDefault("directory.cache_ttl", "5m")
	v.SetDefault("identity.token_secret", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// Override from environment
	v.BindEnv("server.port", "PORT")
	v.BindEnv("directory.http_address", "DIRECTORY_HTTP_ADDRESS")
	v.BindEnv("identity.token_secret", "IDENTITY_TOKEN_SECRET")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Parse durations
	cfg.WebSocket.PingInterval = parseDuration(v, "websocket.ping_interval", 30*time.Second)
	cfg.WebSocket.PongWait = parseDuration(v, "websocket.pong_wait", 60*time.Second)
	cfg.WebSocket.WriteWait = parseDuration(v, "websocket.write_wait", 10*time.Second)
	cfg.Directory.CacheTTL = parseDuration(v, "directory.cache_ttl", 5*time.Minute)

	return &cfg, nil
}

func parseDuration(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	str := v.GetString(key)
	d, err := time.ParseDuration(str)
	if err != nil {
		return defaultVal
	}
	return d
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode       string   `mapstructure:"mode"`
	Port       int      `mapstructure:"port"`
	StaticPath string   `mapstructure:"static_path"`
	Secret     string   `mapstructure:"secret"`
	Providers  []string `mapstructure:"providers"`

	JWTSecret string        `mapstructure:"jwt_secret"`
	JWTTTL    time.Duration `mapstructure:"jwt_ttl"`
	RedisURL  string        `mapstructure:"redis_url"`

	PollWait    time.Duration `mapstructure:"poll_wait"`
	MailboxIdle time.Duration `mapstructure:"mailbox_idle"`

	JoinLimit  int           `mapstructure:"join_limit"`
	JoinWindow time.Duration `mapstructure:"join_window"`
}

// HasProvider reports whether the named transport binding is enabled.
func (c *Config) HasProvider(name string) bool {
	for _, p := range c.Providers {
		if p == name {
			return true
		}
	}
	return false
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("providers", []string{"ws", "poll"})
	v.SetDefault("jwt_ttl", "12h")
	v.SetDefault("redis_url", "redis://localhost:6379/0")
	v.SetDefault("poll_wait", "30s")
	v.SetDefault("mailbox_idle", "5m")
	v.SetDefault("join_limit", 10)
	v.SetDefault("join_window", "1m")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Secrets come from the environment in deployments; the file values are
	// dev fallbacks.
	if s := os.Getenv("JWT_SECRET"); s != "" {
		cfg.JWTSecret = s
	}
	if u := os.Getenv("REDIS_URL"); u != "" {
		cfg.RedisURL = u
	}

	fmt.Printf("🧩 Mode: %s | Port: %d | Providers: %v\n", cfg.Mode, cfg.Port, cfg.Providers)
	return &cfg, nil
}

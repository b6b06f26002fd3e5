package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/benbeisheim/uchesstactoe-backend/internal/model"
	"github.com/spf13/viper"
)

const (
	appName   = "uchesstactoe"
	cfgFile   = appName + "/config.yaml"
	envPrefix = "UCTT"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("config error: %s", e.err)
}

type GameConfig struct {
	Layout         string `mapstructure:"layout"`
	CaptureTheKing bool   `mapstructure:"capture_the_king"`
}

// RoomsConfig controls how long unwatched rooms are kept. Zero keeps them.
type RoomsConfig struct {
	IdleTTL time.Duration `mapstructure:"idle_ttl"`
}

type MatchmakingConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// NatsConfig enables the committed-move feed when URL is set.
type NatsConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

type Config struct {
	Addr           string            `mapstructure:"addr"`
	AllowedOrigins []string          `mapstructure:"allowed_origins"`
	LogLevel       string            `mapstructure:"log_level"`
	Game           GameConfig        `mapstructure:"game"`
	Matchmaking    MatchmakingConfig `mapstructure:"matchmaking"`
	Rooms          RoomsConfig       `mapstructure:"rooms"`
	Nats           NatsConfig        `mapstructure:"nats"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":3000")
	v.SetDefault("allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("log_level", "info")
	v.SetDefault("game.layout", string(model.LayoutSet1))
	v.SetDefault("game.capture_the_king", true)
	v.SetDefault("matchmaking.interval", time.Second)
	v.SetDefault("rooms.idle_ttl", 30*time.Minute)
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject", "uchesstactoe.moves")
}

// Load reads defaults, then an optional config.yaml from the XDG config
// directory or the working directory, then UCTT_* environment variables.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path, err := xdg.SearchConfigFile(cfgFile); err == nil {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return &InvalidConfig{"addr must not be empty"}
	}
	if _, err := model.ParseLayout(c.Game.Layout); err != nil {
		return &InvalidConfig{err.Error()}
	}
	if c.Matchmaking.Interval <= 0 {
		return &InvalidConfig{"matchmaking.interval must be positive"}
	}
	if c.Rooms.IdleTTL < 0 {
		return &InvalidConfig{"rooms.idle_ttl must not be negative"}
	}
	if c.Nats.URL != "" && c.Nats.Subject == "" {
		return &InvalidConfig{"nats.subject is required when nats.url is set"}
	}
	return nil
}

// GameSettings returns the settings new rooms start with.
func (c *Config) GameSettings() model.Settings {
	layout, _ := model.ParseLayout(c.Game.Layout)
	return model.Settings{Layout: layout, CaptureTheKing: c.Game.CaptureTheKing}
}

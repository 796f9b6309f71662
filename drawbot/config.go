package drawbot

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := Config{
		Draw: DrawConfig{
			Timezone:             "Asia/Taipei",
			DataDir:              "./data",
			SaveIntervalSeconds:  60,
			SweepIntervalSeconds: 30,
		},
	}
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log  LogConfig  `toml:"log"`
	Bot  BotConfig  `toml:"bot"`
	Draw DrawConfig `toml:"draw"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	AddSource bool       `toml:"add_source"`
}

type DrawConfig struct {
	Timezone             string `toml:"timezone"`
	DataDir              string `toml:"data_dir"`
	SaveIntervalSeconds  int    `toml:"save_interval_seconds"`
	SweepIntervalSeconds int    `toml:"sweep_interval_seconds"`
}

// Location resolves the configured timezone; all campaign timestamps are
// rendered and persisted in this location.
func (c DrawConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c DrawConfig) SaveInterval() time.Duration {
	return time.Duration(c.SaveIntervalSeconds) * time.Second
}

func (c DrawConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

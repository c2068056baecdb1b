package sync

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/topi314/partiful-sync/internal/xtime"
	"github.com/topi314/partiful-sync/sync/lesswrong"
	"github.com/topi314/partiful-sync/sync/partiful"
)

func LoadConfig(cfgPath string) (Config, error) {
	file, err := os.Open(cfgPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	cfg := defaultConfig()
	if _, err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config file: %w", err)
	}

	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:     slog.LevelInfo,
			Format:    LogFormatText,
			AddSource: false,
		},
		HTTPTimeout: xtime.Duration(30 * time.Second),
		LessWrong: lesswrong.Config{
			Every: xtime.Duration(time.Second),
			Burst: 4,
		},
	}
}

type Config struct {
	Log         LogConfig        `toml:"log"`
	HTTPTimeout xtime.Duration   `toml:"http_timeout"`
	Partiful    partiful.Config  `toml:"partiful"`
	LessWrong   lesswrong.Config `toml:"lesswrong"`
	Event       EventConfig      `toml:"event"`
}

func (c Config) String() string {
	return fmt.Sprintf("Log: %s\nHTTPTimeout: %s\nPartiful: %s\nLessWrong: %s\nEvent: %s",
		c.Log,
		c.HTTPTimeout,
		c.Partiful,
		c.LessWrong,
		c.Event,
	)
}

type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    LogFormat  `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

func (c LogConfig) String() string {
	return fmt.Sprintf("\n Level: %s\n Format: %s\n AddSource: %t",
		c.Level,
		c.Format,
		c.AddSource,
	)
}

// EventConfig is the static per-deployment venue metadata merged into every
// built payload. It is opaque input; only field presence matters.
type EventConfig struct {
	LocationName string  `toml:"location_name"`
	Latitude     float64 `toml:"latitude"`
	Longitude    float64 `toml:"longitude"`
}

func (c EventConfig) String() string {
	return fmt.Sprintf("\n LocationName: %s\n Latitude: %f\n Longitude: %f",
		c.LocationName,
		c.Latitude,
		c.Longitude,
	)
}

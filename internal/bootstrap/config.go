package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort        string `mapstructure:"SERVER_PORT" validate:"required,numeric"`
	GrpcPort          string `mapstructure:"GRPC_PORT" validate:"required,numeric"`
	EngineGrpcAddr    string `mapstructure:"ENGINE_GRPC_ADDR" validate:"omitempty,hostname_port"`
	RedisUrl          string `mapstructure:"REDIS_URL"`
	MongoUri          string `mapstructure:"MONGO_URI"`
	SlotTransport     string `mapstructure:"SLOT_TRANSPORT" validate:"oneof=redis memory"`
	SlotKey           string `mapstructure:"SLOT_KEY"`
	SearchWorkers     int    `mapstructure:"SEARCH_WORKERS" validate:"min=0"`
	AnytimeDeadlineMs int    `mapstructure:"ANYTIME_DEADLINE_MS" validate:"min=1"`
	AnytimeKind       string `mapstructure:"ANYTIME_KIND" validate:"omitempty,oneof=alphabeta minmax parallel"`
	PlayerOne         string `mapstructure:"PLAYER_ONE" validate:"required"`
	PlayerTwo         string `mapstructure:"PLAYER_TWO" validate:"required"`
	StartBoard        string `mapstructure:"START_BOARD"`
}

var defaults = map[string]any{
	"SERVER_PORT":         "8080",
	"GRPC_PORT":           "9090",
	"ENGINE_GRPC_ADDR":    "",
	"REDIS_URL":           "localhost:6379",
	"MONGO_URI":           "",
	"SLOT_TRANSPORT":      "redis",
	"SLOT_KEY":            "",
	"SEARCH_WORKERS":      0,
	"ANYTIME_DEADLINE_MS": 1000,
	"ANYTIME_KIND":        "alphabeta",
	"PLAYER_ONE":          "alphabeta:4",
	"PLAYER_TWO":          "greedy",
	"START_BOARD":         "",
}

// Setup reads cfgPath when it exists and lets environment variables
// override every key.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

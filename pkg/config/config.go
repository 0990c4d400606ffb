package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Simulation SimulationConfig
	Console    ConsoleConfig
	Limits     LimitsConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Host          string
	Port          int
	ReadTimeout   int
	WriteTimeout  int
	BodyLimit     int
	Environment   string
	WidgetOrigins []string
}

// SimulationConfig holds the fixed delays that stand in for real work.
// A real backend replaces these timers with actual request handling while
// keeping the state machines unchanged.
type SimulationConfig struct {
	AnswerDelay     time.Duration
	RevealInterval  time.Duration
	RevealChunkSize int
	ProcessingDelay time.Duration
	CreateDelay     time.Duration
	FailureRate     float64
	MinChunks       int
	MaxChunks       int
}

type ConsoleConfig struct {
	MaxSessions    int
	MaxQueryLength int
}

type LimitsConfig struct {
	MaxRequestsPerMinute int
	MaxFileSizeBytes     int64
	MaxBatchFiles        int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/ragfloe")

	viper.SetEnvPrefix("RAGFLOE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)
	viper.SetDefault("server.bodyLimit", 10485760)
	viper.SetDefault("server.environment", "development")
	viper.SetDefault("server.widgetOrigins", []string{"https://widget.ragfloe.io"})

	viper.SetDefault("simulation.answerDelay", 1200*time.Millisecond)
	viper.SetDefault("simulation.revealInterval", 15*time.Millisecond)
	viper.SetDefault("simulation.revealChunkSize", 3)
	viper.SetDefault("simulation.processingDelay", 2*time.Second)
	viper.SetDefault("simulation.createDelay", 1500*time.Millisecond)
	viper.SetDefault("simulation.failureRate", 0.05)
	viper.SetDefault("simulation.minChunks", 5)
	viper.SetDefault("simulation.maxChunks", 44)

	viper.SetDefault("console.maxSessions", 128)
	viper.SetDefault("console.maxQueryLength", 5000)

	viper.SetDefault("limits.maxRequestsPerMinute", 120)
	viper.SetDefault("limits.maxFileSizeBytes", 52428800)
	viper.SetDefault("limits.maxBatchFiles", 20)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}

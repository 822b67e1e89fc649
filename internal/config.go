package internal

import (
	"chat-relay/errors"
	"fmt"
	"time"
)

type Config struct {
	Host                 string        `env:"HOST,default=0.0.0.0"`
	Port                 int           `env:"PORT,default=50051"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	NodeID               string        `env:"NODE_ID,default=chat-relay"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=1"`
	DeliveryTimeout      time.Duration `env:"DELIVERY_TIMEOUT,default=100ms"`
	TelemetryBufferSize  int           `env:"TELEMETRY_BUFFER_SIZE,default=1024"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=10s"`
	MaxContentLength     int           `env:"MAX_CONTENT_LENGTH,default=4096"`
	ModerationEnabled    bool          `env:"MODERATION_ENABLED,default=false"`
	CharReplacement      string        `env:"MODERATION_CHARACTER_REPLACEMENT,default=*"`
	EnableReflection     bool          `env:"ENABLE_REFLECTION,default=false"`
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.ConnectionBufferSize < 1 {
		return fmt.Errorf("CONNECTION_BUFFER_SIZE must be at least 1, got %d", c.ConnectionBufferSize)
	}
	if c.DeliveryTimeout < 0 {
		return fmt.Errorf("DELIVERY_TIMEOUT must not be negative, got %s", c.DeliveryTimeout)
	}
	if c.TelemetryBufferSize < 1 {
		return fmt.Errorf("TELEMETRY_BUFFER_SIZE must be at least 1, got %d", c.TelemetryBufferSize)
	}
	if c.MetricInterval <= 0 {
		return fmt.Errorf("METRIC_INTERVAL must be positive, got %s", c.MetricInterval)
	}
	if _, err := CharacterRune(c.CharReplacement); err != nil {
		return err
	}
	return nil
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf("%w: MODERATION_CHARACTER_REPLACEMENT got %q", errors.ErrInvalidCharacter, str)
	}
	return r[0], nil
}

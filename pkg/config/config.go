// Package config loads runtime configuration from an optional TOML file with
// environment variable overrides. Precedence is env > file > defaults, so a
// deployment can ship a config file and still pivot per-instance through the
// environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ddrutch/AWSInfoGraphic/pkg/apperrors"
)

// Config is the full runtime configuration.
type Config struct {
	AWS    AWS    `toml:"aws"`
	Cache  Cache  `toml:"cache"`
	Retry  Retry  `toml:"retry"`
	Output Output `toml:"output"`
	Server Server `toml:"server"`
}

// AWS configures the Bedrock and S3 collaborators.
type AWS struct {
	Region            string `toml:"region"`
	BedrockModelID    string `toml:"bedrock_model_id"`
	NovaCanvasModelID string `toml:"nova_canvas_model_id"`
	S3Bucket          string `toml:"s3_bucket"`
}

// Cache configures the image cache backend. RedisAddr selects the Redis
// backend; otherwise Dir selects the file backend; Disabled selects neither.
type Cache struct {
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	Disabled  bool   `toml:"disabled"`
}

// Retry configures the shared retry policy.
type Retry struct {
	MaxAttempts int `toml:"max_attempts"`
	BaseDelayMS int `toml:"base_delay_ms"`
	MaxDelayMS  int `toml:"max_delay_ms"`
}

// Output configures local result storage, used when no S3 bucket is set.
type Output struct {
	Dir string `toml:"dir"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		AWS: AWS{
			Region:            "us-east-1",
			BedrockModelID:    "anthropic.claude-3-5-sonnet-20241022-v2:0",
			NovaCanvasModelID: "amazon.nova-canvas-v1:0",
		},
		Retry: Retry{
			MaxAttempts: 3,
			BaseDelayMS: 500,
			MaxDelayMS:  8000,
		},
		Output: Output{Dir: "output"},
		Server: Server{Addr: ":8080"},
	}
}

// Load reads the config file at path (missing file is fine when path is
// empty or the default location) and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Config{}, apperrors.New(apperrors.Validation, apperrors.CodeInvalidInput,
					"config file %q does not exist", path)
			}
			return Config{}, apperrors.Wrap(apperrors.Validation, apperrors.CodeInvalidFormat, err,
				"parse config file %q", path)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays the recognized environment variables.
func (c *Config) applyEnv() {
	setString(&c.AWS.Region, "AWS_REGION")
	setString(&c.AWS.BedrockModelID, "BEDROCK_MODEL_ID")
	setString(&c.AWS.NovaCanvasModelID, "NOVA_CANVAS_MODEL_ID")
	setString(&c.AWS.S3Bucket, "S3_BUCKET_NAME")
	setString(&c.Cache.Dir, "CACHE_DIR")
	setString(&c.Cache.RedisAddr, "REDIS_ADDR")
	setString(&c.Output.Dir, "OUTPUT_DIR")
	setString(&c.Server.Addr, "SERVER_ADDR")
	setInt(&c.Retry.MaxAttempts, "RETRY_MAX_ATTEMPTS")
	setInt(&c.Retry.BaseDelayMS, "RETRY_BASE_DELAY_MS")
	setInt(&c.Retry.MaxDelayMS, "RETRY_MAX_DELAY_MS")

	if v, ok := os.LookupEnv("CACHE_DISABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Cache.Disabled = b
		}
	}
}

// BaseDelay returns the retry base delay as a duration.
func (r Retry) BaseDelay() time.Duration { return time.Duration(r.BaseDelayMS) * time.Millisecond }

// MaxDelay returns the retry delay ceiling as a duration.
func (r Retry) MaxDelay() time.Duration { return time.Duration(r.MaxDelayMS) * time.Millisecond }

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ddrutch/AWSInfoGraphic/pkg/apperrors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.AWS.Region != "us-east-1" {
		t.Errorf("Region = %q", cfg.AWS.Region)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BaseDelay() != 500*time.Millisecond || cfg.Retry.MaxDelay() != 8*time.Second {
		t.Errorf("delays = %v/%v", cfg.Retry.BaseDelay(), cfg.Retry.MaxDelay())
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[aws]
region = "eu-west-1"
s3_bucket = "my-bucket"

[retry]
max_attempts = 5
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AWS.Region != "eu-west-1" || cfg.AWS.S3Bucket != "my-bucket" {
		t.Errorf("aws = %+v", cfg.AWS)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d", cfg.Retry.MaxAttempts)
	}
	// Unset file keys keep their defaults.
	if cfg.Retry.BaseDelayMS != 500 {
		t.Errorf("BaseDelayMS = %d", cfg.Retry.BaseDelayMS)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !apperrors.IsValidation(err) {
		t.Errorf("category = %v, want validation", apperrors.CategoryOf(err))
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[aws]\nregion = \"eu-west-1\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("AWS_REGION", "ap-southeast-2")
	t.Setenv("RETRY_MAX_ATTEMPTS", "7")
	t.Setenv("CACHE_DISABLED", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AWS.Region != "ap-southeast-2" {
		t.Errorf("Region = %q, want env override", cfg.AWS.Region)
	}
	if cfg.Retry.MaxAttempts != 7 {
		t.Errorf("MaxAttempts = %d", cfg.Retry.MaxAttempts)
	}
	if !cfg.Cache.Disabled {
		t.Error("Cache.Disabled not applied")
	}
}

func TestEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("RETRY_MAX_ATTEMPTS", "zero")
	t.Setenv("AWS_REGION", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want default kept", cfg.Retry.MaxAttempts)
	}
	if cfg.AWS.Region != "us-east-1" {
		t.Errorf("Region = %q, want default kept", cfg.AWS.Region)
	}
}

// Package config holds process configuration for the workflow helper.
// Everything is environment-first, mirroring how the tool is driven from
// CI pipelines; CLI flags may override individual fields.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// EndpointEnvVar names the Azure AI Foundry project endpoint.
	EndpointEnvVar = "AIF_ENDPOINT"
	// TenantIDEnvVar names the Azure tenant used for authentication.
	TenantIDEnvVar = "AZURE_TENANT_ID"
	// ModelDeploymentEnvVar names an optional global model deployment used
	// as a fallback for definitions that omit a model.
	ModelDeploymentEnvVar = "AIF_MODEL_DEPLOYMENT_NAME"
	// RetryAttemptsEnvVar overrides the transient-failure retry attempt count.
	RetryAttemptsEnvVar = "AIF_RETRY_ATTEMPTS"
	// RetryBaseDelayEnvVar overrides the retry base delay, in seconds.
	RetryBaseDelayEnvVar = "AIF_RETRY_BASE_DELAY"

	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
)

// Config is the resolved process configuration.
type Config struct {
	Endpoint            string
	TenantID            string
	ModelDeploymentName string
	RetryAttempts       int
	RetryBaseDelay      time.Duration
}

// FromEnv builds a Config from the environment, applying defaults for the
// retry tuning knobs. Unparsable override values fall back to defaults.
func FromEnv() *Config {
	cfg := &Config{
		Endpoint:            os.Getenv(EndpointEnvVar),
		TenantID:            os.Getenv(TenantIDEnvVar),
		ModelDeploymentName: os.Getenv(ModelDeploymentEnvVar),
		RetryAttempts:       defaultRetryAttempts,
		RetryBaseDelay:      defaultRetryBaseDelay,
	}

	if raw := os.Getenv(RetryAttemptsEnvVar); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			cfg.RetryAttempts = n
		}
	}
	if raw := os.Getenv(RetryBaseDelayEnvVar); raw != "" {
		if seconds, err := strconv.ParseFloat(raw, 64); err == nil && seconds > 0 {
			cfg.RetryBaseDelay = time.Duration(seconds * float64(time.Second))
		}
	}

	return cfg
}

// Validate checks that the fields required to reach the service are set.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("%s environment variable is required", EndpointEnvVar)
	}
	if c.TenantID == "" {
		return fmt.Errorf("%s environment variable is required", TenantIDEnvVar)
	}
	return nil
}

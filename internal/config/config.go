package config

import (
	"fmt"
	"net/url"
	"time"
)

type Config struct {
	Env               string
	APIBaseURL        string
	APIAuthToken      string
	PracticeLanguage  string
	MinTurnsToSave    int
	CaptureSampleRate int
	RequestTimeoutSec int
	TTSMuted          bool
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if _, err := url.ParseRequestURI(c.APIBaseURL); err != nil {
		return fmt.Errorf("API_BASE_URL is invalid: %w", err)
	}
	if c.MinTurnsToSave <= 0 {
		return fmt.Errorf("MIN_TURNS_TO_SAVE must be positive, got %d", c.MinTurnsToSave)
	}
	if c.CaptureSampleRate <= 0 {
		return fmt.Errorf("CAPTURE_SAMPLE_RATE must be positive, got %d", c.CaptureSampleRate)
	}
	if c.RequestTimeoutSec <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SEC must be positive, got %d", c.RequestTimeoutSec)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "API_BASE_URL", value: c.APIBaseURL},
		{name: "PRACTICE_LANGUAGE", value: c.PracticeLanguage},
	}
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

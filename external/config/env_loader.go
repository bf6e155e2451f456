package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/hanspeak/hanspeak/internal/config"
)

type envConfig struct {
	Env               string `env:"ENV" envDefault:"production"`
	APIBaseURL        string `env:"API_BASE_URL,required"`
	APIAuthToken      string `env:"API_AUTH_TOKEN"`
	PracticeLanguage  string `env:"PRACTICE_LANGUAGE" envDefault:"ko-KR"`
	MinTurnsToSave    int    `env:"MIN_TURNS_TO_SAVE" envDefault:"5"`
	CaptureSampleRate int    `env:"CAPTURE_SAMPLE_RATE" envDefault:"44100"`
	RequestTimeoutSec int    `env:"REQUEST_TIMEOUT_SEC" envDefault:"30"`
	TTSMuted          bool   `env:"TTS_MUTED" envDefault:"false"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:               raw.Env,
		APIBaseURL:        raw.APIBaseURL,
		APIAuthToken:      raw.APIAuthToken,
		PracticeLanguage:  raw.PracticeLanguage,
		MinTurnsToSave:    raw.MinTurnsToSave,
		CaptureSampleRate: raw.CaptureSampleRate,
		RequestTimeoutSec: raw.RequestTimeoutSec,
		TTSMuted:          raw.TTSMuted,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

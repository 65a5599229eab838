package configs

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// KrishaSourceConfig — настройки коллектора сайта объявлений
type KrishaSourceConfig struct {
	Enabled         bool   `yaml:"enabled"`
	BaseURL         string `yaml:"base_url"`
	City            string `yaml:"city"`
	IntervalSeconds int    `yaml:"interval_seconds"`
}

func (c KrishaSourceConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// CommunitySourceConfig — настройки одного коллектора сообщества
type CommunitySourceConfig struct {
	Channel         string `yaml:"channel"`
	SessionID       string `yaml:"session_id"`
	IntervalSeconds int    `yaml:"interval_seconds"`
}

func (c CommunitySourceConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// SourcesConfig — расписание всех источников объявлений.
// Хранится отдельным YAML-файлом: список сообществ меняется чаще,
// чем переменные окружения сервиса.
type SourcesConfig struct {
	Krisha      KrishaSourceConfig      `yaml:"krisha"`
	GatewayURL  string                  `yaml:"gateway_url"`
	Communities []CommunitySourceConfig `yaml:"communities"`
}

// LoadSources читает и проверяет YAML с расписанием источников
func LoadSources(path string) (*SourcesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file %s: %w", path, err)
	}

	var cfg SourcesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sources file %s: %w", path, err)
	}

	if cfg.Krisha.Enabled {
		if cfg.Krisha.BaseURL == "" {
			return nil, fmt.Errorf("sources: krisha.base_url is required when krisha is enabled")
		}
		if cfg.Krisha.IntervalSeconds <= 0 {
			cfg.Krisha.IntervalSeconds = 300
		}
	}

	if len(cfg.Communities) > 0 && cfg.GatewayURL == "" {
		return nil, fmt.Errorf("sources: gateway_url is required when communities are configured")
	}
	for i := range cfg.Communities {
		if cfg.Communities[i].Channel == "" {
			return nil, fmt.Errorf("sources: communities[%d].channel is required", i)
		}
		if cfg.Communities[i].SessionID == "" {
			cfg.Communities[i].SessionID = cfg.Communities[i].Channel
		}
		if cfg.Communities[i].IntervalSeconds <= 0 {
			cfg.Communities[i].IntervalSeconds = 120
		}
	}

	return &cfg, nil
}

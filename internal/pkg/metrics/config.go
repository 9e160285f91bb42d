package metrics

import (
	"errors"
	"net/url"
	"time"

	"github.com/Kargones/apk-files/internal/pkg/logging"
)

var (
	ErrPushgatewayURLRequired = errors.New("metrics: при включённых метриках нужен адрес pushgateway")
	ErrPushgatewayURLInvalid  = errors.New("metrics: адрес pushgateway должен содержать схему и хост")
	ErrJobNameRequired        = errors.New("metrics: не задано имя job")
	ErrInvalidTimeout         = errors.New("metrics: таймаут должен быть больше нуля")
)

// Config - параметры отправки в Pushgateway.
type Config struct {
	Enabled        bool
	PushgatewayURL string // например http://pushgateway:9091
	JobName        string
	Timeout        time.Duration
	// InstanceLabel заменяет hostname в группировке instance.
	InstanceLabel string
}

// Validate проверяет конфигурацию; выключенные метрики всегда корректны.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.PushgatewayURL == "" {
		return ErrPushgatewayURLRequired
	}
	if u, err := url.Parse(c.PushgatewayURL); err != nil || u.Scheme == "" || u.Host == "" {
		return ErrPushgatewayURLInvalid
	}
	if c.JobName == "" {
		return ErrJobNameRequired
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// DefaultConfig возвращает выключенные метрики с job "apk-files".
func DefaultConfig() Config {
	return Config{JobName: "apk-files", Timeout: 10 * time.Second}
}

// NewCollector возвращает NopCollector для выключенных метрик и PrometheusCollector иначе.
func NewCollector(config Config, logger logging.Logger) (Collector, error) {
	if !config.Enabled {
		return NewNopCollector(), nil
	}
	return NewPrometheusCollector(config, logger)
}

package tracing

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

var (
	ErrTracingEndpointRequired      = errors.New("tracing: при включённом трейсинге нужен endpoint")
	ErrTracingEndpointInvalidFormat = errors.New("tracing: endpoint должен быть URL с хостом, например http://collector:4318")
	ErrTracingServiceNameRequired   = errors.New("tracing: не задано имя сервиса")
	ErrTracingTimeoutInvalid        = errors.New("tracing: таймаут экспорта должен быть больше нуля")
	ErrTracingSamplingRateInvalid   = errors.New("tracing: доля сэмплирования вне диапазона [0, 1]")
)

// Config - параметры экспорта трейсов по OTLP HTTP.
type Config struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	Version     string
	Environment string
	// Insecure отключает TLS при экспорте.
	Insecure     bool
	Timeout      time.Duration
	SamplingRate float64
}

// Validate проверяет конфигурацию; выключенный трейсинг всегда корректен.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch {
	case c.Endpoint == "":
		return ErrTracingEndpointRequired
	case !hasHost(c.Endpoint):
		return ErrTracingEndpointInvalidFormat
	case c.ServiceName == "":
		return ErrTracingServiceNameRequired
	case c.Timeout <= 0:
		return ErrTracingTimeoutInvalid
	case c.SamplingRate < 0 || c.SamplingRate > 1:
		return fmt.Errorf("%w: %g", ErrTracingSamplingRateInvalid, c.SamplingRate)
	}
	return nil
}

// DefaultConfig возвращает выключенный трейсинг с полным сэмплированием.
func DefaultConfig() Config {
	return Config{
		ServiceName:  "apk-files",
		Environment:  "production",
		Timeout:      5 * time.Second,
		SamplingRate: 1.0,
	}
}

func hasHost(endpoint string) bool {
	u, err := url.Parse(endpoint)
	return err == nil && u.Host != ""
}

// endpointHost отрезает схему и путь: otlptracehttp.WithEndpoint ждёт host:port.
func endpointHost(endpoint string) string {
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		return u.Host
	}
	return endpoint
}

package config

import (
	"time"

	"github.com/Kargones/apk-files/internal/constants"
	"github.com/Kargones/apk-files/internal/pkg/metrics"
	"github.com/Kargones/apk-files/internal/pkg/tracing"
)

// MetricsConfig - секция metrics: отправка счётчиков в Prometheus Pushgateway.
type MetricsConfig struct {
	Enabled        bool          `yaml:"enabled" env:"BR_METRICS_ENABLED" env-default:"false"`
	PushgatewayURL string        `yaml:"pushgatewayUrl" env:"BR_METRICS_PUSHGATEWAY_URL"`
	JobName        string        `yaml:"jobName" env:"BR_METRICS_JOB_NAME" env-default:"apk-files"`
	Timeout        time.Duration `yaml:"timeout" env:"BR_METRICS_TIMEOUT" env-default:"10s"`
	// InstanceLabel - пусто означает hostname.
	InstanceLabel string `yaml:"instanceLabel" env:"BR_METRICS_INSTANCE"`
}

// Collector переводит секцию в настройки metrics.NewCollector.
func (m *MetricsConfig) Collector() metrics.Config {
	return metrics.Config{
		Enabled:        m.Enabled,
		PushgatewayURL: m.PushgatewayURL,
		JobName:        m.JobName,
		Timeout:        m.Timeout,
		InstanceLabel:  m.InstanceLabel,
	}
}

// TracingConfig - секция tracing: экспорт span-ов по OTLP HTTP.
type TracingConfig struct {
	Enabled      bool          `yaml:"enabled" env:"BR_TRACING_ENABLED" env-default:"false"`
	Endpoint     string        `yaml:"endpoint" env:"BR_TRACING_ENDPOINT"` // например http://jaeger:4318
	ServiceName  string        `yaml:"serviceName" env:"BR_TRACING_SERVICE_NAME" env-default:"apk-files"`
	Environment  string        `yaml:"environment" env:"BR_TRACING_ENVIRONMENT" env-default:"production"`
	Insecure     bool          `yaml:"insecure" env:"BR_TRACING_INSECURE" env-default:"false"`
	Timeout      time.Duration `yaml:"timeout" env:"BR_TRACING_TIMEOUT" env-default:"5s"`
	SamplingRate float64       `yaml:"samplingRate" env:"BR_TRACING_SAMPLING_RATE" env-default:"1.0"`
}

// Provider переводит секцию в настройки tracing.NewTracerProvider.
func (t *TracingConfig) Provider() tracing.Config {
	return tracing.Config{
		Enabled:      t.Enabled,
		Endpoint:     t.Endpoint,
		ServiceName:  t.ServiceName,
		Version:      constants.Version,
		Environment:  t.Environment,
		Insecure:     t.Insecure,
		Timeout:      t.Timeout,
		SamplingRate: t.SamplingRate,
	}
}

func defaultMetricsConfig() *MetricsConfig {
	d := metrics.DefaultConfig()
	return &MetricsConfig{JobName: d.JobName, Timeout: d.Timeout}
}

func defaultTracingConfig() *TracingConfig {
	d := tracing.DefaultConfig()
	return &TracingConfig{
		ServiceName:  d.ServiceName,
		Environment:  d.Environment,
		Timeout:      d.Timeout,
		SamplingRate: d.SamplingRate,
	}
}

// Секция считается заданной в файле, если включена или указан адрес.
func metricsPresent(m *MetricsConfig) bool { return m.Enabled || m.PushgatewayURL != "" }
func tracingPresent(t *TracingConfig) bool { return t.Enabled || t.Endpoint != "" }

func validateMetricsConfig(m *MetricsConfig) error {
	c := m.Collector()
	return c.Validate()
}

func validateTracingConfig(t *TracingConfig) error {
	c := t.Provider()
	return c.Validate()
}

package metrics

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/Kargones/apk-files/internal/pkg/apperrors"
	"github.com/Kargones/apk-files/internal/pkg/logging"
	"github.com/Kargones/apk-files/internal/pkg/urlutil"
)

const namespace = "apk_files"

// maxLabelLength ограничивает длину значения label в рунах.
const maxLabelLength = 128

// PrometheusCollector держит метрики в собственном registry и отправляет их методом Push.
//
// Метрики:
//
//	apk_files_command_duration_seconds{command,status}
//	apk_files_command_total{command,status}
//	apk_files_command_errors_total{command,category,code}
//	apk_files_file_operation_duration_seconds{operation,result}
//	apk_files_bytes_total{operation}
//	apk_files_retry_total{operation}
type PrometheusCollector struct {
	config   Config
	logger   logging.Logger
	registry *prometheus.Registry
	instance string

	commandDuration *prometheus.HistogramVec
	commandTotal    *prometheus.CounterVec
	commandErrors   *prometheus.CounterVec
	fileOpDuration  *prometheus.HistogramVec
	bytesTotal      *prometheus.CounterVec
	retryTotal      *prometheus.CounterVec
}

// NewPrometheusCollector проверяет config и регистрирует метрики в новом registry.
func NewPrometheusCollector(config Config, logger logging.Logger) (*PrometheusCollector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	c := &PrometheusCollector{
		config:   config,
		logger:   logger,
		registry: registry,
		instance: instanceLabel(config.InstanceLabel, logger),

		commandDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Длительность команды в секундах",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}, []string{"command", "status"}),
		commandTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_total",
			Help:      "Число запусков команд",
		}, []string{"command", "status"}),
		commandErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_errors_total",
			Help:      "Ошибки команд по коду",
		}, []string{"command", "category", "code"}),
		fileOpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "file_operation_duration_seconds",
			Help:      "Длительность операций файлового менеджера в секундах",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"operation", "result"}),
		bytesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_total",
			Help:      "Байты, переданные файловыми операциями",
		}, []string{"operation"}),
		retryTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retry_total",
			Help:      "Повторные попытки файловых операций",
		}, []string{"operation"}),
	}
	return c, nil
}

func instanceLabel(override string, logger logging.Logger) string {
	if override != "" {
		return override
	}
	host, err := os.Hostname()
	if err != nil {
		logger.Warn("hostname недоступен, instance=unknown", "error", err.Error())
		return "unknown"
	}
	return host
}

// sanitizeLabel заменяет управляющие символы на '_' и обрезает значение до maxLabelLength рун.
func sanitizeLabel(value string) string {
	runes := []rune(strings.Map(func(r rune) rune {
		if r < 0x20 {
			return '_'
		}
		return r
	}, value))
	if len(runes) > maxLabelLength {
		runes = runes[:maxLabelLength]
	}
	return string(runes)
}

// RecordCommandStart только пишет отладочную запись: запуск одной команды не требует gauge.
func (c *PrometheusCollector) RecordCommandStart(command string) {
	c.logger.Debug("metrics: старт команды", "command", command)
}

func (c *PrometheusCollector) RecordCommandEnd(command string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	command = sanitizeLabel(command)
	c.commandDuration.WithLabelValues(command, status).Observe(duration.Seconds())
	c.commandTotal.WithLabelValues(command, status).Inc()
}

// RecordCommandError учитывает ошибку по коду; пустой код считается COMMAND.EXEC_FAILED.
func (c *PrometheusCollector) RecordCommandError(command, code string) {
	if code == "" {
		code = apperrors.ErrCommandExec
	}
	c.commandErrors.WithLabelValues(sanitizeLabel(command), apperrors.Category(code), sanitizeLabel(code)).Inc()
}

func (c *PrometheusCollector) RecordFileOperation(op string, duration time.Duration, result string) {
	c.fileOpDuration.WithLabelValues(sanitizeLabel(op), sanitizeLabel(result)).Observe(duration.Seconds())
}

func (c *PrometheusCollector) AddBytes(op string, n int64) {
	if n > 0 {
		c.bytesTotal.WithLabelValues(sanitizeLabel(op)).Add(float64(n))
	}
}

func (c *PrometheusCollector) RecordRetry(op string) {
	c.retryTotal.WithLabelValues(sanitizeLabel(op)).Inc()
}

// Push отправляет registry в Pushgateway с группировкой по instance.
// Отменённый контекст пропускает отправку.
func (c *PrometheusCollector) Push(ctx context.Context) error {
	if ctx.Err() != nil {
		c.logger.Debug("metrics: отправка пропущена, контекст отменён")
		return nil
	}

	pushCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	masked := urlutil.MaskURL(c.config.PushgatewayURL)
	err := push.New(c.config.PushgatewayURL, c.config.JobName).
		Gatherer(c.registry).
		Grouping("instance", c.instance).
		PushContext(pushCtx)
	if err != nil {
		c.logger.Error("metrics: ошибка отправки в Pushgateway", "error", err.Error(), "url", masked)
		return nil
	}
	c.logger.Debug("metrics: отправлено", "url", masked, "job", c.config.JobName, "instance", c.instance)
	return nil
}

// Registry возвращает registry коллектора.
func (c *PrometheusCollector) Registry() *prometheus.Registry {
	return c.registry
}

package shared

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/Kargones/apk-files/internal/config"
	"github.com/Kargones/apk-files/internal/constants"
	"github.com/Kargones/apk-files/internal/pkg/apperrors"
	"github.com/Kargones/apk-files/internal/pkg/dryrun"
	"github.com/Kargones/apk-files/internal/pkg/logging"
	"github.com/Kargones/apk-files/internal/pkg/output"
	"github.com/Kargones/apk-files/internal/pkg/tracing"
)

// Run - контекст одного выполнения команды: формат вывода, trace_id, время старта.
type Run struct {
	Command string
	Format  string
	TraceID string
	Start   time.Time
	Out     io.Writer
	Log     logging.Logger
}

// NewRun начинает выполнение команды. Результат пишется в os.Stdout,
// логи идут в logger (stderr или файл).
func NewRun(ctx context.Context, cfg *config.Config, command string, logger logging.Logger) *Run {
	traceID := tracing.TraceIDFromContext(ctx)
	// В production trace_id кладёт main; fallback сигнализирует о разрыве цепочки контекста.
	if traceID == "" {
		traceID = tracing.GenerateTraceID()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Run{
		Command: command,
		Format:  Format(cfg),
		TraceID: traceID,
		Start:   time.Now(),
		Out:     os.Stdout,
		Log:     logger.With("trace_id", traceID, "command", command),
	}
}

// Format возвращает формат вывода: из конфигурации, иначе BR_OUTPUT_FORMAT.
func Format(cfg *config.Config) string {
	if cfg != nil && cfg.OutputFormat != "" {
		return cfg.OutputFormat
	}
	if format := os.Getenv(constants.EnvOutputFormat); format != "" {
		return format
	}
	return output.FormatText
}

// DryRun сообщает, включён ли dry-run режим.
func (r *Run) DryRun() bool {
	return dryrun.IsDryRun()
}

func (r *Run) metadata() *output.Metadata {
	return &output.Metadata{
		DurationMs: time.Since(r.Start).Milliseconds(),
		TraceID:    r.TraceID,
		APIVersion: constants.APIVersion,
	}
}

// Success выводит успешный результат с данными data.
func (r *Run) Success(data any) error {
	return r.SuccessWithSummary(data, nil)
}

// SuccessWithSummary выводит успешный результат с блоком summary.
func (r *Run) SuccessWithSummary(data any, summary *output.SummaryInfo) error {
	result := &output.Result{
		Status:   output.StatusSuccess,
		Command:  r.Command,
		Data:     data,
		Metadata: r.metadata(),
		Summary:  summary,
	}
	return output.NewWriter(r.Format).Write(r.Out, result)
}

// Fail выводит структурированную ошибку и возвращает err.
// Ошибка записи результата только логируется: исходная ошибка важнее.
func (r *Run) Fail(err error) error {
	return r.FailWithData(err, nil)
}

// FailWithData выводит ошибку вместе с частичными данными команды.
func (r *Run) FailWithData(err error, data any) error {
	r.Log.Error("Команда завершилась с ошибкой", "error", err.Error())

	result := &output.Result{
		Status:   output.StatusError,
		Command:  r.Command,
		Data:     data,
		Error:    output.NewErrorInfo(err),
		Metadata: r.metadata(),
	}
	if writeErr := output.NewWriter(r.Format).Write(r.Out, result); writeErr != nil {
		r.Log.Error("Не удалось записать ответ об ошибке", "error", writeErr.Error())
	}
	return err
}

// Plan выводит план dry-run вместо выполнения.
func (r *Run) Plan(plan *output.DryRunPlan) error {
	r.Log.Info("Dry-run: операции не выполняются", "steps", len(plan.Steps))
	return output.WriteDryRunResult(r.Out, r.Format, r.Command, r.TraceID, constants.APIVersion, r.Start, plan)
}

// MissingParam возвращает ошибку отсутствующего параметра команды.
func MissingParam(env string) error {
	return apperrors.NewAppError(apperrors.ErrConfigValidate, "не указан параметр "+env, nil)
}

// Package tracing связывает записи логов одного запуска общим trace_id
// и экспортирует span-ы команд в OpenTelemetry.
//
// trace_id - 32 hex-символа, как в W3C Trace Context, поэтому тот же
// идентификатор становится trace ID в OTel.
package tracing

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"
)

type traceIDKey struct{}

var fallbackSeq atomic.Uint64

// GenerateTraceID возвращает случайный 16-байтовый идентификатор в hex.
func GenerateTraceID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// Время и счётчик по 16 hex-символов: длина остаётся 32.
		return fmt.Sprintf("%016x%016x", uint64(time.Now().UnixNano()), fallbackSeq.Add(1))
	}
	return hex.EncodeToString(b[:])
}

// WithTraceID сохраняет trace_id в контексте.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// TraceIDFromContext возвращает trace_id или пустую строку.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

package logging

// NopLogger отбрасывает все записи.
type NopLogger struct{}

// NewNopLogger возвращает логгер для тестов и компонентов без настроенного логирования.
func NewNopLogger() Logger {
	return NopLogger{}
}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}
func (n NopLogger) With(...any) Logger { return n }

package logger

// noopLogger discards everything. Used by tests that don't assert on logs.
type noopLogger struct{}

// NewNoop returns a logger that drops all records.
func NewNoop() Interface { return noopLogger{} }

func (noopLogger) Debug(msg string, args ...any)                  {}
func (noopLogger) Info(msg string, args ...any)                   {}
func (noopLogger) Warn(msg string, args ...any)                   {}
func (noopLogger) Error(msg string, args ...any)                  {}
func (n noopLogger) With(args ...any) Interface                   { return n }
func (n noopLogger) Named(name string) Interface                  { return n }
func (noopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Errorw(msg string, keysAndValues ...interface{}) {}

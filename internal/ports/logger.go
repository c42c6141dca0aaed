package ports

// Logger is the structured logger used by the app and CLI layers.
// Domain packages never log. keysAndValues alternate key, value.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Close() error
}

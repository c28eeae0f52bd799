package ulogger

// TestLogger is a zero-value-usable, silent Logger for unit tests that need
// to satisfy the Logger interface without asserting on log output.
type TestLogger struct{}

func (TestLogger) LogLevel() int                                 { return 0 }
func (TestLogger) SetLogLevel(level string)                      {}
func (TestLogger) Debugf(format string, args ...interface{})     {}
func (TestLogger) Infof(format string, args ...interface{})      {}
func (TestLogger) Warnf(format string, args ...interface{})      {}
func (TestLogger) Errorf(format string, args ...interface{})     {}
func (TestLogger) Fatalf(format string, args ...interface{})     {}
func (TestLogger) New(service string, options ...Option) Logger  { return TestLogger{} }
func (TestLogger) Duplicate(options ...Option) Logger             { return TestLogger{} }

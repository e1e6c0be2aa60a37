package obslog

// Logger is the component-tagged logging interface every package logs
// through. ComponentLogger is the zap-backed implementation.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

var _ Logger = ComponentLogger{}

package log

// nullLogger is a logger that does nothing. Useful for tests and for hosts
// that don't want diagnostic output.
type nullLogger struct{}

// NewNullLogger returns a logger that discards everything.
func NewNullLogger() Logger {
	return &nullLogger{}
}

func (n *nullLogger) Infof(Category, string, ...interface{})  {}
func (n *nullLogger) Warnf(Category, string, ...interface{})  {}
func (n *nullLogger) Errorf(Category, string, ...interface{}) {}
func (n *nullLogger) Debugf(Category, string, ...interface{}) {}

func (n *nullLogger) InfofLimited(*RateLimiter, Category, string, ...interface{}) {}

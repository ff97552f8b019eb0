package lamportmt

import (
	"go.uber.org/zap"
)

type Logger interface {
	Logf(format string, a ...interface{})
}

type dummyLogger struct{}

func (logger *dummyLogger) Logf(format string, a ...interface{}) {}

// Adapts a zap logger to Logger.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (logger *zapLogger) Logf(format string, a ...interface{}) {
	logger.s.Infof(format, a...)
}

// Returns a Logger that writes to the given zap logger at info level.
func NewZapLogger(logger *zap.Logger) Logger {
	return &zapLogger{s: logger.Named("lamportmt").Sugar()}
}

var log Logger = &dummyLogger{}

// Enables logging to a zap production logger.  For more flexibility,
// see SetLogger().
func EnableLogging() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	SetLogger(NewZapLogger(logger))
	return nil
}

// Enables logging.  Disable logging by passing nil.
//
// Use EnableLogging if you want to log through zap.
func SetLogger(logger Logger) {
	if logger == nil {
		log = &dummyLogger{}
		return
	}
	log = logger
}

package corrtrack

import (
	"github.com/cyclopcam/logs"
)

// Option configures a Tracker created with New
type Option func(*Tracker)

// WithLogger sets the logger used for state transitions and forced resets
func WithLogger(log logs.Log) Option {
	return func(t *Tracker) {
		if log != nil {
			t.log = log
		}
	}
}

// discardLog drops every message
type discardLog struct{}

func (discardLog) Close() {}

func (discardLog) Debugf(format string, a ...interface{}) {}

func (discardLog) Infof(format string, a ...interface{}) {}

func (discardLog) Warnf(format string, a ...interface{}) {}

func (discardLog) Errorf(format string, a ...interface{}) {}

func (discardLog) Criticalf(format string, a ...interface{}) {}

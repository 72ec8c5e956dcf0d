package adapter

import (
	"github.com/cyclopcam/logs"
)

// prefixLogger writes to the underlying log with every message prefixed
type prefixLogger struct {
	log    logs.Log
	prefix string
}

// newPrefixLogger creates a prefixLogger, a space is added after prefix
func newPrefixLogger(log logs.Log, prefix string) *prefixLogger {
	return &prefixLogger{
		log:    log,
		prefix: prefix + " ",
	}
}

func (l *prefixLogger) Close() {
	l.log.Close()
}

func (l *prefixLogger) Debugf(format string, a ...interface{}) {
	l.log.Debugf(l.prefix+format, a...)
}

func (l *prefixLogger) Infof(format string, a ...interface{}) {
	l.log.Infof(l.prefix+format, a...)
}

func (l *prefixLogger) Warnf(format string, a ...interface{}) {
	l.log.Warnf(l.prefix+format, a...)
}

func (l *prefixLogger) Errorf(format string, a ...interface{}) {
	l.log.Errorf(l.prefix+format, a...)
}

func (l *prefixLogger) Criticalf(format string, a ...interface{}) {
	l.log.Criticalf(l.prefix+format, a...)
}

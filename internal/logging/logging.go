/*
Package logging wraps github.com/lunny/log behind a small interface so
call sites log Debugf/Infof/Warnf/Errorf without binding to the concrete
logger, matching the structured leveled logging the rest of the pack
carries as ambient infrastructure.
*/
package logging

import (
	"github.com/lunny/log"
)

// Logger is the leveled logging surface every package in nadesign logs
// through.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type lunnyLogger struct{}

// New returns a Logger backed by lunny/log's package-level default
// logger, the same entry point the teacher's genbank parser logs
// through (log.Warnf(...)).
func New() Logger {
	return lunnyLogger{}
}

func (lunnyLogger) Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

func (lunnyLogger) Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

func (lunnyLogger) Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

func (lunnyLogger) Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// Noop is a Logger that discards everything, used in tests.
type Noop struct{}

func (Noop) Debugf(string, ...interface{}) {}
func (Noop) Infof(string, ...interface{})  {}
func (Noop) Warnf(string, ...interface{})  {}
func (Noop) Errorf(string, ...interface{}) {}

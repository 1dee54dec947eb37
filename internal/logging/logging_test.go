package logging

import "testing"

func TestNoopDoesNotPanic(t *testing.T) {
	var l Logger = Noop{}
	l.Debugf("x %d", 1)
	l.Infof("x %d", 1)
	l.Warnf("x %d", 1)
	l.Errorf("x %d", 1)
}

func TestNewReturnsLogger(t *testing.T) {
	var l Logger = New()
	l.Infof("constructed ok")
}

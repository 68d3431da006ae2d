package micrortu

import "github.com/sirupsen/logrus"

var _lg = logrus.New()

// SetLogger replaces the package logger. A nil logger is ignored.
func SetLogger(lg *logrus.Logger) {
	if lg != nil {
		_lg = lg
	}
}

// Logger returns the package logger so sibling packages log through the same sink.
func Logger() *logrus.Logger {
	return _lg
}

package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func Get() *logrus.Logger {
	return logg
}

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetLevel(logrus.InfoLevel)
	logg.SetOutput(os.Stdout)
}

// LogError records a failure with enough context to trace it back to the
// module and operation that raised it.
func LogError(module, operation string, err error) {
	logg.WithFields(logrus.Fields{
		"module":    module,
		"operation": operation,
	}).Error(err.Error())
}

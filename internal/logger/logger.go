package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	RotateMaxSize    = 30 // MB
	RotateLocalTime  = true
	RotateMaxAge     = 90 // days
	RotateMaxBackups = 10
	RotateCompress   = true
)

type Settings struct {
	Level   string `json:"level,omitempty" conform:"trim,lower" validate:"omitempty,oneof=trace debug info warning warn error fatal panic"`
	File    string `json:"file,omitempty" conform:"trim"`
	Console bool   `json:"console,omitempty"`
}

// New builds a logger writing to stdout and, when a file is configured and
// console mode is off, to a rotated log file as well.
func New(settings Settings) *logrus.Logger {
	var log = logrus.New()

	if level, err := logrus.ParseLevel(settings.Level); err == nil {
		log.Level = level
	} else {
		log.Level = logrus.InfoLevel
	}

	log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}

	if settings.File != "" && !settings.Console {
		log.Out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   settings.File,
			MaxSize:    RotateMaxSize,
			MaxAge:     RotateMaxAge,
			MaxBackups: RotateMaxBackups,
			LocalTime:  RotateLocalTime,
			Compress:   RotateCompress,
		})
	} else {
		log.Out = os.Stdout
	}

	return log
}

// Discard returns a logger that drops everything. Used when a component is
// built without a logger.
func Discard() *logrus.Logger {
	var log = logrus.New()
	log.Out = io.Discard
	return log
}

// Component returns an entry tagged the way every component logs.
func Component(log *logrus.Logger, module, scope string) *logrus.Entry {
	if log == nil {
		log = Discard()
	}
	return log.WithFields(logrus.Fields{
		"module": module,
		"scope":  scope,
	})
}

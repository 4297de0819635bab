package common

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type LogLevel int32

const (
	DEBUG_INFO_DETAIL LogLevel = 1
	DEBUG_INFO        LogLevel = 2
	RDB_OP_FUNC_CALL  LogLevel = 4
	DEBUGGING         LogLevel = 8
	INFO              LogLevel = 16
	WARN              LogLevel = 32
	ERROR             LogLevel = 64
	FATAL             LogLevel = 128
)

var ActiveLogKindSetting = INFO | WARN | ERROR | FATAL

var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetLogLevel sets the logrus level and widens ActiveLogKindSetting to match.
func SetLogLevel(level string) error {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return errors.Wrapf(err, "log level %q", level)
	}
	Logger.SetLevel(lvl)
	if lvl >= logrus.DebugLevel {
		ActiveLogKindSetting |= DEBUG_INFO | DEBUGGING | RDB_OP_FUNC_CALL
	}
	if lvl >= logrus.TraceLevel {
		ActiveLogKindSetting |= DEBUG_INFO_DETAIL
	}
	return nil
}

func ShPrintf(logLevel LogLevel, fmtStl string, a ...interface{}) {
	if logLevel&ActiveLogKindSetting == 0 {
		return
	}
	msg := strings.TrimRight(fmtStl, "\n")
	switch logLevel {
	case DEBUG_INFO_DETAIL:
		Logger.Tracef(msg, a...)
	case DEBUG_INFO, RDB_OP_FUNC_CALL, DEBUGGING:
		Logger.Debugf(msg, a...)
	case INFO:
		Logger.Infof(msg, a...)
	case WARN:
		Logger.Warnf(msg, a...)
	default:
		// FATAL is logged, never exits: callers decide how to unwind.
		Logger.WithField("kind", logLevel).Errorf(msg, a...)
	}
}

package logging

import (
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configure the logger returned by NewLogger. Leaving FileName
// empty logs to stderr, otherwise log lines go to a rotated file.
type Options struct {
	Level      zapcore.Level
	FileName   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultConfig is the production JSON configuration shared by every logger.
func DefaultConfig() zap.Config {
	logConf := zap.NewProductionConfig()
	logConf.Sampling = nil
	logConf.EncoderConfig.TimeKey = "time"
	logConf.EncoderConfig.LevelKey = "severity"
	logConf.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logConf.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	return logConf
}

func ParseLevel(l string) (zapcore.Level, error) {
	l = strings.ToLower(strings.TrimSpace(l))
	switch l {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	case "dpanic":
		return zapcore.DPanicLevel, nil
	case "panic":
		return zapcore.PanicLevel, nil
	case "fatal":
		return zapcore.FatalLevel, nil
	default:
		level, err := strconv.ParseInt(l, 10, 8)
		if err != nil {
			return 0, err
		}
		return zapcore.Level(level), nil
	}
}

// NewLogger builds a logger from options. The returned closer releases the
// log file and must be called once the logger is no longer used.
func NewLogger(opts Options) (*zap.Logger, io.Closer, error) {
	logConf := DefaultConfig()
	logConf.Level = zap.NewAtomicLevelAt(opts.Level)

	if opts.FileName == "" {
		logger, err := logConf.Build()
		if err != nil {
			return nil, nil, err
		}
		return logger, io.NopCloser(nil), nil
	}

	sink := &lumberjack.Logger{
		Filename:   opts.FileName,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(logConf.EncoderConfig),
		zapcore.AddSync(sink),
		logConf.Level,
	)

	return zap.New(core, zap.AddCaller()), sink, nil
}

//nolint:goprintffuncname
package sql

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// LoggerAdaptorConfig tunes which statements reach the log and at what level.
type LoggerAdaptorConfig struct {
	SlowThreshold             time.Duration
	IgnoreRecordNotFoundError bool
	// ParameterizedQueries keeps bind values out of the logged SQL.
	ParameterizedQueries bool
}

type loggerAdaptor struct {
	logger *logrus.Logger
	config LoggerAdaptorConfig
}

// NewLoggerAdaptor routes gorm's logging through logrus.
//
//nolint:ireturn
func NewLoggerAdaptor(l *logrus.Logger, cfg LoggerAdaptorConfig) logger.Interface {
	return &loggerAdaptor{logger: l, config: cfg}
}

// LogMode is a no-op; the logrus level decides what is written.
//
//nolint:ireturn
func (l *loggerAdaptor) LogMode(_ logger.LogLevel) logger.Interface {
	return l
}

// ParamsFilter drops bind values from traced statements when ParameterizedQueries is set.
func (l *loggerAdaptor) ParamsFilter(_ context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if l.config.ParameterizedQueries {
		return sql, nil
	}

	return sql, params
}

const (
	callerSearchDepth = 15
	callerSkip        = 4
)

// entry annotates the log line with the first caller outside gorm, which is the
// store method that issued the statement.
func (l *loggerAdaptor) entry(ctx context.Context) *logrus.Entry {
	entry := l.logger.WithContext(ctx).WithField("component", "store")

	pcs := make([]uintptr, callerSearchDepth)
	frames := runtime.CallersFrames(pcs[:runtime.Callers(callerSkip, pcs)])

	for frame, more := frames.Next(); more; frame, more = frames.Next() {
		if strings.HasPrefix(frame.Function, "gorm.io/") {
			continue
		}

		return entry.WithFields(logrus.Fields{
			"caller_file": fmt.Sprintf("%s:%d", frame.File, frame.Line),
			"caller_func": frame.Function + "()",
		})
	}

	return entry
}

func (l *loggerAdaptor) Info(ctx context.Context, format string, args ...interface{}) {
	l.entry(ctx).Infof(format, args...)
}

func (l *loggerAdaptor) Warn(ctx context.Context, format string, args ...interface{}) {
	l.entry(ctx).Warnf(format, args...)
}

func (l *loggerAdaptor) Error(ctx context.Context, format string, args ...interface{}) {
	l.entry(ctx).Errorf(format, args...)
}

func (l *loggerAdaptor) statementEntry(
	ctx context.Context,
	elapsed time.Duration,
	statement func() (sql string, rowsAffected int64),
) *logrus.Entry {
	entry := l.entry(ctx).WithField("elapsed", elapsed.Round(time.Microsecond).String())

	if statement == nil {
		return entry
	}

	sql, rows := statement()
	entry = entry.WithField("sql", sql)

	if rows >= 0 {
		entry = entry.WithField("rows", rows)
	}

	return entry
}

// Trace logs one executed statement. Lookups that find nothing and unique
// violations are expected outcomes of project requests, so they stay at debug.
func (l *loggerAdaptor) Trace(
	ctx context.Context,
	begin time.Time,
	statement func() (sql string, rowsAffected int64),
	err error,
) {
	elapsed := time.Since(begin)

	switch {
	case err != nil && (errors.Is(err, gorm.ErrRecordNotFound) && l.config.IgnoreRecordNotFoundError ||
		isDuplicateKey(err)):
		if l.logger.IsLevelEnabled(logrus.DebugLevel) {
			l.statementEntry(ctx, elapsed, statement).WithError(err).Debug("SQL rejected")
		}
	case err != nil:
		if l.logger.IsLevelEnabled(logrus.ErrorLevel) {
			l.statementEntry(ctx, elapsed, statement).WithError(err).Error("SQL error")
		}
	case l.config.SlowThreshold > 0 && elapsed > l.config.SlowThreshold:
		if l.logger.IsLevelEnabled(logrus.WarnLevel) {
			l.statementEntry(ctx, elapsed, statement).Warnf("slow SQL >= %v", l.config.SlowThreshold)
		}
	case l.logger.IsLevelEnabled(logrus.TraceLevel):
		l.statementEntry(ctx, elapsed, statement).Trace("SQL")
	}
}

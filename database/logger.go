package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kbukum/voicekit/logger"
)

var queryLevels = map[string]gormlogger.LogLevel{
	"silent": gormlogger.Silent,
	"error":  gormlogger.Error,
	"warn":   gormlogger.Warn,
	"info":   gormlogger.Info,
}

// queryLogger sends GORM output to zerolog. Failed statements log at
// error, statements over the slow threshold at warn, and everything else
// at debug when the level is info. Missing rows are not failures.
type queryLogger struct {
	log   *logger.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

func newQueryLogger(log *logger.Logger, cfg Config) *queryLogger {
	return &queryLogger{
		log:   log.WithComponent("gorm"),
		level: queryLevels[cfg.LogLevel],
		slow:  cfg.SlowQueryThreshold,
	}
}

func (q *queryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *q
	c.level = level
	return &c
}

func (q *queryLogger) Info(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Info {
		q.log.WithContext(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (q *queryLogger) Warn(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Warn {
		q.log.WithContext(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (q *queryLogger) Error(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Error {
		q.log.WithContext(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

func (q *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if q.level == gormlogger.Silent {
		return
	}
	took := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	slow := q.slow > 0 && took > q.slow

	var emit func(*logger.Logger, map[string]any)
	switch {
	case failed && q.level >= gormlogger.Error:
		emit = func(l *logger.Logger, f map[string]any) { l.WithError(err).Error("Query failed", f) }
	case slow && q.level >= gormlogger.Warn:
		emit = func(l *logger.Logger, f map[string]any) { l.Warn("Slow query", f) }
	case q.level >= gormlogger.Info:
		emit = func(l *logger.Logger, f map[string]any) { l.Debug("Query", f) }
	default:
		return
	}
	sql, rows := fc()
	emit(q.log.WithContext(ctx), logger.Fields("sql", sql, "rows", rows, logger.FieldDuration, took.Milliseconds()))
}

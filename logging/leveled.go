package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dlshle/nscache/errors"
)

type LevelLogger struct {
	writer            LogWriter
	prefix            string
	logLevelWaterMark int
	context           map[string]string
	contextLock       *sync.RWMutex
	enableGRContext   bool
}

const LogAllWaterMark = -1

const nilString = "nil"

func StdOutLevelLogger(prefix string) Logger {
	return CreateLevelLogger(NewConsoleLogWriter(os.Stdout), prefix, LogAllWaterMark)
}

func NewLevelLogger(writer io.Writer, prefix string, waterMark int) Logger {
	return &LevelLogger{
		writer:            NewConsoleLogWriter(writer),
		prefix:            prefix,
		logLevelWaterMark: waterMark,
		context:           make(map[string]string),
		contextLock:       new(sync.RWMutex),
		enableGRContext:   false,
	}
}

func CreateLevelLogger(entityWriter LogWriter, prefix string, loggingMark int) Logger {
	return &LevelLogger{
		writer:            entityWriter,
		prefix:            prefix,
		logLevelWaterMark: loggingMark,
		context:           make(map[string]string),
		contextLock:       new(sync.RWMutex),
		enableGRContext:   true,
	}
}

func (l *LevelLogger) output(ctx context.Context, level int, data ...string) {
	if level < l.logLevelWaterMark {
		return
	}
	var message string
	switch len(data) {
	case 0:
		message = nilString
	case 1:
		message = data[0]
	default:
		message = strings.Join(data, "")
	}
	logEntity := newLogEntity(level, l.prefix, l.prepareContext(ctx), time.Now(), message, l.getFileName())
	l.writer.Write(logEntity)
	logEntity.recycle()
}

func (l *LevelLogger) getFileName() string {
	_, file, line, ok := runtime.Caller(3)
	if !ok {
		file = "???"
		line = 0
	}
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		file = file[idx+1:]
	}
	return file + ":" + strconv.Itoa(line)
}

func (l *LevelLogger) prepareContext(ctx context.Context) map[string]string {
	allContext := make(map[string]string)
	l.contextLock.RLock()
	for k, v := range l.context {
		allContext[k] = v
	}
	l.contextLock.RUnlock()
	if l.enableGRContext {
		for k, v := range getAllGR() {
			allContext[k] = v
		}
	}
	if ctx != nil {
		if loggingCtx, ok := ctx.Value(CtxValLoggingContext).(map[string]string); ok {
			for k, v := range loggingCtx {
				allContext[k] = v
			}
		}
	}
	return allContext
}

func (l *LevelLogger) Trace(ctx context.Context, records ...string) {
	l.output(ctx, TRACE, records...)
}

func (l *LevelLogger) Debug(ctx context.Context, records ...string) {
	l.output(ctx, DEBUG, records...)
}

func (l *LevelLogger) Info(ctx context.Context, records ...string) {
	l.output(ctx, INFO, records...)
}

func (l *LevelLogger) Warn(ctx context.Context, records ...string) {
	l.output(ctx, WARN, records...)
}

func (l *LevelLogger) Error(ctx context.Context, records ...string) {
	l.output(ctx, ERROR, records...)
}

func (l *LevelLogger) TrackableError(ctx context.Context, err *errors.TrackableError, records ...string) {
	l.output(ctx, ERROR, append(records, " ", err.Detailed())...)
}

func (l *LevelLogger) Fatal(ctx context.Context, records ...string) {
	l.output(ctx, FATAL, records...)
}

func (l *LevelLogger) Tracef(ctx context.Context, format string, records ...interface{}) {
	l.output(ctx, TRACE, fmt.Sprintf(format, records...))
}

func (l *LevelLogger) Debugf(ctx context.Context, format string, records ...interface{}) {
	l.output(ctx, DEBUG, fmt.Sprintf(format, records...))
}

func (l *LevelLogger) Infof(ctx context.Context, format string, records ...interface{}) {
	l.output(ctx, INFO, fmt.Sprintf(format, records...))
}

func (l *LevelLogger) Warnf(ctx context.Context, format string, records ...interface{}) {
	l.output(ctx, WARN, fmt.Sprintf(format, records...))
}

func (l *LevelLogger) Errorf(ctx context.Context, format string, records ...interface{}) {
	l.output(ctx, ERROR, fmt.Sprintf(format, records...))
}

func (l *LevelLogger) TrackableErrorf(ctx context.Context, err *errors.TrackableError, format string, records ...interface{}) {
	l.output(ctx, ERROR, fmt.Sprintf(format, records...), " ", err.Detailed())
}

func (l *LevelLogger) Fatalf(ctx context.Context, format string, records ...interface{}) {
	l.output(ctx, FATAL, fmt.Sprintf(format, records...))
}

func (l *LevelLogger) SetContext(k, v string) {
	l.contextLock.Lock()
	defer l.contextLock.Unlock()
	l.context[k] = v
}

func (l *LevelLogger) DeleteContext(k string) {
	l.contextLock.Lock()
	defer l.contextLock.Unlock()
	delete(l.context, k)
}

func (l *LevelLogger) SetWaterMark(waterMark int) {
	l.logLevelWaterMark = waterMark
}

func (l *LevelLogger) Prefix(prefix string) {
	l.prefix = prefix
}

func (l *LevelLogger) Writer(writer LogWriter) {
	l.writer = writer
}

func (l *LevelLogger) copyContext() map[string]string {
	l.contextLock.RLock()
	defer l.contextLock.RUnlock()
	c := make(map[string]string, len(l.context))
	for k, v := range l.context {
		c[k] = v
	}
	return c
}

func (l *LevelLogger) derive() *LevelLogger {
	return &LevelLogger{
		writer:            l.writer,
		prefix:            l.prefix,
		logLevelWaterMark: l.logLevelWaterMark,
		context:           l.copyContext(),
		contextLock:       new(sync.RWMutex),
		enableGRContext:   l.enableGRContext,
	}
}

// create new logger
func (l *LevelLogger) WithPrefix(prefix string) Logger {
	sub := l.derive()
	sub.prefix = prefix
	return sub
}

func (l *LevelLogger) WithWriter(writer LogWriter) Logger {
	sub := l.derive()
	sub.writer = writer
	return sub
}

func (l *LevelLogger) WithGRContextLogging(useGRCL bool) Logger {
	sub := l.derive()
	sub.enableGRContext = useGRCL
	return sub
}

func (l *LevelLogger) WithContext(context map[string]string) Logger {
	sub := l.derive()
	for k, v := range context {
		sub.context[k] = v
	}
	return sub
}

func (l *LevelLogger) WithWaterMark(waterMark int) Logger {
	sub := l.derive()
	sub.logLevelWaterMark = waterMark
	return sub
}

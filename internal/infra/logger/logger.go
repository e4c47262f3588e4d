package logger

import (
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	RequestIDHeader = "X-Request-ID"
	contextKey      = "logger"
)

var (
	mu       sync.Mutex
	instance *zap.Logger
)

// L returns the process logger, building a production logger on first use.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance = build(zapcore.InfoLevel)
	}
	return instance
}

// Init rebuilds the process logger at the given level ("debug", "info", ...).
func Init(level string) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	mu.Lock()
	instance = build(lvl)
	mu.Unlock()
}

// Set replaces the process logger. Tests use it with zap.NewNop().
func Set(l *zap.Logger) {
	mu.Lock()
	instance = l
	mu.Unlock()
}

func build(level zapcore.Level) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stdout"}
	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return l
}

// Attach stores a request-scoped logger on the gin context.
func Attach(c *gin.Context, l *zap.Logger) {
	c.Set(contextKey, l)
}

// FromContext returns the request-scoped logger, falling back to the process
// logger tagged with whatever request id the client sent.
func FromContext(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(contextKey); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	requestID := c.GetHeader(RequestIDHeader)
	if requestID == "" {
		requestID = "unknown"
	}
	return L().With(zap.String("request_id", requestID))
}

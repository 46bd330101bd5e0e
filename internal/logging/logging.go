package logging

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kawasin/task-tracker/internal/config"
	"github.com/kawasin/task-tracker/internal/constants"
)

// Logger is the application-wide logrus instance.
var Logger = logrus.New()

var once sync.Once

// Init configures the global logger from config. When LOG_FILE is set the
// output is rotated with lumberjack, otherwise logs go to stderr.
func Init(cfg *config.Config) {
	once.Do(func() {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			level = logrus.InfoLevel
		}
		Logger.SetLevel(level)
		Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})

		if cfg.LogFile != "" {
			Logger.SetOutput(&lumberjack.Logger{
				Filename:   cfg.LogFile,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			})
		}
	})
}

// RequestLogger logs each request with a generated request ID, method, path,
// status and latency. The request ID is stored in the gin context so handlers
// can attach it to their own log entries.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.New().String()
		c.Set(constants.ContextKeyRequestID, requestID)

		c.Next()

		entry := Logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
		})

		if c.Writer.Status() >= 500 {
			entry.Error("request failed")
		} else {
			entry.Info("request completed")
		}
	}
}

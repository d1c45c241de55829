// ABOUTME: Structured logging setup built on logrus
// ABOUTME: JSON output in production, human-readable text otherwise
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Init configures the global logrus logger.
// In production (ENVIRONMENT=production) it uses JSON output for log
// aggregation, otherwise the text formatter at debug level.
func Init() {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// WithUser returns a logger with per-user pipeline fields attached
func WithUser(userID, date string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"date":    date,
	})
}

// WithJob returns a logger scoped to a batch job
func WithJob(name string) *logrus.Entry {
	return logrus.WithField("job", name)
}

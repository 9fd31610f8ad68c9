package logging

import "go.uber.org/zap"

// New creates a new zap logger. LOG_ENV=production switches to the
// sampled JSON production config; anything else logs for development.
func New(env string) *zap.Logger {
	if env == "production" {
		logger, err := zap.NewProduction()
		if err == nil {
			return logger
		}
	}
	return zap.NewExample()
}
